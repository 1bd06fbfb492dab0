package migrations

import "embed"

// FS holds one directory of goose migrations per supported dialect.
//
//go:embed postgres/*.sql sqlite3/*.sql
var FS embed.FS
