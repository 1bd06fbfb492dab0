package config

import (
	"net"
	"net/url"
	"path/filepath"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// DSN returns the data source name for the configured driver. An explicit
// URL always wins; otherwise it is assembled from the individual fields.
func (d DatabaseConfig) DSN(dataFolder string) string {
	if d.URL != "" {
		return d.URL
	}
	if d.Driver == DriverSQLite {
		return filepath.Join(dataFolder, d.Name+".db")
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
