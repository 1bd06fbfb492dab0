package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sounak286/RAKSHA-SATHI/internal/config"
	"github.com/sounak286/RAKSHA-SATHI/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesToLogFile(t *testing.T) {
	previous := log.Logger
	t.Cleanup(func() {
		log.Logger = previous
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	})

	path := filepath.Join(t.TempDir(), "logs", "server.log")
	closer, err := logging.Setup(config.LogConfig{Level: "warn", File: path}, false)
	require.NoError(t, err)

	require.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	log.Info().Msg("dropped")
	log.Warn().Str("component", "test").Msg("kept")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"message":"kept"`)
	require.Contains(t, string(data), `"component":"test"`)
	require.NotContains(t, string(data), "dropped")
}

func TestSetupFallsBackToInfo(t *testing.T) {
	previous := log.Logger
	t.Cleanup(func() {
		log.Logger = previous
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	})

	closer, err := logging.Setup(config.LogConfig{Level: "loud"}, true)
	require.NoError(t, err)
	require.NoError(t, closer.Close())
	require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
