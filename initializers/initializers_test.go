package initializers

import (
	"path/filepath"
	"testing"

	"github.com/modifikasi/partsdesk/config"
	"github.com/modifikasi/partsdesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConnectToDB_SQLiteAndMigrate(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "parts.db")
	db, err := ConnectToDB(config.DatabaseConfig{Driver: "sqlite", DSN: dsn}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseDB(db) })

	require.NoError(t, Migrate(db))

	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m), "missing table for %T", m)
	}
}

func TestConnectToDB_UnknownDriver(t *testing.T) {
	_, err := ConnectToDB(config.DatabaseConfig{Driver: "oracle", DSN: "x"}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(config.LoggingConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))

	log, err = NewLogger(config.LoggingConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.InfoLevel))

	_, err = NewLogger(config.LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}
