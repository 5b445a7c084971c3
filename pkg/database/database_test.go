package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestConnectSQLiteMemory(t *testing.T) {
	db, err := Connect("sqlite", ":memory:", logger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	assert.NoError(t, sqlDB.Ping())
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	_, err := Connect("mysql", "", logger.Silent)

	assert.ErrorContains(t, err, "unsupported database driver")
}
