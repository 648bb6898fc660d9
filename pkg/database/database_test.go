package database

import (
	"bytes"
	"testing"

	"social-feed/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestNewSQLiteDB(t *testing.T) {
	db, err := NewSQLiteDB("file::memory:")
	require.NoError(t, err)

	var enabled int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestNew_SQLite(t *testing.T) {
	db, err := New(&config.Config{DBDriver: "sqlite", DBDSN: "file::memory:"})
	require.NoError(t, err)
	assert.NotNil(t, db)
}

func TestGormLogger_SkipsRecordNotFound(t *testing.T) {
	var out bytes.Buffer
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: newGormLogger(&out)})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE items (id INTEGER PRIMARY KEY)").Error)

	var row struct{ ID int }
	err = db.Table("items").Where("id = ?", 42).First(&row).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, out.String())

	err = db.Exec("SELECT * FROM missing_table").Error
	require.Error(t, err)
	assert.Contains(t, out.String(), "missing_table")
}
