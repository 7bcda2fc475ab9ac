package database

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/readnwin/reader/internal/entities"
)

func TestNewDatabase_MigratesReadingTables(t *testing.T) {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "reading.db"))
	require.NoError(t, err)
	defer db.Close()

	for _, model := range []any{
		&entities.ModernBook{},
		&entities.Chapter{},
		&entities.ReadingProgress{},
		&entities.UserHighlight{},
		&entities.UserNote{},
		&entities.Bookmark{},
		&entities.ReadingSession{},
		&entities.Setting{},
	} {
		assert.True(t, db.DB.Migrator().HasTable(model), "%T", model)
	}
	assert.NoError(t, db.Ping())
}

func TestNewSettingsDatabase(t *testing.T) {
	db, err := NewSettingsDatabase(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, db.DB.Migrator().HasTable(&entities.Setting{}))
	assert.False(t, db.DB.Migrator().HasTable(&entities.UserHighlight{}))
}

func TestNotFound(t *testing.T) {
	assert.NoError(t, NotFound(nil, "get"))

	err := NotFound(gorm.ErrRecordNotFound, "get book")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "get book: "+ErrNotFound.Error())

	other := errors.New("disk full")
	err = NotFound(other, "get book")
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestPing_Closed(t *testing.T) {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	assert.Error(t, db.Ping())
}
