package database_test

import (
	"testing"

	"taskboard/internal/config"
	"taskboard/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite_AutoMigrate(t *testing.T) {
	db, err := database.OpenSQLite("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	for _, table := range []string{
		"users", "boards", "board_members", "columns", "labels",
		"projects", "project_labels", "tasks", "task_labels", "task_assignees",
	} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex("labels", "unique_name_board"))
	assert.True(t, db.Migrator().HasIndex("tasks", "idx_tasks_column_position"))
}

func TestOpenSQLite_ForeignKeysEnforced(t *testing.T) {
	db, err := database.OpenSQLite("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)

	var enabled int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := database.Open(&config.Config{DBDriver: "oracle"})

	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestOpen_SQLiteWithMigration(t *testing.T) {
	cfg := &config.Config{
		DBDriver:      config.DriverSQLite,
		DBSQLitePath:  "file:" + t.Name() + "?mode=memory&cache=shared",
		DBAutoMigrate: true,
	}

	db, err := database.Open(cfg)

	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable("boards"))
}
