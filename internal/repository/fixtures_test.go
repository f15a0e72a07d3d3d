package repository_test

import (
	"context"
	"testing"

	"taskboard/internal/database"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type fixtures struct {
	t        *testing.T
	db       *gorm.DB
	users    *repository.UserRepository
	boards   *repository.BoardRepository
	columns  *repository.ColumnRepository
	labels   *repository.LabelRepository
	projects *repository.ProjectRepository
	tasks    *repository.TaskRepository
}

func newFixtures(t *testing.T) *fixtures {
	db := newTestDB(t)
	return &fixtures{
		t:        t,
		db:       db,
		users:    repository.NewUserRepository(db),
		boards:   repository.NewBoardRepository(db),
		columns:  repository.NewColumnRepository(db),
		labels:   repository.NewLabelRepository(db),
		projects: repository.NewProjectRepository(db),
		tasks:    repository.NewTaskRepository(db),
	}
}

func (f *fixtures) user(name string) *model.User {
	f.t.Helper()
	user := &model.User{Email: name + "@example.com", Name: name, HashedPassword: "hash"}
	require.NoError(f.t, f.users.Create(context.Background(), user))
	return user
}

func (f *fixtures) board(owner *model.User, name string) *model.Board {
	f.t.Helper()
	board := &model.Board{Name: name, OwnerID: owner.ID}
	require.NoError(f.t, f.boards.Create(context.Background(), board))
	return board
}

func (f *fixtures) column(board *model.Board, title string) *model.Column {
	f.t.Helper()
	column := &model.Column{BoardID: board.ID, Title: title}
	require.NoError(f.t, f.columns.Create(context.Background(), column))
	return column
}

func (f *fixtures) label(board *model.Board, name string) *model.Label {
	f.t.Helper()
	label := &model.Label{BoardID: board.ID, Name: name, Color: "#ff0000"}
	require.NoError(f.t, f.labels.Create(context.Background(), label))
	return label
}

func (f *fixtures) project(board *model.Board, title string) *model.Project {
	f.t.Helper()
	project := &model.Project{BoardID: board.ID, Title: title}
	require.NoError(f.t, f.projects.Create(context.Background(), project, nil))
	return project
}

func (f *fixtures) task(column *model.Column, title string) *model.Task {
	f.t.Helper()
	task := &model.Task{ColumnID: column.ID, Title: title}
	require.NoError(f.t, f.tasks.Create(context.Background(), task, nil, nil))
	return task
}

// order returns the ids of a sibling scope together with their positions.
func (f *fixtures) order(table, scopeColumn string, scopeID uuid.UUID) ([]uuid.UUID, []int) {
	f.t.Helper()
	var rows []struct {
		ID       uuid.UUID
		Position int
	}
	err := f.db.Table(table).
		Select("id, position").
		Where(scopeColumn+" = ?", scopeID).
		Order("position").
		Scan(&rows).Error
	require.NoError(f.t, err)

	ids := make([]uuid.UUID, len(rows))
	positions := make([]int, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
		positions[i] = row.Position
	}
	return ids, positions
}

func (f *fixtures) count(table string, query string, args ...interface{}) int64 {
	f.t.Helper()
	var n int64
	require.NoError(f.t, f.db.Table(table).Where(query, args...).Count(&n).Error)
	return n
}

func dense(n int) []int {
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i + 1
	}
	return positions
}
