package repository_test

import (
	"context"
	"testing"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepository_Create(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	owner := f.user("owner")
	board := f.board(owner, "Plans")
	label := f.label(board, "q3")

	first := f.project(board, "First")
	second := &model.Project{BoardID: board.ID, Title: "Second", Priority: model.PriorityHigh}
	require.NoError(t, f.projects.Create(ctx, second, []uuid.UUID{label.ID}))

	assert.Equal(t, model.PriorityMedium, first.Priority, "priority defaults to medium")
	ids, positions := f.order("projects", "board_id", board.ID)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID}, ids)
	assert.Equal(t, dense(2), positions)

	got, err := f.projects.GetByID(ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, got.Labels, 1)
	assert.Equal(t, label.ID, got.Labels[0].ID)
}

func TestProjectRepository_Create_ForeignLabel(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	owner := f.user("owner")
	board := f.board(owner, "Plans")
	foreign := f.label(f.board(owner, "Other"), "q3")

	err := f.projects.Create(ctx, &model.Project{BoardID: board.ID, Title: "P"}, []uuid.UUID{foreign.ID})

	assert.ErrorIs(t, err, repository.ErrLabelBoardMismatch)
	assert.Zero(t, f.count("projects", "board_id = ?", board.ID), "the insert is rolled back")
}

func TestProjectRepository_Update(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	board := f.board(f.user("owner"), "Plans")
	f.project(board, "Before")
	project := f.project(board, "Target")

	due := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	project.Title = "After"
	project.Description = "details"
	project.Priority = model.PriorityLow
	project.DueDate = &due
	project.Closed = true
	project.Position = 1
	require.NoError(t, f.projects.Update(ctx, project))

	got, err := f.projects.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)
	assert.Equal(t, "details", got.Description)
	assert.Equal(t, model.PriorityLow, got.Priority)
	assert.True(t, got.Closed)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, due.Format(time.DateOnly), got.DueDate.Format(time.DateOnly))
	assert.Equal(t, 2, got.Position, "position is not editable through Update")

	project.Priority = "X"
	var verr *model.ValidationError
	assert.ErrorAs(t, f.projects.Update(ctx, project), &verr)

	missing := &model.Project{ID: uuid.New(), BoardID: board.ID, Title: "ghost"}
	assert.ErrorIs(t, f.projects.Update(ctx, missing), repository.ErrProjectNotFound)
}

func TestProjectRepository_SetLabels(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	board := f.board(f.user("owner"), "Plans")
	a := f.label(board, "a")
	b := f.label(board, "b")
	project := f.project(board, "P")

	require.NoError(t, f.projects.SetLabels(ctx, project.ID, []uuid.UUID{a.ID, b.ID, a.ID}))
	assert.EqualValues(t, 2, f.count("project_labels", "project_id = ?", project.ID))

	require.NoError(t, f.projects.SetLabels(ctx, project.ID, []uuid.UUID{b.ID}))
	got, err := f.projects.GetByID(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, got.Labels, 1)
	assert.Equal(t, b.ID, got.Labels[0].ID)

	require.NoError(t, f.projects.SetLabels(ctx, project.ID, nil))
	assert.Zero(t, f.count("project_labels", "project_id = ?", project.ID))
}

func TestProjectRepository_Move(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	board := f.board(f.user("owner"), "Plans")
	a := f.project(board, "A")
	b := f.project(board, "B")
	c := f.project(board, "C")

	require.NoError(t, f.projects.Move(ctx, a.ID, 2))

	ids, positions := f.order("projects", "board_id", board.ID)
	assert.Equal(t, []uuid.UUID{b.ID, c.ID, a.ID}, ids)
	assert.Equal(t, dense(3), positions)
}

func TestProjectRepository_Delete_CascadesAndCompacts(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	board := f.board(f.user("owner"), "Plans")
	todo := f.column(board, "Todo")
	doing := f.column(board, "Doing")
	keepFirst := f.project(board, "Keep")
	doomed := f.project(board, "Doomed")
	keepLast := f.project(board, "Keep too")

	a := f.task(todo, "a")
	inProject := &model.Task{ColumnID: todo.ID, ProjectID: &doomed.ID, Title: "b"}
	require.NoError(t, f.tasks.Create(ctx, inProject, nil, nil))
	c := f.task(todo, "c")
	alsoInProject := &model.Task{ColumnID: doing.ID, ProjectID: &doomed.ID, Title: "d"}
	require.NoError(t, f.tasks.Create(ctx, alsoInProject, nil, nil))
	e := f.task(doing, "e")

	require.NoError(t, f.projects.Delete(ctx, doomed.ID))

	assert.Zero(t, f.count("tasks", "project_id = ?", doomed.ID))
	ids, positions := f.order("tasks", "column_id", todo.ID)
	assert.Equal(t, []uuid.UUID{a.ID, c.ID}, ids)
	assert.Equal(t, dense(2), positions)
	ids, positions = f.order("tasks", "column_id", doing.ID)
	assert.Equal(t, []uuid.UUID{e.ID}, ids)
	assert.Equal(t, dense(1), positions)
	ids, positions = f.order("projects", "board_id", board.ID)
	assert.Equal(t, []uuid.UUID{keepFirst.ID, keepLast.ID}, ids)
	assert.Equal(t, dense(2), positions)

	assert.ErrorIs(t, f.projects.Delete(ctx, doomed.ID), repository.ErrProjectNotFound)
}
