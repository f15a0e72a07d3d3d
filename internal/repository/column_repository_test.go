package repository_test

import (
	"context"
	"testing"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnRepository_Create_Appends(t *testing.T) {
	f := newFixtures(t)
	board := f.board(f.user("owner"), "Flow")

	todo := f.column(board, "Todo")
	doing := f.column(board, "Doing")
	done := f.column(board, "Done")

	ids, positions := f.order("columns", "board_id", board.ID)
	assert.Equal(t, []uuid.UUID{todo.ID, doing.ID, done.ID}, ids)
	assert.Equal(t, dense(3), positions)
	assert.Equal(t, 3, done.Position)
}

func TestColumnRepository_Create_UnknownBoard(t *testing.T) {
	f := newFixtures(t)

	err := f.columns.Create(context.Background(), &model.Column{BoardID: uuid.New(), Title: "Lost"})

	assert.ErrorIs(t, err, repository.ErrBoardNotFound)
}

func TestColumnRepository_Move(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	board := f.board(f.user("owner"), "Flow")
	a := f.column(board, "A")
	b := f.column(board, "B")
	c := f.column(board, "C")

	tests := []struct {
		name  string
		id    uuid.UUID
		index int
		want  []uuid.UUID
	}{
		{"last to first", c.ID, 0, []uuid.UUID{c.ID, a.ID, b.ID}},
		{"first to middle", c.ID, 1, []uuid.UUID{a.ID, c.ID, b.ID}},
		{"index past the end", a.ID, 10, []uuid.UUID{c.ID, b.ID, a.ID}},
		{"same place", b.ID, 1, []uuid.UUID{c.ID, b.ID, a.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, f.columns.Move(ctx, tt.id, tt.index))

			ids, positions := f.order("columns", "board_id", board.ID)
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, dense(3), positions)
		})
	}

	t.Run("negative index", func(t *testing.T) {
		assert.ErrorIs(t, f.columns.Move(ctx, a.ID, -1), repository.ErrInvalidPosition)
	})
	t.Run("unknown column", func(t *testing.T) {
		assert.ErrorIs(t, f.columns.Move(ctx, uuid.New(), 0), repository.ErrColumnNotFound)
	})
}

func TestColumnRepository_ReorderColumns(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	board := f.board(f.user("owner"), "Flow")
	a := f.column(board, "A")
	b := f.column(board, "B")
	c := f.column(board, "C")

	require.NoError(t, f.columns.ReorderColumns(ctx, board.ID, []uuid.UUID{b.ID, c.ID, a.ID}))

	ids, positions := f.order("columns", "board_id", board.ID)
	assert.Equal(t, []uuid.UUID{b.ID, c.ID, a.ID}, ids)
	assert.Equal(t, dense(3), positions)

	for name, order := range map[string][]uuid.UUID{
		"missing id":   {a.ID, b.ID},
		"duplicate id": {a.ID, a.ID, b.ID},
		"foreign id":   {a.ID, b.ID, uuid.New()},
	} {
		t.Run(name, func(t *testing.T) {
			err := f.columns.ReorderColumns(ctx, board.ID, order)
			assert.ErrorIs(t, err, repository.ErrInvalidPosition)
		})
	}
}

func TestColumnRepository_Update_TitleOnly(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	board := f.board(f.user("owner"), "Flow")
	f.column(board, "A")
	col := f.column(board, "B")

	col.Title = "Renamed"
	col.Position = 99
	require.NoError(t, f.columns.Update(ctx, col))

	got, err := f.columns.GetByID(ctx, col.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, 2, got.Position)
}

func TestColumnRepository_Delete_CompactsAndCascades(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	board := f.board(f.user("owner"), "Flow")
	a := f.column(board, "A")
	b := f.column(board, "B")
	c := f.column(board, "C")
	task := f.task(b, "inside")

	require.NoError(t, f.columns.Delete(ctx, b.ID))

	ids, positions := f.order("columns", "board_id", board.ID)
	assert.Equal(t, []uuid.UUID{a.ID, c.ID}, ids)
	assert.Equal(t, dense(2), positions)
	_, err := f.tasks.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)

	next := f.column(board, "D")
	assert.Equal(t, 3, next.Position)

	assert.ErrorIs(t, f.columns.Delete(ctx, b.ID), repository.ErrColumnNotFound)
}
