package repository_test

import (
	"context"
	"testing"

	"taskboard/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMoveTask_LocksColumnBeforeTasks(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	tasks := repository.NewTaskRepository(gormDB)

	boardID := uuid.New()
	columnID := uuid.New()
	taskID := uuid.New()
	otherID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT tasks.id, tasks.column_id, tasks.parent_task_id, columns.board_id FROM "tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "column_id", "parent_task_id", "board_id"}).
			AddRow(taskID.String(), columnID.String(), nil, boardID.String()))
	mock.ExpectQuery(`SELECT .* FROM "columns" WHERE id = .* FOR UPDATE`).
		WithArgs(columnID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(columnID.String()))
	mock.ExpectQuery(`SELECT .* FROM "tasks" WHERE column_id = .* FOR UPDATE`).
		WithArgs(columnID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(otherID.String()).AddRow(taskID.String()))
	mock.ExpectExec(`UPDATE "tasks" SET "position"`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "tasks" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "tasks" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := tasks.MoveTask(context.Background(), taskID, columnID, 0)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoveTask_LocksBothColumnsInIDOrder(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	tasks := repository.NewTaskRepository(gormDB)

	boardID := uuid.New()
	low := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	high := uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")
	taskID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT tasks.id, tasks.column_id, tasks.parent_task_id, columns.board_id FROM "tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "column_id", "parent_task_id", "board_id"}).
			AddRow(taskID.String(), high.String(), nil, boardID.String()))
	mock.ExpectQuery(`SELECT .* FROM "columns" WHERE id = `).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id"}).AddRow(low.String(), boardID.String()))

	// The destination sorts first, so its column and tasks are locked first.
	mock.ExpectQuery(`SELECT .* FROM "columns" WHERE id = .* FOR UPDATE`).
		WithArgs(low).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(low.String()))
	mock.ExpectQuery(`SELECT .* FROM "tasks" WHERE column_id = .* FOR UPDATE`).
		WithArgs(low).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT .* FROM "columns" WHERE id = .* FOR UPDATE`).
		WithArgs(high).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(high.String()))
	mock.ExpectQuery(`SELECT .* FROM "tasks" WHERE column_id = .* FOR UPDATE`).
		WithArgs(high).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(taskID.String()))

	mock.ExpectExec(`UPDATE "tasks" SET "position"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "tasks" SET "position"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE "tasks" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := tasks.MoveTask(context.Background(), taskID, low, 0)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnMove_LocksBoardBeforeColumns(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	columns := repository.NewColumnRepository(gormDB)

	boardID := uuid.New()
	columnID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "columns" WHERE id = `).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "title", "position"}).
			AddRow(columnID.String(), boardID.String(), "Todo", 1))
	mock.ExpectQuery(`SELECT .* FROM "boards" WHERE id = .* FOR UPDATE`).
		WithArgs(boardID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(boardID.String()))
	mock.ExpectQuery(`SELECT .* FROM "columns" WHERE board_id = .* FOR UPDATE`).
		WithArgs(boardID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(columnID.String()))
	mock.ExpectExec(`UPDATE "columns" SET "position"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "columns" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := columns.Move(context.Background(), columnID, 0)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
