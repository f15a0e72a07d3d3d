package repository

import (
	"context"
	"errors"

	"taskboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ColumnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

// Create appends the column to the end of its board.
func (r *ColumnRepository) Create(ctx context.Context, column *model.Column) error {
	if err := column.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBoard(tx, column.BoardID); err != nil {
			return err
		}
		position, err := boardColumns(column.BoardID).next(tx)
		if err != nil {
			return err
		}
		column.Position = position
		return tx.Omit(clause.Associations).Create(column).Error
	})
}

func (r *ColumnRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Column, error) {
	var column model.Column
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&column).Error; err != nil {
		return nil, notFound(err, ErrColumnNotFound)
	}
	return &column, nil
}

func (r *ColumnRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Column, error) {
	var columns []model.Column
	err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("position").Find(&columns).Error
	return columns, err
}

// Update changes the title only; positions move through Move and Reorder.
func (r *ColumnRepository) Update(ctx context.Context, column *model.Column) error {
	if err := column.Validate(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(column).Update("title", column.Title)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrColumnNotFound
	}
	return nil
}

// Delete removes the column with its tasks and closes the gap it leaves.
func (r *ColumnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var column model.Column
		if err := tx.Where("id = ?", id).First(&column).Error; err != nil {
			return notFound(err, ErrColumnNotFound)
		}
		scope := boardColumns(column.BoardID)
		if _, err := scope.siblings(tx); err != nil {
			return err
		}
		if err := tx.Delete(&model.Column{}, "id = ?", id).Error; err != nil {
			return err
		}
		return scope.compact(tx)
	})
}

// Move places the column at the zero-based index within its board.
func (r *ColumnRepository) Move(ctx context.Context, id uuid.UUID, index int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var column model.Column
		if err := tx.Where("id = ?", id).First(&column).Error; err != nil {
			return notFound(err, ErrColumnNotFound)
		}
		return boardColumns(column.BoardID).move(tx, id, index)
	})
}

// ReorderColumns applies a full ordering of the board's columns.
func (r *ColumnRepository) ReorderColumns(ctx context.Context, boardID uuid.UUID, ids []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return boardColumns(boardID).reorder(tx, ids)
	})
}

// lockBoard takes a row lock on the board so concurrent appends to an empty
// scope serialize, and reports a missing board as ErrBoardNotFound.
func lockBoard(tx *gorm.DB, boardID uuid.UUID) error {
	var board model.Board
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").Where("id = ?", boardID).First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrBoardNotFound
	}
	return err
}
