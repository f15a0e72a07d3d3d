package repository

import (
	"context"
	"errors"

	"taskboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

// Create inserts the board. OwnerID must be set by the caller from the acting
// user; the owner becomes a member as part of the same insert.
func (r *BoardRepository) Create(ctx context.Context, board *model.Board) error {
	if err := board.Validate(); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(board).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrUserNotFound
	}
	return err
}

func (r *BoardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	var board model.Board
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&board).Error; err != nil {
		return nil, notFound(err, ErrBoardNotFound)
	}
	return &board, nil
}

// GetDetail loads the board with everything a client renders: members,
// ordered columns with their ordered tasks, projects and labels.
func (r *BoardRepository) GetDetail(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	byPosition := func(db *gorm.DB) *gorm.DB { return db.Order("position") }
	byName := func(db *gorm.DB) *gorm.DB { return db.Order("name") }

	var board model.Board
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Members", byName).
		Preload("Columns", byPosition).
		Preload("Columns.Tasks", byPosition).
		Preload("Columns.Tasks.Labels", byName).
		Preload("Columns.Tasks.Assignees", byName).
		Preload("Projects", byPosition).
		Preload("Projects.Labels", byName).
		Preload("Labels", byName).
		Where("id = ?", id).
		First(&board).Error
	if err != nil {
		return nil, notFound(err, ErrBoardNotFound)
	}
	return &board, nil
}

// GetForMember returns the boards the user belongs to, oldest first.
func (r *BoardRepository) GetForMember(ctx context.Context, userID uuid.UUID) ([]model.Board, error) {
	var boards []model.Board
	err := r.db.WithContext(ctx).
		Joins("JOIN board_members ON board_members.board_id = boards.id").
		Where("board_members.user_id = ?", userID).
		Order("boards.created_at").Order("boards.id").
		Find(&boards).Error
	return boards, err
}

func (r *BoardRepository) GetOwned(ctx context.Context, ownerID uuid.UUID) ([]model.Board, error) {
	var boards []model.Board
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at").Order("id").Find(&boards).Error
	return boards, err
}

// Update renames the board. Ownership changes go through TransferOwnership.
func (r *BoardRepository) Update(ctx context.Context, board *model.Board) error {
	if err := board.Validate(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(board).Update("name", board.Name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBoardNotFound
	}
	return nil
}

// Delete removes the board; columns, labels and projects, and through them
// tasks, are removed by the foreign key cascades.
func (r *BoardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Board{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBoardNotFound
	}
	return nil
}

func (r *BoardRepository) IsMember(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	return isMember(r.db.WithContext(ctx), boardID, userID)
}

func isMember(db *gorm.DB, boardID, userID uuid.UUID) (bool, error) {
	var count int64
	err := db.Table("board_members").
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *BoardRepository) GetMembers(ctx context.Context, boardID uuid.UUID) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Joins("JOIN board_members ON board_members.user_id = users.id").
		Where("board_members.board_id = ?", boardID).
		Order("users.name").
		Find(&users).Error
	return users, err
}

// AddMember is idempotent: adding an existing member is a no-op.
func (r *BoardRepository) AddMember(ctx context.Context, boardID, userID uuid.UUID) error {
	err := addMember(r.db.WithContext(ctx), boardID, userID)
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrBoardNotFound
	}
	return err
}

func addMember(db *gorm.DB, boardID, userID uuid.UUID) error {
	return db.Exec(
		"INSERT INTO board_members (board_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		boardID, userID,
	).Error
}

// RemoveMember drops the membership and unassigns the user from the board's
// tasks. The owner cannot be removed.
func (r *BoardRepository) RemoveMember(ctx context.Context, boardID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var board model.Board
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", boardID).First(&board).Error; err != nil {
			return notFound(err, ErrBoardNotFound)
		}
		if board.OwnerID == userID {
			return ErrOwnerMembership
		}

		result := tx.Exec("DELETE FROM board_members WHERE board_id = ? AND user_id = ?", boardID, userID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotMember
		}

		return tx.Exec(
			`DELETE FROM task_assignees WHERE user_id = ? AND task_id IN (
				SELECT tasks.id FROM tasks JOIN columns ON columns.id = tasks.column_id
				WHERE columns.board_id = ?)`,
			userID, boardID,
		).Error
	})
}

// TransferOwnership makes newOwnerID the owner, adding them to the members
// if needed. The previous owner stays a member.
func (r *BoardRepository) TransferOwnership(ctx context.Context, boardID, newOwnerID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var board model.Board
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", boardID).First(&board).Error; err != nil {
			return notFound(err, ErrBoardNotFound)
		}

		var user model.User
		if err := tx.Where("id = ?", newOwnerID).First(&user).Error; err != nil {
			return notFound(err, ErrUserNotFound)
		}

		if err := tx.Model(&board).Update("owner_id", newOwnerID).Error; err != nil {
			return err
		}
		return addMember(tx, boardID, newOwnerID)
	})
}
