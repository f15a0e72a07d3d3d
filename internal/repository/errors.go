package repository

import (
	"errors"

	"gorm.io/gorm"
)

// Common repository errors
var (
	ErrBoardNotFound   = errors.New("board not found")
	ErrColumnNotFound  = errors.New("column not found")
	ErrLabelNotFound   = errors.New("label not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrUserNotFound    = errors.New("user not found")

	// ErrLabelExists is returned when a board already has a label with the same name
	ErrLabelExists = errors.New("label with this name already exists on the board")

	// ErrEmailTaken is returned when registering an email that is already in use
	ErrEmailTaken = errors.New("email already registered")

	// ErrOwnerProtected is returned when deleting a user who still owns boards
	ErrOwnerProtected = errors.New("user owns boards and cannot be deleted")

	// ErrOwnerMembership is returned when removing the owner from the board members
	ErrOwnerMembership = errors.New("board owner must remain a member")

	ErrNotMember          = errors.New("user is not a member of the board")
	ErrNotAssigned        = errors.New("user is not assigned to the task")
	ErrLabelBoardMismatch = errors.New("label belongs to another board")
	ErrCrossBoard         = errors.New("referenced item belongs to another board")
	ErrInvalidParent      = errors.New("invalid parent task")
	ErrInvalidPosition    = errors.New("invalid position")
)

// notFound maps gorm's missing-row error to the repository error for the entity.
func notFound(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
