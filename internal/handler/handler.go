package handler

import (
	"errors"
	"net/http"
	"time"

	"taskboard/internal/middleware"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// currentUser returns the id stored by the auth middleware, writing the error
// response itself when it is missing.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return uuid.Nil, false
	}

	id, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}
	return id, true
}

// pathID parses the named URL parameter as a UUID.
func pathID(c *gin.Context, param, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + entity + " ID format"})
		return uuid.Nil, false
	}
	return id, true
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseOptionalID maps "" to nil so a client can clear a reference.
func parseOptionalID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseDate accepts YYYY-MM-DD; "" clears the date.
func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

var errorStatus = []struct {
	err     error
	status  int
	message string
}{
	{repository.ErrBoardNotFound, http.StatusNotFound, "Board not found"},
	{repository.ErrColumnNotFound, http.StatusNotFound, "Column not found"},
	{repository.ErrLabelNotFound, http.StatusNotFound, "Label not found"},
	{repository.ErrProjectNotFound, http.StatusNotFound, "Project not found"},
	{repository.ErrTaskNotFound, http.StatusNotFound, "Task not found"},
	{repository.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{repository.ErrLabelExists, http.StatusConflict, "Label with this name already exists on the board"},
	{repository.ErrEmailTaken, http.StatusConflict, "User with this email already exists"},
	{repository.ErrOwnerProtected, http.StatusConflict, "User still owns boards; transfer or delete them first"},
	{repository.ErrOwnerMembership, http.StatusConflict, "The board owner cannot be removed from the members"},
	{repository.ErrNotMember, http.StatusBadRequest, "User is not a member of the board"},
	{repository.ErrNotAssigned, http.StatusNotFound, "User is not assigned to the task"},
	{repository.ErrLabelBoardMismatch, http.StatusBadRequest, "Label belongs to another board"},
	{repository.ErrCrossBoard, http.StatusBadRequest, "Referenced item belongs to another board"},
	{repository.ErrInvalidParent, http.StatusBadRequest, "Invalid parent task"},
	{repository.ErrInvalidPosition, http.StatusBadRequest, "Invalid position"},
}

// respondError writes the status matching a repository or validation error;
// anything unknown is logged and reported as fallback with a 500.
func respondError(c *gin.Context, err error, fallback string) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "fields": verr.Fields})
		return
	}
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			c.JSON(e.status, gin.H{"error": e.message})
			return
		}
	}

	_ = c.Error(err)
	log.WithError(err).WithField("path", c.FullPath()).Error(fallback)
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

// boardAccess answers the membership and ownership questions every handler
// asks before touching a board's contents.
type boardAccess struct {
	boards *repository.BoardRepository
}

// member reports whether userID may read and edit the board. It writes a 404
// for a missing board and a 403 for a non-member.
func (a boardAccess) member(c *gin.Context, boardID, userID uuid.UUID) bool {
	ok, err := a.boards.IsMember(c.Request.Context(), boardID, userID)
	if err != nil {
		respondError(c, err, "Failed to check board access")
		return false
	}
	if ok {
		return true
	}

	if _, err := a.boards.GetByID(c.Request.Context(), boardID); err != nil {
		respondError(c, err, "Failed to retrieve board")
		return false
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "You don't have access to this board"})
	return false
}

// owner loads the board and checks that userID owns it.
func (a boardAccess) owner(c *gin.Context, boardID, userID uuid.UUID) (*model.Board, bool) {
	board, err := a.boards.GetByID(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err, "Failed to retrieve board")
		return nil, false
	}
	if board.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the board owner can do this"})
		return nil, false
	}
	return board, true
}
