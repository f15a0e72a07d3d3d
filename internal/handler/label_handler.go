package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// CreateLabelRequest defines the expected request body for creating a label
type CreateLabelRequest struct {
	BoardID string `json:"board_id" binding:"required,uuid"`
	Name    string `json:"name" binding:"required"`
	Color   string `json:"color" binding:"required"`
}

// UpdateLabelRequest defines the expected request body for updating a label
type UpdateLabelRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color" binding:"required"`
}

// LabelHandler handles label-related HTTP requests
type LabelHandler struct {
	labelRepo *repository.LabelRepository
	access    boardAccess
}

// NewLabelHandler creates a new LabelHandler instance
func NewLabelHandler(labelRepo *repository.LabelRepository, boardRepo *repository.BoardRepository) *LabelHandler {
	return &LabelHandler{
		labelRepo: labelRepo,
		access:    boardAccess{boards: boardRepo},
	}
}

func (h *LabelHandler) label(c *gin.Context) (*model.Label, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	labelID, ok := pathID(c, "id", "label")
	if !ok {
		return nil, false
	}

	label, err := h.labelRepo.GetByID(c.Request.Context(), labelID)
	if err != nil {
		respondError(c, err, "Failed to retrieve label")
		return nil, false
	}
	if !h.access.member(c, label.BoardID, userID) {
		return nil, false
	}
	return label, true
}

// Create creates a new label
func (h *LabelHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	boardID, err := uuid.Parse(req.BoardID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}
	if !h.access.member(c, boardID, userID) {
		return
	}

	label := &model.Label{
		BoardID: boardID,
		Name:    strings.TrimSpace(req.Name),
		Color:   strings.ToLower(req.Color),
	}
	if err := h.labelRepo.Create(c.Request.Context(), label); err != nil {
		respondError(c, err, "Failed to create label")
		return
	}

	c.JSON(http.StatusCreated, newLabelResponse(*label))
}

// GetByID retrieves a label by its ID
func (h *LabelHandler) GetByID(c *gin.Context) {
	label, ok := h.label(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newLabelResponse(*label))
}

// GetByBoardID retrieves all labels for a board
func (h *LabelHandler) GetByBoardID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}
	if !h.access.member(c, boardID, userID) {
		return
	}

	labels, err := h.labelRepo.GetByBoardID(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err, "Failed to retrieve labels")
		return
	}

	c.JSON(http.StatusOK, newLabelResponses(labels))
}

// Update updates an existing label
func (h *LabelHandler) Update(c *gin.Context) {
	label, ok := h.label(c)
	if !ok {
		return
	}

	var req UpdateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	label.Name = strings.TrimSpace(req.Name)
	label.Color = strings.ToLower(req.Color)
	if err := h.labelRepo.Update(c.Request.Context(), label); err != nil {
		respondError(c, err, "Failed to update label")
		return
	}

	c.JSON(http.StatusOK, newLabelResponse(*label))
}

// Delete deletes a label; tasks and projects using it lose the label
func (h *LabelHandler) Delete(c *gin.Context) {
	label, ok := h.label(c)
	if !ok {
		return
	}

	if err := h.labelRepo.Delete(c.Request.Context(), label.ID); err != nil {
		respondError(c, err, "Failed to delete label")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Label deleted successfully"})
}

// GetTasksWithLabel retrieves all tasks that carry a label
func (h *LabelHandler) GetTasksWithLabel(c *gin.Context) {
	label, ok := h.label(c)
	if !ok {
		return
	}

	tasks, err := h.labelRepo.GetTasksWithLabel(c.Request.Context(), label.ID)
	if err != nil {
		respondError(c, err, "Failed to retrieve tasks")
		return
	}

	c.JSON(http.StatusOK, newTaskResponses(tasks))
}
