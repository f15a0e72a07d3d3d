package handler

import (
	"net/http"
	"strings"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ColumnHandler struct {
	columnRepo *repository.ColumnRepository
	access     boardAccess
}

func NewColumnHandler(columnRepo *repository.ColumnRepository, boardRepo *repository.BoardRepository) *ColumnHandler {
	return &ColumnHandler{
		columnRepo: columnRepo,
		access:     boardAccess{boards: boardRepo},
	}
}

type CreateColumnRequest struct {
	Title   string `json:"title" binding:"required"`
	BoardID string `json:"board_id" binding:"required,uuid"`
}

type UpdateColumnRequest struct {
	Title string `json:"title" binding:"required"`
}

// MoveRequest places an item at a zero-based index among its siblings.
type MoveRequest struct {
	Index *int `json:"index" binding:"required,min=0"`
}

type ReorderColumnsRequest struct {
	ColumnIDs []string `json:"column_ids" binding:"required,dive,uuid"`
}

// column loads the column named by the :id parameter and checks that the
// user is a member of its board.
func (h *ColumnHandler) column(c *gin.Context) (*model.Column, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	columnID, ok := pathID(c, "id", "column")
	if !ok {
		return nil, false
	}

	column, err := h.columnRepo.GetByID(c.Request.Context(), columnID)
	if err != nil {
		respondError(c, err, "Failed to retrieve column")
		return nil, false
	}
	if !h.access.member(c, column.BoardID, userID) {
		return nil, false
	}
	return column, true
}

// Create appends a new column to the board
func (h *ColumnHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
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

	column := &model.Column{
		BoardID: boardID,
		Title:   strings.TrimSpace(req.Title),
	}
	if err := h.columnRepo.Create(c.Request.Context(), column); err != nil {
		respondError(c, err, "Failed to create column")
		return
	}

	c.JSON(http.StatusCreated, newColumnResponse(*column))
}

// GetAll lists the columns of a board in display order
func (h *ColumnHandler) GetAll(c *gin.Context) {
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

	columns, err := h.columnRepo.GetByBoardID(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err, "Failed to retrieve columns")
		return
	}

	response := make([]ColumnResponse, len(columns))
	for i, col := range columns {
		response[i] = newColumnResponse(col)
	}
	c.JSON(http.StatusOK, response)
}

func (h *ColumnHandler) GetByID(c *gin.Context) {
	column, ok := h.column(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newColumnResponse(*column))
}

// Update renames the column; its position only changes through Move.
func (h *ColumnHandler) Update(c *gin.Context) {
	column, ok := h.column(c)
	if !ok {
		return
	}

	var req UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	column.Title = strings.TrimSpace(req.Title)
	if err := h.columnRepo.Update(c.Request.Context(), column); err != nil {
		respondError(c, err, "Failed to update column")
		return
	}

	c.JSON(http.StatusOK, newColumnResponse(*column))
}

// Delete removes the column together with its tasks
func (h *ColumnHandler) Delete(c *gin.Context) {
	column, ok := h.column(c)
	if !ok {
		return
	}

	if err := h.columnRepo.Delete(c.Request.Context(), column.ID); err != nil {
		respondError(c, err, "Failed to delete column")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Column deleted successfully"})
}

func (h *ColumnHandler) Move(c *gin.Context) {
	column, ok := h.column(c)
	if !ok {
		return
	}

	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.columnRepo.Move(c.Request.Context(), column.ID, *req.Index); err != nil {
		respondError(c, err, "Failed to move column")
		return
	}

	moved, err := h.columnRepo.GetByID(c.Request.Context(), column.ID)
	if err != nil {
		respondError(c, err, "Failed to retrieve column")
		return
	}
	c.JSON(http.StatusOK, newColumnResponse(*moved))
}

// ReorderColumns applies a complete column order for the board.
func (h *ColumnHandler) ReorderColumns(c *gin.Context) {
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

	var req ReorderColumnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	ids, err := parseIDs(req.ColumnIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid column ID format"})
		return
	}

	if err := h.columnRepo.ReorderColumns(c.Request.Context(), boardID, ids); err != nil {
		respondError(c, err, "Failed to reorder columns")
		return
	}

	columns, err := h.columnRepo.GetByBoardID(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err, "Failed to retrieve columns")
		return
	}
	response := make([]ColumnResponse, len(columns))
	for i, col := range columns {
		response[i] = newColumnResponse(col)
	}
	c.JSON(http.StatusOK, response)
}
