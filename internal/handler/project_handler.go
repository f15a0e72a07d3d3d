package handler

import (
	"net/http"
	"strings"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProjectHandler struct {
	projectRepo *repository.ProjectRepository
	taskRepo    *repository.TaskRepository
	access      boardAccess
}

func NewProjectHandler(projectRepo *repository.ProjectRepository, taskRepo *repository.TaskRepository, boardRepo *repository.BoardRepository) *ProjectHandler {
	return &ProjectHandler{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		access:      boardAccess{boards: boardRepo},
	}
}

type CreateProjectRequest struct {
	BoardID     string   `json:"board_id" binding:"required,uuid"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	DueDate     string   `json:"due_date"`
	LabelIDs    []string `json:"label_ids" binding:"dive,uuid"`
}

// UpdateProjectRequest carries only the fields to change.
type UpdateProjectRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
	Closed      *bool   `json:"closed"`
	Position    *int    `json:"position"`
}

type SetLabelsRequest struct {
	LabelIDs []string `json:"label_ids" binding:"dive,uuid"`
}

// sortByDue reports whether the client asked for the due/priority ordering.
func sortByDue(c *gin.Context) bool {
	return c.Query("sort") == "due"
}

func (h *ProjectHandler) project(c *gin.Context) (*model.Project, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	projectID, ok := pathID(c, "id", "project")
	if !ok {
		return nil, false
	}

	project, err := h.projectRepo.GetByID(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err, "Failed to retrieve project")
		return nil, false
	}
	if !h.access.member(c, project.BoardID, userID) {
		return nil, false
	}
	return project, true
}

func (h *ProjectHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	boardID, err := uuid.Parse(req.BoardID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date, expected YYYY-MM-DD"})
		return
	}
	labelIDs, err := parseIDs(req.LabelIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid label ID format"})
		return
	}
	if !h.access.member(c, boardID, userID) {
		return
	}

	project := &model.Project{
		BoardID:     boardID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Priority:    model.Priority(req.Priority),
		DueDate:     dueDate,
	}
	if err := h.projectRepo.Create(c.Request.Context(), project, labelIDs); err != nil {
		respondError(c, err, "Failed to create project")
		return
	}

	created, err := h.projectRepo.GetByID(c.Request.Context(), project.ID)
	if err != nil {
		respondError(c, err, "Failed to retrieve project")
		return
	}
	c.JSON(http.StatusCreated, newProjectResponse(*created))
}

// GetByBoardID lists the board's projects in board order, or with ?sort=due
// by urgency: due within ten days first, then by priority.
func (h *ProjectHandler) GetByBoardID(c *gin.Context) {
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

	projects, err := h.projectRepo.GetByBoardID(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err, "Failed to retrieve projects")
		return
	}
	if sortByDue(c) {
		model.SortByDueAndPriority(projects, time.Now())
	}

	response := make([]ProjectResponse, len(projects))
	for i, p := range projects {
		response[i] = newProjectResponse(p)
	}
	c.JSON(http.StatusOK, response)
}

func (h *ProjectHandler) GetByID(c *gin.Context) {
	project, ok := h.project(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newProjectResponse(*project))
}

// GetTasks lists the tasks that belong to the project across all columns.
func (h *ProjectHandler) GetTasks(c *gin.Context) {
	project, ok := h.project(c)
	if !ok {
		return
	}

	tasks, err := h.taskRepo.GetByProjectID(c.Request.Context(), project.ID)
	if err != nil {
		respondError(c, err, "Failed to retrieve tasks")
		return
	}
	if sortByDue(c) {
		model.SortByDueAndPriority(tasks, time.Now())
	}

	c.JSON(http.StatusOK, newTaskResponses(tasks))
}

func (h *ProjectHandler) Update(c *gin.Context) {
	project, ok := h.project(c)
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Position != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Position cannot be updated directly; use the move endpoint"})
		return
	}

	if req.Title != nil {
		project.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Priority != nil {
		project.Priority = model.Priority(*req.Priority)
	}
	if req.DueDate != nil {
		dueDate, err := parseDate(*req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date, expected YYYY-MM-DD"})
			return
		}
		project.DueDate = dueDate
	}
	if req.Closed != nil {
		project.Closed = *req.Closed
	}

	if err := h.projectRepo.Update(c.Request.Context(), project); err != nil {
		respondError(c, err, "Failed to update project")
		return
	}

	c.JSON(http.StatusOK, newProjectResponse(*project))
}

// Delete removes the project and every task in it
func (h *ProjectHandler) Delete(c *gin.Context) {
	project, ok := h.project(c)
	if !ok {
		return
	}

	if err := h.projectRepo.Delete(c.Request.Context(), project.ID); err != nil {
		respondError(c, err, "Failed to delete project")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

func (h *ProjectHandler) Move(c *gin.Context) {
	project, ok := h.project(c)
	if !ok {
		return
	}

	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.projectRepo.Move(c.Request.Context(), project.ID, *req.Index); err != nil {
		respondError(c, err, "Failed to move project")
		return
	}

	moved, err := h.projectRepo.GetByID(c.Request.Context(), project.ID)
	if err != nil {
		respondError(c, err, "Failed to retrieve project")
		return
	}
	c.JSON(http.StatusOK, newProjectResponse(*moved))
}

// SetLabels replaces the project's labels with the given set.
func (h *ProjectHandler) SetLabels(c *gin.Context) {
	project, ok := h.project(c)
	if !ok {
		return
	}

	var req SetLabelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	labelIDs, err := parseIDs(req.LabelIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid label ID format"})
		return
	}

	if err := h.projectRepo.SetLabels(c.Request.Context(), project.ID, labelIDs); err != nil {
		respondError(c, err, "Failed to update labels")
		return
	}

	updated, err := h.projectRepo.GetByID(c.Request.Context(), project.ID)
	if err != nil {
		respondError(c, err, "Failed to retrieve project")
		return
	}
	c.JSON(http.StatusOK, newProjectResponse(*updated))
}
