package handler

import (
	"net/http"
	"strings"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	taskRepo   *repository.TaskRepository
	columnRepo *repository.ColumnRepository
	access     boardAccess
}

func NewTaskHandler(
	taskRepo *repository.TaskRepository,
	columnRepo *repository.ColumnRepository,
	boardRepo *repository.BoardRepository,
) *TaskHandler {
	return &TaskHandler{
		taskRepo:   taskRepo,
		columnRepo: columnRepo,
		access:     boardAccess{boards: boardRepo},
	}
}

// CreateTaskRequest is the body for creating a task
type CreateTaskRequest struct {
	ColumnID     string   `json:"column_id" binding:"required,uuid"`
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	Priority     string   `json:"priority"`
	DueDate      string   `json:"due_date"`
	ProjectID    string   `json:"project_id"`
	ParentTaskID string   `json:"parent_task_id"`
	LabelIDs     []string `json:"label_ids" binding:"dive,uuid"`
	AssigneeIDs  []string `json:"assignee_ids" binding:"dive,uuid"`
}

// UpdateTaskRequest carries only the fields to change. An empty string clears
// project_id, parent_task_id and due_date.
type UpdateTaskRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Priority     *string `json:"priority"`
	DueDate      *string `json:"due_date"`
	Closed       *bool   `json:"closed"`
	ProjectID    *string `json:"project_id"`
	ParentTaskID *string `json:"parent_task_id"`
	ColumnID     *string `json:"column_id"`
	Position     *int    `json:"position"`
}

// TaskMoveRequest moves a task to an index of a column on the same board
type TaskMoveRequest struct {
	ColumnID string `json:"column_id" binding:"required,uuid"`
	Index    *int   `json:"index" binding:"required,min=0"`
}

// TaskAssignRequest assigns one board member to the task
type TaskAssignRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

type SetAssigneesRequest struct {
	UserIDs []string `json:"user_ids" binding:"dive,uuid"`
}

// task loads the task named by :id and checks board membership.
func (h *TaskHandler) task(c *gin.Context) (*model.Task, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	taskID, ok := pathID(c, "id", "task")
	if !ok {
		return nil, false
	}

	boardID, err := h.taskRepo.GetBoardID(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err, "Failed to retrieve task")
		return nil, false
	}
	if !h.access.member(c, boardID, userID) {
		return nil, false
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err, "Failed to retrieve task")
		return nil, false
	}
	return task, true
}

// respondTask reloads the task so labels and assignees are current.
func (h *TaskHandler) respondTask(c *gin.Context, status int, taskID uuid.UUID) {
	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err, "Failed to retrieve task")
		return
	}
	c.JSON(status, newTaskResponse(*task))
}

// Create appends a new task to the end of a column
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	columnID, err := uuid.Parse(req.ColumnID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid column ID format"})
		return
	}
	projectID, err := parseOptionalID(req.ProjectID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID format"})
		return
	}
	parentID, err := parseOptionalID(req.ParentTaskID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parent task ID format"})
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
	assigneeIDs, err := parseIDs(req.AssigneeIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	column, err := h.columnRepo.GetByID(c.Request.Context(), columnID)
	if err != nil {
		respondError(c, err, "Failed to retrieve column")
		return
	}
	if !h.access.member(c, column.BoardID, userID) {
		return
	}

	task := &model.Task{
		ColumnID:     columnID,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Priority:     model.Priority(req.Priority),
		DueDate:      dueDate,
		ProjectID:    projectID,
		ParentTaskID: parentID,
	}
	if err := h.taskRepo.Create(c.Request.Context(), task, labelIDs, assigneeIDs); err != nil {
		respondError(c, err, "Failed to create task")
		return
	}

	h.respondTask(c, http.StatusCreated, task.ID)
}

func (h *TaskHandler) GetByID(c *gin.Context) {
	task, ok := h.task(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(*task))
}

// GetByColumnID lists a column's tasks in display order
func (h *TaskHandler) GetByColumnID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	columnID, ok := pathID(c, "id", "column")
	if !ok {
		return
	}

	column, err := h.columnRepo.GetByID(c.Request.Context(), columnID)
	if err != nil {
		respondError(c, err, "Failed to retrieve column")
		return
	}
	if !h.access.member(c, column.BoardID, userID) {
		return
	}

	tasks, err := h.taskRepo.GetByColumnID(c.Request.Context(), columnID)
	if err != nil {
		respondError(c, err, "Failed to retrieve tasks")
		return
	}

	c.JSON(http.StatusOK, newTaskResponses(tasks))
}

// GetChildren lists the direct subtasks of a task
func (h *TaskHandler) GetChildren(c *gin.Context) {
	task, ok := h.task(c)
	if !ok {
		return
	}

	children, err := h.taskRepo.GetChildren(c.Request.Context(), task.ID)
	if err != nil {
		respondError(c, err, "Failed to retrieve subtasks")
		return
	}

	c.JSON(http.StatusOK, newTaskResponses(children))
}

func (h *TaskHandler) Update(c *gin.Context) {
	task, ok := h.task(c)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Position != nil || req.ColumnID != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Column and position cannot be updated directly; use the move endpoint"})
		return
	}

	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		task.Priority = model.Priority(*req.Priority)
	}
	if req.Closed != nil {
		task.Closed = *req.Closed
	}
	if req.DueDate != nil {
		dueDate, err := parseDate(*req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date, expected YYYY-MM-DD"})
			return
		}
		task.DueDate = dueDate
	}
	if req.ProjectID != nil {
		projectID, err := parseOptionalID(*req.ProjectID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID format"})
			return
		}
		task.ProjectID = projectID
	}
	if req.ParentTaskID != nil {
		parentID, err := parseOptionalID(*req.ParentTaskID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parent task ID format"})
			return
		}
		task.ParentTaskID = parentID
	}

	if err := h.taskRepo.Update(c.Request.Context(), task); err != nil {
		respondError(c, err, "Failed to update task")
		return
	}

	h.respondTask(c, http.StatusOK, task.ID)
}

// Delete removes the task; its subtasks stay and lose their parent
func (h *TaskHandler) Delete(c *gin.Context) {
	task, ok := h.task(c)
	if !ok {
		return
	}

	if err := h.taskRepo.Delete(c.Request.Context(), task.ID); err != nil {
		respondError(c, err, "Failed to delete task")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// MoveTask moves a task within its column or into another column of the board
func (h *TaskHandler) MoveTask(c *gin.Context) {
	task, ok := h.task(c)
	if !ok {
		return
	}

	var req TaskMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	columnID, err := uuid.Parse(req.ColumnID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid column ID format"})
		return
	}

	if err := h.taskRepo.MoveTask(c.Request.Context(), task.ID, columnID, *req.Index); err != nil {
		respondError(c, err, "Failed to move task")
		return
	}

	h.respondTask(c, http.StatusOK, task.ID)
}

// SetLabels replaces the task's labels
func (h *TaskHandler) SetLabels(c *gin.Context) {
	task, ok := h.task(c)
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

	if err := h.taskRepo.SetLabels(c.Request.Context(), task.ID, labelIDs); err != nil {
		respondError(c, err, "Failed to update labels")
		return
	}

	h.respondTask(c, http.StatusOK, task.ID)
}

func (h *TaskHandler) AddLabel(c *gin.Context) {
	task, ok := h.task(c)
	if !ok {
		return
	}
	labelID, ok := pathID(c, "label_id", "label")
	if !ok {
		return
	}

	if err := h.taskRepo.AddLabel(c.Request.Context(), task.ID, labelID); err != nil {
		respondError(c, err, "Failed to add label")
		return
	}

	h.respondTask(c, http.StatusOK, task.ID)
}

func (h *TaskHandler) RemoveLabel(c *gin.Context) {
	task, ok := h.task(c)
	if !ok {
		return
	}
	labelID, ok := pathID(c, "label_id", "label")
	if !ok {
		return
	}

	if err := h.taskRepo.RemoveLabel(c.Request.Context(), task.ID, labelID); err != nil {
		respondError(c, err, "Failed to remove label")
		return
	}

	h.respondTask(c, http.StatusOK, task.ID)
}

// SetAssignees replaces the task's assignees; each must be a board member
func (h *TaskHandler) SetAssignees(c *gin.Context) {
	task, ok := h.task(c)
	if !ok {
		return
	}

	var req SetAssigneesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	userIDs, err := parseIDs(req.UserIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	if err := h.taskRepo.SetAssignees(c.Request.Context(), task.ID, userIDs); err != nil {
		respondError(c, err, "Failed to update assignees")
		return
	}

	h.respondTask(c, http.StatusOK, task.ID)
}

func (h *TaskHandler) AssignUser(c *gin.Context) {
	task, ok := h.task(c)
	if !ok {
		return
	}

	var req TaskAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	assigneeID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	if err := h.taskRepo.AssignUser(c.Request.Context(), task.ID, assigneeID); err != nil {
		respondError(c, err, "Failed to assign user")
		return
	}

	h.respondTask(c, http.StatusOK, task.ID)
}

func (h *TaskHandler) UnassignUser(c *gin.Context) {
	task, ok := h.task(c)
	if !ok {
		return
	}
	assigneeID, ok := pathID(c, "user_id", "user")
	if !ok {
		return
	}

	if err := h.taskRepo.UnassignUser(c.Request.Context(), task.ID, assigneeID); err != nil {
		respondError(c, err, "Failed to unassign user")
		return
	}

	h.respondTask(c, http.StatusOK, task.ID)
}
