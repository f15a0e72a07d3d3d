package handler

import (
	"time"

	"taskboard/internal/model"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type BoardResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"owner_id"`
	CreatedAt string `json:"created_at"`
}

// BoardDetailResponse is the full board as rendered by a client.
type BoardDetailResponse struct {
	BoardResponse
	Owner    UserResponse      `json:"owner"`
	Members  []UserResponse    `json:"members"`
	Columns  []ColumnResponse  `json:"columns"`
	Projects []ProjectResponse `json:"projects"`
	Labels   []LabelResponse   `json:"labels"`
}

type ColumnResponse struct {
	ID       string         `json:"id"`
	BoardID  string         `json:"board_id"`
	Title    string         `json:"title"`
	Position int            `json:"position"`
	Tasks    []TaskResponse `json:"tasks,omitempty"`
}

type LabelResponse struct {
	ID      string `json:"id"`
	BoardID string `json:"board_id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
}

type ProjectResponse struct {
	ID            string          `json:"id"`
	BoardID       string          `json:"board_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Priority      string          `json:"priority"`
	PriorityLabel string          `json:"priority_label"`
	Position      int             `json:"position"`
	DueDate       *string         `json:"due_date"`
	Closed        bool            `json:"closed"`
	Labels        []LabelResponse `json:"labels"`
}

type TaskResponse struct {
	ID            string          `json:"id"`
	ColumnID      string          `json:"column_id"`
	ProjectID     *string         `json:"project_id"`
	ParentTaskID  *string         `json:"parent_task_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Priority      string          `json:"priority"`
	PriorityLabel string          `json:"priority_label"`
	Position      int             `json:"position"`
	DueDate       *string         `json:"due_date"`
	Closed        bool            `json:"closed"`
	Labels        []LabelResponse `json:"labels"`
	Assignees     []UserResponse  `json:"assignees"`
	ChildTaskIDs  []string        `json:"child_task_ids,omitempty"`
}

func newUserResponse(u model.User) UserResponse {
	return UserResponse{ID: u.ID.String(), Email: u.Email, Name: u.Name}
}

func newBoardResponse(b model.Board) BoardResponse {
	return BoardResponse{
		ID:        b.ID.String(),
		Name:      b.Name,
		OwnerID:   b.OwnerID.String(),
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
}

func newBoardDetailResponse(b model.Board) BoardDetailResponse {
	resp := BoardDetailResponse{
		BoardResponse: newBoardResponse(b),
		Owner:         newUserResponse(b.Owner),
		Members:       make([]UserResponse, len(b.Members)),
		Columns:       make([]ColumnResponse, len(b.Columns)),
		Projects:      make([]ProjectResponse, len(b.Projects)),
		Labels:        newLabelResponses(b.Labels),
	}
	for i, m := range b.Members {
		resp.Members[i] = newUserResponse(m)
	}
	var tasks []model.Task
	for _, col := range b.Columns {
		tasks = append(tasks, col.Tasks...)
	}
	children := model.ChildrenByParent(tasks)
	for i, col := range b.Columns {
		resp.Columns[i] = newColumnResponse(col)
		resp.Columns[i].Tasks = newTaskResponses(col.Tasks)
		for j, t := range col.Tasks {
			for _, id := range children[t.ID] {
				resp.Columns[i].Tasks[j].ChildTaskIDs = append(resp.Columns[i].Tasks[j].ChildTaskIDs, id.String())
			}
		}
	}
	for i, p := range b.Projects {
		resp.Projects[i] = newProjectResponse(p)
	}
	return resp
}

func newColumnResponse(col model.Column) ColumnResponse {
	return ColumnResponse{
		ID:       col.ID.String(),
		BoardID:  col.BoardID.String(),
		Title:    col.Title,
		Position: col.Position,
	}
}

func newLabelResponse(l model.Label) LabelResponse {
	return LabelResponse{ID: l.ID.String(), BoardID: l.BoardID.String(), Name: l.Name, Color: l.Color}
}

func newLabelResponses(labels []model.Label) []LabelResponse {
	resp := make([]LabelResponse, len(labels))
	for i, l := range labels {
		resp[i] = newLabelResponse(l)
	}
	return resp
}

func newProjectResponse(p model.Project) ProjectResponse {
	return ProjectResponse{
		ID:            p.ID.String(),
		BoardID:       p.BoardID.String(),
		Title:         p.Title,
		Description:   p.Description,
		Priority:      string(p.Priority),
		PriorityLabel: p.Priority.Label(),
		Position:      p.Position,
		DueDate:       formatDate(p.DueDate),
		Closed:        p.Closed,
		Labels:        newLabelResponses(p.Labels),
	}
}

func newTaskResponse(t model.Task) TaskResponse {
	resp := TaskResponse{
		ID:            t.ID.String(),
		ColumnID:      t.ColumnID.String(),
		ProjectID:     formatID(t.ProjectID),
		ParentTaskID:  formatID(t.ParentTaskID),
		Title:         t.Title,
		Description:   t.Description,
		Priority:      string(t.Priority),
		PriorityLabel: t.Priority.Label(),
		Position:      t.Position,
		DueDate:       formatDate(t.DueDate),
		Closed:        t.Closed,
		Labels:        newLabelResponses(t.Labels),
		Assignees:     make([]UserResponse, len(t.Assignees)),
	}
	for i, u := range t.Assignees {
		resp.Assignees[i] = newUserResponse(u)
	}
	return resp
}

func newTaskResponses(tasks []model.Task) []TaskResponse {
	resp := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		resp[i] = newTaskResponse(t)
	}
	return resp
}

func formatDate(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := d.Format(time.DateOnly)
	return &s
}

func formatID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
