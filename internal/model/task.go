package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task lives in a column and optionally in a project. ParentTaskID is a weak
// back reference: deleting the parent clears it instead of deleting the child.
type Task struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Title        string     `gorm:"size:255;not null" validate:"required,max=255"`
	Description  string     `gorm:"type:text"`
	Priority     Priority   `gorm:"size:1;not null" validate:"omitempty,priority"`
	ColumnID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_tasks_column_position,priority:1"`
	ProjectID    *uuid.UUID `gorm:"type:uuid;index"`
	ParentTaskID *uuid.UUID `gorm:"type:uuid;index"`
	Position     int        `gorm:"not null;uniqueIndex:idx_tasks_column_position,priority:2"`
	DueDate      *time.Time `gorm:"type:date"`
	Closed       bool       `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Labels     []Label `gorm:"many2many:task_labels;constraint:OnDelete:CASCADE" validate:"-"`
	Assignees  []User  `gorm:"many2many:task_assignees;constraint:OnDelete:CASCADE" validate:"-"`
	ChildTasks []Task  `gorm:"foreignKey:ParentTaskID;constraint:OnDelete:SET NULL" validate:"-"`
}

func (t *Task) Validate() error {
	if err := validateStruct(t); err != nil {
		return err
	}
	if t.ParentTaskID != nil && t.ID != uuid.Nil && *t.ParentTaskID == t.ID {
		return &ValidationError{Fields: map[string]string{"ParentTaskID": "a task cannot be its own parent"}}
	}
	return nil
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	return nil
}

func (t Task) Due() *time.Time { return t.DueDate }
func (t Task) Importance() Priority { return t.Priority }

// ChildrenByParent indexes tasks by their parent. Tasks without a parent are
// not listed; the order of children follows the input order.
func ChildrenByParent(tasks []Task) map[uuid.UUID][]uuid.UUID {
	byParent := make(map[uuid.UUID][]uuid.UUID)
	for _, task := range tasks {
		if task.ParentTaskID == nil {
			continue
		}
		byParent[*task.ParentTaskID] = append(byParent[*task.ParentTaskID], task.ID)
	}
	return byParent
}
