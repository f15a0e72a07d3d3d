package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Project struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Title       string     `gorm:"size:255;not null" validate:"required,max=255"`
	Description string     `gorm:"type:text"`
	BoardID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_projects_board_position,priority:1"`
	Priority    Priority   `gorm:"size:1;not null" validate:"omitempty,priority"`
	Position    int        `gorm:"not null;uniqueIndex:idx_projects_board_position,priority:2"`
	DueDate     *time.Time `gorm:"type:date"`
	Closed      bool       `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Labels []Label `gorm:"many2many:project_labels;constraint:OnDelete:CASCADE" validate:"-"`
	Tasks  []Task  `gorm:"constraint:OnDelete:CASCADE" validate:"-"`
}

func (p *Project) Validate() error {
	return validateStruct(p)
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Priority == "" {
		p.Priority = PriorityMedium
	}
	return nil
}

func (p Project) Due() *time.Time { return p.DueDate }
func (p Project) Importance() Priority { return p.Priority }
