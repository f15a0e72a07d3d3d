package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Label is scoped to one board; its name is unique within that board.
type Label struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name    string    `gorm:"size:255;not null;uniqueIndex:unique_name_board,priority:1" validate:"required,max=255"`
	Color   string    `gorm:"size:7;not null" validate:"required,labelcolor"`
	BoardID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:unique_name_board,priority:2"`
}

func (l *Label) Validate() error {
	return validateStruct(l)
}

func (l *Label) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
