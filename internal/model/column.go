package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Column struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	BoardID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_columns_board_position,priority:1"`
	Title    string    `gorm:"size:255;not null" validate:"required,max=255"`
	Position int       `gorm:"not null;uniqueIndex:idx_columns_board_position,priority:2"`

	Tasks []Task `gorm:"constraint:OnDelete:CASCADE" validate:"-"`
}

func (c *Column) Validate() error {
	return validateStruct(c)
}

func (c *Column) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
