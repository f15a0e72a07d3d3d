package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Board is the top-level container. The owner is always one of its members.
type Board struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:50;not null" validate:"required,max=50"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Owner    User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT" validate:"-"`
	Members  []User    `gorm:"many2many:board_members;constraint:OnDelete:CASCADE" validate:"-"`
	Columns  []Column  `gorm:"constraint:OnDelete:CASCADE" validate:"-"`
	Labels   []Label   `gorm:"constraint:OnDelete:CASCADE" validate:"-"`
	Projects []Project `gorm:"constraint:OnDelete:CASCADE" validate:"-"`
}

func (b *Board) Validate() error {
	return validateStruct(b)
}

func (b *Board) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// AfterCreate adds the owner to the members. It only runs on insert, so
// later updates never re-add an owner that was moved out by a transfer.
func (b *Board) AfterCreate(tx *gorm.DB) error {
	return tx.Session(&gorm.Session{NewDB: true}).Exec(
		"INSERT INTO board_members (board_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		b.ID, b.OwnerID,
	).Error
}
