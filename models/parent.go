package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Parent struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"unique;not null" json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	PinHash      string    `json:"-"` // empty until the parent sets a PIN
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Children     []Child   `gorm:"constraint:OnDelete:CASCADE" json:"children,omitempty"`
}

func (p *Parent) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type LoginHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ParentID  uuid.UUID `gorm:"type:uuid;index" json:"parent_id"`
	LoginTime time.Time `json:"login_time"`
}
