package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Child struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ParentID   uuid.UUID `gorm:"type:uuid;index;not null" json:"parent_id"`
	Name       string    `gorm:"not null" json:"name"`
	Age        int       `json:"age"`
	AvatarName string    `json:"avatar_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (ch *Child) BeforeCreate(tx *gorm.DB) error {
	if ch.ID == uuid.Nil {
		ch.ID = uuid.New()
	}
	return nil
}
