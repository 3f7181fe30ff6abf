package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameProgress is the server-side mirror of the client's per-game progress
// blob. One row per child per game, created on first play, last write wins.
type GameProgress struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChildID         uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_child_game;not null" json:"child_id"`
	GameKey         string    `gorm:"uniqueIndex:idx_child_game;not null" json:"game_key"`
	CurrentLevel    int       `gorm:"default:1" json:"current_level"`
	CurrentStage    int       `gorm:"default:1" json:"current_stage"`
	CompletedLevels string    `gorm:"default:'[]'" json:"completed_levels"` // JSON array of level numbers
	TotalScore      int       `gorm:"default:0" json:"total_score"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (gp *GameProgress) BeforeCreate(tx *gorm.DB) error {
	if gp.ID == uuid.Nil {
		gp.ID = uuid.New()
	}
	return nil
}

// ActivityLog keeps one row per "save activity" call from the client. It is
// what the achievement engine and the parent dashboard read.
type ActivityLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ChildID      uuid.UUID `gorm:"type:uuid;index;not null" json:"child_id"`
	GameKey      string    `gorm:"not null" json:"game_key"`
	ActivityType string    `gorm:"not null" json:"activity_type"`
	Value        int       `json:"value"`
	Score        int       `json:"score"`
	CreatedAt    time.Time `json:"created_at"`
}
