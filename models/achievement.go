package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity types understood by the achievement engine.
const (
	ActivityFirstPlay       = "first_play"
	ActivityLevelComplete   = "level_complete"
	ActivityLevelsCompleted = "levels_completed"
	ActivityTotalScore      = "total_score"
	ActivityGamesPlayed     = "games_played"
)

type Achievement struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"unique;not null" json:"name"`
	Description  string    `json:"description"`
	IconName     string    `json:"icon_name"`
	ActivityType string    `gorm:"index;not null" json:"activity_type"`
	Points       int       `gorm:"default:0" json:"points"`
	TriggerValue int       `json:"trigger_value"`
	GameKey      string    `json:"game_key"` // empty means any game
	CreatedAt    time.Time `json:"created_at"`
}

func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// ChildAchievement records that a child satisfied an achievement definition.
// The composite unique index is what makes the engine's insert exactly-once.
type ChildAchievement struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	ChildID       uuid.UUID   `gorm:"type:uuid;index;uniqueIndex:idx_child_achievement;not null" json:"child_id"`
	AchievementID uuid.UUID   `gorm:"type:uuid;uniqueIndex:idx_child_achievement;not null" json:"achievement_id"`
	EarnedAt      time.Time   `json:"earned_at"`
	CreatedAt     time.Time   `json:"created_at"`
	Achievement   Achievement `gorm:"foreignKey:AchievementID;constraint:OnDelete:CASCADE" json:"achievement,omitempty"`
}

func (ca *ChildAchievement) BeforeCreate(tx *gorm.DB) error {
	if ca.ID == uuid.Nil {
		ca.ID = uuid.New()
	}
	if ca.EarnedAt.IsZero() {
		ca.EarnedAt = time.Now()
	}
	return nil
}
