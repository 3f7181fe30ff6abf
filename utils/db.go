package utils

import (
	"fmt"

	"github.com/AriyoX/baby-steps/config"
	"github.com/AriyoX/baby-steps/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := MigrateDB(db); err != nil {
		return nil, err
	}

	return db, nil
}

func MigrateDB(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Parent{},
		&models.LoginHistory{},
		&models.Child{},
		&models.Achievement{},
		&models.ChildAchievement{},
		&models.GameProgress{},
		&models.ActivityLog{},
	); err != nil {
		return err
	}

	return SeedAchievements(db)
}

// SeedAchievements заполняет каталог достижений при первом запуске.
// Existing rows are matched by name, so redeploys do not duplicate them.
func SeedAchievements(db *gorm.DB) error {
	catalog := []models.Achievement{
		{Name: "First Steps", Description: "Play your very first game", IconName: "star", ActivityType: models.ActivityFirstPlay, Points: 5, TriggerValue: 1},
		{Name: "Explorer", Description: "Try three different games", IconName: "compass", ActivityType: models.ActivityGamesPlayed, Points: 15, TriggerValue: 3},
		{Name: "All Rounder", Description: "Play every game at least once", IconName: "trophy", ActivityType: models.ActivityGamesPlayed, Points: 30, TriggerValue: 4},

		{Name: "Number Starter", Description: "Finish level 3 of Counting Fun", IconName: "numbers", ActivityType: models.ActivityLevelComplete, Points: 10, TriggerValue: 3, GameKey: models.GameCounting},
		{Name: "Counting Champion", Description: "Finish all Counting Fun levels", IconName: "medal", ActivityType: models.ActivityLevelComplete, Points: 25, TriggerValue: 10, GameKey: models.GameCounting},
		{Name: "Word Wizard", Description: "Build words through level 5", IconName: "letters", ActivityType: models.ActivityLevelComplete, Points: 15, TriggerValue: 5, GameKey: models.GameWordBuilder},
		{Name: "Spelling Star", Description: "Finish all Word Builder levels", IconName: "medal", ActivityType: models.ActivityLevelComplete, Points: 25, TriggerValue: 10, GameKey: models.GameWordBuilder},
		{Name: "Young Artist", Description: "Color five pictures", IconName: "palette", ActivityType: models.ActivityLevelsCompleted, Points: 10, TriggerValue: 5, GameKey: models.GameColoring},
		{Name: "Luganda Beginner", Description: "Learn your first Luganda words", IconName: "flag", ActivityType: models.ActivityLevelComplete, Points: 10, TriggerValue: 2, GameKey: models.GameLuganda},
		{Name: "Luganda Speaker", Description: "Finish level 8 of Luganda Learning", IconName: "flag", ActivityType: models.ActivityLevelComplete, Points: 30, TriggerValue: 8, GameKey: models.GameLuganda},

		{Name: "Point Collector", Description: "Score 100 points in one game", IconName: "gem", ActivityType: models.ActivityTotalScore, Points: 20, TriggerValue: 100},
		{Name: "High Scorer", Description: "Score 500 points in one game", IconName: "crown", ActivityType: models.ActivityTotalScore, Points: 50, TriggerValue: 500},
	}

	for _, a := range catalog {
		if err := db.Where(models.Achievement{Name: a.Name}).FirstOrCreate(&a).Error; err != nil {
			return err
		}
	}

	return nil
}
