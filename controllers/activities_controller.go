package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"sort"
	"strconv"

	"github.com/AriyoX/baby-steps/achievements"
	"github.com/AriyoX/baby-steps/config"
	"github.com/AriyoX/baby-steps/models"
	"github.com/AriyoX/baby-steps/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivitiesController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Engine *achievements.Engine
	Logger *log.Logger
}

func NewActivitiesController(db *gorm.DB, cfg *config.Config, logger *log.Logger) *ActivitiesController {
	return &ActivitiesController{
		DB:     db,
		Cfg:    cfg,
		Engine: achievements.NewEngine(db, logger),
		Logger: logger,
	}
}

// SaveActivity godoc
// @Summary Save a gameplay activity
// @Description Mirrors the event into the progress blob, records it and runs
// @Description the achievement engine; newly earned achievements are returned
// @Tags activities
// @Accept json
// @Produce json
// @Param id path string true "Child ID"
// @Param input body map[string]interface{} true "Activity event"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /children/{id}/activities [post]
func (ac *ActivitiesController) SaveActivity(c *fiber.Ctx) error {
	child, err := loadOwnedChild(ac.DB, ac.Cfg, c)
	if err != nil {
		return utils.Error(c, err.(*fiber.Error).Code, err)
	}

	var input struct {
		GameKey      string `json:"game_key"`
		ActivityType string `json:"activity_type"`
		Value        int    `json:"value"`
		Score        int    `json:"score"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if !models.ValidGameKey(input.GameKey) {
		return utils.BadRequest(c, "Unknown game")
	}
	if input.ActivityType == "" {
		return utils.BadRequest(c, "Activity type is required")
	}

	if err := ac.mirrorProgress(child.ID, input.GameKey, input.ActivityType, input.Value, input.Score); err != nil {
		return utils.InternalServerError(c, "Could not save progress")
	}

	activity := models.ActivityLog{
		ChildID:      child.ID,
		GameKey:      input.GameKey,
		ActivityType: input.ActivityType,
		Value:        input.Value,
		Score:        input.Score,
	}
	if err := ac.DB.Create(&activity).Error; err != nil {
		return utils.InternalServerError(c, "Could not save activity")
	}

	newAchievements, err := ac.Engine.Evaluate(achievements.Event{
		ChildID:      child.ID,
		GameKey:      input.GameKey,
		ActivityType: input.ActivityType,
		Value:        input.Value,
		Score:        input.Score,
	})
	if err != nil {
		// Активность сохранена, достижения догонят при следующем событии
		ac.Logger.Printf("achievement evaluation failed for child %s: %v", child.ID, err)
		newAchievements = []models.Achievement{}
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"activity":         activity,
		"new_achievements": newAchievements,
	})
}

// GetActivities godoc
// @Summary List recent activity for a child
// @Tags activities
// @Produce json
// @Param id path string true "Child ID"
// @Param limit query int false "Max rows" default(20)
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /children/{id}/activities [get]
func (ac *ActivitiesController) GetActivities(c *fiber.Ctx) error {
	child, err := loadOwnedChild(ac.DB, ac.Cfg, c)
	if err != nil {
		return utils.Error(c, err.(*fiber.Error).Code, err)
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	activities := []models.ActivityLog{}
	ac.DB.Where("child_id = ?", child.ID).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities)

	return utils.Success(c, fiber.StatusOK, activities)
}

// mirrorProgress applies one event to the child's per-game blob, creating it
// on first play. Level completions advance current_level and extend the
// completed set; scores accumulate.
func (ac *ActivitiesController) mirrorProgress(childID uuid.UUID, gameKey, activityType string, value, score int) error {
	var progress models.GameProgress
	err := ac.DB.Where("child_id = ? AND game_key = ?", childID, gameKey).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = models.GameProgress{
			ChildID:         childID,
			GameKey:         gameKey,
			CurrentLevel:    1,
			CurrentStage:    1,
			CompletedLevels: "[]",
		}
	} else if err != nil {
		return err
	}

	if activityType == models.ActivityLevelComplete && value > 0 {
		if value+1 > progress.CurrentLevel {
			progress.CurrentLevel = value + 1
		}
		progress.CompletedLevels = appendLevel(progress.CompletedLevels, value)
	}
	progress.TotalScore += score

	return ac.DB.Save(&progress).Error
}

// appendLevel adds level to the JSON array in blob, keeping it sorted and
// duplicate-free. A malformed blob is replaced rather than propagated.
func appendLevel(blob string, level int) string {
	var levels []int
	if err := json.Unmarshal([]byte(blob), &levels); err != nil {
		levels = nil
	}
	for _, l := range levels {
		if l == level {
			return blob
		}
	}
	levels = append(levels, level)
	sort.Ints(levels)
	out, err := json.Marshal(levels)
	if err != nil {
		return blob
	}
	return string(out)
}
