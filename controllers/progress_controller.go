package controllers

import (
	"errors"

	"github.com/AriyoX/baby-steps/config"
	"github.com/AriyoX/baby-steps/models"
	"github.com/AriyoX/baby-steps/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewProgressController(db *gorm.DB, cfg *config.Config) *ProgressController {
	return &ProgressController{DB: db, Cfg: cfg}
}

// GetGames godoc
// @Summary List the mini-game catalog
// @Tags games
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /games [get]
func (pc *ProgressController) GetGames(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, models.Games)
}

// GetAllProgress godoc
// @Summary Get all progress blobs for a child
// @Tags progress
// @Produce json
// @Param id path string true "Child ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /children/{id}/progress [get]
func (pc *ProgressController) GetAllProgress(c *fiber.Ctx) error {
	child, err := loadOwnedChild(pc.DB, pc.Cfg, c)
	if err != nil {
		return utils.Error(c, err.(*fiber.Error).Code, err)
	}

	progress := []models.GameProgress{}
	pc.DB.Where("child_id = ?", child.ID).Order("game_key").Find(&progress)

	return utils.Success(c, fiber.StatusOK, progress)
}

// GetProgress godoc
// @Summary Get one game's progress blob
// @Description Returns the stored blob, or a default blob before first play
// @Tags progress
// @Produce json
// @Param id path string true "Child ID"
// @Param gameKey path string true "Game key"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /children/{id}/progress/{gameKey} [get]
func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	child, err := loadOwnedChild(pc.DB, pc.Cfg, c)
	if err != nil {
		return utils.Error(c, err.(*fiber.Error).Code, err)
	}

	gameKey := c.Params("gameKey")
	if !models.ValidGameKey(gameKey) {
		return utils.BadRequest(c, "Unknown game")
	}

	var progress models.GameProgress
	err = pc.DB.Where("child_id = ? AND game_key = ?", child.ID, gameKey).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// До первой игры — дефолтный бланк
		progress = models.GameProgress{
			ChildID:         child.ID,
			GameKey:         gameKey,
			CurrentLevel:    1,
			CurrentStage:    1,
			CompletedLevels: "[]",
		}
	} else if err != nil {
		return utils.InternalServerError(c, "Could not load progress")
	}

	return utils.Success(c, fiber.StatusOK, progress)
}

// UpsertProgress godoc
// @Summary Save one game's progress blob
// @Description Mirrors the client blob, last write wins
// @Tags progress
// @Accept json
// @Produce json
// @Param id path string true "Child ID"
// @Param gameKey path string true "Game key"
// @Param input body map[string]interface{} true "Progress blob"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /children/{id}/progress/{gameKey} [put]
func (pc *ProgressController) UpsertProgress(c *fiber.Ctx) error {
	child, err := loadOwnedChild(pc.DB, pc.Cfg, c)
	if err != nil {
		return utils.Error(c, err.(*fiber.Error).Code, err)
	}

	gameKey := c.Params("gameKey")
	if !models.ValidGameKey(gameKey) {
		return utils.BadRequest(c, "Unknown game")
	}

	var input struct {
		CurrentLevel    int    `json:"current_level"`
		CurrentStage    int    `json:"current_stage"`
		CompletedLevels string `json:"completed_levels"`
		TotalScore      int    `json:"total_score"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.CurrentLevel < 1 {
		input.CurrentLevel = 1
	}
	if input.CurrentStage < 1 {
		input.CurrentStage = 1
	}
	if input.CompletedLevels == "" {
		input.CompletedLevels = "[]"
	}

	progress := models.GameProgress{
		ChildID:         child.ID,
		GameKey:         gameKey,
		CurrentLevel:    input.CurrentLevel,
		CurrentStage:    input.CurrentStage,
		CompletedLevels: input.CompletedLevels,
		TotalScore:      input.TotalScore,
	}

	// Last write wins при конкурентных записях с разных устройств
	if err := pc.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "child_id"}, {Name: "game_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"current_level", "current_stage", "completed_levels", "total_score", "updated_at",
		}),
	}).Create(&progress).Error; err != nil {
		return utils.InternalServerError(c, "Could not save progress")
	}

	return utils.Success(c, fiber.StatusOK, progress)
}
