package controllers

import (
	"github.com/AriyoX/baby-steps/config"
	"github.com/AriyoX/baby-steps/models"
	"github.com/AriyoX/baby-steps/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AchievementsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAchievementsController(db *gorm.DB, cfg *config.Config) *AchievementsController {
	return &AchievementsController{DB: db, Cfg: cfg}
}

// GetCatalog godoc
// @Summary List the achievement catalog
// @Description Ordered by points descending then name, like the engine output
// @Tags achievements
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /achievements [get]
func (ac *AchievementsController) GetCatalog(c *fiber.Ctx) error {
	catalog := []models.Achievement{}
	ac.DB.Order("points DESC, name").Find(&catalog)

	return utils.Success(c, fiber.StatusOK, catalog)
}

// GetChildAchievements godoc
// @Summary List a child's earned achievements
// @Description Earned rows with their definitions plus the total points
// @Tags achievements
// @Produce json
// @Param id path string true "Child ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /children/{id}/achievements [get]
func (ac *AchievementsController) GetChildAchievements(c *fiber.Ctx) error {
	child, err := loadOwnedChild(ac.DB, ac.Cfg, c)
	if err != nil {
		return utils.Error(c, err.(*fiber.Error).Code, err)
	}

	earned := []models.ChildAchievement{}
	ac.DB.Preload("Achievement").
		Where("child_id = ?", child.ID).
		Order("earned_at DESC").
		Find(&earned)

	totalPoints := 0
	for _, row := range earned {
		totalPoints += row.Achievement.Points
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"earned":       earned,
		"total_points": totalPoints,
	})
}
