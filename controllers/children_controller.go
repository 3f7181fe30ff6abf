package controllers

import (
	"github.com/AriyoX/baby-steps/config"
	"github.com/AriyoX/baby-steps/models"
	"github.com/AriyoX/baby-steps/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChildrenController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewChildrenController(db *gorm.DB, cfg *config.Config) *ChildrenController {
	return &ChildrenController{DB: db, Cfg: cfg}
}

// loadOwnedChild resolves the :id route param to a child owned by the
// authenticated parent. Children of other parents come back as not found.
func loadOwnedChild(db *gorm.DB, cfg *config.Config, c *fiber.Ctx) (*models.Child, error) {
	parentID, err := utils.ExtractParentIDFromToken(c, cfg)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	childID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid child ID")
	}

	var child models.Child
	if err := db.Where("id = ? AND parent_id = ?", childID, parentID).First(&child).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Child not found")
	}

	return &child, nil
}

// CreateChild godoc
// @Summary Create a child profile
// @Tags children
// @Accept json
// @Produce json
// @Param input body map[string]interface{} true "Child profile data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /children [post]
func (cc *ChildrenController) CreateChild(c *fiber.Ctx) error {
	parentID, err := utils.ExtractParentIDFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Name       string `json:"name"`
		Age        int    `json:"age"`
		AvatarName string `json:"avatar_name"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Name == "" {
		return utils.BadRequest(c, "Name is required")
	}

	child := models.Child{
		ParentID:   parentID,
		Name:       input.Name,
		Age:        input.Age,
		AvatarName: input.AvatarName,
	}
	if err := cc.DB.Create(&child).Error; err != nil {
		return utils.InternalServerError(c, "Could not create child profile")
	}

	return utils.Created(c, child)
}

// GetChildren godoc
// @Summary List the parent's children
// @Tags children
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /children [get]
func (cc *ChildrenController) GetChildren(c *fiber.Ctx) error {
	parentID, err := utils.ExtractParentIDFromToken(c, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	// При ошибке отдаем пустой список
	children := []models.Child{}
	cc.DB.Where("parent_id = ?", parentID).Order("created_at").Find(&children)

	return utils.Success(c, fiber.StatusOK, children)
}

// GetChild godoc
// @Summary Get one child profile
// @Tags children
// @Produce json
// @Param id path string true "Child ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /children/{id} [get]
func (cc *ChildrenController) GetChild(c *fiber.Ctx) error {
	child, err := loadOwnedChild(cc.DB, cc.Cfg, c)
	if err != nil {
		return utils.Error(c, err.(*fiber.Error).Code, err)
	}

	return utils.Success(c, fiber.StatusOK, child)
}

// UpdateChild godoc
// @Summary Update a child profile
// @Tags children
// @Accept json
// @Produce json
// @Param id path string true "Child ID"
// @Param input body map[string]interface{} true "Child profile data"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /children/{id} [put]
func (cc *ChildrenController) UpdateChild(c *fiber.Ctx) error {
	child, err := loadOwnedChild(cc.DB, cc.Cfg, c)
	if err != nil {
		return utils.Error(c, err.(*fiber.Error).Code, err)
	}

	var input struct {
		Name       string `json:"name"`
		Age        int    `json:"age"`
		AvatarName string `json:"avatar_name"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Name != "" {
		child.Name = input.Name
	}
	if input.Age > 0 {
		child.Age = input.Age
	}
	if input.AvatarName != "" {
		child.AvatarName = input.AvatarName
	}

	if err := cc.DB.Save(child).Error; err != nil {
		return utils.InternalServerError(c, "Could not update child profile")
	}

	return utils.Success(c, fiber.StatusOK, child)
}

// DeleteChild godoc
// @Summary Delete a child profile
// @Description Removes the profile with its progress and achievements
// @Tags children
// @Param id path string true "Child ID"
// @Success 204
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /children/{id} [delete]
func (cc *ChildrenController) DeleteChild(c *fiber.Ctx) error {
	child, err := loadOwnedChild(cc.DB, cc.Cfg, c)
	if err != nil {
		return utils.Error(c, err.(*fiber.Error).Code, err)
	}

	// Связанные записи убираются вместе с профилем
	cc.DB.Where("child_id = ?", child.ID).Delete(&models.ChildAchievement{})
	cc.DB.Where("child_id = ?", child.ID).Delete(&models.GameProgress{})
	cc.DB.Where("child_id = ?", child.ID).Delete(&models.ActivityLog{})

	if err := cc.DB.Delete(child).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete child profile")
	}

	return utils.NoContent(c)
}
