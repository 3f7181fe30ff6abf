package controllers

import (
	"github.com/AriyoX/baby-steps/config"
	"github.com/AriyoX/baby-steps/models"
	"github.com/AriyoX/baby-steps/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type ParentController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewParentController(db *gorm.DB, cfg *config.Config) *ParentController {
	return &ParentController{DB: db, Cfg: cfg}
}

// GetProfile godoc
// @Summary Get parent profile
// @Description Returns the authenticated parent's profile with children
// @Tags parent
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /parent/profile [get]
func (pc *ParentController) GetProfile(c *fiber.Ctx) error {
	parentID, err := utils.ExtractParentIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var parent models.Parent
	if err := pc.DB.First(&parent, "id = ?", parentID).Error; err != nil {
		return utils.NotFound(c, "Account not found")
	}

	// Дети с пустым списком по умолчанию при ошибке
	children := []models.Child{}
	pc.DB.Where("parent_id = ?", parentID).Order("created_at").Find(&children)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":         parent.ID,
		"email":      parent.Email,
		"name":       parent.Name,
		"has_pin":    parent.PinHash != "",
		"created_at": parent.CreatedAt,
		"children":   children,
	})
}

// UpdateProfile godoc
// @Summary Update parent profile
// @Description Updates the authenticated parent's email, name or password
// @Tags parent
// @Accept json
// @Produce json
// @Param input body map[string]interface{} true "Profile update data"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /parent/profile [put]
func (pc *ParentController) UpdateProfile(c *fiber.Ctx) error {
	parentID, err := utils.ExtractParentIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Email       string `json:"email"`
		Name        string `json:"name"`
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var parent models.Parent
	if err := pc.DB.First(&parent, "id = ?", parentID).Error; err != nil {
		return utils.NotFound(c, "Account not found")
	}

	// Обновление email
	if input.Email != "" && input.Email != parent.Email {
		var existing models.Parent
		if err := pc.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
			if existing.ID != parent.ID {
				return utils.BadRequest(c, "Email already taken")
			}
		}
		parent.Email = input.Email
	}

	if input.Name != "" {
		parent.Name = input.Name
	}

	// Обновление пароля
	if input.NewPassword != "" {
		if input.OldPassword == "" {
			return utils.BadRequest(c, "Old password is required to set new password")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(parent.PasswordHash), []byte(input.OldPassword)); err != nil {
			return utils.Unauthorized(c, "Invalid old password")
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return utils.InternalServerError(c, "Could not hash password")
		}
		parent.PasswordHash = string(hashedPassword)
	}

	if err := pc.DB.Save(&parent).Error; err != nil {
		return utils.InternalServerError(c, "Could not update account")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Profile updated successfully",
	})
}
