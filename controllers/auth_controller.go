package controllers

import (
	"errors"
	"regexp"
	"time"

	"github.com/AriyoX/baby-steps/config"
	"github.com/AriyoX/baby-steps/models"
	"github.com/AriyoX/baby-steps/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, Cfg: cfg}
}

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// [+] Register godoc
// @Summary Register a new parent account
// @Description Creates a parent account and returns a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body map[string]interface{} true "Parent registration data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Email == "" || input.Password == "" {
		return utils.BadRequest(c, "Email and password are required")
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}

	parent := models.Parent{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: string(hashedPassword),
	}
	if err := ac.DB.Create(&parent).Error; err != nil {
		return utils.InternalServerError(c, "Could not create account")
	}

	token, err := utils.GenerateJWTToken(parent.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return c.JSON(fiber.Map{
		"token": token,
		"parent": fiber.Map{
			"id":    parent.ID,
			"email": parent.Email,
			"name":  parent.Name,
		},
	})
}

// [+] Login godoc
// @Summary Parent login
// @Description Authenticate a parent and return a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body map[string]interface{} true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var parent models.Parent
	if err := ac.DB.Where("email = ?", input.Email).First(&parent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Unauthorized(c, "Invalid credentials")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(parent.PasswordHash), []byte(input.Password)); err != nil {
		return utils.Unauthorized(c, "Invalid credentials")
	}

	token, err := utils.GenerateJWTToken(parent.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	// История входов — best effort
	ac.DB.Create(&models.LoginHistory{ParentID: parent.ID, LoginTime: time.Now()})

	return c.JSON(fiber.Map{
		"token": token,
		"parent": fiber.Map{
			"id":      parent.ID,
			"email":   parent.Email,
			"name":    parent.Name,
			"has_pin": parent.PinHash != "",
		},
	})
}

// SetPin godoc
// @Summary Set the parental gate PIN
// @Description Stores a bcrypt hash of a 4-digit PIN on the parent account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body map[string]interface{} true "PIN"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /parent/pin [post]
func (ac *AuthController) SetPin(c *fiber.Ctx) error {
	parentID, err := utils.ExtractParentIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Pin string `json:"pin"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if !pinPattern.MatchString(input.Pin) {
		return utils.BadRequest(c, "PIN must be exactly 4 digits")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Pin), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash PIN")
	}

	if err := ac.DB.Model(&models.Parent{}).
		Where("id = ?", parentID).
		Update("pin_hash", string(hashed)).Error; err != nil {
		return utils.InternalServerError(c, "Could not save PIN")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "PIN updated",
	})
}

// VerifyPin godoc
// @Summary Verify the parental gate PIN
// @Description Checks a 4-digit PIN against the stored hash
// @Tags auth
// @Accept json
// @Produce json
// @Param request body map[string]interface{} true "PIN"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /parent/pin/verify [post]
func (ac *AuthController) VerifyPin(c *fiber.Ctx) error {
	parentID, err := utils.ExtractParentIDFromToken(c, ac.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Pin string `json:"pin"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var parent models.Parent
	if err := ac.DB.First(&parent, "id = ?", parentID).Error; err != nil {
		return utils.NotFound(c, "Account not found")
	}

	if parent.PinHash == "" {
		return utils.BadRequest(c, "No PIN has been set")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(parent.PinHash), []byte(input.Pin)); err != nil {
		return utils.Unauthorized(c, "Incorrect PIN")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"verified": true,
	})
}
