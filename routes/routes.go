package routes

import (
	"log"

	"github.com/AriyoX/baby-steps/config"
	"github.com/AriyoX/baby-steps/controllers"
	"github.com/AriyoX/baby-steps/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *log.Logger) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)

	// Parent routes
	parentController := controllers.NewParentController(db, cfg)
	app.Get("/api/parent/profile", authMiddleware, parentController.GetProfile)
	app.Put("/api/parent/profile", authMiddleware, parentController.UpdateProfile)
	app.Post("/api/parent/pin", authMiddleware, authController.SetPin)
	app.Post("/api/parent/pin/verify", authMiddleware, authController.VerifyPin)

	// Children routes
	childrenController := controllers.NewChildrenController(db, cfg)
	children := app.Group("/api/children", authMiddleware)
	children.Post("/", childrenController.CreateChild)
	children.Get("/", childrenController.GetChildren)
	children.Get("/:id", childrenController.GetChild)
	children.Put("/:id", childrenController.UpdateChild)
	children.Delete("/:id", childrenController.DeleteChild)

	// Games and progress routes
	progressController := controllers.NewProgressController(db, cfg)
	app.Get("/api/games", authMiddleware, progressController.GetGames)
	children.Get("/:id/progress", progressController.GetAllProgress)
	children.Get("/:id/progress/:gameKey", progressController.GetProgress)
	children.Put("/:id/progress/:gameKey", progressController.UpsertProgress)

	// Activities routes
	activitiesController := controllers.NewActivitiesController(db, cfg, logger)
	children.Post("/:id/activities", activitiesController.SaveActivity)
	children.Get("/:id/activities", activitiesController.GetActivities)

	// Achievements routes
	achievementsController := controllers.NewAchievementsController(db, cfg)
	app.Get("/api/achievements", authMiddleware, achievementsController.GetCatalog)
	children.Get("/:id/achievements", achievementsController.GetChildAchievements)
}
