package routes

import (
	"complaint-tracking-backend/db/models"
	"complaint-tracking-backend/departments/controllers"
	"complaint-tracking-backend/departments/repositories"
	"complaint-tracking-backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func DepartmentRouterInit(
	app *fiber.App,
	db *gorm.DB,
	departmentRepo repositories.DepartmentRepository,
	appContext *middleware.AppContext,
) {
	departmentController := &controllers.DepartmentController{
		Repo: departmentRepo,
		DB:   db,
	}

	// Public: the complaint form needs the active department list
	publicRoutes := app.Group("/api/v1")
	publicRoutes.Get("/departments/active", departmentController.GetActiveDepartmentsController)

	// Admin-only department management
	adminRoutes := app.Group("/api/v1/departments")
	adminRoutes.Use(middleware.ProtectedRoute(appContext))
	adminRoutes.Use(middleware.RequireRoles(models.AdminRole))
	{
		adminRoutes.Get("/", departmentController.GetFilteredDepartmentsController)
		adminRoutes.Post("/", departmentController.CreateDepartmentController)
		adminRoutes.Get("/:id", departmentController.GetDepartmentController)
		adminRoutes.Patch("/:id", departmentController.UpdateDepartmentController)
	}
}
