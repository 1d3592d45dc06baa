package routes

import (
	"complaint-tracking-backend/db/models"
	departments_repositories "complaint-tracking-backend/departments/repositories"
	"complaint-tracking-backend/middleware"
	"complaint-tracking-backend/token"
	"complaint-tracking-backend/users/controllers"
	"complaint-tracking-backend/users/repositories"
	"complaint-tracking-backend/users/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func UserRouterInit(
	app *fiber.App,
	db *gorm.DB,
	userRepo repositories.UserRepository,
	departmentRepo departments_repositories.DepartmentRepository,
	tokenMaker token.Maker,
	notifier services.CredentialsNotifier,
	appContext *middleware.AppContext,
) {
	userController := &controllers.UserController{
		Repo:         userRepo,
		DB:           db,
		Ctx:          appContext.Ctx,
		RedisClient:  appContext.RedisClient,
		TokenMaker:   tokenMaker,
		Provisioning: services.NewProvisioningService(userRepo, departmentRepo, notifier),
	}

	publicRoutes := app.Group("/api/v1/auth")
	publicRoutes.Post("/register", userController.RegisterController)
	publicRoutes.Post("/login", userController.LoginController)

	authRoutes := app.Group("/api/v1/auth")
	authRoutes.Use(middleware.ProtectedRoute(appContext))
	{
		authRoutes.Post("/logout", userController.LogoutController)
		authRoutes.Get("/me", userController.GetMeController)
		authRoutes.Patch("/me", userController.UpdateProfileController)
		authRoutes.Post("/change-password", userController.ChangePasswordController)
	}

	userRoutes := app.Group("/api/v1/users")
	userRoutes.Use(middleware.ProtectedRoute(appContext))
	{
		// Staff provisioning is open to HODs for their own department
		userRoutes.Post("/staff",
			middleware.RequireRoles(models.AdminRole, models.HODRole),
			userController.CreateStaffController)
		userRoutes.Get("/staff/:departmentId",
			middleware.RequireRoles(models.AdminRole, models.HODRole),
			userController.GetDepartmentStaffController)

		userRoutes.Post("/hods",
			middleware.RequireRoles(models.AdminRole),
			userController.CreateHODController)
		userRoutes.Get("/hods",
			middleware.RequireRoles(models.AdminRole),
			userController.GetHODsController)

		userRoutes.Get("/",
			middleware.RequireRoles(models.AdminRole),
			userController.GetFilteredUsersController)
		userRoutes.Patch("/:id/toggle-active",
			middleware.RequireRoles(models.AdminRole),
			userController.ToggleUserActiveController)
	}
}
