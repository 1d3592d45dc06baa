package routes

import (
	"complaint-tracking-backend/db/models"
	"complaint-tracking-backend/documents/controllers"
	"complaint-tracking-backend/documents/services"
	"complaint-tracking-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

func DocumentRouterInit(
	app *fiber.App,
	documentService *services.DocumentService,
	appContext *middleware.AppContext,
) {
	documentController := &controllers.DocumentController{
		Service: documentService,
	}

	// Uploads and downloads serve the public complaint form too, so the
	// actor is resolved when present but never required.
	publicRoutes := app.Group("/api/v1/files")
	publicRoutes.Use(middleware.OptionalRoute(appContext))
	{
		publicRoutes.Post("/", documentController.UploadFileController)
		publicRoutes.Get("/download/:key", documentController.DownloadFileController)
	}

	staffRoutes := app.Group("/api/v1/files")
	staffRoutes.Use(middleware.ProtectedRoute(appContext))
	{
		staffRoutes.Get("/:id", documentController.GetFileController)
		staffRoutes.Delete("/:id",
			middleware.RequireRoles(models.AdminRole, models.HODRole, models.StaffRole),
			documentController.DeleteFileController)
	}
}
