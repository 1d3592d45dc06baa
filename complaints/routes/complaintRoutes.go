package routes

import (
	"complaint-tracking-backend/complaints/controllers"
	"complaint-tracking-backend/complaints/repositories"
	"complaint-tracking-backend/complaints/services"
	documents_services "complaint-tracking-backend/documents/services"
	"complaint-tracking-backend/middleware"
	search_repositories "complaint-tracking-backend/search/repositories"

	"github.com/gofiber/fiber/v2"
)

func ComplaintRouterInit(
	app *fiber.App,
	complaintService *services.ComplaintService,
	complaintRepo repositories.ComplaintRepository,
	searchRepo search_repositories.ComplaintSearchRepository,
	documentService *documents_services.DocumentService,
	appContext *middleware.AppContext,
) {
	complaintController := &controllers.ComplaintController{
		Service:    complaintService,
		Repo:       complaintRepo,
		SearchRepo: searchRepo,
		Documents:  documentService,
	}

	// Submission and tracking work without an account; the actor is
	// resolved when a session is present so submissions link to it.
	publicRoutes := app.Group("/api/v1/complaints")
	publicRoutes.Use(middleware.OptionalRoute(appContext))
	{
		publicRoutes.Post("/", complaintController.CreateComplaintController)
		publicRoutes.Get("/track/:complaintNo", complaintController.TrackComplaintController)
		publicRoutes.Post("/track/:complaintNo/comments", complaintController.AddPublicCommentController)
	}

	protectedRoutes := app.Group("/api/v1/complaints")
	protectedRoutes.Use(middleware.ProtectedRoute(appContext))
	{
		protectedRoutes.Get("/", complaintController.GetFilteredComplaintsController)
		protectedRoutes.Get("/stats", complaintController.GetStatsController)
		protectedRoutes.Get("/stats/export", complaintController.ExportStatsController)
		protectedRoutes.Get("/assigned/me", complaintController.GetMyAssignedController)
		protectedRoutes.Get("/search", complaintController.SearchComplaintsController)
		protectedRoutes.Get("/:id", complaintController.GetComplaintController)
		protectedRoutes.Get("/:id/files", complaintController.GetComplaintFilesController)
		protectedRoutes.Patch("/:id/status", complaintController.UpdateStatusController)
		protectedRoutes.Patch("/:id/assign", complaintController.AssignComplaintController)
		protectedRoutes.Post("/:id/comments", complaintController.AddCommentController)
	}
}
