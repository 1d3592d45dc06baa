package controllers

import (
	"errors"
	"path/filepath"

	"complaint-tracking-backend/complaints/repositories"
	"complaint-tracking-backend/complaints/services"
	"complaint-tracking-backend/config"
	"complaint-tracking-backend/db/models"
	documents_services "complaint-tracking-backend/documents/services"
	"complaint-tracking-backend/middleware"
	search_repositories "complaint-tracking-backend/search/repositories"
	"complaint-tracking-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ComplaintController struct {
	Service    *services.ComplaintService
	Repo       repositories.ComplaintRepository
	SearchRepo search_repositories.ComplaintSearchRepository
	Documents  *documents_services.DocumentService
}

// respondError maps the lifecycle engine's error taxonomy onto HTTP.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Something went wrong"

	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrDepartmentNotFound):
		status = fiber.StatusNotFound
		message = err.Error()
	case errors.Is(err, services.ErrForbidden):
		status = fiber.StatusForbidden
		message = err.Error()
	case errors.Is(err, services.ErrDepartmentInactive),
		errors.Is(err, services.ErrInvalidDocumentRef),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrDepartmentMismatch),
		errors.Is(err, services.ErrEmptyText),
		errors.Is(err, services.ErrValidation):
		status = fiber.StatusBadRequest
		message = err.Error()
	default:
		config.Logger.Error("Complaint operation failed", zap.Error(err))
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// CreateComplaintController accepts public and authenticated submissions.
func (cc *ComplaintController) CreateComplaintController(c *fiber.Ctx) error {
	var input services.CreateComplaintInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	actor := middleware.ActorFromLocals(c)
	complaint, err := cc.Service.CreateComplaint(&input, actor)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    complaint,
		"message": "Complaint registered. Use the complaint number to track progress.",
	})
}

// GetFilteredComplaintsController is the general listing. Citizens only
// ever see their own submissions; staff roles see the full set.
func (cc *ComplaintController) GetFilteredComplaintsController(c *fiber.Ctx) error {
	actor := middleware.ActorFromLocals(c)
	if err := services.Authorize(services.OpListComplaints, actor, nil); err != nil {
		return respondError(c, err)
	}

	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	var ownerID *uuid.UUID
	if actor.Role == models.UserRole {
		id := actor.UserID
		ownerID = &id
	}

	offset := (params.Page - 1) * params.PageSize
	complaints, total, err := cc.Repo.GetFilteredComplaints(params.PageSize, offset, params.Filters, ownerID)
	if err != nil {
		config.Logger.Error("Failed to list complaints", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not retrieve complaints",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    pagination.NewPaginatedResponse(c, complaints, total, params),
	})
}

func (cc *ComplaintController) GetComplaintController(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid complaint ID",
		})
	}

	complaint, err := cc.Service.GetComplaint(id, middleware.ActorFromLocals(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    complaint,
	})
}

// GetComplaintFilesController lists the documents attached to a
// complaint with freshly signed download URLs. Scoped like the detail
// endpoint: citizens only reach their own submissions.
func (cc *ComplaintController) GetComplaintFilesController(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid complaint ID",
		})
	}

	if _, err := cc.Service.GetComplaint(id, middleware.ActorFromLocals(c)); err != nil {
		return respondError(c, err)
	}

	views, err := cc.Documents.FilesForComplaint(id)
	if err != nil {
		config.Logger.Error("Failed to list complaint files", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not retrieve complaint files",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(views),
		"data":    views,
	})
}

type UpdateStatusRequest struct {
	Status            string  `json:"status"`
	ResolutionSummary *string `json:"resolution_summary"`
}

func (cc *ComplaintController) UpdateStatusController(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid complaint ID",
		})
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	complaint, err := cc.Service.UpdateStatus(
		id,
		middleware.ActorFromLocals(c),
		models.ComplaintStatus(req.Status),
		req.ResolutionSummary,
	)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    complaint,
	})
}

type AssignComplaintRequest struct {
	StaffID *string `json:"staff_id"`
}

func (cc *ComplaintController) AssignComplaintController(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid complaint ID",
		})
	}

	var req AssignComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	var staffID *uuid.UUID
	if req.StaffID != nil && *req.StaffID != "" {
		parsed, err := uuid.Parse(*req.StaffID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid staff ID",
			})
		}
		staffID = &parsed
	}

	complaint, err := cc.Service.AssignComplaint(id, middleware.ActorFromLocals(c), staffID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    complaint,
	})
}

type AddCommentRequest struct {
	Text       string `json:"text"`
	IsInternal bool   `json:"is_internal"`
}

func (cc *ComplaintController) AddCommentController(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid complaint ID",
		})
	}

	var req AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	comment, err := cc.Service.AddComment(id, middleware.ActorFromLocals(c), req.Text, req.IsInternal)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    comment,
	})
}

// TrackComplaintController is the unauthenticated tracking endpoint.
func (cc *ComplaintController) TrackComplaintController(c *fiber.Ctx) error {
	view, err := cc.Service.TrackComplaint(c.Params("complaintNo"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    view,
	})
}

type PublicCommentRequest struct {
	Text string `json:"text"`
}

func (cc *ComplaintController) AddPublicCommentController(c *fiber.Ctx) error {
	var req PublicCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	comment, err := cc.Service.AddPublicComment(c.Params("complaintNo"), req.Text)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"author":     "Complainant",
			"text":       comment.Text,
			"created_at": comment.CreatedAt,
		},
	})
}

func (cc *ComplaintController) GetStatsController(c *fiber.Ctx) error {
	stats, err := cc.Service.GetStats(middleware.ActorFromLocals(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

// ExportStatsController streams the generated workbook for download.
func (cc *ComplaintController) ExportStatsController(c *fiber.Ctx) error {
	filePath, err := cc.Service.ExportStats(middleware.ActorFromLocals(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Download(filePath, filepath.Base(filePath))
}

// GetMyAssignedController returns the caller's personal work queue.
func (cc *ComplaintController) GetMyAssignedController(c *fiber.Ctx) error {
	actor := middleware.ActorFromLocals(c)
	if err := services.Authorize(services.OpListAssigned, actor, nil); err != nil {
		return respondError(c, err)
	}

	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	offset := (params.Page - 1) * params.PageSize
	complaints, total, err := cc.Repo.GetAssignedComplaints(
		actor.UserID, params.Filters["status"], params.PageSize, offset)
	if err != nil {
		config.Logger.Error("Failed to list assigned complaints", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not retrieve complaints",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    pagination.NewPaginatedResponse(c, complaints, total, params),
	})
}

// SearchComplaintsController serves staff search from the bleve index.
func (cc *ComplaintController) SearchComplaintsController(c *fiber.Ctx) error {
	actor := middleware.ActorFromLocals(c)
	if err := services.Authorize(services.OpSearch, actor, nil); err != nil {
		return respondError(c, err)
	}

	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Search query is required",
		})
	}

	result, err := cc.SearchRepo.SearchComplaints(query, c.Query("search_by"))
	if err != nil {
		if errors.Is(err, search_repositories.ErrUnknownSearchField) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
		config.Logger.Error("Complaint search failed", zap.String("query", query), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Search failed",
		})
	}

	hits := make([]map[string]interface{}, 0, len(result.Hits))
	for _, hit := range result.Hits {
		hits = append(hits, hit.Fields)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(hits),
		"data":    hits,
	})
}
