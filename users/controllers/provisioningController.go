package controllers

import (
	"errors"

	"complaint-tracking-backend/config"
	"complaint-tracking-backend/db/models"
	"complaint-tracking-backend/middleware"
	"complaint-tracking-backend/users/services"
	"complaint-tracking-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProvisionActorRequest is shared by staff and HOD provisioning. The
// generated temporary credential is delivered out-of-band only and never
// echoed in the response.
type ProvisionActorRequest struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone"`
	DepartmentID string  `json:"department_id"`
}

func (uc *UserController) provisionActor(c *fiber.Ctx, role models.Role) error {
	var req ProvisionActorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if req.Name == "" || req.Email == "" || req.DepartmentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Name, email and department are required",
		})
	}

	// HODs may provision staff only inside their own department
	actor := middleware.ActorFromLocals(c)
	if actor.Role == models.HODRole {
		hod, err := uc.Repo.GetUserByID(actor.UserID.String())
		if err != nil || hod.AssignedDepartmentID == nil || hod.AssignedDepartmentID.String() != req.DepartmentID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "You can only add staff to your own department",
			})
		}
	}

	created, err := uc.Provisioning.ProvisionActor(role, req.DepartmentID, req.Name, req.Email, req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDepartmentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		case errors.Is(err, services.ErrEmailInUse), errors.Is(err, services.ErrHODExists):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		default:
			config.Logger.Error("Provisioning failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Could not provision account",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    created,
		"message": "Credentials have been sent to the new account",
	})
}

// CreateStaffController provisions a staff account (admin or HOD).
func (uc *UserController) CreateStaffController(c *fiber.Ctx) error {
	return uc.provisionActor(c, models.StaffRole)
}

// CreateHODController provisions a head of department (admin only).
func (uc *UserController) CreateHODController(c *fiber.Ctx) error {
	return uc.provisionActor(c, models.HODRole)
}

func (uc *UserController) GetHODsController(c *fiber.Ctx) error {
	hods, err := uc.Repo.GetHODs()
	if err != nil {
		config.Logger.Error("Failed to list HODs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not retrieve HODs",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(hods),
		"data":    hods,
	})
}

// GetDepartmentStaffController lists staff of a department. HODs are
// restricted to their own department.
func (uc *UserController) GetDepartmentStaffController(c *fiber.Ctx) error {
	departmentID := c.Params("departmentId")
	actor := middleware.ActorFromLocals(c)

	if actor.Role == models.HODRole {
		hod, err := uc.Repo.GetUserByID(actor.UserID.String())
		if err != nil || hod.AssignedDepartmentID == nil || hod.AssignedDepartmentID.String() != departmentID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "You can only view staff of your own department",
			})
		}
	}

	staff, err := uc.Repo.GetDepartmentStaff(departmentID)
	if err != nil {
		config.Logger.Error("Failed to list department staff", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not retrieve staff",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(staff),
		"data":    staff,
	})
}

// ToggleUserActiveController flips the active flag. Accounts are never
// hard-deleted.
func (uc *UserController) ToggleUserActiveController(c *fiber.Ctx) error {
	user, err := uc.Repo.GetUserByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not retrieve user",
		})
	}

	user.IsActive = !user.IsActive
	updated, err := uc.Repo.UpdateUser(user)
	if err != nil {
		config.Logger.Error("Failed to toggle user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not update user",
		})
	}

	config.Logger.Info("User activation toggled",
		zap.String("userID", updated.ID.String()),
		zap.Bool("is_active", updated.IsActive),
	)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    updated,
	})
}

func (uc *UserController) GetFilteredUsersController(c *fiber.Ctx) error {
	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	offset := (params.Page - 1) * params.PageSize
	users, total, err := uc.Repo.GetFilteredUsers(params.PageSize, offset, params.Filters)
	if err != nil {
		config.Logger.Error("Failed to list users", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not retrieve users",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    pagination.NewPaginatedResponse(c, users, total, params),
	})
}
