package controllers

import (
	"errors"

	"complaint-tracking-backend/config"
	"complaint-tracking-backend/db/models"
	"complaint-tracking-backend/departments/repositories"
	"complaint-tracking-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DepartmentController struct {
	Repo repositories.DepartmentRepository
	DB   *gorm.DB
}

// CreateDepartmentRequest represents the request body for creating a department
type CreateDepartmentRequest struct {
	Name            string  `json:"name"`
	NameUrdu        *string `json:"name_urdu"`
	Type            string  `json:"type"`
	Description     *string `json:"description"`
	DescriptionUrdu *string `json:"description_urdu"`
	ContactEmail    *string `json:"contact_email"`
	ContactPhone    *string `json:"contact_phone"`
	Address         *string `json:"address"`
	IsActive        bool    `json:"is_active"`
}

func (dc *DepartmentController) CreateDepartmentController(c *fiber.Ctx) error {
	var req CreateDepartmentRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Department name is required",
		})
	}

	deptType := models.DepartmentType(req.Type)
	if req.Type == "" {
		deptType = models.HousingProjectsDepartment
	} else if !models.ValidDepartmentType(deptType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid department type",
		})
	}

	department := models.Department{
		ID:              uuid.New(),
		Name:            req.Name,
		NameUrdu:        req.NameUrdu,
		Type:            deptType,
		Description:     req.Description,
		DescriptionUrdu: req.DescriptionUrdu,
		ContactEmail:    req.ContactEmail,
		ContactPhone:    req.ContactPhone,
		Address:         req.Address,
		IsActive:        req.IsActive,
	}

	created, err := dc.Repo.CreateDepartment(&department)
	if err != nil {
		config.Logger.Error("Failed to create department", zap.Error(err))
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	config.Logger.Info("Department created successfully",
		zap.String("departmentID", department.ID.String()),
		zap.String("departmentName", department.Name))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    created,
	})
}

// GetActiveDepartmentsController lists active departments for the public
// complaint form.
func (dc *DepartmentController) GetActiveDepartmentsController(c *fiber.Ctx) error {
	departments, err := dc.Repo.GetActiveDepartments()
	if err != nil {
		config.Logger.Error("Failed to list active departments", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not retrieve departments",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(departments),
		"data":    departments,
	})
}

func (dc *DepartmentController) GetFilteredDepartmentsController(c *fiber.Ctx) error {
	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	offset := (params.Page - 1) * params.PageSize
	departments, total, err := dc.Repo.GetFilteredDepartments(params.PageSize, offset, params.Filters)
	if err != nil {
		config.Logger.Error("Failed to list departments", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not retrieve departments",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    pagination.NewPaginatedResponse(c, departments, total, params),
	})
}

func (dc *DepartmentController) GetDepartmentController(c *fiber.Ctx) error {
	department, err := dc.Repo.GetDepartmentByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Department not found",
			})
		}
		config.Logger.Error("Failed to fetch department", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not retrieve department",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    department,
	})
}

// UpdateDepartmentRequest carries the mutable department fields. Changing
// the type code never renumbers existing complaints.
type UpdateDepartmentRequest struct {
	Name            *string `json:"name"`
	NameUrdu        *string `json:"name_urdu"`
	Type            *string `json:"type"`
	Description     *string `json:"description"`
	DescriptionUrdu *string `json:"description_urdu"`
	ContactEmail    *string `json:"contact_email"`
	ContactPhone    *string `json:"contact_phone"`
	Address         *string `json:"address"`
	IsActive        *bool   `json:"is_active"`
}

func (dc *DepartmentController) UpdateDepartmentController(c *fiber.Ctx) error {
	department, err := dc.Repo.GetDepartmentByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Department not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not retrieve department",
		})
	}

	var req UpdateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if req.Type != nil {
		deptType := models.DepartmentType(*req.Type)
		if !models.ValidDepartmentType(deptType) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid department type",
			})
		}
		department.Type = deptType
	}
	if req.Name != nil {
		department.Name = *req.Name
	}
	if req.NameUrdu != nil {
		department.NameUrdu = req.NameUrdu
	}
	if req.Description != nil {
		department.Description = req.Description
	}
	if req.DescriptionUrdu != nil {
		department.DescriptionUrdu = req.DescriptionUrdu
	}
	if req.ContactEmail != nil {
		department.ContactEmail = req.ContactEmail
	}
	if req.ContactPhone != nil {
		department.ContactPhone = req.ContactPhone
	}
	if req.Address != nil {
		department.Address = req.Address
	}
	if req.IsActive != nil {
		department.IsActive = *req.IsActive
	}

	updated, err := dc.Repo.UpdateDepartment(department)
	if err != nil {
		config.Logger.Error("Failed to update department", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not update department",
		})
	}

	config.Logger.Info("Department updated",
		zap.String("departmentID", updated.ID.String()))

	return c.JSON(fiber.Map{
		"success": true,
		"data":    updated,
	})
}
