package repositories

import (
	"errors"
	"fmt"
	"strings"

	"complaint-tracking-backend/db/models"

	"gorm.io/gorm"
)

type DepartmentRepository interface {
	CreateDepartment(department *models.Department) (*models.Department, error)
	GetDepartmentByID(id string) (*models.Department, error)
	GetActiveDepartments() ([]models.Department, error)
	UpdateDepartment(department *models.Department) (*models.Department, error)
	GetFilteredDepartments(pageSize int, offset int, filters map[string]string) ([]models.Department, int64, error)
}

type departmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) CreateDepartment(department *models.Department) (*models.Department, error) {
	// Check if department with same name already exists (including soft-deleted)
	var existing models.Department
	err := r.db.Unscoped().Where("name = ?", department.Name).First(&existing).Error
	if err == nil {
		if existing.DeletedAt.Valid {
			// Soft-deleted: restore and update
			existing.DeletedAt = gorm.DeletedAt{}
			existing.NameUrdu = department.NameUrdu
			existing.Type = department.Type
			existing.Description = department.Description
			existing.DescriptionUrdu = department.DescriptionUrdu
			existing.ContactEmail = department.ContactEmail
			existing.ContactPhone = department.ContactPhone
			existing.Address = department.Address
			existing.IsActive = department.IsActive

			if err := r.db.Unscoped().Save(&existing).Error; err != nil {
				return nil, fmt.Errorf("failed to restore soft-deleted department: %w", err)
			}
			return &existing, nil
		}
		return nil, fmt.Errorf("a department with that name already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check for existing department: %w", err)
	}

	if err := r.db.Create(department).Error; err != nil {
		return nil, fmt.Errorf("failed to create department in database: %w", err)
	}

	return department, nil
}

func (r *departmentRepository) GetDepartmentByID(id string) (*models.Department, error) {
	var department models.Department
	err := r.db.Where("id = ?", id).First(&department).Error
	if err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *departmentRepository) GetActiveDepartments() ([]models.Department, error) {
	var departments []models.Department
	err := r.db.Where("is_active = ?", true).Order("name asc").Find(&departments).Error
	return departments, err
}

func (r *departmentRepository) UpdateDepartment(department *models.Department) (*models.Department, error) {
	if err := r.db.Save(department).Error; err != nil {
		return nil, fmt.Errorf("failed to update department: %w", err)
	}
	return department, nil
}

func (r *departmentRepository) GetFilteredDepartments(pageSize int, offset int, filters map[string]string) ([]models.Department, int64, error) {
	var departments []models.Department
	var total int64

	db := r.db.Model(&models.Department{})

	for key, value := range filters {
		switch key {
		case "active":
			if strings.ToLower(value) == "true" {
				db = db.Where("is_active = ?", true)
			} else if strings.ToLower(value) == "false" {
				db = db.Where("is_active = ?", false)
			}
		case "type":
			db = db.Where("type = ?", value)
		case "start_date":
			db = db.Where("created_at >= ?", value)
		case "end_date":
			db = db.Where("created_at <= ?", value)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Limit(pageSize).Offset(offset).Order("created_at desc").Find(&departments).Error; err != nil {
		return nil, 0, err
	}

	return departments, total, nil
}
