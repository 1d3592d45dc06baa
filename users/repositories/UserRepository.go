package repositories

import (
	"errors"
	"fmt"
	"strings"

	"complaint-tracking-backend/db/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByCNIC(cnic string) (*models.User, error)
	UpdateUser(user *models.User) (*models.User, error)
	GetActiveHOD(departmentID string) (*models.User, error)
	GetHODs() ([]models.User, error)
	GetDepartmentStaff(departmentID string) ([]models.User, error)
	GetFilteredUsers(pageSize int, offset int, filters map[string]string) ([]models.User, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func (r *userRepository) CreateUser(user *models.User) (*models.User, error) {
	// Check if user exists (including soft-deleted)
	var existing models.User
	err := r.db.Unscoped().Where("email = ?", user.Email).First(&existing).Error
	if err == nil {
		if existing.DeletedAt.Valid {
			// Soft-deleted: restore under the new identity
			existing.DeletedAt = gorm.DeletedAt{}
			existing.Name = user.Name
			existing.Phone = user.Phone
			existing.CNIC = user.CNIC
			existing.City = user.City
			existing.PasswordHash = user.PasswordHash
			existing.MustChangePassword = user.MustChangePassword
			existing.Role = user.Role
			existing.AssignedDepartmentID = user.AssignedDepartmentID
			existing.IsActive = user.IsActive

			if err := r.db.Unscoped().Save(&existing).Error; err != nil {
				return nil, fmt.Errorf("failed to restore soft-deleted user: %w", err)
			}
			return &existing, nil
		}
		return nil, fmt.Errorf("a user with that email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}

	if user.CNIC != nil && *user.CNIC != "" {
		var cnicHolder models.User
		err := r.db.Where("cnic = ?", *user.CNIC).First(&cnicHolder).Error
		if err == nil {
			return nil, fmt.Errorf("a user with that CNIC already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check for existing CNIC: %w", err)
		}
	}

	if err := r.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user in database: %w", err)
	}

	return user, nil
}

func (r *userRepository) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("AssignedDepartment").Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("AssignedDepartment").Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByCNIC(cnic string) (*models.User, error) {
	var user models.User
	err := r.db.Where("cnic = ?", cnic).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateUser(user *models.User) (*models.User, error) {
	if err := r.db.Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// GetActiveHOD returns the active HOD of a department, if any.
func (r *userRepository) GetActiveHOD(departmentID string) (*models.User, error) {
	var hod models.User
	err := r.db.
		Where("assigned_department_id = ? AND role = ? AND is_active = ?",
			departmentID, models.HODRole, true).
		First(&hod).Error
	if err != nil {
		return nil, err
	}
	return &hod, nil
}

func (r *userRepository) GetHODs() ([]models.User, error) {
	var hods []models.User
	err := r.db.Preload("AssignedDepartment").
		Where("role = ?", models.HODRole).
		Order("created_at desc").
		Find(&hods).Error
	return hods, err
}

func (r *userRepository) GetDepartmentStaff(departmentID string) ([]models.User, error) {
	var staff []models.User
	err := r.db.
		Where("assigned_department_id = ? AND role = ?", departmentID, models.StaffRole).
		Order("created_at desc").
		Find(&staff).Error
	return staff, err
}

func (r *userRepository) GetFilteredUsers(pageSize int, offset int, filters map[string]string) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	db := r.db.Model(&models.User{})

	for key, value := range filters {
		switch key {
		case "active":
			if strings.ToLower(value) == "true" {
				db = db.Where("is_active = ?", true)
			} else if strings.ToLower(value) == "false" {
				db = db.Where("is_active = ?", false)
			}
		case "role":
			db = db.Where("role = ?", value)
		case "department":
			db = db.Where("assigned_department_id = ?", value)
		case "start_date":
			db = db.Where("created_at >= ?", value)
		case "end_date":
			db = db.Where("created_at <= ?", value)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Limit(pageSize).Offset(offset).Order("created_at desc").
		Preload("AssignedDepartment").Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
