package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	UserRole  Role = "user"
	StaffRole Role = "staff"
	HODRole   Role = "hod"
	AdminRole Role = "admin"
)

// ValidRole reports whether the value belongs to the closed role set.
func ValidRole(r Role) bool {
	switch r {
	case UserRole, StaffRole, HODRole, AdminRole:
		return true
	}
	return false
}

// IsStaffRole reports whether the role belongs to department personnel.
func (r Role) IsStaffRole() bool {
	return r == StaffRole || r == HODRole
}

// User represents system actors: citizens, department staff, HODs and admins.
type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Name  string    `gorm:"not null" json:"name"`
	Email string    `gorm:"unique;not null" json:"email"`
	Phone *string   `json:"phone"`
	CNIC  *string   `gorm:"uniqueIndex;column:cnic" json:"cnic"`
	City  *string   `json:"city"`

	// Stored as a bcrypt hash, never in cleartext
	PasswordHash       string `gorm:"not null" json:"-"`
	MustChangePassword bool   `gorm:"default:false" json:"must_change_password"`

	Role                 Role        `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	AssignedDepartmentID *uuid.UUID  `gorm:"type:uuid;index" json:"assigned_department_id"`
	AssignedDepartment   *Department `gorm:"foreignKey:AssignedDepartmentID" json:"assigned_department,omitempty"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
