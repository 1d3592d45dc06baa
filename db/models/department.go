package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DepartmentType string

const (
	HousingProjectsDepartment DepartmentType = "housing_projects"
	LescoDepartment           DepartmentType = "lesco"
)

// ValidDepartmentType reports whether the value belongs to the closed type set.
func ValidDepartmentType(t DepartmentType) bool {
	switch t {
	case HousingProjectsDepartment, LescoDepartment:
		return true
	}
	return false
}

// Department is an organizational unit complaints are filed against.
// The type code drives complaint-number prefixing; changing it never
// renumbers existing complaints.
type Department struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key;" json:"id"`
	Name            string         `gorm:"type:varchar(100);not null" json:"name"`
	NameUrdu        *string        `gorm:"type:varchar(100)" json:"name_urdu"`
	Type            DepartmentType `gorm:"type:varchar(30);not null;default:'housing_projects'" json:"type"`
	Description     *string        `gorm:"type:varchar(500)" json:"description"`
	DescriptionUrdu *string        `gorm:"type:varchar(500)" json:"description_urdu"`
	ContactEmail    *string        `json:"contact_email"`
	ContactPhone    *string        `gorm:"type:varchar(20)" json:"contact_phone"`
	Address         *string        `gorm:"type:varchar(200)" json:"address"`
	Icon            string         `gorm:"default:'default-icon.svg'" json:"icon"`
	Color           string         `gorm:"default:'#00ACED'" json:"color"`
	IsActive        bool           `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
