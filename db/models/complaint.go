package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "pending"
	StatusInProgress ComplaintStatus = "in_progress"
	StatusResolved   ComplaintStatus = "resolved"
	StatusClosed     ComplaintStatus = "closed"
	StatusRejected   ComplaintStatus = "rejected"
)

// ValidComplaintStatus reports whether the value belongs to the closed status set.
func ValidComplaintStatus(s ComplaintStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusClosed, StatusRejected:
		return true
	}
	return false
}

// manualTransitions is the allowed status graph for staff-initiated changes.
// The resolved -> in_progress edge is reserved for the public-comment auto
// reopen and for explicit staff re-opens.
var manualTransitions = map[ComplaintStatus][]ComplaintStatus{
	StatusPending:    {StatusInProgress, StatusResolved, StatusRejected, StatusClosed},
	StatusInProgress: {StatusResolved, StatusRejected, StatusClosed},
	StatusResolved:   {StatusInProgress, StatusClosed},
	StatusClosed:     {StatusInProgress},
	StatusRejected:   {},
}

// CanTransition reports whether a manual status change from -> to is allowed.
func CanTransition(from, to ComplaintStatus) bool {
	if from == to {
		return false
	}
	for _, allowed := range manualTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// PersonalInfo is the complainant block captured at submission.
type PersonalInfo struct {
	FullName   string  `gorm:"not null" json:"full_name"`
	MobileNo   string  `gorm:"not null" json:"mobile_no"`
	WhatsAppNo *string `json:"whatsapp_no"`
	CNICNo     string  `gorm:"not null;column:cnic_no" json:"cnic_no"`
	Email      *string `json:"email"`
	City       string  `gorm:"not null" json:"city"`
}

// PropertyInfo holds the housing/property attributes of the complaint.
type PropertyInfo struct {
	HousingProject *string          `json:"housing_project"`
	Phase          *string          `json:"phase"`
	PropertyType   string           `gorm:"default:'Plot'" json:"property_type"`
	Size           *string          `json:"size"`
	SizeUnit       string           `gorm:"default:'Sq ft'" json:"size_unit"`
	FileNo         *string          `json:"file_no"`
	PlotNo         *string          `json:"plot_no"`
	HouseNo        *string          `json:"house_no"`
	FlatNo         *string          `json:"flat_no"`
	BlockNo        *string          `json:"block_no"`
	TotalPrice     *decimal.Decimal `gorm:"type:numeric(14,2)" json:"total_price"`
	AmountPaid     *decimal.Decimal `gorm:"type:numeric(14,2)" json:"amount_paid"`
	BalancePayable *decimal.Decimal `gorm:"type:numeric(14,2)" json:"balance_payable"`
	ProblemType    *string          `json:"problem_type"`
	OtherIssue     *string          `json:"other_issue"`
}

// Resolution is the terminal metadata attached when a complaint is resolved.
type Resolution struct {
	ResolvedByID      *uuid.UUID `gorm:"type:uuid" json:"resolved_by"`
	ResolvedAt        *time.Time `json:"resolved_at"`
	ResolutionSummary *string    `json:"resolution_summary"`
}

// Complaint is the core aggregate of the lifecycle engine.
type Complaint struct {
	ID           uuid.UUID   `gorm:"type:uuid;primary_key;" json:"id"`
	ComplaintNo  string      `gorm:"uniqueIndex;not null" json:"complaint_no"`
	DepartmentID uuid.UUID   `gorm:"type:uuid;not null;index" json:"department_id"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`

	// Nil for anonymous public submissions
	UserID *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User   *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Status ComplaintStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	PersonalInfo PersonalInfo `gorm:"embedded;embeddedPrefix:personal_" json:"personal_info"`
	PropertyInfo PropertyInfo `gorm:"embedded;embeddedPrefix:property_" json:"property_info"`

	// document slot -> file id, e.g. {"idCard": "<uuid>"}
	Documents datatypes.JSONMap `json:"documents"`

	Comments []Comment `gorm:"foreignKey:ComplaintID" json:"comments,omitempty"`

	AssignedToID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_to_id"`
	AssignedTo   *User      `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`

	Resolution Resolution `gorm:"embedded;embeddedPrefix:resolution_" json:"resolution"`

	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Comment is an append-only entry on a complaint's thread. Comments are
// never edited or deleted. A nil UserID with IsSystem set marks an
// engine-generated entry; a nil UserID without it marks an anonymous
// public author.
type Comment struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;" json:"id"`
	ComplaintID uuid.UUID  `gorm:"type:uuid;not null;index" json:"complaint_id"`
	UserID      *uuid.UUID `gorm:"type:uuid" json:"user_id"`
	User        *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Text        string     `gorm:"type:text;not null" json:"text"`
	IsInternal  bool       `gorm:"default:false" json:"is_internal"`
	IsSystem    bool       `gorm:"default:false" json:"is_system"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// ComplaintCounter serializes complaint numbering per (prefix, year-month)
// partition. The row is upserted atomically so concurrent creations in the
// same partition can never observe the same sequence value.
type ComplaintCounter struct {
	Prefix string `gorm:"primaryKey;type:varchar(4)"`
	Period string `gorm:"primaryKey;type:varchar(6)"`
	Seq    int64  `gorm:"not null;default:0"`
}
