package repositories

import (
	"fmt"
	"strings"
	"time"

	"complaint-tracking-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusCount is one row of the by-status aggregate.
type StatusCount struct {
	Status models.ComplaintStatus `json:"status"`
	Count  int64                  `json:"count"`
}

// DepartmentCount is one row of the by-department aggregate.
type DepartmentCount struct {
	DepartmentID   uuid.UUID `json:"department_id"`
	DepartmentName string    `json:"department_name"`
	Count          int64     `json:"count"`
}

// MonthCount is one row of the monthly trend, keyed YYYY-MM.
type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// StatsScope narrows the aggregate queries to what the caller may see.
// Nil fields mean unrestricted.
type StatsScope struct {
	DepartmentID *uuid.UUID
	AssignedToID *uuid.UUID
}

type ComplaintRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	NextSequence(tx *gorm.DB, prefix, period string) (int64, error)
	CreateComplaint(tx *gorm.DB, complaint *models.Complaint) error
	AddComment(tx *gorm.DB, comment *models.Comment) error
	GetComplaintByID(id uuid.UUID) (*models.Complaint, error)
	GetComplaintByNo(complaintNo string) (*models.Complaint, error)
	UpdateComplaint(tx *gorm.DB, complaint *models.Complaint) error
	GetFilteredComplaints(pageSize int, offset int, filters map[string]string, ownerID *uuid.UUID) ([]models.Complaint, int64, error)
	GetAssignedComplaints(staffID uuid.UUID, status string, pageSize int, offset int) ([]models.Complaint, int64, error)
	GetAllComplaints() ([]models.Complaint, error)
	CountByStatus(scope StatsScope) ([]StatusCount, error)
	CountByDepartment(scope StatsScope) ([]DepartmentCount, error)
	MonthlyTrend(scope StatsScope, since time.Time) ([]MonthCount, error)
}

type complaintRepository struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &complaintRepository{db: db}
}

func (r *complaintRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// NextSequence reserves the next number in the (prefix, period) partition.
// The upsert increments atomically at the database, so concurrent
// creations in the same partition can never read the same value.
func (r *complaintRepository) NextSequence(tx *gorm.DB, prefix, period string) (int64, error) {
	var seq int64
	err := tx.Raw(`
		INSERT INTO complaint_counters (prefix, period, seq)
		VALUES (?, ?, 1)
		ON CONFLICT (prefix, period)
		DO UPDATE SET seq = complaint_counters.seq + 1
		RETURNING seq`,
		prefix, period,
	).Scan(&seq).Error
	if err != nil {
		return 0, fmt.Errorf("failed to reserve complaint sequence: %w", err)
	}
	return seq, nil
}

func (r *complaintRepository) CreateComplaint(tx *gorm.DB, complaint *models.Complaint) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.Create(complaint).Error; err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}
	return nil
}

func (r *complaintRepository) AddComment(tx *gorm.DB, comment *models.Comment) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *complaintRepository) GetComplaintByID(id uuid.UUID) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.db.
		Preload("Department").
		Preload("AssignedTo").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at asc")
		}).
		Preload("Comments.User").
		First(&complaint, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) GetComplaintByNo(complaintNo string) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.db.
		Preload("Department").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at asc")
		}).
		Preload("Comments.User").
		First(&complaint, "complaint_no = ?", complaintNo).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) UpdateComplaint(tx *gorm.DB, complaint *models.Complaint) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.Save(complaint).Error; err != nil {
		return fmt.Errorf("failed to update complaint: %w", err)
	}
	return nil
}

// GetFilteredComplaints serves the general listing. A non-nil ownerID
// restricts the query to that submitter regardless of filters.
func (r *complaintRepository) GetFilteredComplaints(
	pageSize int,
	offset int,
	filters map[string]string,
	ownerID *uuid.UUID,
) ([]models.Complaint, int64, error) {
	var complaints []models.Complaint
	var total int64

	db := r.db.Model(&models.Complaint{})

	if ownerID != nil {
		db = db.Where("user_id = ?", *ownerID)
	}

	for key, value := range filters {
		switch key {
		case "department":
			db = db.Where("department_id = ?", value)
		case "status":
			db = db.Where("status = ?", value)
		case "assigned_to":
			if strings.ToLower(value) == "unassigned" {
				db = db.Where("assigned_to_id IS NULL")
			} else {
				db = db.Where("assigned_to_id = ?", value)
			}
		case "start_date":
			db = db.Where("created_at >= ?", value)
		case "end_date":
			db = db.Where("created_at <= ?", value)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Limit(pageSize).Offset(offset).Order("created_at desc").
		Preload("Department").
		Preload("AssignedTo").
		Find(&complaints).Error
	if err != nil {
		return nil, 0, err
	}

	return complaints, total, nil
}

func (r *complaintRepository) GetAssignedComplaints(
	staffID uuid.UUID,
	status string,
	pageSize int,
	offset int,
) ([]models.Complaint, int64, error) {
	var complaints []models.Complaint
	var total int64

	db := r.db.Model(&models.Complaint{}).Where("assigned_to_id = ?", staffID)
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Limit(pageSize).Offset(offset).Order("created_at desc").
		Preload("Department").
		Find(&complaints).Error
	if err != nil {
		return nil, 0, err
	}

	return complaints, total, nil
}

// GetAllComplaints feeds the search index rebuild on startup.
func (r *complaintRepository) GetAllComplaints() ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.Find(&complaints).Error
	return complaints, err
}

func (r *complaintRepository) scoped(db *gorm.DB, scope StatsScope) *gorm.DB {
	if scope.DepartmentID != nil {
		db = db.Where("complaints.department_id = ?", *scope.DepartmentID)
	}
	if scope.AssignedToID != nil {
		db = db.Where("complaints.assigned_to_id = ?", *scope.AssignedToID)
	}
	return db
}

func (r *complaintRepository) CountByStatus(scope StatsScope) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.scoped(r.db.Model(&models.Complaint{}), scope).
		Select("status, count(*) as count").
		Group("status").
		Scan(&counts).Error
	return counts, err
}

func (r *complaintRepository) CountByDepartment(scope StatsScope) ([]DepartmentCount, error) {
	var counts []DepartmentCount
	err := r.scoped(r.db.Model(&models.Complaint{}), scope).
		Select("complaints.department_id, departments.name as department_name, count(*) as count").
		Joins("JOIN departments ON departments.id = complaints.department_id").
		Group("complaints.department_id, departments.name").
		Order("count desc").
		Scan(&counts).Error
	return counts, err
}

// MonthlyTrend counts creations per month from the given lower bound.
// Callers bound the window so the aggregate never scans the full table.
func (r *complaintRepository) MonthlyTrend(scope StatsScope, since time.Time) ([]MonthCount, error) {
	var counts []MonthCount
	err := r.scoped(r.db.Model(&models.Complaint{}), scope).
		Select("to_char(created_at, 'YYYY-MM') as month, count(*) as count").
		Where("created_at >= ?", since).
		Group("month").
		Order("month asc").
		Scan(&counts).Error
	return counts, err
}
