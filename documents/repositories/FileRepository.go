package repositories

import (
	"fmt"

	"complaint-tracking-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FileRepository interface {
	CreateFile(tx *gorm.DB, file *models.File) (*models.File, error)
	GetFileByID(id uuid.UUID) (*models.File, error)
	GetFilesByIDs(ids []uuid.UUID) ([]models.File, error)
	GetFilesByComplaintID(complaintID uuid.UUID) ([]models.File, error)
	AttachToComplaint(tx *gorm.DB, fileIDs []uuid.UUID, complaintID uuid.UUID) error
	DeleteFile(id uuid.UUID) error
}

type fileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) CreateFile(tx *gorm.DB, file *models.File) (*models.File, error) {
	if tx == nil {
		tx = r.db
	}
	if err := tx.Create(file).Error; err != nil {
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}
	return file, nil
}

func (r *fileRepository) GetFileByID(id uuid.UUID) (*models.File, error) {
	var file models.File
	if err := r.db.First(&file, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepository) GetFilesByIDs(ids []uuid.UUID) ([]models.File, error) {
	var files []models.File
	if len(ids) == 0 {
		return files, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *fileRepository) GetFilesByComplaintID(complaintID uuid.UUID) ([]models.File, error) {
	var files []models.File
	err := r.db.Where("complaint_id = ?", complaintID).
		Order("created_at asc").
		Find(&files).Error
	return files, err
}

// AttachToComplaint binds pre-uploaded files to a complaint. Runs inside
// the complaint creation transaction so orphaned references roll back.
func (r *fileRepository) AttachToComplaint(tx *gorm.DB, fileIDs []uuid.UUID, complaintID uuid.UUID) error {
	if len(fileIDs) == 0 {
		return nil
	}
	if tx == nil {
		tx = r.db
	}
	result := tx.Model(&models.File{}).
		Where("id IN ? AND complaint_id IS NULL", fileIDs).
		Update("complaint_id", complaintID)
	if result.Error != nil {
		return fmt.Errorf("failed to attach files to complaint: %w", result.Error)
	}
	if result.RowsAffected != int64(len(fileIDs)) {
		return fmt.Errorf("could not attach all files: %d of %d updated", result.RowsAffected, len(fileIDs))
	}
	return nil
}

func (r *fileRepository) DeleteFile(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.File{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
