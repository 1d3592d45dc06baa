package services

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"complaint-tracking-backend/config"
	"complaint-tracking-backend/db/models"
	"complaint-tracking-backend/documents/repositories"
	"complaint-tracking-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxUploadSize = 1 << 20 // 1MB

var allowedMimeTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/jpg":       {},
	"image/png":       {},
	"application/pdf": {},
}

// FileView is the read-side projection of a stored file. The URL is
// signed fresh on every read and never persisted.
type FileView struct {
	ID           uuid.UUID       `json:"id"`
	OriginalName string          `json:"original_name"`
	MimeType     string          `json:"mime_type"`
	Size         int64           `json:"size"`
	FileType     models.FileType `json:"file_type"`
	URL          string          `json:"url"`
	CreatedAt    time.Time       `json:"created_at"`
}

type DocumentService struct {
	FileRepo    repositories.FileRepository
	FileStorage utils.FileStorage
	Signer      *URLSigner
}

func NewDocumentService(fileRepo repositories.FileRepository, fileStorage utils.FileStorage, signer *URLSigner) *DocumentService {
	return &DocumentService{
		FileRepo:    fileRepo,
		FileStorage: fileStorage,
		Signer:      signer,
	}
}

// ValidateUpload enforces the size cap and the allowed content types
// before any bytes touch storage.
func (s *DocumentService) ValidateUpload(fileHeader *multipart.FileHeader, fileType models.FileType) error {
	if !models.ValidFileType(fileType) {
		return fmt.Errorf("unknown document slot: %s", fileType)
	}
	if fileHeader.Size > maxUploadSize {
		return fmt.Errorf("file exceeds the 1MB upload limit")
	}
	mimeType := strings.ToLower(fileHeader.Header.Get("Content-Type"))
	if _, ok := allowedMimeTypes[mimeType]; !ok {
		return fmt.Errorf("unsupported file type %q: only JPEG, PNG and PDF are accepted", mimeType)
	}
	return nil
}

// UploadFile stores the blob and creates the metadata record. The stored
// name embeds the slot, a timestamp and a short random suffix so repeat
// uploads never collide.
func (s *DocumentService) UploadFile(
	fileHeader *multipart.FileHeader,
	fileType models.FileType,
	uploadedByID *uuid.UUID,
) (*FileView, error) {
	if err := s.ValidateUpload(fileHeader, fileType); err != nil {
		return nil, err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	storedName := s.generateStoredName(fileHeader.Filename, fileType)
	storageKey, err := s.FileStorage.UploadFile(src, storedName)
	if err != nil {
		return nil, fmt.Errorf("file storage failed: %w", err)
	}

	file := &models.File{
		ID:           uuid.New(),
		OriginalName: fileHeader.Filename,
		StoredName:   storedName,
		StorageKey:   storageKey,
		MimeType:     strings.ToLower(fileHeader.Header.Get("Content-Type")),
		Size:         fileHeader.Size,
		FileType:     fileType,
		UploadedByID: uploadedByID,
	}

	created, err := s.FileRepo.CreateFile(nil, file)
	if err != nil {
		// Orphaned blob cleanup; the record is the source of truth
		if delErr := s.FileStorage.DeleteFile(storageKey); delErr != nil {
			config.Logger.Error("Failed to clean up blob after record failure",
				zap.String("storage_key", storageKey), zap.Error(delErr))
		}
		return nil, err
	}

	config.Logger.Info("File uploaded",
		zap.String("fileID", created.ID.String()),
		zap.String("file_type", string(fileType)),
		zap.Int64("size_bytes", created.Size),
	)

	return s.View(created), nil
}

// GetFile returns the metadata with a freshly signed URL.
func (s *DocumentService) GetFile(id uuid.UUID) (*FileView, error) {
	file, err := s.FileRepo.GetFileByID(id)
	if err != nil {
		return nil, err
	}
	return s.View(file), nil
}

// DeleteFile removes the blob first and the record second. A blob delete
// failure propagates and leaves the record intact for retry.
func (s *DocumentService) DeleteFile(id uuid.UUID) error {
	file, err := s.FileRepo.GetFileByID(id)
	if err != nil {
		return err
	}

	if err := s.FileStorage.DeleteFile(file.StorageKey); err != nil {
		return fmt.Errorf("blob deletion failed: %w", err)
	}

	if err := s.FileRepo.DeleteFile(id); err != nil && err != gorm.ErrRecordNotFound {
		return err
	}

	config.Logger.Info("File deleted", zap.String("fileID", id.String()))
	return nil
}

// FilesForComplaint returns the documents attached to a complaint, each
// carrying a freshly signed download URL.
func (s *DocumentService) FilesForComplaint(complaintID uuid.UUID) ([]*FileView, error) {
	files, err := s.FileRepo.GetFilesByComplaintID(complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to load complaint files: %w", err)
	}
	return s.Views(files), nil
}

// View projects a file record with a signed download URL.
func (s *DocumentService) View(file *models.File) *FileView {
	return &FileView{
		ID:           file.ID,
		OriginalName: file.OriginalName,
		MimeType:     file.MimeType,
		Size:         file.Size,
		FileType:     file.FileType,
		URL:          s.Signer.SignedURL(file.StorageKey),
		CreatedAt:    file.CreatedAt,
	}
}

// Views projects a slice of file records.
func (s *DocumentService) Views(files []models.File) []*FileView {
	views := make([]*FileView, len(files))
	for i := range files {
		views[i] = s.View(&files[i])
	}
	return views
}

func (s *DocumentService) generateStoredName(originalName string, fileType models.FileType) string {
	fileExt := strings.ToLower(filepath.Ext(originalName))
	if fileExt == "" {
		fileExt = ".dat"
	}
	timestamp := time.Now().Format("20060102_150405")
	shortUUID := uuid.New().String()[:8]
	return fmt.Sprintf("%s_%s_%s%s", fileType, timestamp, shortUUID, fileExt)
}
