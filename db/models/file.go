package models

import (
	"time"

	"github.com/google/uuid"
)

type FileType string

const (
	IDCardFile             FileType = "idCard"
	RegistrationFile       FileType = "registrationFile"
	PaymentReceiptsFile    FileType = "paymentReceipts"
	AllotmentLetterFile    FileType = "allotmentLetter"
	CancellationLetterFile FileType = "cancellationLetter"
	DemandLetterFile       FileType = "demandLetter"
	OtherFile              FileType = "other"
)

// ValidFileType reports whether the value belongs to the closed slot set.
func ValidFileType(t FileType) bool {
	switch t {
	case IDCardFile, RegistrationFile, PaymentReceiptsFile, AllotmentLetterFile,
		CancellationLetterFile, DemandLetterFile, OtherFile:
		return true
	}
	return false
}

// File is the metadata record for an uploaded blob. The blob itself lives
// behind the storage interface; access URLs are signed at read time and
// never persisted.
type File struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;" json:"id"`
	OriginalName string     `gorm:"not null" json:"original_name"`
	StoredName   string     `gorm:"not null" json:"stored_name"`
	StorageKey   string     `gorm:"not null;uniqueIndex" json:"storage_key"`
	MimeType     string     `gorm:"not null" json:"mime_type"`
	Size         int64      `gorm:"not null" json:"size"`
	FileType     FileType   `gorm:"type:varchar(30);not null" json:"file_type"`
	UploadedByID *uuid.UUID `gorm:"type:uuid;index" json:"uploaded_by"`
	ComplaintID  *uuid.UUID `gorm:"type:uuid;index" json:"complaint_id"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
