package services

import (
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"complaint-tracking-backend/db/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeFileRepo struct {
	byComplaint map[uuid.UUID][]models.File
}

func (r *fakeFileRepo) CreateFile(_ *gorm.DB, f *models.File) (*models.File, error) { return f, nil }

func (r *fakeFileRepo) GetFileByID(uuid.UUID) (*models.File, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeFileRepo) GetFilesByIDs([]uuid.UUID) ([]models.File, error) { return nil, nil }

func (r *fakeFileRepo) GetFilesByComplaintID(complaintID uuid.UUID) ([]models.File, error) {
	return r.byComplaint[complaintID], nil
}

func (r *fakeFileRepo) AttachToComplaint(*gorm.DB, []uuid.UUID, uuid.UUID) error { return nil }

func (r *fakeFileRepo) DeleteFile(uuid.UUID) error { return nil }

func uploadHeader(name, contentType string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: name,
		Size:     size,
		Header: textproto.MIMEHeader{
			"Content-Type": []string{contentType},
		},
	}
}

func TestValidateUpload(t *testing.T) {
	service := &DocumentService{}

	cases := []struct {
		name     string
		header   *multipart.FileHeader
		fileType models.FileType
		wantErr  string
	}{
		{
			name:     "valid pdf",
			header:   uploadHeader("scan.pdf", "application/pdf", 512*1024),
			fileType: models.IDCardFile,
		},
		{
			name:     "valid jpeg at the cap",
			header:   uploadHeader("photo.jpg", "image/jpeg", 1<<20),
			fileType: models.PaymentReceiptsFile,
		},
		{
			name:     "mixed-case content type",
			header:   uploadHeader("photo.PNG", "Image/PNG", 1024),
			fileType: models.OtherFile,
		},
		{
			name:     "oversized",
			header:   uploadHeader("big.pdf", "application/pdf", 1<<20+1),
			fileType: models.IDCardFile,
			wantErr:  "1MB",
		},
		{
			name:     "disallowed mime",
			header:   uploadHeader("archive.zip", "application/zip", 1024),
			fileType: models.OtherFile,
			wantErr:  "unsupported file type",
		},
		{
			name:     "unknown slot",
			header:   uploadHeader("scan.pdf", "application/pdf", 1024),
			fileType: models.FileType("passport"),
			wantErr:  "unknown document slot",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := service.ValidateUpload(tc.header, tc.fileType)
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestFilesForComplaint(t *testing.T) {
	signer := NewURLSigner("test-secret", "http://localhost:8080", 15*time.Minute)
	complaintID := uuid.New()
	repo := &fakeFileRepo{byComplaint: map[uuid.UUID][]models.File{
		complaintID: {
			{
				ID:           uuid.New(),
				OriginalName: "cnic.pdf",
				StorageKey:   "idCard_20250301_abcd1234.pdf",
				MimeType:     "application/pdf",
				Size:         1024,
				FileType:     models.IDCardFile,
				ComplaintID:  &complaintID,
			},
			{
				ID:           uuid.New(),
				OriginalName: "receipt.jpg",
				StorageKey:   "paymentReceipts_20250301_ef567890.jpg",
				MimeType:     "image/jpeg",
				Size:         2048,
				FileType:     models.PaymentReceiptsFile,
				ComplaintID:  &complaintID,
			},
		},
	}}
	service := NewDocumentService(repo, nil, signer)

	views, err := service.FilesForComplaint(complaintID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	// Every returned URL is freshly signed and verifiable
	for _, view := range views {
		parsed, err := url.Parse(view.URL)
		require.NoError(t, err)
		storageKey := strings.TrimPrefix(parsed.Path, "/api/v1/files/download/")
		assert.NoError(t, signer.Verify(
			storageKey,
			parsed.Query().Get("expires"),
			parsed.Query().Get("signature"),
		))
	}

	// A complaint without attachments yields an empty list, not an error
	views, err = service.FilesForComplaint(uuid.New())
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestGenerateStoredName(t *testing.T) {
	service := &DocumentService{}

	name := service.generateStoredName("My Scan.PDF", models.IDCardFile)
	assert.True(t, strings.HasPrefix(name, "idCard_"))
	assert.True(t, strings.HasSuffix(name, ".pdf"))

	// Extensionless uploads get a placeholder extension
	name = service.generateStoredName("blob", models.OtherFile)
	assert.True(t, strings.HasSuffix(name, ".dat"))

	// Repeat calls never collide
	a := service.generateStoredName("scan.pdf", models.IDCardFile)
	b := service.generateStoredName("scan.pdf", models.IDCardFile)
	assert.NotEqual(t, a, b)
}
