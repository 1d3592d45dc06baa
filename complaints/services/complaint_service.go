package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"complaint-tracking-backend/complaints/repositories"
	"complaint-tracking-backend/config"
	"complaint-tracking-backend/db/models"
	departments_repositories "complaint-tracking-backend/departments/repositories"
	documents_repositories "complaint-tracking-backend/documents/repositories"
	"complaint-tracking-backend/notifications"
	"complaint-tracking-backend/token"
	users_repositories "complaint-tracking-backend/users/repositories"
	"complaint-tracking-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("complaint not found")
	ErrForbidden          = errors.New("not authorized for this complaint")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrDepartmentInactive = errors.New("department is not accepting complaints")
	ErrInvalidDocumentRef = errors.New("one or more document references are invalid")
	ErrInvalidStatus      = errors.New("invalid complaint status")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrDepartmentMismatch = errors.New("staff member belongs to a different department")
	ErrEmptyText          = errors.New("comment text cannot be empty")
	ErrValidation         = errors.New("validation failed")
)

const (
	initialComment    = "Complaint received and registered"
	defaultResolution = "Complaint has been resolved"
	fallbackPrefix    = "HP"
)

// LifecycleNotifier is the outbound side channel of the engine. Calls
// return nothing: delivery failures are the dispatcher's problem, never
// the engine's.
type LifecycleNotifier interface {
	ComplaintRegistered(p notifications.ComplaintRegisteredPayload)
	StatusUpdated(p notifications.StatusUpdatedPayload)
}

// ComplaintIndexer keeps the search index in step with the store.
// Satisfied by the bleve complaint repository.
type ComplaintIndexer interface {
	IndexSingleComplaint(complaint models.Complaint) error
	UpdateComplaint(complaint models.Complaint) error
}

// ComplaintService is the lifecycle engine: creation and numbering,
// the status state machine, assignment, commenting and the public
// tracking projection.
type ComplaintService struct {
	complaintRepo  repositories.ComplaintRepository
	departmentRepo departments_repositories.DepartmentRepository
	userRepo       users_repositories.UserRepository
	fileRepo       documents_repositories.FileRepository
	notifier       LifecycleNotifier
	indexer        ComplaintIndexer
}

func NewComplaintService(
	complaintRepo repositories.ComplaintRepository,
	departmentRepo departments_repositories.DepartmentRepository,
	userRepo users_repositories.UserRepository,
	fileRepo documents_repositories.FileRepository,
	notifier LifecycleNotifier,
	indexer ComplaintIndexer,
) *ComplaintService {
	return &ComplaintService{
		complaintRepo:  complaintRepo,
		departmentRepo: departmentRepo,
		userRepo:       userRepo,
		fileRepo:       fileRepo,
		notifier:       notifier,
		indexer:        indexer,
	}
}

// CreateComplaintInput is the submission payload. Documents maps a slot
// name to a previously uploaded file ID.
type CreateComplaintInput struct {
	DepartmentID string              `json:"department_id"`
	PersonalInfo models.PersonalInfo `json:"personal_info"`
	PropertyInfo models.PropertyInfo `json:"property_info"`
	Documents    map[string]string   `json:"documents"`
}

// NumberPrefix derives the complaint number prefix from the department
// type code. Falls back when the code is missing or too short.
func NumberPrefix(departmentType models.DepartmentType) string {
	code := string(departmentType)
	if len(code) < 2 {
		return fallbackPrefix
	}
	return strings.ToUpper(code[:2])
}

// FormatComplaintNo renders a reserved sequence as the human-facing
// tracking number, e.g. HO-202503-00001.
func FormatComplaintNo(prefix, period string, seq int64) string {
	return fmt.Sprintf("%s-%s-%05d", prefix, period, seq)
}

func (s *ComplaintService) validateSubmission(input *CreateComplaintInput) error {
	p := input.PersonalInfo
	if p.FullName == "" || p.MobileNo == "" || p.City == "" {
		return fmt.Errorf("%w: full name, mobile number and city are required", ErrValidation)
	}
	if !utils.ValidCNIC(p.CNICNo) {
		return fmt.Errorf("%w: CNIC must be exactly 13 digits without dashes", ErrValidation)
	}
	return nil
}

// resolveDocumentRefs validates the slot map against uploaded files.
// Every slot must come from the closed set, every ID must resolve to an
// unattached file, and uploads bound to an account must come from the
// submitting actor.
func (s *ComplaintService) resolveDocumentRefs(
	documents map[string]string,
	actor *token.Payload,
) ([]uuid.UUID, error) {
	if len(documents) == 0 {
		return nil, nil
	}

	fileIDs := make([]uuid.UUID, 0, len(documents))
	for slot, rawID := range documents {
		if !models.ValidFileType(models.FileType(slot)) {
			return nil, fmt.Errorf("%w: unknown document slot %q", ErrInvalidDocumentRef, slot)
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed file ID for slot %q", ErrInvalidDocumentRef, slot)
		}
		fileIDs = append(fileIDs, id)
	}

	files, err := s.fileRepo.GetFilesByIDs(fileIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve document references: %w", err)
	}
	if len(files) != len(fileIDs) {
		return nil, fmt.Errorf("%w: %d of %d files found", ErrInvalidDocumentRef, len(files), len(fileIDs))
	}
	for _, file := range files {
		if file.ComplaintID != nil {
			return nil, fmt.Errorf("%w: file %s already belongs to a complaint", ErrInvalidDocumentRef, file.ID)
		}
		if file.UploadedByID != nil && (actor == nil || *file.UploadedByID != actor.UserID) {
			return nil, fmt.Errorf("%w: file %s was uploaded by a different account", ErrInvalidDocumentRef, file.ID)
		}
	}

	return fileIDs, nil
}

// CreateComplaint files a new complaint. The number is reserved from the
// atomic (prefix, year-month) counter inside the same transaction that
// persists the complaint, so it is assigned exactly once and concurrent
// submissions can never collide.
func (s *ComplaintService) CreateComplaint(
	input *CreateComplaintInput,
	actor *token.Payload,
) (*models.Complaint, error) {
	if err := s.validateSubmission(input); err != nil {
		return nil, err
	}

	department, err := s.departmentRepo.GetDepartmentByID(input.DepartmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to resolve department: %w", err)
	}
	if !department.IsActive {
		return nil, ErrDepartmentInactive
	}

	fileIDs, err := s.resolveDocumentRefs(input.Documents, actor)
	if err != nil {
		return nil, err
	}

	documents := datatypes.JSONMap{}
	for slot, rawID := range input.Documents {
		documents[slot] = rawID
	}

	var userID *uuid.UUID
	if actor != nil {
		id := actor.UserID
		userID = &id
	}

	now := time.Now()
	complaint := &models.Complaint{
		ID:           uuid.New(),
		DepartmentID: department.ID,
		UserID:       userID,
		Status:       models.StatusPending,
		PersonalInfo: input.PersonalInfo,
		PropertyInfo: input.PropertyInfo,
		Documents:    documents,
	}

	prefix := NumberPrefix(department.Type)
	period := now.Format("200601")

	err = s.complaintRepo.Transaction(func(tx *gorm.DB) error {
		seq, err := s.complaintRepo.NextSequence(tx, prefix, period)
		if err != nil {
			return err
		}
		complaint.ComplaintNo = FormatComplaintNo(prefix, period, seq)

		if err := s.complaintRepo.CreateComplaint(tx, complaint); err != nil {
			return err
		}

		if err := s.complaintRepo.AddComment(tx, &models.Comment{
			ID:          uuid.New(),
			ComplaintID: complaint.ID,
			Text:        initialComment,
			IsSystem:    true,
		}); err != nil {
			return err
		}

		return s.fileRepo.AttachToComplaint(tx, fileIDs, complaint.ID)
	})
	if err != nil {
		return nil, err
	}

	config.Logger.Info("Complaint registered",
		zap.String("complaint_no", complaint.ComplaintNo),
		zap.String("department", department.Name),
	)

	if input.PersonalInfo.WhatsAppNo != nil && *input.PersonalInfo.WhatsAppNo != "" {
		problemType := ""
		if input.PropertyInfo.ProblemType != nil {
			problemType = *input.PropertyInfo.ProblemType
		}
		s.notifier.ComplaintRegistered(notifications.ComplaintRegisteredPayload{
			WhatsAppNo:     *input.PersonalInfo.WhatsAppNo,
			FullName:       input.PersonalInfo.FullName,
			ComplaintNo:    complaint.ComplaintNo,
			DepartmentName: department.Name,
			ProblemType:    problemType,
			Status:         string(complaint.Status),
		})
	}

	s.reindex(complaint)

	return complaint, nil
}

// GetComplaint fetches a single complaint with the policy scope applied.
func (s *ComplaintService) GetComplaint(id uuid.UUID, actor *token.Payload) (*models.Complaint, error) {
	complaint, err := s.complaintRepo.GetComplaintByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := Authorize(OpGetComplaint, actor, complaint); err != nil {
		return nil, err
	}
	return complaint, nil
}

// UpdateStatus performs a manual state-machine transition. Transitions to
// RESOLVED populate the resolution record and append a public comment.
func (s *ComplaintService) UpdateStatus(
	id uuid.UUID,
	actor *token.Payload,
	status models.ComplaintStatus,
	resolutionSummary *string,
) (*models.Complaint, error) {
	if err := Authorize(OpUpdateStatus, actor, nil); err != nil {
		return nil, err
	}
	if !models.ValidComplaintStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	complaint, err := s.complaintRepo.GetComplaintByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !models.CanTransition(complaint.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, complaint.Status, status)
	}

	previous := complaint.Status
	complaint.Status = status

	err = s.complaintRepo.Transaction(func(tx *gorm.DB) error {
		if status == models.StatusResolved {
			now := time.Now()
			summary := defaultResolution
			if resolutionSummary != nil && *resolutionSummary != "" {
				summary = *resolutionSummary
			}
			resolvedBy := actor.UserID
			complaint.Resolution = models.Resolution{
				ResolvedByID:      &resolvedBy,
				ResolvedAt:        &now,
				ResolutionSummary: &summary,
			}

			if err := s.complaintRepo.AddComment(tx, &models.Comment{
				ID:          uuid.New(),
				ComplaintID: complaint.ID,
				UserID:      &resolvedBy,
				Text:        summary,
			}); err != nil {
				return err
			}
		}

		return s.complaintRepo.UpdateComplaint(tx, complaint)
	})
	if err != nil {
		return nil, err
	}

	config.Logger.Info("Complaint status updated",
		zap.String("complaint_no", complaint.ComplaintNo),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
	)

	s.notifyStatus(complaint)
	s.reindex(complaint)

	return complaint, nil
}

// AssignComplaint sets or clears the assigned staff member. HODs are
// fenced to their own department on both sides of the assignment.
func (s *ComplaintService) AssignComplaint(
	id uuid.UUID,
	actor *token.Payload,
	staffID *uuid.UUID,
) (*models.Complaint, error) {
	if err := Authorize(OpAssign, actor, nil); err != nil {
		return nil, err
	}

	complaint, err := s.complaintRepo.GetComplaintByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if actor.Role == models.HODRole {
		hod, err := s.userRepo.GetUserByID(actor.UserID.String())
		if err != nil {
			return nil, fmt.Errorf("failed to resolve acting HOD: %w", err)
		}
		if hod.AssignedDepartmentID == nil || *hod.AssignedDepartmentID != complaint.DepartmentID {
			return nil, ErrForbidden
		}
	}

	var commentText string
	if staffID == nil {
		complaint.AssignedToID = nil
		commentText = "Assignment removed"
	} else {
		staff, err := s.userRepo.GetUserByID(staffID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: staff member not found", ErrValidation)
			}
			return nil, err
		}
		if !staff.Role.IsStaffRole() {
			return nil, fmt.Errorf("%w: complaints can only be assigned to staff accounts", ErrValidation)
		}
		if actor.Role == models.HODRole {
			if staff.AssignedDepartmentID == nil || *staff.AssignedDepartmentID != complaint.DepartmentID {
				return nil, ErrDepartmentMismatch
			}
		}
		complaint.AssignedToID = staffID
		commentText = fmt.Sprintf("Assigned to %s", staff.Name)
	}

	actorID := actor.UserID
	err = s.complaintRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.complaintRepo.UpdateComplaint(tx, complaint); err != nil {
			return err
		}
		return s.complaintRepo.AddComment(tx, &models.Comment{
			ID:          uuid.New(),
			ComplaintID: complaint.ID,
			UserID:      &actorID,
			Text:        commentText,
			IsInternal:  true,
		})
	})
	if err != nil {
		return nil, err
	}

	s.reindex(complaint)
	return complaint, nil
}

// AddComment appends to the thread. Citizens may only comment on their
// own complaints and may never post internal notes.
func (s *ComplaintService) AddComment(
	id uuid.UUID,
	actor *token.Payload,
	text string,
	isInternal bool,
) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	complaint, err := s.complaintRepo.GetComplaintByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := Authorize(OpAddComment, actor, complaint); err != nil {
		return nil, err
	}
	if actor.Role == models.UserRole && isInternal {
		return nil, ErrForbidden
	}

	authorID := actor.UserID
	comment := &models.Comment{
		ID:          uuid.New(),
		ComplaintID: complaint.ID,
		UserID:      &authorID,
		Text:        text,
		IsInternal:  isInternal,
	}

	if err := s.complaintRepo.AddComment(nil, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// AddPublicComment is the unauthenticated entry point, keyed by the
// tracking number. The author is always anonymous and the comment is
// always public. A comment on a RESOLVED complaint reopens it.
func (s *ComplaintService) AddPublicComment(complaintNo, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	complaint, err := s.complaintRepo.GetComplaintByNo(complaintNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	comment := &models.Comment{
		ID:          uuid.New(),
		ComplaintID: complaint.ID,
		Text:        text,
	}

	reopened := complaint.Status == models.StatusResolved

	err = s.complaintRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.complaintRepo.AddComment(tx, comment); err != nil {
			return err
		}
		if reopened {
			complaint.Status = models.StatusInProgress
			return s.complaintRepo.UpdateComplaint(tx, complaint)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if reopened {
		config.Logger.Info("Complaint reopened by public comment",
			zap.String("complaint_no", complaint.ComplaintNo))
		s.notifyStatus(complaint)
		s.reindex(complaint)
	}

	return comment, nil
}

func (s *ComplaintService) notifyStatus(complaint *models.Complaint) {
	if complaint.PersonalInfo.WhatsAppNo == nil || *complaint.PersonalInfo.WhatsAppNo == "" {
		return
	}
	s.notifier.StatusUpdated(notifications.StatusUpdatedPayload{
		WhatsAppNo:  *complaint.PersonalInfo.WhatsAppNo,
		FullName:    complaint.PersonalInfo.FullName,
		ComplaintNo: complaint.ComplaintNo,
		Status:      string(complaint.Status),
	})
}

// reindex mirrors the complaint into the search index. Index failures
// never affect the primary operation.
func (s *ComplaintService) reindex(complaint *models.Complaint) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.UpdateComplaint(*complaint); err != nil {
		config.Logger.Warn("Failed to update search index",
			zap.String("complaint_no", complaint.ComplaintNo),
			zap.Error(err),
		)
	}
}
