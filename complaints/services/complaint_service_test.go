package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"complaint-tracking-backend/complaints/repositories"
	"complaint-tracking-backend/config"
	"complaint-tracking-backend/db/models"
	"complaint-tracking-backend/notifications"
	"complaint-tracking-backend/token"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	config.InitTestLogger()
}

// fakeComplaintRepo is an in-memory stand-in with the same atomicity
// guarantees as the database-backed counter.
type fakeComplaintRepo struct {
	mu         sync.Mutex
	counters   map[string]int64
	complaints map[uuid.UUID]*models.Complaint
	comments   []models.Comment
	users      map[uuid.UUID]*models.User

	statusCounts []repositories.StatusCount
	deptCounts   []repositories.DepartmentCount
	trend        []repositories.MonthCount
	lastScope    repositories.StatsScope
	lastSince    time.Time
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{
		counters:   make(map[string]int64),
		complaints: make(map[uuid.UUID]*models.Complaint),
		users:      make(map[uuid.UUID]*models.User),
	}
}

func (r *fakeComplaintRepo) Transaction(fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (r *fakeComplaintRepo) NextSequence(_ *gorm.DB, prefix, period string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := prefix + "-" + period
	r.counters[key]++
	return r.counters[key], nil
}

func (r *fakeComplaintRepo) CreateComplaint(_ *gorm.DB, complaint *models.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *complaint
	r.complaints[complaint.ID] = &clone
	return nil
}

func (r *fakeComplaintRepo) AddComment(_ *gorm.DB, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *comment
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.comments = append(r.comments, stored)
	return nil
}

func (r *fakeComplaintRepo) assemble(complaint *models.Complaint) *models.Complaint {
	clone := *complaint
	clone.Comments = nil
	for _, comment := range r.comments {
		if comment.ComplaintID != complaint.ID {
			continue
		}
		withUser := comment
		if withUser.UserID != nil {
			withUser.User = r.users[*withUser.UserID]
		}
		clone.Comments = append(clone.Comments, withUser)
	}
	return &clone
}

func (r *fakeComplaintRepo) GetComplaintByID(id uuid.UUID) (*models.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint, ok := r.complaints[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.assemble(complaint), nil
}

func (r *fakeComplaintRepo) GetComplaintByNo(complaintNo string) (*models.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, complaint := range r.complaints {
		if complaint.ComplaintNo == complaintNo {
			return r.assemble(complaint), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeComplaintRepo) UpdateComplaint(_ *gorm.DB, complaint *models.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *complaint
	clone.Comments = nil
	r.complaints[complaint.ID] = &clone
	return nil
}

func (r *fakeComplaintRepo) GetFilteredComplaints(int, int, map[string]string, *uuid.UUID) ([]models.Complaint, int64, error) {
	return nil, 0, nil
}

func (r *fakeComplaintRepo) GetAssignedComplaints(uuid.UUID, string, int, int) ([]models.Complaint, int64, error) {
	return nil, 0, nil
}

func (r *fakeComplaintRepo) GetAllComplaints() ([]models.Complaint, error) { return nil, nil }

func (r *fakeComplaintRepo) CountByStatus(scope repositories.StatsScope) ([]repositories.StatusCount, error) {
	r.lastScope = scope
	return r.statusCounts, nil
}

func (r *fakeComplaintRepo) CountByDepartment(scope repositories.StatsScope) ([]repositories.DepartmentCount, error) {
	r.lastScope = scope
	return r.deptCounts, nil
}

func (r *fakeComplaintRepo) MonthlyTrend(scope repositories.StatsScope, since time.Time) ([]repositories.MonthCount, error) {
	r.lastScope = scope
	r.lastSince = since
	return r.trend, nil
}

type fakeDepartmentRepo struct {
	departments map[string]*models.Department
}

func (r *fakeDepartmentRepo) CreateDepartment(d *models.Department) (*models.Department, error) {
	return d, nil
}

func (r *fakeDepartmentRepo) GetDepartmentByID(id string) (*models.Department, error) {
	if department, ok := r.departments[id]; ok {
		return department, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeDepartmentRepo) GetActiveDepartments() ([]models.Department, error) { return nil, nil }

func (r *fakeDepartmentRepo) UpdateDepartment(d *models.Department) (*models.Department, error) {
	return d, nil
}

func (r *fakeDepartmentRepo) GetFilteredDepartments(int, int, map[string]string) ([]models.Department, int64, error) {
	return nil, 0, nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func (r *fakeUserRepo) CreateUser(u *models.User) (*models.User, error) { return u, nil }

func (r *fakeUserRepo) GetUserByID(id string) (*models.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByEmail(string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByCNIC(string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) UpdateUser(u *models.User) (*models.User, error) { return u, nil }

func (r *fakeUserRepo) GetActiveHOD(string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetHODs() ([]models.User, error) { return nil, nil }

func (r *fakeUserRepo) GetDepartmentStaff(string) ([]models.User, error) { return nil, nil }

func (r *fakeUserRepo) GetFilteredUsers(int, int, map[string]string) ([]models.User, int64, error) {
	return nil, 0, nil
}

type fakeFileRepo struct {
	files    map[uuid.UUID]*models.File
	attached []uuid.UUID
}

func (r *fakeFileRepo) CreateFile(_ *gorm.DB, f *models.File) (*models.File, error) { return f, nil }

func (r *fakeFileRepo) GetFileByID(id uuid.UUID) (*models.File, error) {
	if file, ok := r.files[id]; ok {
		return file, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeFileRepo) GetFilesByIDs(ids []uuid.UUID) ([]models.File, error) {
	var files []models.File
	for _, id := range ids {
		if file, ok := r.files[id]; ok {
			files = append(files, *file)
		}
	}
	return files, nil
}

func (r *fakeFileRepo) GetFilesByComplaintID(uuid.UUID) ([]models.File, error) { return nil, nil }

func (r *fakeFileRepo) AttachToComplaint(_ *gorm.DB, fileIDs []uuid.UUID, _ uuid.UUID) error {
	r.attached = append(r.attached, fileIDs...)
	return nil
}

func (r *fakeFileRepo) DeleteFile(uuid.UUID) error { return nil }

type fakeNotifier struct {
	mu         sync.Mutex
	registered []notifications.ComplaintRegisteredPayload
	statuses   []notifications.StatusUpdatedPayload
}

func (n *fakeNotifier) ComplaintRegistered(p notifications.ComplaintRegisteredPayload) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.registered = append(n.registered, p)
}

func (n *fakeNotifier) StatusUpdated(p notifications.StatusUpdatedPayload) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statuses = append(n.statuses, p)
}

type fakeIndexer struct {
	mu      sync.Mutex
	indexed int
}

func (i *fakeIndexer) IndexSingleComplaint(models.Complaint) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.indexed++
	return nil
}

func (i *fakeIndexer) UpdateComplaint(models.Complaint) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.indexed++
	return nil
}

type serviceFixture struct {
	service       *ComplaintService
	complaintRepo *fakeComplaintRepo
	fileRepo      *fakeFileRepo
	userRepo      *fakeUserRepo
	notifier      *fakeNotifier
	department    *models.Department
}

func newFixture() *serviceFixture {
	department := &models.Department{
		ID:       uuid.New(),
		Name:     "Housing Projects",
		Type:     models.HousingProjectsDepartment,
		IsActive: true,
	}
	complaintRepo := newFakeComplaintRepo()
	fileRepo := &fakeFileRepo{files: make(map[uuid.UUID]*models.File)}
	userRepo := &fakeUserRepo{users: make(map[string]*models.User)}
	notifier := &fakeNotifier{}

	service := NewComplaintService(
		complaintRepo,
		&fakeDepartmentRepo{departments: map[string]*models.Department{
			department.ID.String(): department,
		}},
		userRepo,
		fileRepo,
		notifier,
		&fakeIndexer{},
	)

	return &serviceFixture{
		service:       service,
		complaintRepo: complaintRepo,
		fileRepo:      fileRepo,
		userRepo:      userRepo,
		notifier:      notifier,
		department:    department,
	}
}

func validInput(departmentID string) *CreateComplaintInput {
	return &CreateComplaintInput{
		DepartmentID: departmentID,
		PersonalInfo: models.PersonalInfo{
			FullName: "Ahmed Raza",
			MobileNo: "03001234567",
			CNICNo:   "3520212345671",
			City:     "Lahore",
		},
	}
}

func actorWithRole(role models.Role) *token.Payload {
	return &token.Payload{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Email:  fmt.Sprintf("%s@example.com", role),
		Role:   role,
	}
}

func TestCreateComplaintNumbering(t *testing.T) {
	f := newFixture()
	period := time.Now().Format("200601")

	first, err := f.service.CreateComplaint(validInput(f.department.ID.String()), nil)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("HO-%s-00001", period), first.ComplaintNo)
	assert.Equal(t, models.StatusPending, first.Status)
	assert.Nil(t, first.UserID)

	second, err := f.service.CreateComplaint(validInput(f.department.ID.String()), nil)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("HO-%s-00002", period), second.ComplaintNo)
}

func TestCreateComplaintConcurrentNumbering(t *testing.T) {
	f := newFixture()

	const workers = 50
	results := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			complaint, err := f.service.CreateComplaint(validInput(f.department.ID.String()), nil)
			if err != nil {
				results <- "error: " + err.Error()
				return
			}
			results <- complaint.ComplaintNo
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for number := range results {
		assert.False(t, seen[number], "duplicate complaint number %s", number)
		seen[number] = true
	}
	assert.Len(t, seen, workers)
}

func TestNumberPrefix(t *testing.T) {
	assert.Equal(t, "HO", NumberPrefix(models.HousingProjectsDepartment))
	assert.Equal(t, "LE", NumberPrefix(models.LescoDepartment))
	assert.Equal(t, "HP", NumberPrefix(models.DepartmentType("")))
	assert.Equal(t, "HP", NumberPrefix(models.DepartmentType("x")))
}

func TestCreateComplaintInactiveDepartment(t *testing.T) {
	f := newFixture()
	f.department.IsActive = false

	_, err := f.service.CreateComplaint(validInput(f.department.ID.String()), nil)
	assert.ErrorIs(t, err, ErrDepartmentInactive)
	assert.Empty(t, f.complaintRepo.complaints)
}

func TestCreateComplaintUnknownDepartment(t *testing.T) {
	f := newFixture()

	_, err := f.service.CreateComplaint(validInput(uuid.NewString()), nil)
	assert.ErrorIs(t, err, ErrDepartmentNotFound)
}

func TestCreateComplaintCNICValidation(t *testing.T) {
	f := newFixture()

	for _, cnic := range []string{"", "123", "35202-1234567-1", "35202123456712", "abcdefghijklm"} {
		input := validInput(f.department.ID.String())
		input.PersonalInfo.CNICNo = cnic
		_, err := f.service.CreateComplaint(input, nil)
		assert.ErrorIs(t, err, ErrValidation, "cnic %q should be rejected", cnic)
	}
}

func TestCreateComplaintInitialComment(t *testing.T) {
	f := newFixture()

	complaint, err := f.service.CreateComplaint(validInput(f.department.ID.String()), nil)
	require.NoError(t, err)

	fetched, err := f.complaintRepo.GetComplaintByID(complaint.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Comments, 1)
	assert.Equal(t, "Complaint received and registered", fetched.Comments[0].Text)
	assert.True(t, fetched.Comments[0].IsSystem)
	assert.Nil(t, fetched.Comments[0].UserID)
}

func TestCreateComplaintDocumentRefs(t *testing.T) {
	f := newFixture()
	fileID := uuid.New()
	f.fileRepo.files[fileID] = &models.File{ID: fileID, FileType: models.IDCardFile}

	input := validInput(f.department.ID.String())
	input.Documents = map[string]string{"idCard": fileID.String()}

	complaint, err := f.service.CreateComplaint(input, nil)
	require.NoError(t, err)
	assert.Equal(t, fileID.String(), complaint.Documents["idCard"])
	assert.Equal(t, []uuid.UUID{fileID}, f.fileRepo.attached)
}

func TestCreateComplaintRejectsBadDocumentRefs(t *testing.T) {
	f := newFixture()

	cases := map[string]map[string]string{
		"unknown slot":  {"passport": uuid.NewString()},
		"malformed id":  {"idCard": "not-a-uuid"},
		"missing file":  {"idCard": uuid.NewString()},
		"foreign owner": {"idCard": ""}, // filled below
	}

	foreignID := uuid.New()
	owner := uuid.New()
	f.fileRepo.files[foreignID] = &models.File{ID: foreignID, UploadedByID: &owner}
	cases["foreign owner"]["idCard"] = foreignID.String()

	for name, documents := range cases {
		input := validInput(f.department.ID.String())
		input.Documents = documents
		_, err := f.service.CreateComplaint(input, nil)
		assert.ErrorIs(t, err, ErrInvalidDocumentRef, name)
	}
}

func TestCreateComplaintNotifiesWhatsApp(t *testing.T) {
	f := newFixture()

	input := validInput(f.department.ID.String())
	whatsapp := "03331234567"
	input.PersonalInfo.WhatsAppNo = &whatsapp

	complaint, err := f.service.CreateComplaint(input, nil)
	require.NoError(t, err)
	require.Len(t, f.notifier.registered, 1)
	assert.Equal(t, complaint.ComplaintNo, f.notifier.registered[0].ComplaintNo)
	assert.Equal(t, whatsapp, f.notifier.registered[0].WhatsAppNo)
}

func TestGetComplaintRoleScoping(t *testing.T) {
	f := newFixture()
	owner := actorWithRole(models.UserRole)

	created, err := f.service.CreateComplaint(validInput(f.department.ID.String()), owner)
	require.NoError(t, err)

	_, err = f.service.GetComplaint(created.ID, owner)
	assert.NoError(t, err)

	_, err = f.service.GetComplaint(created.ID, actorWithRole(models.UserRole))
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.service.GetComplaint(created.ID, actorWithRole(models.StaffRole))
	assert.NoError(t, err)

	_, err = f.service.GetComplaint(created.ID, actorWithRole(models.AdminRole))
	assert.NoError(t, err)

	_, err = f.service.GetComplaint(uuid.New(), actorWithRole(models.AdminRole))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := newFixture()
	staff := actorWithRole(models.StaffRole)

	created, err := f.service.CreateComplaint(validInput(f.department.ID.String()), nil)
	require.NoError(t, err)

	updated, err := f.service.UpdateStatus(created.ID, staff, models.StatusInProgress, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, updated.Status)

	// Rejected is absorbing
	updated, err = f.service.UpdateStatus(created.ID, staff, models.StatusRejected, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, updated.Status)

	_, err = f.service.UpdateStatus(created.ID, staff, models.StatusInProgress, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusResolvedPopulatesResolution(t *testing.T) {
	f := newFixture()
	staff := actorWithRole(models.StaffRole)

	created, err := f.service.CreateComplaint(validInput(f.department.ID.String()), nil)
	require.NoError(t, err)

	summary := "Replaced the allotment letter"
	resolved, err := f.service.UpdateStatus(created.ID, staff, models.StatusResolved, &summary)
	require.NoError(t, err)

	require.NotNil(t, resolved.Resolution.ResolvedByID)
	assert.Equal(t, staff.UserID, *resolved.Resolution.ResolvedByID)
	assert.NotNil(t, resolved.Resolution.ResolvedAt)
	assert.Equal(t, summary, *resolved.Resolution.ResolutionSummary)

	fetched, err := f.complaintRepo.GetComplaintByID(created.ID)
	require.NoError(t, err)
	var resolutionComment *models.Comment
	for i := range fetched.Comments {
		if fetched.Comments[i].Text == summary {
			resolutionComment = &fetched.Comments[i]
		}
	}
	require.NotNil(t, resolutionComment, "resolution should append a comment")
	assert.False(t, resolutionComment.IsInternal)
}

func TestUpdateStatusRejectsInvalidValue(t *testing.T) {
	f := newFixture()

	created, err := f.service.CreateComplaint(validInput(f.department.ID.String()), nil)
	require.NoError(t, err)

	_, err = f.service.UpdateStatus(created.ID, actorWithRole(models.StaffRole), "escalated", nil)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatusRequiresStaffRole(t *testing.T) {
	f := newFixture()

	created, err := f.service.CreateComplaint(validInput(f.department.ID.String()), nil)
	require.NoError(t, err)

	_, err = f.service.UpdateStatus(created.ID, actorWithRole(models.UserRole), models.StatusInProgress, nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAssignComplaintHODDepartmentMismatch(t *testing.T) {
	f := newFixture()

	created, err := f.service.CreateComplaint(validInput(f.department.ID.String()), nil)
	require.NoError(t, err)

	hod := actorWithRole(models.HODRole)
	deptID := f.department.ID
	f.userRepo.users[hod.UserID.String()] = &models.User{
		ID: hod.UserID, Role: models.HODRole, AssignedDepartmentID: &deptID,
	}

	otherDept := uuid.New()
	staffID := uuid.New()
	f.userRepo.users[staffID.String()] = &models.User{
		ID: staffID, Role: models.StaffRole, AssignedDepartmentID: &otherDept,
	}

	_, err = f.service.AssignComplaint(created.ID, hod, &staffID)
	assert.ErrorIs(t, err, ErrDepartmentMismatch)

	fetched, err := f.complaintRepo.GetComplaintByID(created.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.AssignedToID)
}

func TestAssignComplaintHODOwnDepartment(t *testing.T) {
	f := newFixture()

	created, err := f.service.CreateComplaint(validInput(f.department.ID.String()), nil)
	require.NoError(t, err)

	hod := actorWithRole(models.HODRole)
	deptID := f.department.ID
	f.userRepo.users[hod.UserID.String()] = &models.User{
		ID: hod.UserID, Role: models.HODRole, AssignedDepartmentID: &deptID,
	}
	staffID := uuid.New()
	f.userRepo.users[staffID.String()] = &models.User{
		ID: staffID, Name: "Bilal", Role: models.StaffRole, AssignedDepartmentID: &deptID,
	}

	assigned, err := f.service.AssignComplaint(created.ID, hod, &staffID)
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedToID)
	assert.Equal(t, staffID, *assigned.AssignedToID)

	// Assignment leaves an internal audit comment
	fetched, err := f.complaintRepo.GetComplaintByID(created.ID)
	require.NoError(t, err)
	var found bool
	for _, comment := range fetched.Comments {
		if comment.IsInternal && comment.Text == "Assigned to Bilal" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAddCommentRules(t *testing.T) {
	f := newFixture()
	owner := actorWithRole(models.UserRole)

	created, err := f.service.CreateComplaint(validInput(f.department.ID.String()), owner)
	require.NoError(t, err)

	_, err = f.service.AddComment(created.ID, owner, "", false)
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = f.service.AddComment(created.ID, owner, "Any update?", true)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.service.AddComment(created.ID, actorWithRole(models.UserRole), "hello", false)
	assert.ErrorIs(t, err, ErrForbidden)

	comment, err := f.service.AddComment(created.ID, owner, "Any update?", false)
	require.NoError(t, err)
	assert.Equal(t, owner.UserID, *comment.UserID)

	staffComment, err := f.service.AddComment(created.ID, actorWithRole(models.StaffRole), "Checking records", true)
	require.NoError(t, err)
	assert.True(t, staffComment.IsInternal)
}

func TestAddPublicCommentReopensResolved(t *testing.T) {
	f := newFixture()
	staff := actorWithRole(models.StaffRole)

	created, err := f.service.CreateComplaint(validInput(f.department.ID.String()), nil)
	require.NoError(t, err)

	_, err = f.service.UpdateStatus(created.ID, staff, models.StatusResolved, nil)
	require.NoError(t, err)

	comment, err := f.service.AddPublicComment(created.ComplaintNo, "The issue is back")
	require.NoError(t, err)
	assert.Nil(t, comment.UserID)
	assert.False(t, comment.IsInternal)

	fetched, err := f.complaintRepo.GetComplaintByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, fetched.Status)
}

func TestAddPublicCommentUnknownNumber(t *testing.T) {
	f := newFixture()

	_, err := f.service.AddPublicComment("HO-209901-00001", "hello")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.service.AddPublicComment("HO-209901-00001", "  ")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestTrackComplaintProjection(t *testing.T) {
	f := newFixture()
	staff := actorWithRole(models.StaffRole)
	f.complaintRepo.users[staff.UserID] = &models.User{ID: staff.UserID, Role: models.StaffRole}

	input := validInput(f.department.ID.String())
	project := "Green Valley"
	input.PropertyInfo.HousingProject = &project

	created, err := f.service.CreateComplaint(input, nil)
	require.NoError(t, err)

	_, err = f.service.AddComment(created.ID, staff, "Internal note", true)
	require.NoError(t, err)
	_, err = f.service.AddComment(created.ID, staff, "We are reviewing your file", false)
	require.NoError(t, err)
	_, err = f.service.AddPublicComment(created.ComplaintNo, "Thank you")
	require.NoError(t, err)

	view, err := f.service.TrackComplaint(created.ComplaintNo)
	require.NoError(t, err)

	assert.Equal(t, created.ComplaintNo, view.ComplaintNo)
	assert.Equal(t, &project, view.HousingProject)

	require.Len(t, view.Comments, 3)
	authors := make([]string, 0, len(view.Comments))
	for _, comment := range view.Comments {
		assert.NotEqual(t, "Internal note", comment.Text)
		authors = append(authors, comment.Author)
	}
	assert.ElementsMatch(t, []string{"System", "Staff", "Complainant"}, authors)

	// Tracking is read-only; a second fetch is identical
	again, err := f.service.TrackComplaint(created.ComplaintNo)
	require.NoError(t, err)
	assert.Equal(t, view.Status, again.Status)
	assert.Equal(t, len(view.Comments), len(again.Comments))
}

func TestFormatComplaintNo(t *testing.T) {
	assert.Equal(t, "HO-202503-00001", FormatComplaintNo("HO", "202503", 1))
	assert.Equal(t, "LE-202512-00042", FormatComplaintNo("LE", "202512", 42))
}
