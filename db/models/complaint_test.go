package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from    ComplaintStatus
		to      ComplaintStatus
		allowed bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusResolved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusClosed, true},

		{StatusInProgress, StatusResolved, true},
		{StatusInProgress, StatusRejected, true},
		{StatusInProgress, StatusClosed, true},
		{StatusInProgress, StatusPending, false},

		{StatusResolved, StatusInProgress, true},
		{StatusResolved, StatusClosed, true},
		{StatusResolved, StatusPending, false},
		{StatusResolved, StatusRejected, false},

		{StatusClosed, StatusInProgress, true},
		{StatusClosed, StatusResolved, false},
		{StatusClosed, StatusPending, false},

		// Rejected is terminal
		{StatusRejected, StatusPending, false},
		{StatusRejected, StatusInProgress, false},
		{StatusRejected, StatusResolved, false},
		{StatusRejected, StatusClosed, false},

		// Self-transitions are never allowed
		{StatusPending, StatusPending, false},
		{StatusResolved, StatusResolved, false},
	}

	for _, tc := range cases {
		got := CanTransition(tc.from, tc.to)
		assert.Equal(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestValidComplaintStatus(t *testing.T) {
	for _, status := range []ComplaintStatus{
		StatusPending, StatusInProgress, StatusResolved, StatusClosed, StatusRejected,
	} {
		assert.True(t, ValidComplaintStatus(status), string(status))
	}
	assert.False(t, ValidComplaintStatus("escalated"))
	assert.False(t, ValidComplaintStatus(""))
	assert.False(t, ValidComplaintStatus("PENDING"))
}

func TestValidFileType(t *testing.T) {
	for _, fileType := range []FileType{
		IDCardFile, RegistrationFile, PaymentReceiptsFile, AllotmentLetterFile,
		CancellationLetterFile, DemandLetterFile, OtherFile,
	} {
		assert.True(t, ValidFileType(fileType), string(fileType))
	}
	assert.False(t, ValidFileType("passport"))
	assert.False(t, ValidFileType(""))
}

func TestRoles(t *testing.T) {
	assert.True(t, ValidRole(UserRole))
	assert.True(t, ValidRole(AdminRole))
	assert.False(t, ValidRole("superadmin"))

	assert.True(t, StaffRole.IsStaffRole())
	assert.True(t, HODRole.IsStaffRole())
	assert.False(t, UserRole.IsStaffRole())
	assert.False(t, AdminRole.IsStaffRole())
}

func TestValidDepartmentType(t *testing.T) {
	assert.True(t, ValidDepartmentType(HousingProjectsDepartment))
	assert.True(t, ValidDepartmentType(LescoDepartment))
	assert.False(t, ValidDepartmentType("wasa"))
}
