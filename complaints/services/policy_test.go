package services

import (
	"testing"

	"complaint-tracking-backend/db/models"
	"complaint-tracking-backend/token"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAuthorizeRoleGates(t *testing.T) {
	cases := []struct {
		op      Operation
		role    models.Role
		allowed bool
	}{
		{OpListComplaints, models.UserRole, true},
		{OpListComplaints, models.AdminRole, true},

		{OpUpdateStatus, models.UserRole, false},
		{OpUpdateStatus, models.StaffRole, true},
		{OpUpdateStatus, models.HODRole, true},
		{OpUpdateStatus, models.AdminRole, true},

		{OpAssign, models.UserRole, false},
		{OpAssign, models.StaffRole, false},
		{OpAssign, models.HODRole, true},
		{OpAssign, models.AdminRole, true},

		{OpGetStats, models.UserRole, false},
		{OpGetStats, models.StaffRole, true},

		{OpSearch, models.UserRole, false},
		{OpSearch, models.HODRole, true},

		{OpListAssigned, models.UserRole, false},
		{OpListAssigned, models.StaffRole, true},
		{OpListAssigned, models.HODRole, true},
		{OpListAssigned, models.AdminRole, false},
	}

	for _, tc := range cases {
		actor := &token.Payload{ID: uuid.New(), UserID: uuid.New(), Role: tc.role}
		err := Authorize(tc.op, actor, nil)
		if tc.allowed {
			assert.NoError(t, err, "%s as %s", tc.op, tc.role)
		} else {
			assert.ErrorIs(t, err, ErrForbidden, "%s as %s", tc.op, tc.role)
		}
	}
}

func TestAuthorizeOwnComplaintScope(t *testing.T) {
	ownerID := uuid.New()
	complaint := &models.Complaint{ID: uuid.New(), UserID: &ownerID}

	owner := &token.Payload{ID: uuid.New(), UserID: ownerID, Role: models.UserRole}
	assert.NoError(t, Authorize(OpGetComplaint, owner, complaint))

	stranger := &token.Payload{ID: uuid.New(), UserID: uuid.New(), Role: models.UserRole}
	assert.ErrorIs(t, Authorize(OpGetComplaint, stranger, complaint), ErrForbidden)

	staff := &token.Payload{ID: uuid.New(), UserID: uuid.New(), Role: models.StaffRole}
	assert.NoError(t, Authorize(OpGetComplaint, staff, complaint))

	// Anonymous submissions have no owner a citizen could match
	anonymous := &models.Complaint{ID: uuid.New()}
	assert.ErrorIs(t, Authorize(OpGetComplaint, owner, anonymous), ErrForbidden)
}

func TestAuthorizeRejectsNilActorAndUnknownOp(t *testing.T) {
	assert.ErrorIs(t, Authorize(OpGetComplaint, nil, nil), ErrForbidden)

	actor := &token.Payload{ID: uuid.New(), UserID: uuid.New(), Role: models.AdminRole}
	assert.ErrorIs(t, Authorize(Operation("complaints.delete"), actor, nil), ErrForbidden)
}
