package services

import (
	"complaint-tracking-backend/db/models"
	"complaint-tracking-backend/token"
)

// Operation names every gated action of the lifecycle engine.
type Operation string

const (
	OpListComplaints Operation = "complaints.list"
	OpGetComplaint   Operation = "complaints.get"
	OpUpdateStatus   Operation = "complaints.update_status"
	OpAssign         Operation = "complaints.assign"
	OpAddComment     Operation = "complaints.add_comment"
	OpGetStats       Operation = "complaints.stats"
	OpSearch         Operation = "complaints.search"
	OpListAssigned   Operation = "complaints.list_assigned"
)

// scopePredicate checks whether the actor may touch this specific
// complaint. A nil complaint means the operation is collection-level.
type scopePredicate func(actor *token.Payload, complaint *models.Complaint) bool

// policyRule pairs the roles allowed to invoke an operation with the
// per-complaint scope check applied after the role gate.
type policyRule struct {
	roles []models.Role
	scope scopePredicate
}

func anyScope(*token.Payload, *models.Complaint) bool { return true }

// ownComplaintOnly limits citizens to complaints they submitted. Staff
// roles pass through; the general listing stays unscoped for them.
func ownComplaintOnly(actor *token.Payload, complaint *models.Complaint) bool {
	if actor.Role != models.UserRole {
		return true
	}
	if complaint == nil || complaint.UserID == nil {
		return false
	}
	return *complaint.UserID == actor.UserID
}

// policyTable is the single source of truth for who may do what. Every
// service entry point consults it instead of branching on roles inline.
var policyTable = map[Operation]policyRule{
	OpListComplaints: {
		roles: []models.Role{models.UserRole, models.StaffRole, models.HODRole, models.AdminRole},
		scope: anyScope, // citizens are owner-filtered at the query, not rejected
	},
	OpGetComplaint: {
		roles: []models.Role{models.UserRole, models.StaffRole, models.HODRole, models.AdminRole},
		scope: ownComplaintOnly,
	},
	OpUpdateStatus: {
		roles: []models.Role{models.StaffRole, models.HODRole, models.AdminRole},
		scope: anyScope,
	},
	OpAssign: {
		roles: []models.Role{models.HODRole, models.AdminRole},
		scope: anyScope, // HOD department match is a separate validation
	},
	OpAddComment: {
		roles: []models.Role{models.UserRole, models.StaffRole, models.HODRole, models.AdminRole},
		scope: ownComplaintOnly,
	},
	OpGetStats: {
		roles: []models.Role{models.StaffRole, models.HODRole, models.AdminRole},
		scope: anyScope,
	},
	OpSearch: {
		roles: []models.Role{models.StaffRole, models.HODRole, models.AdminRole},
		scope: anyScope,
	},
	OpListAssigned: {
		roles: []models.Role{models.StaffRole, models.HODRole},
		scope: anyScope,
	},
}

// Authorize evaluates the policy table for one operation. It returns
// ErrForbidden on a role or scope violation and never consults anything
// outside the table.
func Authorize(op Operation, actor *token.Payload, complaint *models.Complaint) error {
	if actor == nil {
		return ErrForbidden
	}
	rule, ok := policyTable[op]
	if !ok {
		return ErrForbidden
	}
	allowed := false
	for _, role := range rule.roles {
		if actor.Role == role {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrForbidden
	}
	if !rule.scope(actor, complaint) {
		return ErrForbidden
	}
	return nil
}
