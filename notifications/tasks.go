package notifications

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type names routed through the asynq queue.
const (
	TypeComplaintRegistered = "notification:complaint_registered"
	TypeStatusUpdated       = "notification:status_updated"
	TypeCredentialsIssued   = "notification:credentials_issued"
)

// ComplaintRegisteredPayload notifies the complainant that their complaint
// was filed and which tracking number it received.
type ComplaintRegisteredPayload struct {
	WhatsAppNo     string `json:"whatsapp_no"`
	FullName       string `json:"full_name"`
	ComplaintNo    string `json:"complaint_no"`
	DepartmentName string `json:"department_name"`
	ProblemType    string `json:"problem_type"`
	Status         string `json:"status"`
}

// StatusUpdatedPayload notifies the complainant of a status change.
type StatusUpdatedPayload struct {
	WhatsAppNo  string `json:"whatsapp_no"`
	FullName    string `json:"full_name"`
	ComplaintNo string `json:"complaint_no"`
	Status      string `json:"status"`
}

// CredentialsIssuedPayload delivers an initial single-use credential to a
// freshly provisioned staff/HOD account. The credential is forced to rotate
// on first login.
type CredentialsIssuedPayload struct {
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Name           string `json:"name"`
	DepartmentName string `json:"department_name"`
	Role           string `json:"role"`
	TempPassword   string `json:"temp_password"`
}

func NewComplaintRegisteredTask(p ComplaintRegisteredPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeComplaintRegistered, payload, asynq.MaxRetry(3)), nil
}

func NewStatusUpdatedTask(p StatusUpdatedPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeStatusUpdated, payload, asynq.MaxRetry(3)), nil
}

func NewCredentialsIssuedTask(p CredentialsIssuedPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeCredentialsIssued, payload, asynq.MaxRetry(5)), nil
}
