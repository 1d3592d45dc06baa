package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"complaint-tracking-backend/config"
	"complaint-tracking-backend/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Processor consumes notification tasks on the worker side. It owns all
// delivery failure handling; the enqueueing operation has long since
// returned to its caller.
type Processor struct {
	whatsapp *WhatsAppSender
}

func NewProcessor(whatsapp *WhatsAppSender) *Processor {
	return &Processor{whatsapp: whatsapp}
}

// Register attaches all task handlers to the mux.
func (p *Processor) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeComplaintRegistered, p.HandleComplaintRegistered)
	mux.HandleFunc(TypeStatusUpdated, p.HandleStatusUpdated)
	mux.HandleFunc(TypeCredentialsIssued, p.HandleCredentialsIssued)
}

func (p *Processor) HandleComplaintRegistered(ctx context.Context, t *asynq.Task) error {
	var payload ComplaintRegisteredPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	message := fmt.Sprintf(
		"Dear %s,\n\nYour complaint has been successfully registered with Complaint Number: %s\n\nDepartment: %s\nIssue: %s\nStatus: %s\nYou can track your complaint status using the complaint number.\n\nThank you,\n%s Support Team",
		payload.FullName, payload.ComplaintNo, payload.DepartmentName,
		payload.ProblemType, payload.Status, payload.DepartmentName,
	)

	if err := p.whatsapp.SendMessage(ctx, payload.WhatsAppNo, message); err != nil {
		config.Logger.Error("Complaint-registered notification failed",
			zap.String("complaint_no", payload.ComplaintNo),
			zap.Error(err),
		)
		return err
	}

	config.Logger.Info("Complaint-registered notification sent",
		zap.String("complaint_no", payload.ComplaintNo))
	return nil
}

func (p *Processor) HandleStatusUpdated(ctx context.Context, t *asynq.Task) error {
	var payload StatusUpdatedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	message := fmt.Sprintf(
		"Dear %s,\n\nThe status of your complaint %s has been updated to: %s\n\nYou can track your complaint using the complaint number.",
		payload.FullName, payload.ComplaintNo, payload.Status,
	)

	if err := p.whatsapp.SendMessage(ctx, payload.WhatsAppNo, message); err != nil {
		config.Logger.Error("Status-updated notification failed",
			zap.String("complaint_no", payload.ComplaintNo),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func (p *Processor) HandleCredentialsIssued(ctx context.Context, t *asynq.Task) error {
	var payload CredentialsIssuedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	subject := "Your complaint portal account"
	textBody := fmt.Sprintf(
		"Hello %s,\n\nAn account has been created for you as %s of %s.\n\nLogin email: %s\nTemporary password: %s\n\nThis password is single-use; you will be asked to set a new one on first login.",
		payload.Name, payload.Role, payload.DepartmentName, payload.Email, payload.TempPassword,
	)
	htmlBody := fmt.Sprintf(`
		<html>
			<body>
				<p>Hello %s,</p>
				<p>An account has been created for you as <strong>%s</strong> of %s.</p>
				<p>Login email: <strong>%s</strong><br>Temporary password: <strong>%s</strong></p>
				<p>This password is single-use; you will be asked to set a new one on first login.</p>
			</body>
		</html>
	`, payload.Name, payload.Role, payload.DepartmentName, payload.Email, payload.TempPassword)

	if err := utils.SendEmail(payload.Email, subject, textBody, htmlBody); err != nil {
		config.Logger.Error("Credentials email failed",
			zap.String("email", payload.Email),
			zap.Error(err),
		)
		return err
	}

	if payload.Phone != "" {
		message := fmt.Sprintf(
			"Hello %s, your %s account for %s is ready. Check your email (%s) for the temporary password.",
			payload.Name, payload.Role, payload.DepartmentName, payload.Email,
		)
		if err := p.whatsapp.SendMessage(ctx, payload.Phone, message); err != nil {
			// Email already went out; don't retry the whole task for this.
			config.Logger.Warn("Credentials WhatsApp notice failed",
				zap.String("phone", payload.Phone),
				zap.Error(err),
			)
		}
	}

	return nil
}
