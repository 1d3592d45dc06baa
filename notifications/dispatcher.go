package notifications

import (
	"complaint-tracking-backend/config"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Dispatcher enqueues notification tasks after the triggering operation has
// committed. Enqueue failures are logged and swallowed: notification delivery
// must never fail the primary operation. Retries belong to the worker.
type Dispatcher struct {
	client *asynq.Client
}

func NewDispatcher(client *asynq.Client) *Dispatcher {
	return &Dispatcher{client: client}
}

func (d *Dispatcher) ComplaintRegistered(p ComplaintRegisteredPayload) {
	task, err := NewComplaintRegisteredTask(p)
	if err != nil {
		config.Logger.Error("Failed to build complaint-registered task", zap.Error(err))
		return
	}
	d.enqueue(task, p.ComplaintNo)
}

func (d *Dispatcher) StatusUpdated(p StatusUpdatedPayload) {
	task, err := NewStatusUpdatedTask(p)
	if err != nil {
		config.Logger.Error("Failed to build status-updated task", zap.Error(err))
		return
	}
	d.enqueue(task, p.ComplaintNo)
}

func (d *Dispatcher) CredentialsIssued(p CredentialsIssuedPayload) {
	task, err := NewCredentialsIssuedTask(p)
	if err != nil {
		config.Logger.Error("Failed to build credentials-issued task", zap.Error(err))
		return
	}
	d.enqueue(task, p.Email)
}

func (d *Dispatcher) enqueue(task *asynq.Task, subject string) {
	info, err := d.client.Enqueue(task)
	if err != nil {
		config.Logger.Error("Failed to enqueue notification task",
			zap.String("type", task.Type()),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return
	}
	config.Logger.Info("Notification task enqueued",
		zap.String("type", task.Type()),
		zap.String("task_id", info.ID),
	)
}
