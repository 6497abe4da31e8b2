package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueAudit is the default queue for audit notifications.
	QueueAudit = "audit"
	// TaskAuditLog is the task type carrying one audit message.
	TaskAuditLog = "audit:log"
)

// AuditLogPayload is the wire body of a TaskAuditLog task.
type AuditLogPayload struct {
	Message string `json:"message"`
}

// NewAuditLogTask constructs an Asynq task for message.
func NewAuditLogTask(message string, opts ...asynq.Option) (*asynq.Task, error) {
	if strings.TrimSpace(message) == "" {
		return nil, errors.New("audit task: message is required")
	}
	body, err := json.Marshal(AuditLogPayload{Message: message})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditLog, body, opts...), nil
}

// AuditTaskOptions returns the enqueue options shared by every audit producer.
// Each call carries a fresh task id.
func AuditTaskOptions(queue string) []asynq.Option {
	if queue == "" {
		queue = QueueAudit
	}
	return []asynq.Option{
		asynq.Queue(queue),
		asynq.MaxRetry(auditMaxRetry),
		asynq.TaskID(uuid.NewString()),
	}
}

// EnqueueAuditLog builds an audit task for message and submits it on queue.
func EnqueueAuditLog(ctx context.Context, enq Enqueuer, queue, message string) (*asynq.TaskInfo, error) {
	task, err := NewAuditLogTask(message)
	if err != nil {
		return nil, err
	}
	return enq.EnqueueContext(ctx, task, AuditTaskOptions(queue)...)
}
