package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/customerhub/customerhub/internal/audit"
	jobmetrics "github.com/customerhub/customerhub/internal/jobs"
)

// auditWriter is the write side of audit.Service.
type auditWriter interface {
	Log(ctx context.Context, message string) (audit.Entry, error)
}

// AuditLogJob persists audit messages consumed from the queue.
type AuditLogJob struct {
	Service auditWriter
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewAuditLogJob initialises the audit consumer.
func NewAuditLogJob(service auditWriter, logger *slog.Logger, metrics *jobmetrics.Metrics) *AuditLogJob {
	return &AuditLogJob{Service: service, Logger: logger, Metrics: metrics}
}

// Handle decodes one TaskAuditLog task and appends it to the audit log.
func (j *AuditLogJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Service == nil {
		return errors.New("audit log: handler not configured")
	}
	var payload AuditLogPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		j.logger().Warn("discarding malformed audit task", slog.Any("error", err))
		return fmt.Errorf("decode audit payload: %v: %w", err, asynq.SkipRetry)
	}
	if strings.TrimSpace(payload.Message) == "" {
		return fmt.Errorf("empty audit message: %w", asynq.SkipRetry)
	}

	tracker := j.Metrics.Track(TaskAuditLog)
	defer func() {
		err = tracker.End(err)
	}()

	entry, err := j.Service.Log(ctx, payload.Message)
	if err != nil {
		j.logger().Error("append audit entry", slog.Any("error", err))
		return err
	}
	j.logger().Info("audit entry appended", slog.Int64("id", entry.ID))
	return nil
}

func (j *AuditLogJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
