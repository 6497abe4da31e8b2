package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/customerhub/customerhub/jobs"
)

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

type queueInspector interface {
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
	ListScheduledTasks(queue string, opts ...asynq.ListOption) ([]*asynq.TaskInfo, error)
	ListRetryTasks(queue string, opts ...asynq.ListOption) ([]*asynq.TaskInfo, error)
	Close() error
}

// JobsCLI wraps manual management helpers for the audit queue.
type JobsCLI struct {
	client    taskEnqueuer
	inspector queueInspector
	queue     string
}

// NewJobsCLI initialises the CLI helpers using the provided Redis address.
func NewJobsCLI(redisAddr, queue string) *JobsCLI {
	opts := asynq.RedisClientOpt{Addr: redisAddr}
	return newJobsCLI(asynq.NewClient(opts), asynq.NewInspector(opts), queue)
}

func newJobsCLI(client taskEnqueuer, inspector queueInspector, queue string) *JobsCLI {
	if queue == "" {
		queue = jobs.QueueAudit
	}
	return &JobsCLI{client: client, inspector: inspector, queue: queue}
}

// Close releases underlying resources.
func (c *JobsCLI) Close() error {
	var errs []error
	if c.inspector != nil {
		errs = append(errs, c.inspector.Close())
	}
	if c.client != nil {
		errs = append(errs, c.client.Close())
	}
	return errors.Join(errs...)
}

// Trigger enqueues a manual audit message.
func (c *JobsCLI) Trigger(ctx context.Context, message string) (*asynq.TaskInfo, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("jobs cli: client not configured")
	}
	return jobs.EnqueueAuditLog(ctx, c.client, c.queue, message)
}

// QueueStats summarises the current queue state.
type QueueStats struct {
	Queue     string `json:"queue"`
	Pending   int    `json:"pending"`
	Active    int    `json:"active"`
	Scheduled int    `json:"scheduled"`
	Retry     int    `json:"retry"`
	Archived  int    `json:"archived"`
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
}

// InspectQueue reports the metrics for the audit queue. asynq.Inspector calls
// take no context.
func (c *JobsCLI) InspectQueue() (QueueStats, error) {
	if c == nil || c.inspector == nil {
		return QueueStats{}, errors.New("jobs cli: inspector not configured")
	}
	info, err := c.inspector.GetQueueInfo(c.queue)
	if err != nil {
		return QueueStats{}, err
	}
	stats := QueueStats{Queue: c.queue}
	if info != nil {
		stats.Pending = info.Pending
		stats.Active = info.Active
		stats.Scheduled = info.Scheduled
		stats.Retry = info.Retry
		stats.Archived = info.Archived
		stats.Processed = info.Processed
		stats.Failed = info.Failed
	}
	return stats, nil
}

// ListScheduled returns scheduled task infos for observability.
func (c *JobsCLI) ListScheduled(size int) ([]*asynq.TaskInfo, error) {
	if c == nil || c.inspector == nil {
		return nil, errors.New("jobs cli: inspector not configured")
	}
	if size <= 0 {
		size = 10
	}
	return c.inspector.ListScheduledTasks(c.queue, asynq.PageSize(size), asynq.Page(1))
}

// ListRetry returns tasks waiting for another attempt.
func (c *JobsCLI) ListRetry(size int) ([]*asynq.TaskInfo, error) {
	if c == nil || c.inspector == nil {
		return nil, errors.New("jobs cli: inspector not configured")
	}
	if size <= 0 {
		size = 10
	}
	return c.inspector.ListRetryTasks(c.queue, asynq.PageSize(size), asynq.Page(1))
}

// JobsOptions carries the output streams for Run.
type JobsOptions struct {
	Stdout io.Writer
	Stderr io.Writer
}

type taskSummary struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Payload  string `json:"payload"`
	Retried  int    `json:"retried"`
	LastErr  string `json:"last_error,omitempty"`
	NextTime string `json:"next_process_at,omitempty"`
}

// Run executes `jobs <trigger|stats|scheduled|retry>` and returns an exit code.
func (c *JobsCLI) Run(ctx context.Context, args []string, opts JobsOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if len(args) == 0 {
		_, _ = fmt.Fprintln(opts.Stderr, "usage: jobs <trigger|stats|scheduled|retry> [flags]")
		return 2
	}
	fs := flag.NewFlagSet("jobs "+args[0], flag.ContinueOnError)
	fs.SetOutput(opts.Stderr)
	size := fs.Int("size", 10, "number of tasks to list")
	message := fs.String("message", "", "audit message to enqueue")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}
	enc := json.NewEncoder(opts.Stdout)
	enc.SetIndent("", "  ")

	switch args[0] {
	case "trigger":
		text := *message
		if text == "" {
			text = strings.Join(fs.Args(), " ")
		}
		info, err := c.Trigger(ctx, text)
		if err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "jobs trigger: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintf(opts.Stdout, "enqueued %s on %s\n", info.ID, info.Queue)
	case "stats":
		stats, err := c.InspectQueue()
		if err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "jobs stats: %v\n", err)
			return 1
		}
		_ = enc.Encode(stats)
	case "scheduled", "retry":
		list := c.ListScheduled
		if args[0] == "retry" {
			list = c.ListRetry
		}
		tasks, err := list(*size)
		if err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "jobs %s: %v\n", args[0], err)
			return 1
		}
		_ = enc.Encode(summarize(tasks))
	default:
		_, _ = fmt.Fprintf(opts.Stderr, "jobs: unknown command %q\n", args[0])
		return 2
	}
	return 0
}

func summarize(tasks []*asynq.TaskInfo) []taskSummary {
	out := make([]taskSummary, 0, len(tasks))
	for _, t := range tasks {
		if t == nil {
			continue
		}
		s := taskSummary{ID: t.ID, Type: t.Type, Payload: string(t.Payload), Retried: t.Retried, LastErr: t.LastErr}
		if !t.NextProcessAt.IsZero() {
			s.NextTime = t.NextProcessAt.UTC().Format("2006-01-02T15:04:05Z")
		}
		out = append(out, s)
	}
	return out
}
