package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/customerhub/customerhub/internal/jobs"
)

const (
	auditMaxRetry       = 5
	defaultAuditBuffer  = 256
	defaultDrainTimeout = 5 * time.Second
)

var (
	// ErrPublisherBusy is returned when the hand-off buffer is full.
	ErrPublisherBusy = errors.New("audit publisher: buffer full")
	// ErrPublisherClosed is returned after Close.
	ErrPublisherClosed = errors.New("audit publisher: closed")
)

// Enqueuer submits tasks to the queue. *asynq.Client and *Client satisfy it.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AuditPublisherConfig configures an AuditPublisher.
type AuditPublisherConfig struct {
	Enqueuer     Enqueuer
	Queue        string
	Buffer       int
	DrainTimeout time.Duration
	Logger       *slog.Logger
	Metrics      *jobmetrics.Metrics
}

// AuditPublisher hands audit messages from request goroutines to a single
// drain loop that enqueues them. Publish never blocks.
type AuditPublisher struct {
	enqueuer     Enqueuer
	queue        string
	drainTimeout time.Duration
	logger       *slog.Logger
	metrics      *jobmetrics.Metrics

	mu       sync.RWMutex
	closed   bool
	messages chan string
	done     chan struct{}
}

// NewAuditPublisher builds a publisher. Run must be started for messages to
// leave the buffer.
func NewAuditPublisher(cfg AuditPublisherConfig) *AuditPublisher {
	buffer := cfg.Buffer
	if buffer <= 0 {
		buffer = defaultAuditBuffer
	}
	queue := cfg.Queue
	if queue == "" {
		queue = QueueAudit
	}
	drain := cfg.DrainTimeout
	if drain <= 0 {
		drain = defaultDrainTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditPublisher{
		enqueuer:     cfg.Enqueuer,
		queue:        queue,
		drainTimeout: drain,
		logger:       logger,
		metrics:      cfg.Metrics,
		messages:     make(chan string, buffer),
		done:         make(chan struct{}),
	}
}

// Publish queues message for delivery.
func (p *AuditPublisher) Publish(_ context.Context, message string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.messages <- message:
		return nil
	default:
		p.metrics.ObservePublish(p.queue, jobmetrics.PublishDropped)
		return ErrPublisherBusy
	}
}

// Close stops accepting messages. Run drains what is buffered within the
// drain timeout and then returns.
func (p *AuditPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.done)
	close(p.messages)
}

// Run enqueues buffered messages until the publisher is closed or ctx is
// cancelled. Cancellation closes the publisher. Either way the remaining
// messages are drained within the drain timeout.
func (p *AuditPublisher) Run(ctx context.Context) error {
	for {
		select {
		case msg, ok := <-p.messages:
			if !ok {
				return nil
			}
			if p.stopped() {
				p.drain(context.WithoutCancel(ctx), msg)
				return nil
			}
			p.enqueue(ctx, msg)
		case <-p.done:
			p.drain(context.WithoutCancel(ctx))
			return nil
		case <-ctx.Done():
			p.Close()
			p.drain(context.WithoutCancel(ctx))
			return nil
		}
	}
}

func (p *AuditPublisher) stopped() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *AuditPublisher) drain(ctx context.Context, pending ...string) {
	ctx, cancel := context.WithTimeout(ctx, p.drainTimeout)
	defer cancel()
	dropped := 0
	send := func(msg string) {
		if ctx.Err() != nil {
			dropped++
			p.metrics.ObservePublish(p.queue, jobmetrics.PublishDropped)
			return
		}
		p.enqueue(ctx, msg)
	}
	for _, msg := range pending {
		send(msg)
	}
	for msg := range p.messages {
		send(msg)
	}
	if dropped > 0 {
		p.logger.Warn("audit messages dropped on shutdown", slog.Int("count", dropped))
	}
}

func (p *AuditPublisher) enqueue(ctx context.Context, message string) {
	if p.enqueuer == nil {
		p.logger.Warn("audit enqueuer not configured", slog.String("message", message))
		p.metrics.ObservePublish(p.queue, jobmetrics.PublishDropped)
		return
	}
	info, err := EnqueueAuditLog(ctx, p.enqueuer, p.queue, message)
	if err != nil {
		p.logger.Warn("enqueue audit task", slog.Any("error", err))
		p.metrics.ObservePublish(p.queue, jobmetrics.PublishFailed)
		return
	}
	p.metrics.ObservePublish(p.queue, jobmetrics.PublishEnqueued)
	if info != nil {
		p.logger.Debug("audit task enqueued", slog.String("task_id", info.ID), slog.String("queue", info.Queue))
	}
}
