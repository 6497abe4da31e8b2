package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ErrEmptyMessage is returned when an entry without text is logged.
var ErrEmptyMessage = errors.New("audit: message is required")

// Service appends and pages audit entries.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates an audit service backed by repo.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Log appends message stamped with the current time.
func (s *Service) Log(ctx context.Context, message string) (Entry, error) {
	if s.repo == nil {
		return Entry{}, fmt.Errorf("audit: repository not configured")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return Entry{}, ErrEmptyMessage
	}
	return s.repo.Append(ctx, Entry{Message: message, Timestamp: s.now().UTC()})
}

// List returns entries newest first. Limit is clamped to [1, 100] with a
// default of 20; negative offsets start at zero.
func (s *Service) List(ctx context.Context, limit, offset int) (Page, error) {
	if s.repo == nil {
		return Page{}, fmt.Errorf("audit: repository not configured")
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	entries, err := s.repo.List(ctx, limit+1, offset)
	if err != nil {
		return Page{}, err
	}
	hasNext := len(entries) > limit
	if hasNext {
		entries = entries[:limit]
	}
	if entries == nil {
		entries = []Entry{}
	}
	return Page{Entries: entries, Limit: limit, Offset: offset, HasNext: hasNext}, nil
}
