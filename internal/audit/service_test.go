package audit

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubRepo struct {
	appended  []Entry
	rows      []Entry
	lastLimit int
	lastOff   int
	err       error
}

func (s *stubRepo) Append(ctx context.Context, entry Entry) (Entry, error) {
	if s.err != nil {
		return Entry{}, s.err
	}
	entry.ID = int64(len(s.appended) + 1)
	s.appended = append(s.appended, entry)
	return entry, nil
}

func (s *stubRepo) List(ctx context.Context, limit, offset int) ([]Entry, error) {
	s.lastLimit, s.lastOff = limit, offset
	if s.err != nil {
		return nil, s.err
	}
	end := offset + limit
	if end > len(s.rows) {
		end = len(s.rows)
	}
	if offset > len(s.rows) {
		return nil, nil
	}
	return s.rows[offset:end], nil
}

func TestServiceLogStampsEntry(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)
	at := time.Date(2025, 6, 17, 12, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	svc.now = func() time.Time { return at }

	entry, err := svc.Log(context.Background(), "  customer saved: id=1  ")
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if entry.ID != 1 {
		t.Fatalf("expected id 1, got %d", entry.ID)
	}
	if entry.Message != "customer saved: id=1" {
		t.Fatalf("unexpected message %q", entry.Message)
	}
	if !entry.Timestamp.Equal(at) || entry.Timestamp.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %v", entry.Timestamp)
	}
}

func TestServiceLogRejectsEmptyMessage(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)
	if _, err := svc.Log(context.Background(), "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if len(repo.appended) != 0 {
		t.Fatalf("expected nothing appended")
	}
}

func TestServiceLogPropagatesStoreError(t *testing.T) {
	svc := NewService(&stubRepo{err: errors.New("db down")})
	if _, err := svc.Log(context.Background(), "x"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestServiceListPaging(t *testing.T) {
	repo := &stubRepo{rows: make([]Entry, 5)}
	svc := NewService(repo)

	page, err := svc.List(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Entries) != 2 || !page.HasNext {
		t.Fatalf("expected 2 entries with next page, got %+v", page)
	}
	if repo.lastLimit != 3 {
		t.Fatalf("expected look-ahead limit 3, got %d", repo.lastLimit)
	}

	page, err = svc.List(context.Background(), 2, 4)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Entries) != 1 || page.HasNext {
		t.Fatalf("expected final page, got %+v", page)
	}
}

func TestServiceListClampsLimit(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	page, err := svc.List(context.Background(), 0, -5)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Limit != defaultLimit || page.Offset != 0 {
		t.Fatalf("expected defaults, got %+v", page)
	}
	if page.Entries == nil {
		t.Fatalf("expected empty slice, got nil")
	}

	page, _ = svc.List(context.Background(), 1000, 0)
	if page.Limit != maxLimit || repo.lastLimit != maxLimit+1 {
		t.Fatalf("expected clamp to %d, got %d", maxLimit, page.Limit)
	}
}
