package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists and reads audit entries.
type Repository interface {
	Append(ctx context.Context, entry Entry) (Entry, error)
	List(ctx context.Context, limit, offset int) ([]Entry, error)
}

type dbtx interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type store struct {
	db dbtx
}

// NewRepository returns a PostgreSQL-backed audit repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &store{db: pool}
}

func (s *store) Append(ctx context.Context, entry Entry) (Entry, error) {
	row := s.db.QueryRow(ctx,
		`INSERT INTO audit_logs (message, logged_at) VALUES ($1, $2) RETURNING id, logged_at`,
		entry.Message, entry.Timestamp)
	if err := row.Scan(&entry.ID, &entry.Timestamp); err != nil {
		return Entry{}, fmt.Errorf("append audit entry: %w", err)
	}
	return entry, nil
}

func (s *store) List(ctx context.Context, limit, offset int) ([]Entry, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, message, logged_at FROM audit_logs ORDER BY logged_at DESC, id DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Message, &e.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
