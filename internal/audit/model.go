package audit

import "time"

// Entry is one append-only audit log record.
type Entry struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Page holds one window of entries with simple paging metadata.
type Page struct {
	Entries []Entry `json:"entries"`
	Limit   int     `json:"limit"`
	Offset  int     `json:"offset"`
	HasNext bool    `json:"has_next"`
}
