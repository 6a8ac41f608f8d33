// Package journal records every scan notification attempt in SQLite so an
// operator can see what the game service was told and how it answered.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Paging limits for List.
const (
	defaultLimit = 50
	maxLimit     = 500
)

// timeFormat is fixed-width so created_at sorts lexically.
const timeFormat = "2006-01-02T15:04:05.000000Z07:00"

// Entry is one notification attempt.
type Entry struct {
	ID         string    `json:"id"`
	GameID     string    `json:"game_id"`
	Identifier string    `json:"identifier"`
	Code       string    `json:"code"`
	Suit       string    `json:"suit"`
	Rank       string    `json:"rank"`
	Outcome    string    `json:"outcome"`
	StatusCode int       `json:"status_code,omitempty"`
	LatencyMs  int64     `json:"latency_ms"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Filter controls which entries List returns.
type Filter struct {
	GameID  string // optional
	Outcome string // optional: accepted, rejected, invalid_url, unexpected, transport_error
	Limit   int    // default 50, max 500
	Offset  int
}

// ListResult contains one page of entries.
type ListResult struct {
	Scans  []Entry `json:"scans"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

// Repository defines the journal operations.
type Repository interface {
	Record(ctx context.Context, entry *Entry) error
	List(ctx context.Context, filter Filter) (*ListResult, error)
	CountByOutcome(ctx context.Context) (map[string]int, error)
}

// idPrefix marks journal IDs; the rest is a full random UUID.
const idPrefix = "scn-"

// SQLiteRepository stores entries in the scans table.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a journal backed by db.
// The scans table must already exist (see database.Migrate).
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Record inserts an entry. ID and CreatedAt are generated if empty.
func (r *SQLiteRepository) Record(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = idPrefix + uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO scans (id, game_id, identifier, code, suit, rank, outcome, status_code, latency_ms, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.GameID, entry.Identifier, entry.Code,
		entry.Suit, entry.Rank, entry.Outcome,
		entry.StatusCode, entry.LatencyMs,
		nullableString(entry.Error),
		entry.CreatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("inserting scan: %w", err)
	}

	return nil
}

// List returns entries matching the filter, newest first.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) (*ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	var conditions []string
	var args []any

	if filter.GameID != "" {
		conditions = append(conditions, "game_id = ?")
		args = append(args, filter.GameID)
	}
	if filter.Outcome != "" {
		conditions = append(conditions, "outcome = ?")
		args = append(args, filter.Outcome)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM scans " + where //nolint:gosec // WHERE built from parameterised conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting scans: %w", err)
	}

	query := `SELECT id, game_id, identifier, code, suit, rank, outcome, status_code, latency_ms, error, created_at
		FROM scans ` + where + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?` //nolint:gosec // as above
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying scans: %w", err)
	}
	defer rows.Close()

	scans := []Entry{}
	for rows.Next() {
		var e Entry
		var errText sql.NullString
		var createdAt string

		if err := rows.Scan(&e.ID, &e.GameID, &e.Identifier, &e.Code, &e.Suit, &e.Rank,
			&e.Outcome, &e.StatusCode, &e.LatencyMs, &errText, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning scan row: %w", err)
		}
		if errText.Valid {
			e.Error = errText.String
		}

		t, err := time.Parse(timeFormat, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing scan timestamp %q: %w", createdAt, err)
		}
		e.CreatedAt = t

		scans = append(scans, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scans: %w", err)
	}

	return &ListResult{
		Scans:  scans,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

// CountByOutcome returns the number of entries per outcome.
func (r *SQLiteRepository) CountByOutcome(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT outcome, COUNT(*) FROM scans GROUP BY outcome")
	if err != nil {
		return nil, fmt.Errorf("counting scans by outcome: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scanning outcome count: %w", err)
		}
		counts[outcome] = n
	}

	return counts, rows.Err()
}

// nullableString returns nil for empty strings so the column stores NULL.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
