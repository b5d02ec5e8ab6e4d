// Package audit records registration and invocation history.
// All operations are append-only; no updates or deletes are supported.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Audited actions.
const (
	ActionRegistered = "method.registered"
	ActionRemoved    = "method.removed"
	ActionInvoked    = "method.invoked"
)

// Entry is one immutable audit record.
type Entry struct {
	ID         string
	Action     string
	MethodName string
	Success    bool
	ErrorKind  string
	Detail     string
	DurationMS int64
	CreatedAt  time.Time
}

// Service writes and reads the audit_log table.
type Service struct {
	db *sql.DB
}

// NewService creates an audit service over an open database handle.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Record appends one entry. This is the only way audit rows are created.
func (s *Service) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_log (
			id, action, method_name, success, error_kind, detail, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Action, e.MethodName, boolToInt(e.Success),
		nullableString(e.ErrorKind), nullableString(e.Detail), e.DurationMS, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("audit: record %s for %q: %w", e.Action, e.MethodName, err)
	}
	return nil
}

// ListByMethod returns the newest entries for one method, newest first.
func (s *Service) ListByMethod(ctx context.Context, methodName string, limit int) ([]*Entry, error) {
	return s.list(ctx, `
		SELECT id, action, method_name, success, error_kind, detail, duration_ms, created_at
		FROM audit_log
		WHERE method_name = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, methodName, limit)
}

// ListRecent returns the newest entries across all methods, newest first.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]*Entry, error) {
	return s.list(ctx, `
		SELECT id, action, method_name, success, error_kind, detail, duration_ms, created_at
		FROM audit_log
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
}

func (s *Service) list(ctx context.Context, query string, args ...any) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*Entry, 0)
	for rows.Next() {
		var (
			e         Entry
			success   int
			errorKind sql.NullString
			detail    sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Action, &e.MethodName, &success,
			&errorKind, &detail, &e.DurationMS, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Success = success == 1
		e.ErrorKind = errorKind.String
		e.Detail = detail.String
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
