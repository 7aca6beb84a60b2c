package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vesselkit/seachest/internal/db"
)

// Recorder appends entries to the audit trail. Recording is best-effort:
// a failed insert is logged and swallowed so an audit problem never
// blocks the operation being audited.
type Recorder struct {
	db     *db.DB
	logger *zap.Logger
}

// NewRecorder creates an audit recorder.
func NewRecorder(database *db.DB, logger *zap.Logger) *Recorder {
	return &Recorder{db: database, logger: logger}
}

// Record appends one entry, filling id and timestamp when absent.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	if r == nil || r.db == nil {
		return
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if e.ActorType == "" {
		e.ActorType = ActorSystem
	}
	if e.ActorID == "" {
		e.ActorID = "seachest"
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_entries (id, timestamp, actor_type, actor_id, action, scope, target_id, summary, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Timestamp, e.ActorType, e.ActorID, e.Action, e.Scope, e.TargetID, e.Summary, e.Detail,
	)
	if err != nil && r.logger != nil {
		r.logger.Warn("audit insert failed", zap.Error(err), zap.String("action", string(e.Action)))
	}
}

// Recent returns up to limit entries, newest first.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, timestamp, actor_type, actor_id, action, scope, target_id, summary, detail
		 FROM audit_entries ORDER BY timestamp DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.ActorType, &e.ActorID, &e.Action, &e.Scope, &e.TargetID, &e.Summary, &e.Detail); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
