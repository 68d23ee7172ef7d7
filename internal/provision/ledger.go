package provision

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// syncedAtLayout has fixed width so that synced_at sorts as text.
const syncedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Ledger records provisioning runs in the sync_log table.
type Ledger struct {
	db *sql.DB
}

func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// Record stores one sync result.
func (l *Ledger) Record(ctx context.Context, r *SyncResult) error {
	if r == nil || r.ID == "" {
		return fmt.Errorf("sync result has no id")
	}
	_, err := l.db.ExecContext(ctx, `
INSERT INTO sync_log(id, repository, action, revision, fingerprint, scripts, duration_ms, synced_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?);`,
		r.ID,
		r.Repository,
		string(r.Action),
		r.Revision,
		r.Fingerprint,
		r.Scripts,
		r.Duration.Milliseconds(),
		r.SyncedAt.UTC().Format(syncedAtLayout),
	)
	if err != nil {
		return fmt.Errorf("record sync: %w", err)
	}
	return nil
}

// Last returns the most recent sync, or nil if none was recorded.
func (l *Ledger) Last(ctx context.Context) (*SyncResult, error) {
	var (
		r          SyncResult
		action     string
		revision   sql.NullString
		fp         sql.NullString
		durationMS int64
		syncedAt   string
	)
	err := l.db.QueryRowContext(ctx, `
SELECT id, repository, action, revision, fingerprint, scripts, duration_ms, synced_at
FROM sync_log
ORDER BY synced_at DESC
LIMIT 1;`).Scan(&r.ID, &r.Repository, &action, &revision, &fp, &r.Scripts, &durationMS, &syncedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read last sync: %w", err)
	}

	r.Action = Action(action)
	r.Revision = revision.String
	r.Fingerprint = fp.String
	r.Duration = time.Duration(durationMS) * time.Millisecond
	r.SyncedAt, err = time.Parse(syncedAtLayout, syncedAt)
	if err != nil {
		return nil, fmt.Errorf("parse synced_at %q: %w", syncedAt, err)
	}
	return &r, nil
}
