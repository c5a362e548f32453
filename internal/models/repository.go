package models

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Repository persists guide snapshots, visitor preferences, wizard drafts
// and the audit trail.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Ping reports whether the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// SaveSnapshot upserts the snapshot for its slug. A trip that changed slug
// leaves a row under the old slug; that row is replaced.
func (r *Repository) SaveSnapshot(ctx context.Context, s *GuideSnapshot) error {
	err := r.upsertSnapshot(ctx, r.db, s)
	if conflict := IsUniqueViolation(err, "trip_id"); conflict == nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM guide_snapshots WHERE trip_id = $1 AND slug <> $2`, s.TripID, s.Slug); err != nil {
		return fmt.Errorf("drop stale snapshot: %w", err)
	}
	if err := r.upsertSnapshot(ctx, tx, s); err != nil {
		return err
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *Repository) upsertSnapshot(ctx context.Context, ex execer, s *GuideSnapshot) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO guide_snapshots (slug, trip_id, status, payload, fetched_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (slug) DO UPDATE
		SET trip_id = EXCLUDED.trip_id, status = EXCLUDED.status,
		    payload = EXCLUDED.payload, fetched_at = EXCLUDED.fetched_at
	`, s.Slug, s.TripID, s.Status, []byte(s.Payload), s.FetchedAt)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", s.Slug, err)
	}
	return nil
}

func (r *Repository) GetSnapshot(ctx context.Context, slug string) (*GuideSnapshot, error) {
	s := &GuideSnapshot{}
	var payload []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT slug, trip_id, status, payload, fetched_at
		FROM guide_snapshots
		WHERE slug = $1
	`, slug).Scan(&s.Slug, &s.TripID, &s.Status, &payload, &s.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot %s: %w", slug, err)
	}
	s.Payload = payload
	return s, nil
}

// CountSnapshotsByStatus returns how many stored guides are in each status.
func (r *Repository) CountSnapshotsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM guide_snapshots GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count snapshots: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// GetCollapsedDays returns the collapsed day keys, empty when none are stored.
func (r *Repository) GetCollapsedDays(ctx context.Context, visitorID uuid.UUID, slug string) ([]string, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT collapsed_days FROM visitor_preferences
		WHERE visitor_id = $1 AND slug = $2
	`, visitorID, slug).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get collapsed days: %w", err)
	}
	days := []string{}
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil, fmt.Errorf("decode collapsed days: %w", err)
	}
	return days, nil
}

func (r *Repository) SetCollapsedDays(ctx context.Context, p *VisitorPreference) error {
	days := p.CollapsedDays
	if days == nil {
		days = []string{}
	}
	raw, err := json.Marshal(days)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO visitor_preferences (visitor_id, slug, collapsed_days, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (visitor_id, slug) DO UPDATE
		SET collapsed_days = EXCLUDED.collapsed_days, updated_at = CURRENT_TIMESTAMP
	`, p.VisitorID, p.Slug, raw)
	if err != nil {
		return fmt.Errorf("set collapsed days: %w", err)
	}
	return nil
}

func (r *Repository) SaveDraft(ctx context.Context, d *WizardDraft) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO wizard_drafts (session_id, trip_id, step, payload, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		ON CONFLICT (session_id, trip_id) DO UPDATE
		SET step = EXCLUDED.step, payload = EXCLUDED.payload, updated_at = CURRENT_TIMESTAMP
	`, d.SessionID, d.TripID, d.Step, []byte(d.Payload))
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (r *Repository) GetDraft(ctx context.Context, sessionID string, tripID int64) (*WizardDraft, error) {
	d := &WizardDraft{}
	var payload []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT session_id, trip_id, step, payload, updated_at
		FROM wizard_drafts
		WHERE session_id = $1 AND trip_id = $2
	`, sessionID, tripID).Scan(&d.SessionID, &d.TripID, &d.Step, &payload, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	d.Payload = payload
	return d, nil
}

func (r *Repository) DeleteDraft(ctx context.Context, sessionID string, tripID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM wizard_drafts WHERE session_id = $1 AND trip_id = $2`, sessionID, tripID)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// RecordAudit appends an entry to the audit log.
func (r *Repository) RecordAudit(ctx context.Context, e *AuditEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, action, actor, target)
		VALUES ($1, $2, $3, $4)
	`, e.ID, e.Action, e.Actor, e.Target)
	if err != nil {
		return fmt.Errorf("record audit %s: %w", e.Action, err)
	}
	return nil
}

// RecentAudit returns the newest audit entries first.
func (r *Repository) RecentAudit(ctx context.Context, limit int) ([]*AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, action, actor, target, created_at
		FROM audit_log
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	defer rows.Close()

	var out []*AuditEntry
	for rows.Next() {
		e := &AuditEntry{}
		if err := rows.Scan(&e.ID, &e.Action, &e.Actor, &e.Target, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
