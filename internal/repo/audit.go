package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/border-registry/backend/internal/domain"
)

// AuditRepo defines the persistence operations for the record-change trail.
type AuditRepo interface {
	// Insert appends one audit entry. Audit writes are best-effort from the
	// caller's point of view but the repo itself reports failures normally.
	Insert(ctx context.Context, e domain.AuditEntry) error

	// List returns one page of audit entries, newest first, plus the total.
	List(ctx context.Context, p domain.PaginationParams) ([]domain.AuditEntry, int64, error)

	// Clear removes all audit entries.
	Clear(ctx context.Context) error
}

type pgAuditRepo struct {
	db db
}

// NewAuditRepo constructs an AuditRepo backed by the provided db connection.
func NewAuditRepo(db db) AuditRepo {
	return &pgAuditRepo{db: db}
}

func (r *pgAuditRepo) Insert(ctx context.Context, e domain.AuditEntry) error {
	const q = `
		INSERT INTO audit_logs (user_id, action, record_id, changes)
		VALUES (@user_id, @action, @record_id, @changes)`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"user_id":   e.UserID,
		"action":    e.Action,
		"record_id": e.RecordID,
		"changes":   e.Changes,
	})
	if err != nil {
		return fmt.Errorf("repo.AuditRepo.Insert: %w", err)
	}
	return nil
}

func (r *pgAuditRepo) List(ctx context.Context, p domain.PaginationParams) ([]domain.AuditEntry, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM audit_logs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.AuditRepo.List: count: %w", err)
	}

	const q = `
		SELECT id, user_id, action, record_id, changes, created_at
		FROM audit_logs
		ORDER BY created_at DESC, id DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.PerPage, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.AuditRepo.List: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.RecordID, &e.Changes, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("repo.AuditRepo.List: scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.AuditRepo.List: rows: %w", err)
	}
	return entries, total, nil
}

func (r *pgAuditRepo) Clear(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM audit_logs`); err != nil {
		return fmt.Errorf("repo.AuditRepo.Clear: %w", err)
	}
	return nil
}
