package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pkordes/border-registry/backend/internal/domain"
	"github.com/pkordes/border-registry/backend/internal/repo"
)

// AuditService writes and reads the record-change trail.
type AuditService struct {
	repo repo.AuditRepo
	log  *slog.Logger
}

// NewAuditService constructs an AuditService.
func NewAuditService(r repo.AuditRepo, log *slog.Logger) *AuditService {
	if log == nil {
		log = slog.Default()
	}
	return &AuditService{repo: r, log: log}
}

// RecordChange appends one entry to the trail. A failed audit write is
// logged, never propagated: losing an audit line must not fail the record
// operation that already succeeded.
func (s *AuditService) RecordChange(ctx context.Context, userID, action string, rec domain.Record) {
	changes, err := json.Marshal(rec)
	if err != nil {
		s.log.ErrorContext(ctx, "audit: marshal changes", "error", err, "record_id", rec.ID)
		return
	}

	entry := domain.AuditEntry{
		UserID:   userID,
		Action:   action,
		RecordID: rec.ID,
		Changes:  string(changes),
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		s.log.ErrorContext(ctx, "audit: insert entry", "error", err, "action", action, "record_id", rec.ID)
	}
}

// List returns one page of the trail, newest first.
func (s *AuditService) List(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.AuditEntry], error) {
	entries, total, err := s.repo.List(ctx, p)
	if err != nil {
		return domain.Page[domain.AuditEntry]{}, fmt.Errorf("service.AuditService.List: %w", err)
	}
	return domain.NewPage(entries, total, p), nil
}

// Clear wipes the trail.
func (s *AuditService) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("service.AuditService.Clear: %w", err)
	}
	return nil
}
