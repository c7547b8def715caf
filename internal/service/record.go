package service

import (
	"context"
	"fmt"

	"github.com/pkordes/border-registry/backend/internal/domain"
	"github.com/pkordes/border-registry/backend/internal/repo"
)

// Auditor records a change to the audit trail. Audit failures must never
// fail the operation that triggered them, so implementations log-and-swallow.
type Auditor interface {
	RecordChange(ctx context.Context, userID, action string, rec domain.Record)
}

// RecordService implements business logic for single-record operations.
// Every write runs the full validator; an edit revalidates every field, not
// just the ones that changed.
type RecordService struct {
	repo      repo.RecordRepo
	validator *RecordValidator
	audits    Auditor
}

// NewRecordService constructs a RecordService. audits may be nil to disable
// the change trail (some tests do this).
func NewRecordService(r repo.RecordRepo, v *RecordValidator, audits Auditor) *RecordService {
	return &RecordService{repo: r, validator: v, audits: audits}
}

// Create validates and persists a new record. userID attributes the change
// in the audit trail.
func (s *RecordService) Create(ctx context.Context, userID string, in domain.RecordInput) (domain.Record, error) {
	rec, err := s.validator.Validate(ctx, in, 0)
	if err != nil {
		return domain.Record{}, err
	}

	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return domain.Record{}, err
	}

	if s.audits != nil {
		s.audits.RecordChange(ctx, userID, "create", created)
	}
	return created, nil
}

// GetByID returns a single record by ID.
func (s *RecordService) GetByID(ctx context.Context, id int64) (domain.Record, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Record{}, fmt.Errorf("service.RecordService.GetByID: %w", err)
	}
	return rec, nil
}

// Update revalidates every field and overwrites an existing record.
func (s *RecordService) Update(ctx context.Context, userID string, id int64, in domain.RecordInput) (domain.Record, error) {
	rec, err := s.validator.Validate(ctx, in, id)
	if err != nil {
		return domain.Record{}, err
	}
	rec.ID = id

	updated, err := s.repo.Update(ctx, rec)
	if err != nil {
		return domain.Record{}, err
	}

	if s.audits != nil {
		s.audits.RecordChange(ctx, userID, "update", updated)
	}
	return updated, nil
}

// Delete removes a record by ID (hard delete).
func (s *RecordService) Delete(ctx context.Context, userID string, id int64) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service.RecordService.Delete: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.RecordService.Delete: %w", err)
	}

	if s.audits != nil {
		s.audits.RecordChange(ctx, userID, "delete", rec)
	}
	return nil
}

// List returns one page of records matching q.
func (s *RecordService) List(ctx context.Context, q domain.ListQuery) (domain.Page[domain.Record], error) {
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return domain.Page[domain.Record]{}, fmt.Errorf("service.RecordService.List: %w", err)
	}
	return domain.NewPage(items, total, q.Page), nil
}
