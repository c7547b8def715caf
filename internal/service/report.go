package service

import (
	"context"
	"fmt"

	"github.com/pkordes/border-registry/backend/internal/domain"
	"github.com/pkordes/border-registry/backend/internal/repo"
)

// ReportService manages saved report configurations. Every operation is
// scoped to the owning user; ownership never crosses between users.
type ReportService struct {
	repo repo.ReportConfigRepo
}

// NewReportService constructs a ReportService.
func NewReportService(r repo.ReportConfigRepo) *ReportService {
	return &ReportService{repo: r}
}

// Save validates and persists a named report configuration for userID.
func (s *ReportService) Save(ctx context.Context, userID string, rc domain.ReportConfig) (domain.ReportConfig, error) {
	fieldErrs := domain.FieldErrors{}

	if rc.Name == "" {
		fieldErrs["name"] = "this field is required"
	} else if len(rc.Name) > 255 {
		fieldErrs["name"] = "must be at most 255 characters"
	}
	if _, err := domain.ExportColumns(rc.SelectedColumns); err != nil {
		fieldErrs["selected_columns"] = "must be a non-empty list of exportable columns"
	}
	if rc.SortOrder == "" {
		rc.SortOrder = "asc"
	}
	if rc.SortOrder != "asc" && rc.SortOrder != "desc" {
		fieldErrs["sort_order"] = "must be asc or desc"
	}
	if rc.SortBy != "" {
		c, ok := domain.ColumnByName(rc.SortBy)
		if !ok || !c.Sortable {
			fieldErrs["sort_by"] = "unknown sort column"
		}
	}

	if len(fieldErrs) > 0 {
		return domain.ReportConfig{}, fieldErrs
	}

	rc.UserID = userID
	saved, err := s.repo.Create(ctx, rc)
	if err != nil {
		return domain.ReportConfig{}, fmt.Errorf("service.ReportService.Save: %w", err)
	}
	return saved, nil
}

// ListByUser returns the caller's saved reports, newest first.
func (s *ReportService) ListByUser(ctx context.Context, userID string) ([]domain.ReportConfig, error) {
	configs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.ReportService.ListByUser: %w", err)
	}
	return configs, nil
}

// Delete removes one of the caller's saved reports.
func (s *ReportService) Delete(ctx context.Context, userID string, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("service.ReportService.Delete: %w", err)
	}
	return nil
}
