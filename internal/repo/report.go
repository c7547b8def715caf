package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/border-registry/backend/internal/domain"
)

// ReportConfigRepo defines the persistence operations for saved report
// configurations. All reads and deletes are scoped by userID: one user can
// never see or remove another user's reports.
type ReportConfigRepo interface {
	// Create inserts a new report config and returns the persisted row.
	Create(ctx context.Context, rc domain.ReportConfig) (domain.ReportConfig, error)

	// ListByUser returns all report configs owned by userID, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.ReportConfig, error)

	// GetByID retrieves one report config owned by userID.
	// Returns domain.ErrNotFound if it does not exist under that owner.
	GetByID(ctx context.Context, userID string, id int64) (domain.ReportConfig, error)

	// Delete removes a report config owned by userID.
	// Returns domain.ErrNotFound if it does not exist under that owner.
	Delete(ctx context.Context, userID string, id int64) error
}

type pgReportConfigRepo struct {
	db db
}

// NewReportConfigRepo constructs a ReportConfigRepo backed by the provided
// db connection.
func NewReportConfigRepo(db db) ReportConfigRepo {
	return &pgReportConfigRepo{db: db}
}

const reportCols = `id, user_id, name, selected_columns, filters, sort_by, sort_order, created_at, updated_at`

func (r *pgReportConfigRepo) Create(ctx context.Context, rc domain.ReportConfig) (domain.ReportConfig, error) {
	const q = `
		INSERT INTO report_configs (user_id, name, selected_columns, filters, sort_by, sort_order)
		VALUES (@user_id, @name, @selected_columns, @filters, @sort_by, @sort_order)
		RETURNING ` + reportCols

	cols, err := json.Marshal(rc.SelectedColumns)
	if err != nil {
		return domain.ReportConfig{}, fmt.Errorf("repo.ReportConfigRepo.Create: marshal columns: %w", err)
	}
	filters, err := json.Marshal(rc.Filters)
	if err != nil {
		return domain.ReportConfig{}, fmt.Errorf("repo.ReportConfigRepo.Create: marshal filters: %w", err)
	}

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"user_id":          rc.UserID,
		"name":             rc.Name,
		"selected_columns": cols,
		"filters":          filters,
		"sort_by":          rc.SortBy,
		"sort_order":       rc.SortOrder,
	})
	result, err := scanReportConfig(row)
	if err != nil {
		return domain.ReportConfig{}, fmt.Errorf("repo.ReportConfigRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgReportConfigRepo) ListByUser(ctx context.Context, userID string) ([]domain.ReportConfig, error) {
	const q = `SELECT ` + reportCols + ` FROM report_configs WHERE user_id = @user_id ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.ReportConfigRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	var configs []domain.ReportConfig
	for rows.Next() {
		rc, err := scanReportConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ReportConfigRepo.ListByUser: scan: %w", err)
		}
		configs = append(configs, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ReportConfigRepo.ListByUser: rows: %w", err)
	}
	return configs, nil
}

func (r *pgReportConfigRepo) GetByID(ctx context.Context, userID string, id int64) (domain.ReportConfig, error) {
	const q = `SELECT ` + reportCols + ` FROM report_configs WHERE id = @id AND user_id = @user_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID})
	result, err := scanReportConfig(row)
	if err != nil {
		return domain.ReportConfig{}, fmt.Errorf("repo.ReportConfigRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgReportConfigRepo) Delete(ctx context.Context, userID string, id int64) error {
	const q = `DELETE FROM report_configs WHERE id = @id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.ReportConfigRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ReportConfigRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanReportConfig(s scanner) (domain.ReportConfig, error) {
	var (
		rc      domain.ReportConfig
		cols    []byte
		filters []byte
	)

	err := s.Scan(&rc.ID, &rc.UserID, &rc.Name, &cols, &filters, &rc.SortBy,
		&rc.SortOrder, &rc.CreatedAt, &rc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ReportConfig{}, domain.ErrNotFound
		}
		return domain.ReportConfig{}, err
	}

	if err := json.Unmarshal(cols, &rc.SelectedColumns); err != nil {
		return domain.ReportConfig{}, fmt.Errorf("unmarshal columns: %w", err)
	}
	if err := json.Unmarshal(filters, &rc.Filters); err != nil {
		return domain.ReportConfig{}, fmt.Errorf("unmarshal filters: %w", err)
	}
	return rc, nil
}
