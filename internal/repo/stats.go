package repo

import (
	"context"
	"fmt"

	"github.com/pkordes/border-registry/backend/internal/domain"
)

// MonthCount is one month's record-creation count, keyed "2006-01".
type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// StatsRepo provides the dashboard aggregates over the registry table.
type StatsRepo interface {
	// TotalRecords counts every record in the registry.
	TotalRecords(ctx context.Context) (int64, error)

	// RecordsThisMonth counts records created in the current calendar month.
	RecordsThisMonth(ctx context.Context) (int64, error)

	// UniqueNationalities counts distinct nationality values.
	UniqueNationalities(ctx context.Context) (int64, error)

	// MonthlyCounts returns creation counts grouped by month for the last
	// twelve months, oldest first. Months with no records are absent; the
	// service fills the gaps.
	MonthlyCounts(ctx context.Context) ([]MonthCount, error)

	// RecentRecords returns the n most recently created records.
	RecentRecords(ctx context.Context, n int) ([]domain.Record, error)
}

type pgStatsRepo struct {
	db db
}

// NewStatsRepo constructs a StatsRepo backed by the provided db connection.
func NewStatsRepo(db db) StatsRepo {
	return &pgStatsRepo{db: db}
}

func (r *pgStatsRepo) TotalRecords(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM registry`).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.StatsRepo.TotalRecords: %w", err)
	}
	return n, nil
}

func (r *pgStatsRepo) RecordsThisMonth(ctx context.Context) (int64, error) {
	const q = `SELECT count(*) FROM registry WHERE date_trunc('month', created_at) = date_trunc('month', now())`

	var n int64
	if err := r.db.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.StatsRepo.RecordsThisMonth: %w", err)
	}
	return n, nil
}

func (r *pgStatsRepo) UniqueNationalities(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(DISTINCT nationality) FROM registry`).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.StatsRepo.UniqueNationalities: %w", err)
	}
	return n, nil
}

func (r *pgStatsRepo) MonthlyCounts(ctx context.Context) ([]MonthCount, error) {
	const q = `
		SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS month, count(*)
		FROM registry
		WHERE created_at >= date_trunc('month', now()) - interval '11 months'
		GROUP BY month
		ORDER BY month ASC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.StatsRepo.MonthlyCounts: %w", err)
	}
	defer rows.Close()

	var counts []MonthCount
	for rows.Next() {
		var mc MonthCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, fmt.Errorf("repo.StatsRepo.MonthlyCounts: scan: %w", err)
		}
		counts = append(counts, mc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.StatsRepo.MonthlyCounts: rows: %w", err)
	}
	return counts, nil
}

func (r *pgStatsRepo) RecentRecords(ctx context.Context, n int) ([]domain.Record, error) {
	sql := `SELECT ` + recordCols + ` FROM registry ORDER BY created_at DESC, id DESC LIMIT ` + fmt.Sprint(n)

	records, err := (&pgRecordRepo{db: r.db}).queryRecords(ctx, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("repo.StatsRepo.RecentRecords: %w", err)
	}
	return records, nil
}
