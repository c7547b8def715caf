package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkordes/border-registry/backend/internal/domain"
	"github.com/pkordes/border-registry/backend/internal/repo"
)

// Dashboard is the aggregate view behind the landing page: headline counts,
// a twelve-month creation histogram, and the five most recent records.
type Dashboard struct {
	TotalRecords        int64             `json:"total_records"`
	RecordsThisMonth    int64             `json:"records_this_month"`
	UniqueNationalities int64             `json:"unique_nationalities"`
	MonthlyRecords      []repo.MonthCount `json:"monthly_records"`
	RecentRecords       []domain.Record   `json:"recent_records"`
}

// StatsService assembles the dashboard aggregates.
type StatsService struct {
	repo repo.StatsRepo
	now  func() time.Time
}

// NewStatsService constructs a StatsService. now is the clock used to fill
// empty months; pass nil for time.Now.
func NewStatsService(r repo.StatsRepo, now func() time.Time) *StatsService {
	if now == nil {
		now = time.Now
	}
	return &StatsService{repo: r, now: now}
}

// Dashboard gathers all aggregates in one call.
func (s *StatsService) Dashboard(ctx context.Context) (Dashboard, error) {
	var (
		d   Dashboard
		err error
	)

	if d.TotalRecords, err = s.repo.TotalRecords(ctx); err != nil {
		return Dashboard{}, fmt.Errorf("service.StatsService.Dashboard: %w", err)
	}
	if d.RecordsThisMonth, err = s.repo.RecordsThisMonth(ctx); err != nil {
		return Dashboard{}, fmt.Errorf("service.StatsService.Dashboard: %w", err)
	}
	if d.UniqueNationalities, err = s.repo.UniqueNationalities(ctx); err != nil {
		return Dashboard{}, fmt.Errorf("service.StatsService.Dashboard: %w", err)
	}

	counts, err := s.repo.MonthlyCounts(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("service.StatsService.Dashboard: %w", err)
	}
	d.MonthlyRecords = fillMonths(counts, s.now())

	if d.RecentRecords, err = s.repo.RecentRecords(ctx, 5); err != nil {
		return Dashboard{}, fmt.Errorf("service.StatsService.Dashboard: %w", err)
	}
	return d, nil
}

// fillMonths expands sparse monthly counts into a dense last-12-months
// series, oldest first, with zero counts for empty months.
func fillMonths(counts []repo.MonthCount, now time.Time) []repo.MonthCount {
	byMonth := make(map[string]int64, len(counts))
	for _, c := range counts {
		byMonth[c.Month] = c.Count
	}

	// Anchor on the first of the month so AddDate cannot normalize a
	// month-end day into the wrong month.
	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	out := make([]repo.MonthCount, 0, 12)
	for i := 11; i >= 0; i-- {
		m := base.AddDate(0, -i, 0).Format("2006-01")
		out = append(out, repo.MonthCount{Month: m, Count: byMonth[m]})
	}
	return out
}
