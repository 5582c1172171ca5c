package store

import (
	"context"
	stderrors "errors"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/api"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
)

func (s *Store) dateRange() api.DateRange {
	r := s.State().Analytics.DateRange
	return api.DateRange{From: r.From, To: r.To}
}

// SetDateRange задает период аналитики
func (s *Store) SetDateRange(from, to string) {
	s.Update(func(st *State) {
		st.Analytics.DateRange = DateRange{From: from, To: to}
	})
}

// FetchDashboardAnalytics загружает сводную аналитику за выбранный период
func (s *Store) FetchDashboardAnalytics(ctx context.Context) (*domain.AnalyticsData, error) {
	r := s.dateRange()
	return run(ctx, s, "fetch_dashboard_analytics", analyticsStatus, func(ctx context.Context) (*domain.AnalyticsData, error) {
		return s.api.DashboardAnalytics(ctx, r)
	}, func(st *State, data *domain.AnalyticsData) {
		st.Analytics.Data = *data
	})
}

// FetchJobViews загружает просмотры вакансий. Пустой jobID означает все вакансии.
func (s *Store) FetchJobViews(ctx context.Context, jobID domain.ID) ([]domain.JobViewStat, error) {
	r := s.dateRange()
	return run(ctx, s, "fetch_job_views", analyticsStatus, func(ctx context.Context) ([]domain.JobViewStat, error) {
		return s.api.JobViews(ctx, jobID, r)
	}, func(st *State, views []domain.JobViewStat) {
		st.Analytics.Data.JobViews = views
	})
}

// FetchAnalyticsApplicationStats загружает статистику откликов для аналитики
func (s *Store) FetchAnalyticsApplicationStats(ctx context.Context) (*domain.ApplicationStats, error) {
	r := s.dateRange()
	return run(ctx, s, "fetch_analytics_application_stats", analyticsStatus, func(ctx context.Context) (*domain.ApplicationStats, error) {
		return s.api.ApplicationStats(ctx, r)
	}, func(st *State, stats *domain.ApplicationStats) {
		st.Applications.Stats = *stats
	})
}

// FetchAllAnalytics загружает сводку, затем просмотры и статистику откликов параллельно.
// Сводка идет первой, так как заменяет данные целиком.
func (s *Store) FetchAllAnalytics(ctx context.Context) error {
	var all []error
	if _, err := s.FetchDashboardAnalytics(ctx); err != nil {
		all = append(all, err)
	}

	errs := make(chan error, 2)
	go func() {
		_, err := s.FetchJobViews(ctx, "")
		errs <- err
	}()
	go func() {
		_, err := s.FetchAnalyticsApplicationStats(ctx)
		errs <- err
	}()

	for range 2 {
		if err := <-errs; err != nil {
			all = append(all, err)
		}
	}
	return stderrors.Join(all...)
}
