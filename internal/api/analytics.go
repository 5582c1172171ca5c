package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
)

// DateRange период для аналитики в формате YYYY-MM-DD
type DateRange struct {
	From string
	To   string
}

func (r DateRange) query() url.Values {
	q := url.Values{}
	if r.From != "" {
		q.Set("date_from", r.From)
	}
	if r.To != "" {
		q.Set("date_to", r.To)
	}
	return q
}

// DashboardAnalytics возвращает сводную аналитику работодателя
func (c *Client) DashboardAnalytics(ctx context.Context, r DateRange) (*domain.AnalyticsData, error) {
	var out domain.AnalyticsData
	if err := c.do(ctx, http.MethodGet, "analytics/dashboard/", r.query(), nil, &out, "Failed to fetch analytics"); err != nil {
		return nil, err
	}
	return &out, nil
}

// JobViews возвращает просмотры всех вакансий или одной, если jobID задан
func (c *Client) JobViews(ctx context.Context, jobID domain.ID, r DateRange) ([]domain.JobViewStat, error) {
	path := "analytics/job-views/"
	if !jobID.IsZero() {
		path = pathf("analytics/job-views/%s/", jobID)
	}
	p, err := page[domain.JobViewStat](ctx, c, path, r.query(), "Failed to fetch job views")
	if err != nil {
		return nil, err
	}
	return p.Items, nil
}

// ApplicationStats возвращает количество откликов по статусам
func (c *Client) ApplicationStats(ctx context.Context, r DateRange) (*domain.ApplicationStats, error) {
	var out domain.ApplicationStats
	if err := c.do(ctx, http.MethodGet, "analytics/application-stats/", r.query(), nil, &out, "Failed to fetch application stats"); err != nil {
		return nil, err
	}
	return &out, nil
}
