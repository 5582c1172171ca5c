package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
)

// ListJobs возвращает страницу вакансий по параметрам фильтра
func (c *Client) ListJobs(ctx context.Context, query url.Values) (domain.PageView[domain.Job], error) {
	return page[domain.Job](ctx, c, "jobs/", query, "Failed to fetch jobs")
}

// GetJob возвращает вакансию
func (c *Client) GetJob(ctx context.Context, id domain.ID) (*domain.Job, error) {
	var job domain.Job
	if err := c.do(ctx, http.MethodGet, pathf("jobs/%s/", id), nil, nil, &job, "Failed to fetch job"); err != nil {
		return nil, err
	}
	return &job, nil
}

// CreateJob создает вакансию от имени работодателя
func (c *Client) CreateJob(ctx context.Context, payload any) (*domain.Job, error) {
	var job domain.Job
	if err := c.do(ctx, http.MethodPost, "jobs/", nil, payload, &job, "Failed to create job"); err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateJob обновляет вакансию
func (c *Client) UpdateJob(ctx context.Context, id domain.ID, payload any) (*domain.Job, error) {
	var job domain.Job
	if err := c.do(ctx, http.MethodPut, pathf("jobs/%s/", id), nil, payload, &job, "Failed to update job"); err != nil {
		return nil, err
	}
	return &job, nil
}

// DeleteJob удаляет вакансию
func (c *Client) DeleteJob(ctx context.Context, id domain.ID) error {
	return c.do(ctx, http.MethodDelete, pathf("jobs/%s/", id), nil, nil, nil, "Failed to delete job")
}

// ActivateJob публикует вакансию
func (c *Client) ActivateJob(ctx context.Context, id domain.ID) error {
	return c.do(ctx, http.MethodPost, pathf("jobs/%s/activate/", id), nil, nil, nil, "Failed to activate job")
}

// DeactivateJob снимает вакансию с публикации
func (c *Client) DeactivateJob(ctx context.Context, id domain.ID) error {
	return c.do(ctx, http.MethodPost, pathf("jobs/%s/deactivate/", id), nil, nil, nil, "Failed to deactivate job")
}

// AddJobSkill добавляет навык к вакансии
func (c *Client) AddJobSkill(ctx context.Context, id domain.ID, skill domain.JobSkill) (*domain.JobSkill, error) {
	var out domain.JobSkill
	if err := c.do(ctx, http.MethodPost, pathf("jobs/%s/add_skill/", id), nil, skill, &out, "Failed to add skill"); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSavedJobs возвращает избранные вакансии
func (c *Client) ListSavedJobs(ctx context.Context) (domain.PageView[domain.SavedJob], error) {
	return page[domain.SavedJob](ctx, c, "favorites/jobs/", nil, "Failed to fetch saved jobs")
}

// SaveJob добавляет вакансию в избранное
func (c *Client) SaveJob(ctx context.Context, id domain.ID) error {
	return c.do(ctx, http.MethodPost, "favorites/jobs/", nil, map[string]domain.ID{"job": id}, nil, "Failed to save job")
}

// UnsaveJob удаляет вакансию из избранного
func (c *Client) UnsaveJob(ctx context.Context, id domain.ID) error {
	return c.do(ctx, http.MethodDelete, pathf("favorites/jobs/%s/", id), nil, nil, nil, "Failed to remove saved job")
}

// AdminCreateJob создает вакансию от имени администратора для выбранной компании
func (c *Client) AdminCreateJob(ctx context.Context, payload any) (*domain.Job, error) {
	var job domain.Job
	if err := c.do(ctx, http.MethodPost, "jobs/admin-create/", nil, payload, &job, "Failed to create job"); err != nil {
		return nil, err
	}
	return &job, nil
}

// AdminUpdateJob обновляет вакансию, опубликованную администратором
func (c *Client) AdminUpdateJob(ctx context.Context, id domain.ID, payload any) (*domain.Job, error) {
	var job domain.Job
	if err := c.do(ctx, http.MethodPut, pathf("jobs/%s/admin-update/", id), nil, payload, &job, "Failed to update job"); err != nil {
		return nil, err
	}
	return &job, nil
}

// AdminPostedJobs возвращает вакансии, опубликованные администраторами
func (c *Client) AdminPostedJobs(ctx context.Context, query url.Values) (domain.PageView[domain.Job], error) {
	return page[domain.Job](ctx, c, "jobs/admin-posted/", query, "Failed to fetch admin jobs")
}
