package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
)

// ListApplications возвращает отклики текущего пользователя или компании
func (c *Client) ListApplications(ctx context.Context, query url.Values) (domain.PageView[domain.Application], error) {
	return page[domain.Application](ctx, c, "applications/", query, "Failed to fetch applications")
}

// GetApplication возвращает отклик
func (c *Client) GetApplication(ctx context.Context, id domain.ID) (*domain.Application, error) {
	var app domain.Application
	if err := c.do(ctx, http.MethodGet, pathf("applications/%s/", id), nil, nil, &app, "Failed to fetch application"); err != nil {
		return nil, err
	}
	return &app, nil
}

// SubmitApplication отправляет отклик на вакансию
func (c *Client) SubmitApplication(ctx context.Context, sub domain.ApplicationSubmission) (*domain.Application, error) {
	var app domain.Application
	if err := c.do(ctx, http.MethodPost, "applications/", nil, sub, &app, "Failed to submit application"); err != nil {
		return nil, err
	}
	return &app, nil
}

// UpdateApplicationStatus меняет статус отклика
func (c *Client) UpdateApplicationStatus(ctx context.Context, id domain.ID, status domain.ApplicationStatus, notes string) (*domain.Application, error) {
	var app domain.Application
	err := c.do(ctx, http.MethodPatch, pathf("applications/%s/status/", id), nil, map[string]string{
		"status": string(status),
		"notes":  notes,
	}, &app, "Failed to update application status")
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// WithdrawApplication отзывает отклик соискателем
func (c *Client) WithdrawApplication(ctx context.Context, id domain.ID) error {
	return c.do(ctx, http.MethodPost, pathf("applications/%s/withdraw/", id), nil, nil, nil, "Failed to withdraw application")
}

// ListJobApplications возвращает отклики на вакансию
func (c *Client) ListJobApplications(ctx context.Context, jobID domain.ID, query url.Values) (domain.PageView[domain.Application], error) {
	return page[domain.Application](ctx, c, pathf("applications/job/%s/", jobID), query, "Failed to fetch job applications")
}

// ListJobQuestions возвращает вопросы анкеты вакансии
func (c *Client) ListJobQuestions(ctx context.Context, jobID domain.ID) ([]domain.ApplicationQuestion, error) {
	p, err := page[domain.ApplicationQuestion](ctx, c, pathf("applications/questions/%s/", jobID), nil, "Failed to fetch application questions")
	if err != nil {
		return nil, err
	}
	return p.Items, nil
}

// CreateJobQuestion добавляет вопрос в анкету вакансии
func (c *Client) CreateJobQuestion(ctx context.Context, jobID domain.ID, q domain.ApplicationQuestion) (*domain.ApplicationQuestion, error) {
	var out domain.ApplicationQuestion
	if err := c.do(ctx, http.MethodPost, pathf("applications/questions/%s/", jobID), nil, q, &out, "Failed to create question"); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateJobQuestion обновляет вопрос анкеты
func (c *Client) UpdateJobQuestion(ctx context.Context, questionID domain.ID, q domain.ApplicationQuestion) (*domain.ApplicationQuestion, error) {
	var out domain.ApplicationQuestion
	if err := c.do(ctx, http.MethodPut, pathf("applications/questions/%s/", questionID), nil, q, &out, "Failed to update question"); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteJobQuestion удаляет вопрос анкеты
func (c *Client) DeleteJobQuestion(ctx context.Context, questionID domain.ID) error {
	return c.do(ctx, http.MethodDelete, pathf("applications/questions/%s/", questionID), nil, nil, nil, "Failed to delete question")
}
