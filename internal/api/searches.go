package api

import (
	"context"
	"net/http"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
)

// SavedSearchUpdate частичное изменение сохраненного поиска
type SavedSearchUpdate struct {
	Name   string            `json:"name,omitempty"`
	Params map[string]string `json:"search_params,omitempty"`
}

// ListSavedSearches возвращает сохраненные поиски пользователя
func (c *Client) ListSavedSearches(ctx context.Context) (domain.PageView[domain.SavedSearch], error) {
	return page[domain.SavedSearch](ctx, c, "saved-searches/", nil, "Failed to load saved searches")
}

// CreateSavedSearch сохраняет поиск под именем
func (c *Client) CreateSavedSearch(ctx context.Context, name string, params map[string]string) (*domain.SavedSearch, error) {
	body := map[string]any{"name": name, "search_params": params}
	var out domain.SavedSearch
	if err := c.do(ctx, http.MethodPost, "saved-searches/", nil, body, &out, "Failed to save search"); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSavedSearch меняет имя или параметры сохраненного поиска
func (c *Client) UpdateSavedSearch(ctx context.Context, id domain.ID, upd SavedSearchUpdate) (*domain.SavedSearch, error) {
	var out domain.SavedSearch
	if err := c.do(ctx, http.MethodPatch, pathf("saved-searches/%s/", id), nil, upd, &out, "Failed to update search"); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSavedSearch удаляет сохраненный поиск
func (c *Client) DeleteSavedSearch(ctx context.Context, id domain.ID) error {
	return c.do(ctx, http.MethodDelete, pathf("saved-searches/%s/", id), nil, nil, nil, "Failed to delete search")
}
