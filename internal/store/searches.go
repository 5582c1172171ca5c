package store

import (
	"context"
	"strings"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/api"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
)

// FetchSavedSearches загружает сохраненные поиски
func (s *Store) FetchSavedSearches(ctx context.Context) ([]domain.SavedSearch, error) {
	if err := s.requireAuth(); err != nil {
		return nil, err
	}
	view, err := run(ctx, s, "fetch_saved_searches", jobsStatus, func(ctx context.Context) (domain.PageView[domain.SavedSearch], error) {
		return s.api.ListSavedSearches(ctx)
	}, func(st *State, view domain.PageView[domain.SavedSearch]) {
		st.Jobs.SavedSearches = view.Items
	})
	return view.Items, err
}

// CreateSavedSearch сохраняет поиск и добавляет его в начало списка
func (s *Store) CreateSavedSearch(ctx context.Context, name string, params map[string]string) (*domain.SavedSearch, error) {
	if err := s.requireAuth(); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.ErrValidation, "Search name is required")
	}
	return run(ctx, s, "create_saved_search", jobsStatus, func(ctx context.Context) (*domain.SavedSearch, error) {
		return s.api.CreateSavedSearch(ctx, name, params)
	}, func(st *State, saved *domain.SavedSearch) {
		st.Jobs.SavedSearches = append([]domain.SavedSearch{*saved}, st.Jobs.SavedSearches...)
	})
}

// UpdateSavedSearch меняет имя или параметры сохраненного поиска
func (s *Store) UpdateSavedSearch(ctx context.Context, id domain.ID, upd api.SavedSearchUpdate) (*domain.SavedSearch, error) {
	if err := s.requireAuth(); err != nil {
		return nil, err
	}
	return run(ctx, s, "update_saved_search", jobsStatus, func(ctx context.Context) (*domain.SavedSearch, error) {
		return s.api.UpdateSavedSearch(ctx, id, upd)
	}, func(st *State, saved *domain.SavedSearch) {
		if i := searchIndex(st.Jobs.SavedSearches, id); i >= 0 {
			st.Jobs.SavedSearches[i] = *saved
		}
	})
}

// DeleteSavedSearch удаляет сохраненный поиск
func (s *Store) DeleteSavedSearch(ctx context.Context, id domain.ID) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	return exec(ctx, s, "delete_saved_search", jobsStatus, func(ctx context.Context) error {
		return s.api.DeleteSavedSearch(ctx, id)
	}, func(st *State) {
		if i := searchIndex(st.Jobs.SavedSearches, id); i >= 0 {
			st.Jobs.SavedSearches = append(st.Jobs.SavedSearches[:i], st.Jobs.SavedSearches[i+1:]...)
		}
	})
}

// SavedSearch ищет сохраненный поиск в срезе, при промахе загружает список заново
func (s *Store) SavedSearch(ctx context.Context, id domain.ID) (*domain.SavedSearch, error) {
	find := func(items []domain.SavedSearch) *domain.SavedSearch {
		if i := searchIndex(items, id); i >= 0 {
			found := items[i]
			return &found
		}
		return nil
	}
	if found := find(s.State().Jobs.SavedSearches); found != nil {
		return found, nil
	}
	items, err := s.FetchSavedSearches(ctx)
	if err != nil {
		return nil, err
	}
	if found := find(items); found != nil {
		return found, nil
	}
	return nil, pkgerrors.New(pkgerrors.ErrNotFound, "Saved search not found")
}

func searchIndex(items []domain.SavedSearch, id domain.ID) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
