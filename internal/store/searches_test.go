package store

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/api"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
)

// TestSavedSearches проверяет загрузку, создание, переименование и удаление сохраненных поисков
func TestSavedSearches(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/saved-searches/{$}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, `{"count":1,"results":[{"id":1,"name":"Remote Go","search_params":{"q":"go","remote":true}}]}`)
	})
	mux.HandleFunc("POST /api/v1/saved-searches/{$}", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name   string            `json:"name"`
			Params map[string]string `json:"search_params"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Nairobi", body.Name)
		assert.Equal(t, map[string]string{"location": "Nairobi"}, body.Params)
		writeJSON(w, http.StatusCreated, `{"id":2,"name":"Nairobi","search_params":{"location":"Nairobi"}}`)
	})
	mux.HandleFunc("PATCH /api/v1/saved-searches/{id}/{$}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.PathValue("id"))
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"name": "Remote Golang"}, body)
		writeJSON(w, http.StatusOK, `{"id":1,"name":"Remote Golang","search_params":{"q":"go","remote":true}}`)
	})
	mux.HandleFunc("DELETE /api/v1/saved-searches/{id}/{$}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	})
	h := newHarness(t, mux, nil)
	loginAs(h, domain.User{ID: "1"})
	ctx := context.Background()

	items, err := h.store.FetchSavedSearches(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "go", items[0].Query().Get("q"))

	created, err := h.store.CreateSavedSearch(ctx, " Nairobi ", map[string]string{"location": "Nairobi"})
	require.NoError(t, err)
	assert.Equal(t, domain.ID("2"), created.ID)
	assert.Equal(t, domain.ID("2"), h.store.State().Jobs.SavedSearches[0].ID, "новый поиск в начале списка")

	_, err = h.store.UpdateSavedSearch(ctx, "1", api.SavedSearchUpdate{Name: "Remote Golang"})
	require.NoError(t, err)
	found, err := h.store.SavedSearch(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Remote Golang", found.Name)

	require.NoError(t, h.store.DeleteSavedSearch(ctx, "2"))
	st := h.store.State()
	require.Len(t, st.Jobs.SavedSearches, 1)
	assert.Equal(t, domain.ID("1"), st.Jobs.SavedSearches[0].ID)
	assert.False(t, st.Jobs.Loading)
}

// TestSavedSearches_Validation проверяет отказ без входа и без имени
func TestSavedSearches_Validation(t *testing.T) {
	h := newHarness(t, http.NewServeMux(), nil)
	ctx := context.Background()

	_, err := h.store.FetchSavedSearches(ctx)
	assert.Equal(t, pkgerrors.ErrUnauthorized, pkgerrors.CodeOf(err))

	loginAs(h, domain.User{ID: "1"})
	_, err = h.store.CreateSavedSearch(ctx, "  ", map[string]string{"q": "go"})
	assert.Equal(t, pkgerrors.ErrValidation, pkgerrors.CodeOf(err))
}

// TestSavedSearch_NotFound проверяет промах после перезагрузки списка
func TestSavedSearch_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/saved-searches/{$}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"count":0,"results":[]}`)
	})
	h := newHarness(t, mux, nil)
	loginAs(h, domain.User{ID: "1"})

	_, err := h.store.SavedSearch(context.Background(), "42")
	assert.Equal(t, pkgerrors.ErrNotFound, pkgerrors.CodeOf(err))
}
