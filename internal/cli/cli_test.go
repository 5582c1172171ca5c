package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/storage"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/config"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// fakeAPI сервер API с минимальным состоянием
type fakeAPI struct {
	t *testing.T

	mu          sync.Mutex
	superAdmin  bool
	saved       map[string]bool
	jobQueries  []string
	adminBodies []map[string]any
	failures    int
	requests    []string
	searches    []map[string]any
	searchSeq   int
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/auth/login/{$}", func(w http.ResponseWriter, r *http.Request) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "1"}).SignedString([]byte("test"))
		require.NoError(f.t, err)
		user := map[string]any{"id": 1, "email": "ann@example.com", "first_name": "Ann", "is_employer": false}
		if f.superAdmin {
			user["is_staff"] = true
			user["is_superuser"] = true
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": user, "access": token, "refresh": "refresh-token"})
	})
	mux.HandleFunc("POST /api/v1/auth/verify-token/{$}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})

	mux.HandleFunc("GET /api/v1/jobs/{$}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.jobQueries = append(f.jobQueries, r.URL.RawQuery)
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{
			"count":    25,
			"next":     "http://api/jobs/?page=3",
			"previous": "http://api/jobs/?page=1",
			"results": []map[string]any{
				{"id": 7, "title": "Go Developer", "company": map[string]any{"id": 5, "name": "Acme"}, "job_type": "full_time", "is_active": true},
			},
		})
	})
	mux.HandleFunc("GET /api/v1/jobs/{id}/{$}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		fail := f.failures > 0
		if fail {
			f.failures--
		}
		f.mu.Unlock()
		if fail {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("upstream unavailable"))
			return
		}
		if r.PathValue("id") == "404" {
			writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Not found."})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id": r.PathValue("id"), "title": "Go Developer", "company": 5, "is_active": false,
			"description": "Build services", "posted_by_admin": true, "use_internal_application": true,
		})
	})
	mux.HandleFunc("POST /api/v1/jobs/{id}/activate/{$}", func(w http.ResponseWriter, r *http.Request) {
		f.record("activate " + r.PathValue("id"))
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("GET /api/v1/favorites/jobs/{$}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		items := []map[string]any{}
		for id := range f.saved {
			items = append(items, map[string]any{"id": "s" + id, "job": map[string]any{"id": id, "title": "Saved " + id}})
		}
		writeJSON(w, http.StatusOK, items)
	})
	mux.HandleFunc("POST /api/v1/favorites/jobs/{$}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
		f.mu.Lock()
		f.saved[body["job"]] = true
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, map[string]any{})
	})

	mux.HandleFunc("GET /api/v1/saved-searches/{$}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"count": len(f.searches), "results": append([]map[string]any{}, f.searches...)})
	})
	mux.HandleFunc("POST /api/v1/saved-searches/{$}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
		f.mu.Lock()
		f.searchSeq++
		item := map[string]any{"id": f.searchSeq, "name": body["name"], "search_params": body["search_params"], "created_at": "2024-05-01"}
		f.searches = append([]map[string]any{item}, f.searches...)
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, item)
	})
	mux.HandleFunc("PATCH /api/v1/saved-searches/{id}/{$}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, item := range f.searches {
			if fmt.Sprint(item["id"]) == r.PathValue("id") {
				item["name"] = body["name"]
				writeJSON(w, http.StatusOK, item)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Not found."})
	})
	mux.HandleFunc("DELETE /api/v1/saved-searches/{id}/{$}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, item := range f.searches {
			if fmt.Sprint(item["id"]) == r.PathValue("id") {
				f.searches = append(f.searches[:i], f.searches[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Not found."})
	})

	mux.HandleFunc("POST /api/v1/jobs/admin-create/{$}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
		f.mu.Lock()
		f.adminBodies = append(f.adminBodies, body)
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, map[string]any{"id": 99, "title": body["title"], "posted_by_admin": true})
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Not found."})
	})
	return mux
}

func (f *fakeAPI) record(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, s)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type testEnv struct {
	api     *fakeAPI
	storage storage.Storage
	cfg     *config.Config
	client  *http.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	f := &fakeAPI{t: t, saved: map[string]bool{}}
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.API.BaseURL = srv.URL + "/api/v1"
	cfg.Storage.Backend = "memory"
	cfg.Logger.Level = "error"

	return &testEnv{api: f, storage: storage.NewMemory(), cfg: cfg, client: srv.Client()}
}

// run выполняет команду и возвращает stdout и stderr
func (e *testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cfg := *e.cfg
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), Options{
		Out:        &out,
		Err:        &errOut,
		Config:     &cfg,
		Storage:    e.storage,
		HTTPClient: e.client,
		Now:        func() time.Time { return testNow },
	}, args)
	return out.String(), errOut.String(), err
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	out, _, err := e.run(t, "auth", "login", "ann@example.com", "-p", "secret")
	require.NoError(t, err)
	require.Contains(t, out, "Вход выполнен")
}

// TestAuth_LoginStatusLogout проверяет сохранение сессии между запусками и выход
func TestAuth_LoginStatusLogout(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "auth", "status", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"authenticated": false`)

	env.login(t)

	out, _, err = env.run(t, "auth", "status", "-o", "json")
	require.NoError(t, err)
	var status authStatus
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.True(t, status.Authenticated)
	assert.True(t, status.SessionValid)
	assert.Equal(t, "ann@example.com", status.Email)
	assert.Equal(t, "jobseeker", status.Role)

	out, _, err = env.run(t, "auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Выход выполнен")

	out, _, err = env.run(t, "auth", "status", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"authenticated": false`)
}

// TestAuth_LoginRequiresPassword проверяет ошибку без пароля
func TestAuth_LoginRequiresPassword(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("TECHIHUB_PASSWORD", "")

	_, _, err := env.run(t, "auth", "login", "ann@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Password is required")
}

// TestJobs_SearchFromURL проверяет разбор адреса и запрос к API
func TestJobs_SearchFromURL(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "jobs", "search", "--url", "/jobs/search?job_type=full_time&page=2", "-o", "json")
	require.NoError(t, err)

	var page searchPage
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, "/jobs/search?job_type=full_time&page=2", page.URL)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 25, page.TotalCount)
	require.Len(t, page.Jobs, 1)
	assert.Equal(t, "Go Developer", page.Jobs[0].Title)

	require.Len(t, env.api.jobQueries, 1)
	assert.Equal(t, "job_type=full_time&page=2&page_size=10", env.api.jobQueries[0])
}

// TestJobs_SearchFlagsResetPage проверяет возврат на первую страницу при смене фильтра
func TestJobs_SearchFlagsResetPage(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "jobs", "search",
		"--url", "/jobs/search?job_type=full_time&page=3",
		"--location", "Nairobi",
		"--skills", "go, sql,go",
		"-o", "json")
	require.NoError(t, err)

	var page searchPage
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, "/jobs/search?job_type=full_time&location=Nairobi&skills=go%2Csql", page.URL)
	assert.Contains(t, env.api.jobQueries[0], "page=1")
}

// TestJobs_SearchTable проверяет табличный вывод с подвалом страницы
func TestJobs_SearchTable(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "jobs", "search", "--q", "golang")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Go Developer")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Страница 1 из 3, найдено 25: /jobs/search?q=golang")
	assert.Contains(t, env.api.jobQueries[0], "search=golang")
}

// TestJobs_SaveRequiresLogin проверяет, что без входа избранное не меняется
func TestJobs_SaveRequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "jobs", "save", "7")
	require.Error(t, err)
	assert.Empty(t, env.api.saved)
}

// TestJobs_SaveToggle проверяет сохранение вакансии и повторное сохранение
func TestJobs_SaveToggle(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	out, _, err := env.run(t, "jobs", "save", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "добавлена в избранное")
	assert.True(t, env.api.saved["7"])

	out, _, err = env.run(t, "jobs", "save", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "уже в избранном")

	out, _, err = env.run(t, "jobs", "saved")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved 7")
}

// TestJobs_SavedSearches проверяет сохранение фильтров, запуск, переименование и удаление поиска
func TestJobs_SavedSearches(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	out, _, err := env.run(t, "jobs", "saved-searches", "save", "Remote", "Go",
		"--q", "golang", "--remote", "--skills", "go,sql")
	require.NoError(t, err)
	assert.Contains(t, out, `Поиск "Remote Go" сохранен: 1`)
	require.Len(t, env.api.searches, 1)
	assert.Equal(t, map[string]any{"q": "golang", "remote": "true", "skills": "go,sql"}, env.api.searches[0]["search_params"])

	out, _, err = env.run(t, "jobs", "searches", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Remote Go")
	assert.Contains(t, out, "q=golang remote=true skills=go,sql")

	out, _, err = env.run(t, "jobs", "saved-searches", "run", "1", "-o", "json")
	require.NoError(t, err)
	var page searchPage
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, "/jobs/search?q=golang&remote=true&skills=go%2Csql", page.URL)
	assert.Equal(t, 1, page.Page)
	require.NotEmpty(t, env.api.jobQueries)
	last := env.api.jobQueries[len(env.api.jobQueries)-1]
	assert.Contains(t, last, "search=golang")
	assert.Contains(t, last, "remote=true")

	out, _, err = env.run(t, "jobs", "saved-searches", "rename", "1", "Go", "anywhere")
	require.NoError(t, err)
	assert.Contains(t, out, `Поиск 1 переименован в "Go anywhere"`)

	out, _, err = env.run(t, "jobs", "saved-searches", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Поиск 1 удален")
	assert.Empty(t, env.api.searches)

	_, _, err = env.run(t, "jobs", "saved-searches", "run", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Saved search not found")
}

// TestJobs_SavedSearchesValidation проверяет отказ без входа и без фильтров
func TestJobs_SavedSearchesValidation(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "jobs", "saved-searches", "list")
	require.Error(t, err)

	env.login(t)
	_, _, err = env.run(t, "jobs", "saved-searches", "save", "Empty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "At least one search filter is required")
	assert.Empty(t, env.api.searches)
}

// TestJobs_Activate проверяет включение публикации по состоянию с сервера
func TestJobs_Activate(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	out, _, err := env.run(t, "jobs", "activate", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "active = yes")
	assert.Equal(t, []string{"activate 7"}, env.api.requests)
}

// TestJobs_Get проверяет карточку вакансии
func TestJobs_Get(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "jobs", "get", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Go Developer")
	assert.Contains(t, out, "internal")
}

// TestErrors_NotFound проверяет сообщение об ошибке API
func TestErrors_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, stderr, err := env.run(t, "jobs", "get", "404")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ресурс не найден")
	assert.Contains(t, err.Error(), "Not found.")
	assert.NotContains(t, stderr, "--retry")
}

// TestRetry проверяет подсказку о повторе и повтор с флагом --retry
func TestRetry(t *testing.T) {
	t.Run("hint without flag", func(t *testing.T) {
		env := newTestEnv(t)
		env.api.failures = 1

		_, stderr, err := env.run(t, "jobs", "get", "7")
		require.Error(t, err)
		assert.Contains(t, stderr, "Попытка 1 из 3")
		assert.Contains(t, stderr, "--retry")
	})

	t.Run("retry until success", func(t *testing.T) {
		env := newTestEnv(t)
		env.api.failures = 2

		out, _, err := env.run(t, "jobs", "get", "7", "--retry")
		require.NoError(t, err)
		assert.Contains(t, out, "Go Developer")
	})

	t.Run("attempts exhausted", func(t *testing.T) {
		env := newTestEnv(t)
		env.api.failures = 5

		_, _, err := env.run(t, "jobs", "get", "7", "--retry")
		require.Error(t, err)
		assert.Equal(t, 2, env.api.failures)
	})
}

const validJob = `
title: Senior Go Engineer
description: "<p>Build and operate the job board backend services for our growing platform.</p>"
category: engineering
location: Nairobi
company_id: "5"
min_salary: "1000"
max_salary: "2000"
application_methods: [internal, email]
application_email: jobs@acme.test
skills:
  - name: Go
    is_required: true
  - name: PostgreSQL
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestAdminJobs_Create проверяет создание вакансии суперадминистратором
func TestAdminJobs_Create(t *testing.T) {
	env := newTestEnv(t)
	env.api.superAdmin = true
	env.login(t)

	out, _, err := env.run(t, "admin", "jobs", "create", "--file", writeFile(t, validJob))
	require.NoError(t, err)
	assert.Contains(t, out, "Вакансия 99 создана")

	require.Len(t, env.api.adminBodies, 1)
	body := env.api.adminBodies[0]
	assert.Equal(t, true, body["posted_by_admin"])
	assert.Equal(t, "5", body["company_id"])
	assert.Equal(t, true, body["use_internal_application"])
	assert.Equal(t, "jobs@acme.test", body["application_email"])
	assert.Equal(t, "", body["application_url"])
	assert.Len(t, body["required_skills"], 2)
}

// TestAdminJobs_CreateInvalid проверяет вывод ошибок полей без запроса к API
func TestAdminJobs_CreateInvalid(t *testing.T) {
	env := newTestEnv(t)
	env.api.superAdmin = true
	env.login(t)

	invalid := strings.Replace(validJob, "title: Senior Go Engineer", "title: Go", 1)
	invalid = strings.Replace(invalid, `max_salary: "2000"`, `max_salary: "500"`, 1)

	out, _, err := env.run(t, "admin", "jobs", "create", "--file", writeFile(t, invalid))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ошибка валидации данных")
	assert.Contains(t, out, "title")
	assert.Contains(t, out, "too_short")
	assert.Contains(t, out, "max_salary")
	assert.Empty(t, env.api.adminBodies)
}

// TestAdminJobs_CreateForbidden проверяет отказ обычному пользователю
func TestAdminJobs_CreateForbidden(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	_, _, err := env.run(t, "admin", "jobs", "create", "--file", writeFile(t, validJob))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Доступ запрещен")
	assert.Empty(t, env.api.adminBodies)
}

// TestTheme_Toggle проверяет сохранение темы между запусками
func TestTheme_Toggle(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "theme", "toggle")
	require.NoError(t, err)
	assert.Contains(t, out, "Темная тема: yes")

	out, _, err = env.run(t, "theme", "show", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"isDarkMode": true`)
}

// TestMetricsFile проверяет запись метрик запросов в файл
func TestMetricsFile(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "techhub.prom")

	_, _, err := env.run(t, "jobs", "search", "--metrics-file", path)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "techhub_api_requests_total")
	assert.Contains(t, string(content), fmt.Sprintf("action=%q", "search_jobs"))
}

// TestOutputFormat_Invalid проверяет отказ на неизвестный формат
func TestOutputFormat_Invalid(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "theme", "show", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

// TestHealth проверяет доступность хранилища и API
func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "health", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "healthy"`)
	assert.Contains(t, out, `"api"`)
	assert.NotContains(t, out, `"session"`)

	env.login(t)
	out, _, err = env.run(t, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "session")
}

// TestHealth_APIUnavailable проверяет ошибку при недоступном API
func TestHealth_APIUnavailable(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.API.BaseURL += "/missing"

	out, _, err := env.run(t, "health")
	require.Error(t, err)
	assert.Contains(t, out, "unhealthy")
	assert.Contains(t, err.Error(), "health")
}
