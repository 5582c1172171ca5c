package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/api/v1", opts...)
	require.NoError(t, err)
	return c
}

// TestNew проверяет разбор базового адреса
func TestNew(t *testing.T) {
	_, err := New("not a url")
	assert.Error(t, err)

	c, err := New("http://localhost:8000/api/v1/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api/v1", c.BaseURL())
}

// TestClient_Headers проверяет заголовки авторизации и идентификатор запроса
func TestClient_Headers(t *testing.T) {
	var got http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"unread_count": 3}`))
	}, WithTokenSource(TokenFunc(func() string { return "stored" })))

	ctx := logger.WithRequestID(context.Background(), "req-1")
	n, err := c.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "Bearer stored", got.Get("Authorization"))
	assert.Equal(t, "req-1", got.Get("X-Request-ID"))
	assert.Equal(t, "application/json", got.Get("Accept"))

	_, err = c.UnreadCount(WithBearer(context.Background(), "override"))
	require.NoError(t, err)
	assert.Equal(t, "Bearer override", got.Get("Authorization"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
}

// TestClient_NoToken проверяет, что без токена заголовок не отправляется
func TestClient_NoToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	})

	p, err := c.ListJobs(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, p.Items)
	assert.Empty(t, p.Items)
}

// TestClient_Login проверяет вход и разбор ответа
func TestClient_Login(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/auth/login/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.co", body["email"])
		assert.Equal(t, "secret", body["password"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"id":7,"email":"a@b.co","is_employer":true},"access":"acc","refresh":"ref"}`))
	})

	resp, err := c.Login(context.Background(), "a@b.co", "secret")
	require.NoError(t, err)
	assert.Equal(t, domain.ID("7"), resp.User.ID)
	assert.True(t, resp.User.IsEmployer)
	assert.Equal(t, "acc", resp.Access)
	assert.Equal(t, "ref", resp.Refresh)
}

// TestClient_ErrorNormalization проверяет нормализацию ошибок ответа
func TestClient_ErrorNormalization(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantCode    pkgerrors.ErrorCode
		wantMessage string
	}{
		{
			name:        "detail",
			status:      http.StatusUnauthorized,
			contentType: "application/json",
			body:        `{"detail":"Invalid credentials"}`,
			wantCode:    pkgerrors.ErrUnauthorized,
			wantMessage: "Invalid credentials",
		},
		{
			name:        "field errors",
			status:      http.StatusBadRequest,
			contentType: "application/json",
			body:        `{"password":["Too short"],"email":["Invalid"]}`,
			wantCode:    pkgerrors.ErrValidation,
			wantMessage: "email: Invalid; password: Too short",
		},
		{
			name:        "plain text",
			status:      http.StatusBadGateway,
			contentType: "text/html",
			body:        "Bad Gateway",
			wantCode:    pkgerrors.ErrInternal,
			wantMessage: "Bad Gateway",
		},
		{
			name:        "empty body",
			status:      http.StatusNotFound,
			wantCode:    pkgerrors.ErrNotFound,
			wantMessage: "Login failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Login(context.Background(), "a@b.co", "x")
			require.Error(t, err)

			apiErr, ok := pkgerrors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, tt.status, apiErr.Status)
		})
	}
}

// TestClient_NetworkError проверяет ошибку недоступного сервера
func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := New(base)
	require.NoError(t, err)

	_, err = c.GetJob(context.Background(), "1")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrNetwork, pkgerrors.CodeOf(err))
	assert.True(t, pkgerrors.Retryable(err))
}

// TestClient_Canceled проверяет, что отмена контекста не превращается в сетевую ошибку
func TestClient_Canceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetJob(ctx, "1")
	assert.ErrorIs(t, err, context.Canceled)
}

// TestClient_ListJobsEnvelope проверяет нормализацию страницы и параметры запроса
func TestClient_ListJobsEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/jobs/", r.URL.Path)
		assert.Equal(t, "go", r.URL.Query().Get("search"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{"count":25,"next":"http://x/?page=3","previous":"http://x/?page=1","results":[{"id":1,"title":"Go dev","company":5}]}`))
	})

	q := url.Values{}
	q.Set("search", "go")
	q.Set("page", "2")

	p, err := c.ListJobs(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, p.Items, 1)
	assert.Equal(t, 25, p.TotalCount)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrevious)
	assert.Equal(t, domain.ID("5"), p.Items[0].CompanyID())
	assert.Equal(t, 3, p.TotalPages(10))
}

// TestClient_SavedJobs проверяет добавление и удаление избранного
func TestClient_SavedJobs(t *testing.T) {
	var calls []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPost {
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"job":"12"}`, string(body))
			w.WriteHeader(http.StatusCreated)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.SaveJob(context.Background(), "12"))
	require.NoError(t, c.UnsaveJob(context.Background(), "12"))
	assert.Equal(t, []string{
		"POST /api/v1/favorites/jobs/",
		"DELETE /api/v1/favorites/jobs/12/",
	}, calls)
}

// TestClient_RefreshToken проверяет обновление токена доступа
func TestClient_RefreshToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/token/refresh/", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ref", body["refresh"])
		_, _ = w.Write([]byte(`{"access":"new-access"}`))
	})

	access, err := c.RefreshToken(context.Background(), "ref")
	require.NoError(t, err)
	assert.Equal(t, "new-access", access)
}

// TestClient_UploadLogo проверяет отправку multipart формы
func TestClient_UploadLogo(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/companies/3/upload_logo/", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		f, hdr, err := r.FormFile("logo")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "logo.png", hdr.Filename)
		assert.Equal(t, "PNGDATA", string(data))

		_, _ = w.Write([]byte(`{"id":3,"name":"Acme","logo":"/media/logo.png"}`))
	})

	company, err := c.UploadLogo(context.Background(), "3", "logo.png", strings.NewReader("PNGDATA"))
	require.NoError(t, err)
	assert.Equal(t, "/media/logo.png", company.Logo)
}

// TestClient_ProfileItems проверяет пути вложенных ресурсов профиля
func TestClient_ProfileItems(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		_, _ = w.Write([]byte(`{"id":9,"name":"Go"}`))
	})

	var skill domain.ProfileSkill
	require.NoError(t, c.CreateProfileItem(context.Background(), "4", SectionSkills, domain.ProfileSkill{Name: "Go"}, &skill))
	require.NoError(t, c.UpdateProfileItem(context.Background(), "4", SectionSkills, "9", skill, &skill))
	require.NoError(t, c.DeleteProfileItem(context.Background(), "4", SectionSkills, "9"))

	assert.Equal(t, domain.ID("9"), skill.ID)
	assert.Equal(t, []string{
		"POST /api/v1/profiles/4/skills/",
		"PUT /api/v1/profiles/4/skills/9/",
		"DELETE /api/v1/profiles/4/skills/9/",
	}, paths)
}

// TestClient_MyCompaniesBareArray проверяет разбор голого массива компаний
func TestClient_MyCompaniesBareArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/companies/me/", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":1,"name":"A"},{"id":"2","name":"B"}]`))
	})

	companies, err := c.MyCompanies(context.Background())
	require.NoError(t, err)
	require.Len(t, companies, 2)
	assert.Equal(t, domain.ID("1"), companies[0].ID)
	assert.Equal(t, domain.ID("2"), companies[1].ID)
}

// TestClient_ListMessages проверяет параметры пагинации сообщений
func TestClient_ListMessages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/conversations/8/messages/", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "50", r.URL.Query().Get("page_size"))
		_, _ = w.Write([]byte(`{"count":1,"next":null,"previous":null,"results":[{"id":1,"content":"hi","is_read":false}]}`))
	})

	p, err := c.ListMessages(context.Background(), "8", 1, 50)
	require.NoError(t, err)
	require.Len(t, p.Items, 1)
	assert.False(t, p.HasNext)
	assert.Equal(t, "hi", p.Items[0].Content)
}
