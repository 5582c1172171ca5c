package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/logger"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/metrics"
)

// TokenSource отдает текущий токен доступа
type TokenSource interface {
	AccessToken() string
}

// TokenFunc адаптер функции к TokenSource
type TokenFunc func() string

// AccessToken возвращает токен
func (f TokenFunc) AccessToken() string {
	return f()
}

// Refresher обновляет токен доступа после ответа 401. stale токен, с которым
// получен отказ. При неудаче Refresher сам завершает сессию.
type Refresher interface {
	RefreshAccessToken(ctx context.Context, stale string) (string, error)
}

// RefresherFunc адаптер функции к Refresher
type RefresherFunc func(ctx context.Context, stale string) (string, error)

// RefreshAccessToken вызывает функцию
func (f RefresherFunc) RefreshAccessToken(ctx context.Context, stale string) (string, error) {
	return f(ctx, stale)
}

type bearerKey struct{}

// WithBearer задает токен для запросов с этим контекстом вместо TokenSource
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

// Client HTTP клиент REST API платформы
type Client struct {
	baseURL   string
	http      *http.Client
	tokens    TokenSource
	refresher Refresher
	logger    logger.Logger
	userAgent string
}

// Option настраивает Client
type Option func(*Client)

// WithHTTPClient задает HTTP клиент
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenSource задает источник токена
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithRefresher включает однократное обновление токена и повтор запроса после 401
func WithRefresher(r Refresher) Option {
	return func(c *Client) { c.refresher = r }
}

// WithLogger задает логгер
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithUserAgent задает User-Agent
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithTimeout задает таймаут запросов
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithMetrics оборачивает транспорт сбором метрик
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		if m != nil {
			c.http.Transport = m.Transport(c.http.Transport)
		}
	}
}

// New создает клиент API. baseURL включает префикс версии, например http://localhost:8000/api/v1
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("некорректный адрес API: %q", baseURL)
	}

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: 30 * time.Second},
		tokens:    TokenFunc(func() string { return "" }),
		logger:    logger.NewNop(),
		userAgent: "TechHub-CLI/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL возвращает базовый адрес API
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) token(ctx context.Context) string {
	if t, ok := ctx.Value(bearerKey{}).(string); ok {
		return t
	}
	return c.tokens.AccessToken()
}

// request выполняет запрос и возвращает тело успешного ответа. После 401 токен
// обновляется через Refresher и запрос повторяется один раз.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType, fallback string) ([]byte, error) {
	var payload []byte
	if body != nil {
		b, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения тела запроса: %w", err)
		}
		payload = b
	}

	token := c.token(ctx)
	data, err := c.send(ctx, method, path, query, payload, contentType, token, fallback)
	if !c.canRefresh(path, token, err) {
		return data, err
	}

	c.logger.Debug("токен отклонен, обновляем", logger.String("path", path))
	fresh, rerr := c.refresher.RefreshAccessToken(ctx, token)
	if rerr != nil {
		c.logger.Warn("не удалось обновить токен",
			logger.String("path", path),
			logger.Error(rerr),
		)
		return nil, rerr
	}
	return c.send(ctx, method, path, query, payload, contentType, fresh, fallback)
}

// canRefresh 401 на запрос с токеном, кроме запросов авторизации
func (c *Client) canRefresh(path, token string, err error) bool {
	if c.refresher == nil || token == "" || err == nil {
		return false
	}
	if strings.HasPrefix(strings.TrimLeft(path, "/"), "auth/") {
		return false
	}
	var apiErr *pkgerrors.Error
	return stderrors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, contentType, token, fallback string) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	requestID := logger.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Warn("запрос к API не выполнен",
			logger.String("method", method),
			logger.String("path", path),
			logger.String("request_id", requestID),
			logger.Error(err),
		)
		return nil, pkgerrors.Network(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Network(fmt.Errorf("ошибка чтения ответа: %w", err))
	}

	c.logger.Debug("запрос к API",
		logger.String("method", method),
		logger.String("path", path),
		logger.Int("status", resp.StatusCode),
		logger.Duration("took", time.Since(start)),
		logger.String("request_id", requestID),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, pkgerrors.FromResponse(resp.StatusCode, resp.Header.Get("Content-Type"), data, fallback)
	}

	return data, nil
}

// do отправляет JSON и декодирует JSON ответ в out
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any, fallback string) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("ошибка кодирования запроса: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	data, err := c.request(ctx, method, path, query, body, contentType, fallback)
	if err != nil {
		return err
	}

	return decode(data, out)
}

func decode(data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("ошибка декодирования ответа: %w", err)
	}
	return nil
}

// page запрашивает список и нормализует его в PageView
func page[T any](ctx context.Context, c *Client, path string, query url.Values, fallback string) (domain.PageView[T], error) {
	data, err := c.request(ctx, http.MethodGet, path, query, nil, "", fallback)
	if err != nil {
		return domain.PageView[T]{}, err
	}
	return domain.DecodePage[T](data)
}

// File файл для загрузки
type File struct {
	Field    string
	Name     string
	Content  io.Reader
	Extra    map[string]string
	Fallback string
}

// upload отправляет multipart форму с одним файлом
func (c *Client) upload(ctx context.Context, method, path string, f File, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range f.Extra {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("ошибка формирования формы: %w", err)
		}
	}
	part, err := w.CreateFormFile(f.Field, f.Name)
	if err != nil {
		return fmt.Errorf("ошибка формирования формы: %w", err)
	}
	if _, err := io.Copy(part, f.Content); err != nil {
		return fmt.Errorf("ошибка чтения файла: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("ошибка формирования формы: %w", err)
	}

	data, err := c.request(ctx, method, path, nil, &buf, w.FormDataContentType(), f.Fallback)
	if err != nil {
		return err
	}
	return decode(data, out)
}

func pathf(format string, ids ...domain.ID) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = url.PathEscape(string(id))
	}
	return fmt.Sprintf(format, args...)
}
