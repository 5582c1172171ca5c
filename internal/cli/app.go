package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/api"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/output"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/retry"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/session"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/storage"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/store"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/config"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/logger"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/metrics"
)

// Version версия CLI
const Version = "1.0.0"

// Options внешние зависимости CLI. Незаданные поля собираются из конфигурации.
type Options struct {
	Out        io.Writer
	Err        io.Writer
	Config     *config.Config
	Storage    storage.Storage
	HTTPClient *http.Client
	Now        func() time.Time
}

// App зависимости, общие для всех команд
type App struct {
	Config  *config.Config
	Logger  logger.Logger
	Storage storage.Storage
	API     *api.Client
	Store   *store.Store
	Metrics *metrics.Metrics
	Printer *output.Printer
	Retrier *retry.Retrier

	opts        Options
	v           *viper.Viper
	tracer      *tracesdk.TracerProvider
	ownsStorage bool
	ready       bool
}

func newApp(opts Options, v *viper.Viper) *App {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &App{opts: opts, v: v}
}

// init собирает зависимости по конфигурации и флагам
func (a *App) init(ctx context.Context) error {
	if a.ready {
		return nil
	}

	cfg := a.opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.LoadConfig(a.v.GetString("config")); err != nil {
			return err
		}
	}
	if base := a.v.GetString("api"); base != "" {
		cfg.API.BaseURL = base
	}
	if format := a.v.GetString("output"); format != "" {
		cfg.Output.Format = format
	}
	a.Config = cfg

	level := cfg.Logger.Level
	if a.v.GetBool("verbose") {
		level = "debug"
	}
	log, err := logger.NewLogger(cfg.Environment, level, "cli")
	if err != nil {
		return fmt.Errorf("ошибка инициализации логгера: %w", err)
	}
	a.Logger = log

	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	a.Printer = output.NewPrinter(a.opts.Out, format)

	reg := prometheus.NewRegistry()
	a.Metrics = metrics.NewMetricsWithRegistry("techhub", reg, reg)
	a.tracer = metrics.InitializeOpenTelemetry("techhub-cli", Version)

	st := a.opts.Storage
	if st == nil {
		if st, err = storage.Open(ctx, cfg, log); err != nil {
			return err
		}
		a.ownsStorage = true
	}
	a.Storage = st

	authTTL, refreshTTL, flagsTTL := cfg.SessionTTLs()
	jar := session.NewJar(st, session.TTLPolicy{Auth: authTTL, Refresh: refreshTTL, Flags: flagsTTL}, cfg.Session.CookieDomain)

	timeout, err := cfg.APITimeout()
	if err != nil {
		return err
	}

	var s *store.Store
	apiOpts := []api.Option{}
	if a.opts.HTTPClient != nil {
		hc := *a.opts.HTTPClient
		apiOpts = append(apiOpts, api.WithHTTPClient(&hc))
	}
	apiOpts = append(apiOpts,
		api.WithTimeout(timeout),
		api.WithUserAgent(cfg.API.UserAgent),
		api.WithLogger(log),
		api.WithMetrics(a.Metrics),
		api.WithTokenSource(api.TokenFunc(func() string { return s.AccessToken() })),
		api.WithRefresher(api.RefresherFunc(func(ctx context.Context, stale string) (string, error) {
			return s.RefreshAccessToken(ctx, stale)
		})),
	)
	client, err := api.New(cfg.API.BaseURL, apiOpts...)
	if err != nil {
		return err
	}

	a.API = client

	s = store.New(store.Deps{
		API:      client,
		Storage:  st,
		Jar:      jar,
		Resolver: session.NewJWTResolver(jar),
		Navigator: store.NavigatorFunc(func(path string) {
			log.Debug("переход на страницу", logger.String("path", path))
		}),
		Logger:  log,
		Metrics: a.Metrics,
		Key:     cfg.Storage.Key,
		Host:    cfg.Session.CookieDomain,
		Now:     a.opts.Now,
	})
	if err := s.Rehydrate(ctx); err != nil {
		log.Warn("не удалось восстановить состояние", logger.Error(err))
	}
	a.Store = s
	a.Retrier = retry.New(cfg.Retry.MaxAttempts, log)
	a.ready = true
	return nil
}

// Close сбрасывает трассировку, записывает метрики и закрывает хранилище
func (a *App) Close() error {
	if !a.ready {
		return nil
	}
	a.ready = false

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var firstErr error
	if err := a.tracer.Shutdown(ctx); err != nil {
		firstErr = err
	}
	if file := a.v.GetString("metrics-file"); file != "" {
		if err := a.Metrics.WriteTextfile(file); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("ошибка записи метрик: %w", err)
		}
	}
	if a.ownsStorage {
		if err := a.Storage.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	_ = a.Logger.Sync()
	return firstErr
}

// call выполняет запрос через Retrier. Повтор выполняется только с флагом --retry,
// иначе пользователь видит счетчик попыток и подсказку.
func (a *App) call(ctx context.Context, op retry.Operation) error {
	err := a.Retrier.Do(ctx, op)
	if err == nil {
		return nil
	}
	if a.v.GetBool("retry") {
		for a.Retrier.CanRetry() {
			if err = a.Retrier.Retry(ctx); err == nil {
				return nil
			}
		}
		return err
	}
	if a.Retrier.CanRetry() {
		status := a.Retrier.Status()
		fmt.Fprintf(a.opts.Err, "Попытка %d из %d не удалась, повторите команду с --retry\n",
			status.Attempts, status.MaxAttempts)
	}
	return err
}
