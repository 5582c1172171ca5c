package metrics

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Metrics представляет систему метрик клиента
type Metrics struct {
	// Метрики запросов к API
	RequestCount    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ErrorsCount     *prometheus.CounterVec
	InFlight        prometheus.Gauge

	// Метрики действий хранилища состояния
	ActionsTotal *prometheus.CounterVec

	// OpenTelemetry Tracer
	Tracer trace.Tracer `json:"-"`

	gatherer prometheus.Gatherer
}

// NewMetrics создает систему метрик в глобальном реестре
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWithRegistry(namespace, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewMetricsWithRegistry создает систему метрик в указанном реестре
func NewMetricsWithRegistry(namespace string, reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	requestCount := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Duration of API requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	errorsCount := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Total number of failed API requests",
		},
		[]string{"method", "endpoint", "error_type"},
	)

	inFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "in_flight_requests",
			Help:      "Number of API requests in flight",
		},
	)

	actionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "actions_total",
			Help:      "Total number of store actions by outcome",
		},
		[]string{"action", "outcome"},
	)

	return &Metrics{
		RequestCount:    register(reg, requestCount),
		RequestDuration: register(reg, requestDuration),
		ErrorsCount:     register(reg, errorsCount),
		InFlight:        register(reg, inFlight),
		ActionsTotal:    register(reg, actionsTotal),
		Tracer:          otel.Tracer(namespace),
		gatherer:        gatherer,
	}
}

// register регистрирует коллектор, при повторной регистрации возвращает уже существующий
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if reg == nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing
			}
			return c
		}
		panic(err)
	}
	return c
}

// ObserveAction учитывает результат действия хранилища
func (m *Metrics) ObserveAction(action string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.ActionsTotal.WithLabelValues(action, outcome).Inc()
}

// WriteTextfile сохраняет текущие метрики в файл в текстовом формате Prometheus
func (m *Metrics) WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, m.gatherer)
}

// Transport оборачивает http.RoundTripper сбором метрик и трассировкой
func (m *Metrics) Transport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &instrumentedTransport{next: next, metrics: m}
}

type instrumentedTransport struct {
	next    http.RoundTripper
	metrics *Metrics
}

// RoundTrip выполняет запрос и собирает метрики
func (t *instrumentedTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	endpoint := NormalizePath(r.URL.Path)

	ctx, span := t.metrics.Tracer.Start(r.Context(), r.Method+" "+endpoint, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	t.metrics.InFlight.Inc()
	defer t.metrics.InFlight.Dec()

	start := time.Now()
	resp, err := t.next.RoundTrip(r.WithContext(ctx))
	duration := time.Since(start).Seconds()

	t.metrics.RequestDuration.WithLabelValues(r.Method, endpoint).Observe(duration)

	span.SetAttributes(
		attribute.String("http.method", r.Method),
		attribute.String("http.route", endpoint),
		attribute.Float64("http.duration", duration),
	)

	if err != nil {
		t.metrics.RequestCount.WithLabelValues(r.Method, endpoint, "error").Inc()
		t.metrics.ErrorsCount.WithLabelValues(r.Method, endpoint, "network_error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	t.metrics.RequestCount.WithLabelValues(r.Method, endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= 400 {
		errorType := "client_error"
		if resp.StatusCode >= 500 {
			errorType = "server_error"
		}
		t.metrics.ErrorsCount.WithLabelValues(r.Method, endpoint, errorType).Inc()
		span.SetStatus(codes.Error, resp.Status)
	}

	return resp, nil
}

var idSegment = regexp.MustCompile(`^([0-9]+|[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})$`)

// NormalizePath заменяет идентификаторы в пути на :id, чтобы не плодить метки
func NormalizePath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if idSegment.MatchString(s) {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

// InitializeOpenTelemetry инициализирует глобальный провайдер трассировки
func InitializeOpenTelemetry(serviceName, version string) *tracesdk.TracerProvider {
	tp := tracesdk.NewTracerProvider(
		tracesdk.WithSampler(tracesdk.AlwaysSample()),
		tracesdk.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", version),
		)),
	)

	otel.SetTracerProvider(tp)

	return tp
}
