package health

import (
	"context"
	"sort"
	"time"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc проверяет одну зависимость клиента
type CheckFunc func(ctx context.Context) error

// HealthStatus представляет общий статус и статусы зависимостей
type HealthStatus struct {
	Status    string            `json:"status" yaml:"status"`
	Timestamp time.Time         `json:"timestamp" yaml:"timestamp"`
	Services  map[string]Status `json:"services,omitempty" yaml:"services,omitempty"`
	Version   string            `json:"version,omitempty" yaml:"version,omitempty"`
}

// Status представляет статус зависимости
type Status struct {
	Status  string `json:"status" yaml:"status"`
	Details string `json:"details,omitempty" yaml:"details,omitempty"`
}

// Healthy все зависимости доступны
func (h *HealthStatus) Healthy() bool {
	return h.Status == StatusHealthy
}

// Names имена зависимостей в алфавитном порядке
func (h *HealthStatus) Names() []string {
	names := make([]string, 0, len(h.Services))
	for name := range h.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type namedCheck struct {
	name string
	fn   CheckFunc
}

// Checker выполняет зарегистрированные проверки
type Checker struct {
	version string
	timeout time.Duration
	now     func() time.Time
	checks  []namedCheck
}

// NewChecker создает Checker. timeout ограничивает каждую проверку, 0 без ограничения.
func NewChecker(version string, timeout time.Duration) *Checker {
	return &Checker{version: version, timeout: timeout, now: time.Now}
}

// WithClock подменяет источник времени
func (c *Checker) WithClock(now func() time.Time) *Checker {
	c.now = now
	return c
}

// Add регистрирует проверку
func (c *Checker) Add(name string, fn CheckFunc) *Checker {
	c.checks = append(c.checks, namedCheck{name: name, fn: fn})
	return c
}

// Check выполняет проверки по очереди. Одна неудачная проверка делает статус unhealthy.
func (c *Checker) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    StatusHealthy,
		Timestamp: c.now(),
		Services:  make(map[string]Status, len(c.checks)),
		Version:   c.version,
	}

	for _, check := range c.checks {
		if err := c.run(ctx, check.fn); err != nil {
			status.Status = StatusUnhealthy
			status.Services[check.name] = Status{Status: StatusUnhealthy, Details: err.Error()}
			continue
		}
		status.Services[check.name] = Status{Status: StatusHealthy}
	}
	return status
}

func (c *Checker) run(ctx context.Context, fn CheckFunc) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return fn(ctx)
}
