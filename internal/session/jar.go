package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/storage"
)

// Cookie имена, которые клиент может выставить
const (
	CookieAuthToken            = "auth_token"
	CookieRefreshToken         = "refresh_token"
	CookieUserRole             = "user_role"
	CookieHasCompany           = "has_company"
	CookieCompanyID            = "company_id"
	CookieHasMultipleCompanies = "has_multiple_companies"
	CookieCompanySetupStep     = "company_setup_step"
	CookieHasCompletedProfile  = "has_completed_profile"
	CookieProfileID            = "profile_id"
	CookieRegistrationType     = "registration_type"
	CookieThemePreference      = "theme_preference"
	CookieSidebarCollapsed     = "sidebar_collapsed"
	CookieLastVisitedPage      = "last_visited_page"
	CookieOnboardingCompleted  = "onboarding_completed"
	CookieTourCompleted        = "tour_completed"
)

// KnownCookies все cookie приложения. Выход удаляет каждую из них.
var KnownCookies = []string{
	CookieAuthToken,
	CookieRefreshToken,
	CookieUserRole,
	CookieHasCompany,
	CookieCompanyID,
	CookieHasMultipleCompanies,
	CookieCompanySetupStep,
	CookieHasCompletedProfile,
	CookieProfileID,
	CookieRegistrationType,
	CookieThemePreference,
	CookieSidebarCollapsed,
	CookieLastVisitedPage,
	CookieOnboardingCompleted,
	CookieTourCompleted,
}

const keyPrefix = "cookie:"

// Scope путь и домен cookie. Пустой Scope соответствует записи без явных атрибутов.
type Scope struct {
	Path   string
	Domain string
}

// RootScope область, в которую пишет клиент
var RootScope = Scope{Path: "/"}

func (s Scope) key(name string) string {
	return keyPrefix + name + "|" + s.Path + "|" + s.Domain
}

// TTLPolicy сроки жизни cookie
type TTLPolicy struct {
	Auth    time.Duration
	Refresh time.Duration
	Flags   time.Duration
}

// DefaultTTLPolicy день для токена доступа и роли, неделя для остального
var DefaultTTLPolicy = TTLPolicy{
	Auth:    24 * time.Hour,
	Refresh: 7 * 24 * time.Hour,
	Flags:   7 * 24 * time.Hour,
}

// TTL возвращает срок жизни cookie по имени
func (p TTLPolicy) TTL(name string) time.Duration {
	switch name {
	case CookieAuthToken, CookieUserRole:
		return p.Auth
	case CookieRefreshToken:
		return p.Refresh
	default:
		return p.Flags
	}
}

// Jar хранит cookie в постоянном хранилище по ключу (имя, путь, домен)
type Jar struct {
	storage storage.Storage
	policy  TTLPolicy
	domain  string
}

// NewJar создает хранилище cookie
func NewJar(st storage.Storage, policy TTLPolicy, domain string) *Jar {
	return &Jar{storage: st, policy: policy, domain: domain}
}

// Domain возвращает домен cookie
func (j *Jar) Domain() string {
	return j.domain
}

// Set записывает cookie в корневую область со сроком по политике
func (j *Jar) Set(ctx context.Context, name, value string) error {
	return j.SetScoped(ctx, name, value, RootScope)
}

// SetScoped записывает cookie в указанную область
func (j *Jar) SetScoped(ctx context.Context, name, value string, scope Scope) error {
	if err := j.storage.Set(ctx, scope.key(name), []byte(value), j.policy.TTL(name)); err != nil {
		return fmt.Errorf("ошибка записи cookie %s: %w", name, err)
	}
	return nil
}

// Get возвращает значение cookie из любой области
func (j *Jar) Get(ctx context.Context, name string) (string, bool, error) {
	for _, scope := range j.scopes() {
		v, err := j.storage.Get(ctx, scope.key(name))
		if err == nil {
			return string(v), true, nil
		}
		if !stderrors.Is(err, storage.ErrNotFound) {
			return "", false, fmt.Errorf("ошибка чтения cookie %s: %w", name, err)
		}
	}
	return "", false, nil
}

// Remove удаляет cookie в одной области
func (j *Jar) Remove(ctx context.Context, name string, scope Scope) error {
	if err := j.storage.Delete(ctx, scope.key(name)); err != nil {
		return fmt.Errorf("ошибка удаления cookie %s: %w", name, err)
	}
	return nil
}

// RemoveEverywhere удаляет cookie в корневой области, в области домена host и в области по умолчанию
func (j *Jar) RemoveEverywhere(ctx context.Context, name, host string) error {
	scopes := []Scope{RootScope, {Path: "/", Domain: host}, {}}
	keys := make([]string, len(scopes))
	for i, s := range scopes {
		keys[i] = s.key(name)
	}
	if err := j.storage.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("ошибка удаления cookie %s: %w", name, err)
	}
	return nil
}

// All возвращает все действующие cookie по имени
func (j *Jar) All(ctx context.Context) (map[string]string, error) {
	keys, err := j.storage.Keys(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string)
	for _, k := range keys {
		if !strings.HasPrefix(k, keyPrefix) {
			continue
		}
		name, _, _ := strings.Cut(strings.TrimPrefix(k, keyPrefix), "|")
		if _, seen := out[name]; seen {
			continue
		}
		v, err := j.storage.Get(ctx, k)
		if err != nil {
			continue
		}
		out[name] = string(v)
	}
	return out, nil
}

// Apply записывает и удаляет cookie по списку изменений
func (j *Jar) Apply(ctx context.Context, changes []Change) error {
	for _, c := range changes {
		var err error
		if c.Remove {
			err = j.Remove(ctx, c.Name, RootScope)
		} else {
			err = j.Set(ctx, c.Name, c.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (j *Jar) scopes() []Scope {
	return []Scope{RootScope, {Path: "/", Domain: j.domain}, {}}
}
