package store

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/session"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/logger"
)

// legacyKeys ключи, которые писали прошлые версии клиента
var legacyKeys = []string{"auth_token", "user_data", "company_data", "profile_data"}

// sensitiveKey сообщает, относится ли ключ хранилища к сессии
func sensitiveKey(key string) bool {
	return strings.HasPrefix(key, "techhub") || strings.Contains(key, "auth") || strings.Contains(key, "user")
}

// Logout удаляет все cookie и ключи сессии, сбрасывает состояние, вызывает обработчики сброса
// и выполняет полный переход на страницу входа
func (s *Store) Logout(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)
	var errs []error

	s.persistMu.Lock()
	s.cookies = make(map[string]session.Change, len(session.KnownCookies))
	for _, name := range session.KnownCookies {
		if err := s.jar.RemoveEverywhere(ctx, name, s.host); err != nil {
			errs = append(errs, err)
			delete(s.cookies, name)
			continue
		}
		s.cookies[name] = session.Change{Name: name, Remove: true}
	}

	keys := append([]string{s.key}, legacyKeys...)
	if all, err := s.storage.Keys(ctx); err != nil {
		errs = append(errs, err)
	} else {
		for _, k := range all {
			if sensitiveKey(k) {
				keys = append(keys, k)
			}
		}
	}
	if err := s.storage.Delete(ctx, keys...); err != nil {
		errs = append(errs, err)
	}
	s.persistMu.Unlock()

	s.mu.Lock()
	s.state = s.initial()
	hooks := append([]func(){}, s.resetHooks...)
	next := s.state.clone()
	s.mu.Unlock()

	for _, hook := range hooks {
		hook()
	}
	s.notify(next)

	err := stderrors.Join(errs...)
	s.metrics.ObserveAction("logout", err)
	if err != nil {
		s.logger.Warn("выход выполнен с ошибками очистки", logger.Error(err))
	} else {
		s.logger.Info("выход выполнен")
	}

	s.navigator.Reload(LoginPath)
	return err
}
