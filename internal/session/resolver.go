package session

import (
	"context"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
)

// Resolver определяет текущего пользователя при загрузке. Пустой ID означает, что пользователь неизвестен.
type Resolver interface {
	CurrentUserID(ctx context.Context) (domain.ID, error)
}

// ResolverFunc адаптер функции к Resolver
type ResolverFunc func(ctx context.Context) (domain.ID, error)

// CurrentUserID вызывает функцию
func (f ResolverFunc) CurrentUserID(ctx context.Context) (domain.ID, error) {
	return f(ctx)
}

// JWTResolver читает идентификатор пользователя из cookie с токеном доступа
type JWTResolver struct {
	jar *Jar
}

// NewJWTResolver создает Resolver поверх cookie
func NewJWTResolver(jar *Jar) *JWTResolver {
	return &JWTResolver{jar: jar}
}

// CurrentUserID возвращает user_id или sub из токена доступа
func (r *JWTResolver) CurrentUserID(ctx context.Context) (domain.ID, error) {
	token, ok, err := r.jar.Get(ctx, CookieAuthToken)
	if err != nil {
		return "", err
	}
	if !ok || token == "" {
		return "", nil
	}
	return UserIDFromToken(token)
}

// UserIDFromToken разбирает токен без проверки подписи и возвращает идентификатор пользователя.
// Подпись проверяет сервер.
func UserIDFromToken(token string) (domain.ID, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return "", fmt.Errorf("ошибка разбора токена: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("неожиданный формат claims")
	}

	for _, key := range []string{"user_id", "sub"} {
		switch v := claims[key].(type) {
		case string:
			if v != "" {
				return domain.ID(v), nil
			}
		case float64:
			return domain.ID(strconv.FormatFloat(v, 'f', -1, 64)), nil
		}
	}
	return "", nil
}
