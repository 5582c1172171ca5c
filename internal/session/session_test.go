package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/storage"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

// TestJar_SetGet проверяет запись и чтение cookie
func TestJar_SetGet(t *testing.T) {
	ctx := context.Background()
	jar := NewJar(storage.NewMemory(), DefaultTTLPolicy, "localhost")

	_, ok, err := jar.Get(ctx, CookieAuthToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, jar.Set(ctx, CookieAuthToken, "tok"))
	v, ok, err := jar.Get(ctx, CookieAuthToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)
}

// TestJar_TTL проверяет сроки жизни cookie по политике
func TestJar_TTL(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	st := storage.NewMemory().WithClock(func() time.Time { return now })
	jar := NewJar(st, DefaultTTLPolicy, "localhost")
	ctx := context.Background()

	require.NoError(t, jar.Set(ctx, CookieAuthToken, "tok"))
	require.NoError(t, jar.Set(ctx, CookieUserRole, "employer"))
	require.NoError(t, jar.Set(ctx, CookieRefreshToken, "ref"))
	require.NoError(t, jar.Set(ctx, CookieCompanyID, "3"))

	now = now.Add(25 * time.Hour)

	_, ok, _ := jar.Get(ctx, CookieAuthToken)
	assert.False(t, ok)
	_, ok, _ = jar.Get(ctx, CookieUserRole)
	assert.False(t, ok)
	_, ok, _ = jar.Get(ctx, CookieRefreshToken)
	assert.True(t, ok)
	_, ok, _ = jar.Get(ctx, CookieCompanyID)
	assert.True(t, ok)

	now = now.Add(7 * 24 * time.Hour)
	_, ok, _ = jar.Get(ctx, CookieRefreshToken)
	assert.False(t, ok)
}

// TestJar_RemoveEverywhere проверяет удаление cookie во всех областях
func TestJar_RemoveEverywhere(t *testing.T) {
	ctx := context.Background()
	jar := NewJar(storage.NewMemory(), DefaultTTLPolicy, "techhub.io")

	require.NoError(t, jar.SetScoped(ctx, CookieHasCompany, "true", RootScope))
	require.NoError(t, jar.SetScoped(ctx, CookieHasCompany, "true", Scope{Path: "/", Domain: "techhub.io"}))
	require.NoError(t, jar.SetScoped(ctx, CookieHasCompany, "true", Scope{}))

	require.NoError(t, jar.Remove(ctx, CookieHasCompany, RootScope))
	_, ok, err := jar.Get(ctx, CookieHasCompany)
	require.NoError(t, err)
	assert.True(t, ok, "cookie в других областях остается после удаления из одной")

	require.NoError(t, jar.RemoveEverywhere(ctx, CookieHasCompany, "techhub.io"))
	_, ok, err = jar.Get(ctx, CookieHasCompany)
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestJar_All проверяет список cookie и пропуск других ключей хранилища
func TestJar_All(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemory()
	jar := NewJar(st, DefaultTTLPolicy, "localhost")

	require.NoError(t, st.Set(ctx, "techhub-storage", []byte("{}"), 0))
	require.NoError(t, jar.Set(ctx, CookieUserRole, "jobseeker"))
	require.NoError(t, jar.Set(ctx, CookieProfileID, "12"))

	all, err := jar.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		CookieUserRole:  "jobseeker",
		CookieProfileID: "12",
	}, all)
}

func changesMap(changes []Change) map[string]*string {
	out := make(map[string]*string, len(changes))
	for _, c := range changes {
		if c.Remove {
			out[c.Name] = nil
			continue
		}
		v := c.Value
		out[c.Name] = &v
	}
	return out
}

// TestDeriveCookies проверяет вычисление cookie из сессии
func TestDeriveCookies(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		got := changesMap(DeriveCookies(Flags{}))
		for _, name := range []string{CookieAuthToken, CookieRefreshToken, CookieUserRole, CookieHasCompany, CookieCompanyID} {
			v, ok := got[name]
			assert.True(t, ok, name)
			assert.Nil(t, v, name)
		}
	})

	t.Run("employer with several companies", func(t *testing.T) {
		got := changesMap(DeriveCookies(Flags{
			Token:           "acc",
			RefreshToken:    "ref",
			User:            &domain.User{ID: "1", IsEmployer: true},
			IsEmployer:      true,
			IsAuthenticated: true,
			CompanyID:       "7",
			CompanyCount:    2,
		}))
		assert.Equal(t, "acc", *got[CookieAuthToken])
		assert.Equal(t, "ref", *got[CookieRefreshToken])
		assert.Equal(t, "employer", *got[CookieUserRole])
		assert.Equal(t, "true", *got[CookieHasCompany])
		assert.Equal(t, "7", *got[CookieCompanyID])
		assert.Equal(t, "true", *got[CookieHasMultipleCompanies])
	})

	t.Run("employer without company", func(t *testing.T) {
		got := changesMap(DeriveCookies(Flags{
			Token:           "acc",
			User:            &domain.User{ID: "1", IsEmployer: true},
			IsEmployer:      true,
			IsAuthenticated: true,
		}))
		assert.Equal(t, "false", *got[CookieHasCompany])
		assert.Nil(t, got[CookieCompanyID])
		assert.Nil(t, got[CookieHasMultipleCompanies])
	})

	t.Run("jobseeker", func(t *testing.T) {
		got := changesMap(DeriveCookies(Flags{
			Token:               "acc",
			User:                &domain.User{ID: "2"},
			IsAuthenticated:     true,
			ProfileID:           "44",
			HasCompletedProfile: true,
		}))
		assert.Equal(t, "jobseeker", *got[CookieUserRole])
		assert.Equal(t, "true", *got[CookieHasCompletedProfile])
		assert.Equal(t, "44", *got[CookieProfileID])
		assert.Equal(t, "false", *got[CookieHasCompany])
	})
}

// TestJar_Apply проверяет применение вычисленных cookie
func TestJar_Apply(t *testing.T) {
	ctx := context.Background()
	jar := NewJar(storage.NewMemory(), DefaultTTLPolicy, "localhost")

	require.NoError(t, jar.Apply(ctx, DeriveCookies(Flags{
		Token:           "acc",
		User:            &domain.User{ID: "1"},
		IsAuthenticated: true,
	})))
	v, ok, err := jar.Get(ctx, CookieAuthToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "acc", v)

	require.NoError(t, jar.Apply(ctx, DeriveCookies(Flags{})))
	_, ok, err = jar.Get(ctx, CookieAuthToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestUserIDFromToken проверяет чтение идентификатора из claims
func TestUserIDFromToken(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   domain.ID
	}{
		{name: "numeric user_id", claims: jwt.MapClaims{"user_id": 42}, want: "42"},
		{name: "string user_id", claims: jwt.MapClaims{"user_id": "u-1"}, want: "u-1"},
		{name: "sub", claims: jwt.MapClaims{"sub": "7"}, want: "7"},
		{name: "no identity", claims: jwt.MapClaims{"exp": 1}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UserIDFromToken(signedToken(t, tt.claims))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := UserIDFromToken("not-a-jwt")
	assert.Error(t, err)
}

// TestJWTResolver проверяет определение пользователя по cookie
func TestJWTResolver(t *testing.T) {
	ctx := context.Background()
	jar := NewJar(storage.NewMemory(), DefaultTTLPolicy, "localhost")
	r := NewJWTResolver(jar)

	id, err := r.CurrentUserID(ctx)
	require.NoError(t, err)
	assert.True(t, id.IsZero())

	require.NoError(t, jar.Set(ctx, CookieAuthToken, signedToken(t, jwt.MapClaims{"user_id": 5})))
	id, err = r.CurrentUserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ID("5"), id)
}
