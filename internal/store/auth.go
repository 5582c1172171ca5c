package store

import (
	"context"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/api"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/logger"
)

// loginResult ответ входа вместе с данными, загруженными сразу после него
type loginResult struct {
	resp      *domain.AuthResponse
	companies []domain.Company
	profileID domain.ID
	profile   *domain.Profile
	completed bool
}

// Login выполняет вход. Для работодателя загружаются его компании и выбирается первая,
// для соискателя загружается профиль и вычисляется признак заполненности.
func (s *Store) Login(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	res, err := run(ctx, s, "login", authStatus, func(ctx context.Context) (*loginResult, error) {
		resp, err := s.api.Login(ctx, email, password)
		if err != nil {
			return nil, err
		}
		return s.afterLogin(ctx, resp, false), nil
	}, applyLogin)
	if err != nil {
		return nil, err
	}
	return res.resp, nil
}

// SocialLogin выполняет вход через внешнего провайдера
func (s *Store) SocialLogin(ctx context.Context, provider, accessToken string) (*domain.AuthResponse, error) {
	res, err := run(ctx, s, "social_login", authStatus, func(ctx context.Context) (*loginResult, error) {
		resp, err := s.api.SocialLogin(ctx, provider, accessToken)
		if err != nil {
			return nil, err
		}
		return s.afterLogin(ctx, resp, true), nil
	}, applyLogin)
	if err != nil {
		return nil, err
	}
	return res.resp, nil
}

// afterLogin догружает компании или профиль. Ошибки этих запросов не прерывают вход.
func (s *Store) afterLogin(ctx context.Context, resp *domain.AuthResponse, social bool) *loginResult {
	res := &loginResult{resp: resp, profileID: resp.ProfileID, profile: resp.Profile}
	ctx = api.WithBearer(ctx, resp.Access)

	if resp.User != nil && resp.User.IsEmployer {
		companies, err := s.api.MyCompanies(ctx)
		if err != nil {
			s.logger.Warn("не удалось загрузить компании пользователя", logger.Error(err))
		}
		res.companies = companies
		return res
	}

	if social {
		res.completed = res.profile.Completed(true)
		if res.profile != nil && res.profileID.IsZero() {
			res.profileID = res.profile.ID
		}
		return res
	}

	if res.profileID.IsZero() {
		id, err := s.api.ProfileID(ctx)
		if err != nil {
			s.logger.Warn("не удалось получить идентификатор профиля", logger.Error(err))
			return res
		}
		res.profileID = id
	}
	if res.profileID.IsZero() {
		return res
	}

	profile, err := s.api.GetProfile(ctx, res.profileID)
	if err != nil {
		s.logger.Warn("не удалось загрузить профиль", logger.String("profile_id", res.profileID.String()), logger.Error(err))
		return res
	}
	res.profile = profile
	res.completed = profile.Completed(false)
	return res
}

func applyLogin(st *State, res *loginResult) {
	st.Auth.User = res.resp.User
	st.Auth.Token = res.resp.Access
	st.Auth.RefreshToken = res.resp.Refresh
	st.Auth.IsAuthenticated = res.resp.Access != ""
	st.Auth.IsEmployer = res.resp.User != nil && res.resp.User.IsEmployer
	st.Auth.SessionValid = true
	st.Auth.RegistrationType = ""

	if st.Auth.IsEmployer {
		st.Company.Companies = orEmpty(res.companies)
		st.Company.Company = nil
		if len(res.companies) > 0 {
			first := res.companies[0]
			st.Company.Company = &first
			st.Company.SetupProgress = progressFor(&first)
		}
		st.Profile.HasCompletedProfile = len(res.companies) > 0
		return
	}

	st.Profile.ProfileID = res.profileID
	st.Profile.Profile = res.profile
	st.Profile.HasCompletedProfile = res.completed
}

// Register регистрирует пользователя и запоминает email для подтверждения
func (s *Store) Register(ctx context.Context, req domain.RegisterRequest) error {
	return exec(ctx, s, "register", authStatus, func(ctx context.Context) error {
		_, err := s.api.Register(ctx, req)
		return err
	}, func(st *State) {
		st.Auth.VerificationEmail = req.Email
		st.Auth.RegistrationType = string(domain.RoleJobseeker)
		if req.IsEmployer {
			st.Auth.RegistrationType = string(domain.RoleEmployer)
		}
	})
}

// VerifyEmail подтверждает email
func (s *Store) VerifyEmail(ctx context.Context, token string) error {
	return exec(ctx, s, "verify_email", authStatus, func(ctx context.Context) error {
		return s.api.VerifyEmail(ctx, token)
	}, nil)
}

// RequestPasswordReset отправляет письмо для сброса пароля
func (s *Store) RequestPasswordReset(ctx context.Context, email string) error {
	return exec(ctx, s, "request_password_reset", authStatus, func(ctx context.Context) error {
		return s.api.RequestPasswordReset(ctx, email)
	}, nil)
}

// ResetPassword задает новый пароль по токену из письма
func (s *Store) ResetPassword(ctx context.Context, token, password, password2 string) error {
	return exec(ctx, s, "reset_password", authStatus, func(ctx context.Context) error {
		return s.api.ConfirmPasswordReset(ctx, token, password, password2)
	}, nil)
}

// ChangePassword меняет пароль текущего пользователя
func (s *Store) ChangePassword(ctx context.Context, oldPassword, newPassword, newPassword2 string) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	return exec(ctx, s, "change_password", authStatus, func(ctx context.Context) error {
		return s.api.ChangePassword(ctx, oldPassword, newPassword, newPassword2)
	}, nil)
}

// RefreshAuthToken обновляет токен доступа. Без refresh токена или при отказе сервера выполняется выход.
func (s *Store) RefreshAuthToken(ctx context.Context) error {
	refresh := s.State().Auth.RefreshToken
	if refresh == "" {
		_ = s.Logout(ctx)
		return pkgerrors.New(pkgerrors.ErrUnauthorized, "Session expired")
	}

	access, err := s.api.RefreshToken(ctx, refresh)
	s.metrics.ObserveAction("refresh_token", err)
	if err != nil {
		s.logger.Warn("не удалось обновить токен", logger.Error(err))
		_ = s.Logout(ctx)
		return err
	}

	s.update(ctx, func(st *State) {
		st.Auth.Token = access
		st.Auth.IsAuthenticated = access != ""
		st.Auth.SessionValid = true
	})
	return nil
}

// RefreshAccessToken обновляет токен после отказа сервера и возвращает новый.
// Если токен уже сменился после stale, обновление не повторяется.
// При неудаче RefreshAuthToken выполняет выход.
func (s *Store) RefreshAccessToken(ctx context.Context, stale string) (string, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if current := s.AccessToken(); current != "" && current != stale {
		return current, nil
	}
	if err := s.RefreshAuthToken(ctx); err != nil {
		return "", err
	}
	return s.AccessToken(), nil
}

// ValidateSession проверяет токен на сервере. Недействительная сессия завершается выходом.
func (s *Store) ValidateSession(ctx context.Context) (bool, error) {
	token := s.AccessToken()
	if token == "" {
		return false, s.Logout(ctx)
	}

	err := s.api.VerifyToken(ctx, token)
	s.metrics.ObserveAction("validate_session", err)
	if err != nil {
		s.logger.Info("сессия недействительна", logger.Error(err))
		return false, s.Logout(ctx)
	}

	s.update(ctx, func(st *State) { st.Auth.SessionValid = true })
	return true, nil
}

// SetUser задает пользователя сессии
func (s *Store) SetUser(user *domain.User) {
	s.Update(func(st *State) {
		st.Auth.User = user
		st.Auth.IsEmployer = user != nil && user.IsEmployer
	})
}

// SetToken задает токены сессии
func (s *Store) SetToken(token, refreshToken string) {
	s.Update(func(st *State) {
		st.Auth.Token = token
		st.Auth.RefreshToken = refreshToken
		st.Auth.IsAuthenticated = token != ""
		st.Auth.SessionValid = token != ""
	})
}

// UpdateUser изменяет поля текущего пользователя
func (s *Store) UpdateUser(patch func(u *domain.User)) {
	s.Update(func(st *State) {
		if st.Auth.User == nil {
			st.Auth.User = &domain.User{}
		}
		patch(st.Auth.User)
		st.Auth.IsEmployer = st.Auth.User.IsEmployer
	})
}

// ClearError сбрасывает ошибку сессии
func (s *Store) ClearError() {
	s.Update(func(st *State) { st.Auth.Error = "" })
}
