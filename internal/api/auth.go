package api

import (
	"context"
	"net/http"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
)

// Login выполняет вход по email и паролю
func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	err := c.do(ctx, http.MethodPost, "auth/login/", nil, map[string]string{
		"email":    email,
		"password": password,
	}, &resp, "Login failed")
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SocialLogin выполняет вход через внешнего провайдера (google, github, linkedin)
func (c *Client) SocialLogin(ctx context.Context, provider, accessToken string) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	err := c.do(ctx, http.MethodPost, "auth/social/"+provider+"/", nil, map[string]string{
		"access_token": accessToken,
	}, &resp, "Social login failed")
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.do(ctx, http.MethodPost, "auth/register/", nil, req, &resp, "Registration failed"); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyEmail подтверждает email по токену из письма
func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "auth/verify-email/", nil, map[string]string{"token": token}, nil, "Verification failed")
}

// VerifyToken проверяет действительность токена доступа
func (c *Client) VerifyToken(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "auth/verify-token/", nil, map[string]string{"token": token}, nil, "Session is no longer valid")
}

// RefreshToken обменивает refresh токен на новый токен доступа
func (c *Client) RefreshToken(ctx context.Context, refresh string) (string, error) {
	var resp struct {
		Access string `json:"access"`
	}
	if err := c.do(ctx, http.MethodPost, "auth/token/refresh/", nil, map[string]string{"refresh": refresh}, &resp, "Token refresh failed"); err != nil {
		return "", err
	}
	return resp.Access, nil
}

// RequestPasswordReset отправляет письмо для сброса пароля
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "auth/password-reset/", nil, map[string]string{"email": email}, nil, "Password reset request failed")
}

// ConfirmPasswordReset задает новый пароль по токену сброса
func (c *Client) ConfirmPasswordReset(ctx context.Context, token, password, password2 string) error {
	return c.do(ctx, http.MethodPost, "auth/password-reset/confirm/", nil, map[string]string{
		"token":     token,
		"password":  password,
		"password2": password2,
	}, nil, "Password reset failed")
}

// ChangePassword меняет пароль текущего пользователя
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword, newPassword2 string) error {
	return c.do(ctx, http.MethodPost, "auth/password-change/", nil, map[string]string{
		"old_password":  oldPassword,
		"new_password":  newPassword,
		"new_password2": newPassword2,
	}, nil, "Password change failed")
}

// ProfileID возвращает идентификатор профиля текущего пользователя
func (c *Client) ProfileID(ctx context.Context) (domain.ID, error) {
	var resp struct {
		ProfileID domain.ID `json:"profile_id"`
	}
	if err := c.do(ctx, http.MethodGet, "user/profile-id/", nil, nil, &resp, "Failed to fetch profile ID"); err != nil {
		return "", err
	}
	return resp.ProfileID, nil
}
