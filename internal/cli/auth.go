package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/logger"
)

func newAuthCmd(a *App) *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Управление аутентификацией",
		Long: `Команды для управления аутентификацией пользователя:
вход, выход, регистрация, подтверждение email, смена и сброс пароля.`,
	}

	loginCmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Войти в систему",
		Long: `Выполняет вход по email и паролю. Пароль берется из флага --password
или переменной окружения TECHIHUB_PASSWORD. Токены сохраняются для следующих команд.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				password = os.Getenv("TECHIHUB_PASSWORD")
			}
			if password == "" {
				return pkgerrors.New(pkgerrors.ErrValidation, "Password is required")
			}

			var resp *domain.AuthResponse
			err := a.call(cmd.Context(), func(ctx context.Context) error {
				var err error
				resp, err = a.Store.Login(ctx, args[0], password)
				return err
			})
			if err != nil {
				return err
			}
			return a.Printer.Message("Вход выполнен: %s (%s)", resp.User.FullName(), resp.User.Role())
		}),
	}
	loginCmd.Flags().StringP("password", "p", "", "пароль")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Выйти из системы",
		Long:  `Удаляет токены и сохраненные данные сессии.`,
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			if err := a.Store.Logout(cmd.Context()); err != nil {
				return err
			}
			return a.Printer.Message("Выход выполнен")
		}),
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Проверить статус аутентификации",
		Long:  `Показывает текущего пользователя и проверяет токен на сервере.`,
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			valid := false
			if a.Store.State().Auth.IsAuthenticated {
				var err error
				if valid, err = a.Store.ValidateSession(cmd.Context()); err != nil {
					a.Logger.Debug("сессия не прошла проверку", logger.Error(err))
				}
			}
			return a.Printer.Print(newAuthStatus(a.Store.State(), valid))
		}),
	}

	refreshCmd := &cobra.Command{
		Use:   "refresh",
		Short: "Обновить токен доступа",
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			if err := a.call(cmd.Context(), a.Store.RefreshAuthToken); err != nil {
				return err
			}
			return a.Printer.Message("Токен обновлен")
		}),
	}

	registerCmd := &cobra.Command{
		Use:   "register <email>",
		Short: "Зарегистрировать нового пользователя",
		Long:  `Создает учетную запись. После регистрации нужно подтвердить email.`,
		Args:  cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")
			firstName, _ := cmd.Flags().GetString("first-name")
			lastName, _ := cmd.Flags().GetString("last-name")
			employer, _ := cmd.Flags().GetBool("employer")
			if password == "" {
				return pkgerrors.New(pkgerrors.ErrValidation, "Password is required")
			}

			req := domain.RegisterRequest{
				Email:      args[0],
				Password:   password,
				Password2:  password,
				FirstName:  firstName,
				LastName:   lastName,
				IsEmployer: employer,
			}
			if err := a.Store.Register(cmd.Context(), req); err != nil {
				return err
			}
			return a.Printer.Message("Регистрация выполнена, письмо для подтверждения отправлено на %s", args[0])
		}),
	}
	registerCmd.Flags().StringP("password", "p", "", "пароль")
	registerCmd.Flags().String("first-name", "", "имя")
	registerCmd.Flags().String("last-name", "", "фамилия")
	registerCmd.Flags().Bool("employer", false, "зарегистрироваться как работодатель")

	verifyCmd := &cobra.Command{
		Use:   "verify-email <token>",
		Short: "Подтвердить email",
		Args:  cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			if err := a.Store.VerifyEmail(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.Printer.Message("Email подтвержден")
		}),
	}

	resetCmd := &cobra.Command{
		Use:   "password-reset",
		Short: "Сброс пароля",
	}
	resetRequestCmd := &cobra.Command{
		Use:   "request <email>",
		Short: "Запросить письмо для сброса пароля",
		Args:  cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			if err := a.Store.RequestPasswordReset(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.Printer.Message("Письмо для сброса пароля отправлено на %s", args[0])
		}),
	}
	resetConfirmCmd := &cobra.Command{
		Use:   "confirm <token>",
		Short: "Задать новый пароль по токену из письма",
		Args:  cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				return pkgerrors.New(pkgerrors.ErrValidation, "Password is required")
			}
			if err := a.Store.ResetPassword(cmd.Context(), args[0], password, password); err != nil {
				return err
			}
			return a.Printer.Message("Пароль изменен")
		}),
	}
	resetConfirmCmd.Flags().StringP("password", "p", "", "новый пароль")
	resetCmd.AddCommand(resetRequestCmd, resetConfirmCmd)

	changeCmd := &cobra.Command{
		Use:   "password-change",
		Short: "Сменить пароль",
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			oldPassword, _ := cmd.Flags().GetString("old")
			newPassword, _ := cmd.Flags().GetString("new")
			if oldPassword == "" || newPassword == "" {
				return pkgerrors.New(pkgerrors.ErrValidation, "Both --old and --new are required")
			}
			if err := a.Store.ChangePassword(cmd.Context(), oldPassword, newPassword, newPassword); err != nil {
				return err
			}
			return a.Printer.Message("Пароль изменен")
		}),
	}
	changeCmd.Flags().String("old", "", "текущий пароль")
	changeCmd.Flags().String("new", "", "новый пароль")

	authCmd.AddCommand(loginCmd, logoutCmd, statusCmd, refreshCmd, registerCmd, verifyCmd, resetCmd, changeCmd)
	return authCmd
}
