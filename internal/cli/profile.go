package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
)

func newProfileCmd(a *App) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Профиль соискателя",
	}

	showCmd := &cobra.Command{
		Use:   "show [profile-id]",
		Short: "Показать профиль",
		Long:  `Показывает профиль по идентификатору или профиль текущего пользователя.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			var id domain.ID
			if len(args) == 1 {
				id = domain.ID(args[0])
			}

			var p *domain.Profile
			err := a.call(cmd.Context(), func(ctx context.Context) error {
				var err error
				p, err = a.Store.FetchProfile(ctx, id)
				return err
			})
			if err != nil {
				return err
			}
			return a.Printer.Print(profileDetails(*p))
		}),
	}

	profileCmd.AddCommand(showCmd)
	return profileCmd
}

func newThemeCmd(a *App) *cobra.Command {
	themeCmd := &cobra.Command{
		Use:   "theme",
		Short: "Тема оформления",
		Long:  `Тема хранится вместе с остальным состоянием клиента и переживает выход.`,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Показать тему",
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			return a.Printer.Print(a.Store.State().Theme)
		}),
	}

	toggleCmd := &cobra.Command{
		Use:   "toggle",
		Short: "Переключить темную тему",
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			a.Store.ToggleDarkMode()
			return a.Printer.Message("Темная тема: %s", yesNo(a.Store.State().Theme.IsDarkMode))
		}),
	}

	colorCmd := &cobra.Command{
		Use:   "color <name> <value>",
		Short: "Задать цвет темы (primary, secondary, accent, background, text)",
		Args:  cobra.ExactArgs(2),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			if !a.Store.SetThemeColor(args[0], args[1]) {
				return pkgerrors.New(pkgerrors.ErrValidation, "Unknown theme color").WithDetails(args[0])
			}
			return a.Printer.Print(a.Store.State().Theme)
		}),
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Вернуть цвета по умолчанию",
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			a.Store.ResetTheme()
			return a.Printer.Print(a.Store.State().Theme)
		}),
	}

	themeCmd.AddCommand(showCmd, toggleCmd, colorCmd, resetCmd)
	return themeCmd
}
