package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
)

func newApplicationsCmd(a *App) *cobra.Command {
	applicationsCmd := &cobra.Command{
		Use:     "applications",
		Aliases: []string{"apps"},
		Short:   "Отклики на вакансии",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Показать отклики",
		Long:  `Показывает отклики соискателя или отклики на вакансию работодателя (--job).`,
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			jobID, _ := cmd.Flags().GetString("job")
			page, _ := cmd.Flags().GetInt("page")

			filters := map[string]string{}
			if status != "" {
				if _, err := domain.ParseApplicationStatus(status); err != nil {
					return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "Invalid application status")
				}
				filters["status"] = status
			}

			var view domain.PageView[domain.Application]
			err := a.call(cmd.Context(), func(ctx context.Context) error {
				var err error
				if jobID != "" {
					view, err = a.Store.FetchJobApplications(ctx, domain.ID(jobID), filters, page)
				} else {
					view, err = a.Store.FetchApplications(ctx, filters, page)
				}
				return err
			})
			if err != nil {
				return err
			}
			return a.Printer.Print(applicationList(view.Items))
		}),
	}
	listCmd.Flags().String("status", "", "фильтр по статусу")
	listCmd.Flags().String("job", "", "отклики на вакансию работодателя")
	listCmd.Flags().Int("page", 1, "номер страницы")

	getCmd := &cobra.Command{
		Use:   "get <application-id>",
		Short: "Показать отклик и историю статусов",
		Args:  cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			var app *domain.Application
			err := a.call(cmd.Context(), func(ctx context.Context) error {
				var err error
				app, err = a.Store.FetchApplication(ctx, domain.ID(args[0]))
				return err
			})
			if err != nil {
				return err
			}
			return a.Printer.Print(applicationDetails(*app))
		}),
	}

	statusCmd := &cobra.Command{
		Use:   "status <application-id> <status>",
		Short: "Изменить статус отклика",
		Long: `Изменяет статус отклика. Допустимые статусы:
applied, screening, interview, assessment, offer, hired, rejected, withdrawn.`,
		Args: cobra.ExactArgs(2),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			notes, _ := cmd.Flags().GetString("notes")
			status, err := domain.ParseApplicationStatus(args[1])
			if err != nil {
				return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "Invalid application status")
			}
			app, err := a.Store.UpdateApplicationStatus(cmd.Context(), domain.ID(args[0]), status, notes)
			if err != nil {
				return err
			}
			return a.Printer.Message("Статус отклика %s: %s", app.ID, app.Status)
		}),
	}
	statusCmd.Flags().String("notes", "", "заметка к смене статуса")

	withdrawCmd := &cobra.Command{
		Use:   "withdraw <application-id>",
		Short: "Отозвать отклик",
		Args:  cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			if err := a.Store.WithdrawApplication(cmd.Context(), domain.ID(args[0])); err != nil {
				return err
			}
			return a.Printer.Message("Отклик %s отозван", args[0])
		}),
	}

	applicationsCmd.AddCommand(listCmd, getCmd, statusCmd, withdrawCmd)
	return applicationsCmd
}
