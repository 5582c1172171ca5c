package cli

import (
	"context"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/output"
	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/health"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/logger"
)

type healthReport struct {
	health.HealthStatus `yaml:",inline"`
}

func (r healthReport) Table() *output.TableData {
	t := output.NewTableData("SERVICE", "STATUS", "DETAILS")
	for _, name := range r.Names() {
		s := r.Services[name]
		t.AddRow(name, s.Status, s.Details)
	}
	return t
}

func newHealthCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Проверить хранилище, API и сессию",
		Long: `Проверяет доступность хранилища состояния и API.
Для авторизованного пользователя дополнительно проверяется токен.`,
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			timeout, _ := a.Config.APITimeout()
			checker := health.NewChecker(Version, timeout).WithClock(a.opts.Now)
			checker.Add("storage", func(ctx context.Context) error {
				_, err := a.Storage.Keys(ctx)
				return err
			})
			checker.Add("api", func(ctx context.Context) error {
				_, err := a.API.ListJobs(ctx, url.Values{"page_size": {"1"}})
				return err
			})
			if a.Store.State().Auth.IsAuthenticated {
				checker.Add("session", func(ctx context.Context) error {
					ok, err := a.Store.ValidateSession(ctx)
					if err != nil {
						return err
					}
					if !ok {
						return pkgerrors.New(pkgerrors.ErrUnauthorized, "Session expired")
					}
					return nil
				})
			}

			status := checker.Check(cmd.Context())
			if err := a.Printer.Print(healthReport{*status}); err != nil {
				return err
			}
			if !status.Healthy() {
				a.Logger.Warn("проверка выявила недоступные сервисы", logger.String("status", status.Status))
				return pkgerrors.New(pkgerrors.ErrNetwork, "Some services are unavailable")
			}
			return nil
		}),
	}
}
