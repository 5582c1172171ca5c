// Package cli команды techihub: вход, поиск вакансий, отклики, сообщения, компании.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/logger"
)

// Execute собирает дерево команд, выполняет его с аргументами args и освобождает ресурсы
func Execute(ctx context.Context, opts Options, args []string) error {
	root, app := newRootCmd(opts)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if closeErr := app.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

func newRootCmd(opts Options) (*cobra.Command, *App) {
	v := viper.New()
	app := newApp(opts, v)

	rootCmd := &cobra.Command{
		Use:   "techihub",
		Short: "TechHub CLI - поиск работы и управление вакансиями",
		Long: `TechHub CLI - клиент платформы вакансий TechHub.

Поддерживает вход и выход, поиск и сохранение вакансий, отклики,
переписку с работодателями, управление компаниями и размещение
вакансий администратором.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd.Context())
		},
	}
	rootCmd.SetOut(app.opts.Out)
	rootCmd.SetErr(app.opts.Err)

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "файл конфигурации (YAML или JSON)")
	flags.String("api", "", "адрес API, например http://localhost:8000/api/v1")
	flags.StringP("output", "o", "", "формат вывода (table, json, yaml)")
	flags.BoolP("verbose", "v", false, "подробные логи")
	flags.Bool("retry", false, "повторять запрос при сетевых ошибках и ошибках сервера")
	flags.String("metrics-file", "", "записать метрики запросов в файл в текстовом формате Prometheus")

	for _, name := range []string{"config", "api", "output", "verbose", "retry", "metrics-file"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.AddCommand(newAuthCmd(app))
	rootCmd.AddCommand(newJobsCmd(app))
	rootCmd.AddCommand(newAdminCmd(app))
	rootCmd.AddCommand(newApplicationsCmd(app))
	rootCmd.AddCommand(newMessagesCmd(app))
	rootCmd.AddCommand(newCompanyCmd(app))
	rootCmd.AddCommand(newProfileCmd(app))
	rootCmd.AddCommand(newThemeCmd(app))
	rootCmd.AddCommand(newHealthCmd(app))

	return rootCmd, app
}

// handleError приводит ошибку к сообщению для пользователя и пишет ее в лог
func (a *App) handleError(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}

	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) {
		appErr = pkgerrors.Wrap(err, pkgerrors.ErrInternal, err.Error())
	}

	if a.Logger != nil {
		a.Logger.Error("команда завершилась ошибкой",
			logger.String("command", cmd.CommandPath()),
			logger.Error(appErr))
	}

	return fmt.Errorf("%s: %s", cmd.Name(), describe(appErr))
}

// describe сообщение по коду, текст сервера и детали
func describe(e *pkgerrors.Error) string {
	msg := e.GetUserMessage()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	return msg
}

// runE оборачивает обработчик команды единой обработкой ошибок
func (a *App) runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return a.handleError(cmd, fn(cmd, args))
	}
}
