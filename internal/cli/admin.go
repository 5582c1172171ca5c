package cli

import (
	"context"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/jobform"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/output"
	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
)

func newAdminCmd(a *App) *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Команды суперадминистратора",
	}

	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Вакансии, размещенные администратором",
		Long: `Создание и изменение вакансий от имени компании.
Поля вакансии задаются YAML файлом, ключи совпадают с полями формы:
title, description, company_id, application_methods, skills и другие.`,
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Создать вакансию",
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			company, _ := cmd.Flags().GetString("company")

			form := a.newJobForm()
			if err := loadJobFile(file, &form.Data); err != nil {
				return err
			}
			if company != "" {
				form.Data.CompanyID = domain.ID(company)
			}
			return a.submitJobForm(cmd.Context(), form)
		}),
	}
	createCmd.Flags().StringP("file", "f", "", "YAML файл с полями вакансии")
	createCmd.Flags().String("company", "", "идентификатор компании")
	_ = createCmd.MarkFlagRequired("file")

	updateCmd := &cobra.Command{
		Use:   "update <job-id>",
		Short: "Изменить вакансию",
		Long:  `Загружает вакансию, применяет поля из файла и сохраняет только при наличии изменений.`,
		Args:  cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")

			job, err := a.Store.FetchJob(cmd.Context(), domain.ID(args[0]))
			if err != nil {
				return err
			}
			form := a.newJobForm()
			if err := form.LoadJob(job); err != nil {
				return err
			}
			if err := loadJobFile(file, &form.Data); err != nil {
				return err
			}
			if !form.HasUnsavedChanges() {
				return a.Printer.Message("Нет изменений для вакансии %s", job.ID)
			}
			return a.submitJobForm(cmd.Context(), form)
		}),
	}
	updateCmd.Flags().StringP("file", "f", "", "YAML файл с изменяемыми полями")
	_ = updateCmd.MarkFlagRequired("file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Показать вакансии, размещенные администратором",
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			page, _ := cmd.Flags().GetInt("page")
			q := url.Values{}
			q.Set("page", strconv.Itoa(max(page, 1)))
			q.Set("page_size", strconv.Itoa(a.Config.Search.PageSize))

			var view domain.PageView[domain.Job]
			err := a.call(cmd.Context(), func(ctx context.Context) error {
				var err error
				view, err = a.Store.FetchAdminPostedJobs(ctx, q)
				return err
			})
			if err != nil {
				return err
			}
			return a.Printer.Print(jobList(view.Items))
		}),
	}
	listCmd.Flags().Int("page", 1, "номер страницы")

	jobsCmd.AddCommand(createCmd, updateCmd, listCmd)
	adminCmd.AddCommand(jobsCmd)
	return adminCmd
}

func (a *App) newJobForm() *jobform.Form {
	st := a.Store.State()
	return jobform.New(
		jobform.WithAccess(jobform.Access{User: st.Auth.User, Companies: st.Company.Companies}),
		jobform.WithClock(a.opts.Now),
	)
}

// submitJobForm отправляет форму. При ошибках полей печатает их все.
func (a *App) submitJobForm(ctx context.Context, form *jobform.Form) error {
	editing := form.Editing()
	job, err := form.Submit(ctx, a.Store)
	if err != nil {
		if form.HasErrors() {
			if perr := a.Printer.Print(formErrors(form.Errors)); perr != nil {
				return perr
			}
		}
		return err
	}
	if editing {
		return a.Printer.Message("Вакансия %s обновлена", job.ID)
	}
	return a.Printer.Message("Вакансия %s создана", job.ID)
}

// loadJobFile читает YAML поверх текущих значений формы
func loadJobFile(path string, data *jobform.Data) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "Cannot read job file").WithDetails(path)
	}
	if err := yaml.Unmarshal(content, data); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "Invalid job file").WithDetails(err.Error())
	}
	return nil
}

// formErrors ошибки полей в порядке полей формы
type formErrors map[jobform.Field]jobform.FieldError

func (e formErrors) Table() *output.TableData {
	t := output.NewTableData("FIELD", "ERROR", "MESSAGE")
	for _, f := range jobform.Fields {
		if fe, ok := e[f]; ok {
			t.AddRow(string(f), string(fe.Kind), fe.Message)
		}
	}
	return t
}
