package cli

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/output"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/search"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/toggle"
	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/logger"
)

// SearchPath адрес страницы поиска вакансий
const SearchPath = "/jobs/search"

// флаги фильтров поиска и соответствующие параметры адреса
var searchFlags = []struct {
	flag  string
	param string
	usage string
}{
	{"q", search.ParamQuery, "текст поиска"},
	{"location", search.ParamLocation, "город или регион"},
	{"job-type", search.ParamJobType, "тип занятости (full_time, part_time, contract, internship)"},
	{"experience", search.ParamExperienceLevel, "уровень опыта (entry, mid, senior)"},
	{"education", search.ParamEducationLevel, "уровень образования"},
	{"min-salary", search.ParamMinSalary, "минимальная зарплата"},
	{"max-salary", search.ParamMaxSalary, "максимальная зарплата"},
	{"posted-within", search.ParamPostedWithin, "опубликованы за период (1, 7, 30 дней)"},
}

func newJobsCmd(a *App) *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Вакансии",
		Long:  `Поиск, просмотр и сохранение вакансий, управление публикацией.`,
	}

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Искать вакансии",
		Long: `Ищет вакансии по фильтрам. Фильтры можно передать адресом страницы поиска
(--url "/jobs/search?job_type=full_time&page=2") и уточнить флагами.
Изменение любого фильтра кроме страницы возвращает на первую страницу.`,
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			target, err := searchURL(cmd)
			if err != nil {
				return err
			}

			ctrl := a.searchController()
			err = a.call(cmd.Context(), func(ctx context.Context) error {
				if started, err := ctrl.Init(ctx, target); started || err != nil {
					return err
				}
				_, err := ctrl.Search(ctx)
				return err
			})
			if err != nil {
				return err
			}
			return a.printSearch(ctrl)
		}),
	}
	addSearchFlags(searchCmd)
	searchCmd.Flags().Int("page", 0, "номер страницы")

	getCmd := &cobra.Command{
		Use:   "get <job-id>",
		Short: "Показать вакансию",
		Args:  cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			var job *domain.Job
			err := a.call(cmd.Context(), func(ctx context.Context) error {
				var err error
				job, err = a.Store.FetchJob(ctx, domain.ID(args[0]))
				return err
			})
			if err != nil {
				return err
			}
			return a.Printer.Print(jobDetails(*job))
		}),
	}

	saveCmd := &cobra.Command{
		Use:   "save <job-id>",
		Short: "Добавить вакансию в избранное",
		Args:  cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			return a.setSaved(cmd.Context(), domain.ID(args[0]), true)
		}),
	}

	unsaveCmd := &cobra.Command{
		Use:   "unsave <job-id>",
		Short: "Убрать вакансию из избранного",
		Args:  cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			return a.setSaved(cmd.Context(), domain.ID(args[0]), false)
		}),
	}

	savedCmd := &cobra.Command{
		Use:   "saved",
		Short: "Показать избранные вакансии",
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			var saved []domain.SavedJob
			err := a.call(cmd.Context(), func(ctx context.Context) error {
				var err error
				saved, err = a.Store.FetchSavedJobs(ctx)
				return err
			})
			if err != nil {
				return err
			}
			return a.Printer.Print(savedJobList(saved))
		}),
	}

	activateCmd := &cobra.Command{
		Use:   "activate <job-id>",
		Short: "Опубликовать вакансию",
		Args:  cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			return a.setActive(cmd.Context(), domain.ID(args[0]), true)
		}),
	}

	deactivateCmd := &cobra.Command{
		Use:   "deactivate <job-id>",
		Short: "Снять вакансию с публикации",
		Args:  cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			return a.setActive(cmd.Context(), domain.ID(args[0]), false)
		}),
	}

	jobsCmd.AddCommand(searchCmd, getCmd, saveCmd, unsaveCmd, savedCmd, activateCmd, deactivateCmd, newSavedSearchesCmd(a))
	return jobsCmd
}

// addSearchFlags регистрирует --url и флаги фильтров
func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().String("url", "", "адрес страницы поиска с параметрами фильтров")
	for _, f := range searchFlags {
		cmd.Flags().String(f.flag, "", f.usage)
	}
	cmd.Flags().Bool("remote", false, "только удаленная работа")
	cmd.Flags().StringSlice("skills", nil, "навыки через запятую")
	cmd.Flags().Int("page-size", 0, "размер страницы")
}

func (a *App) searchController() *search.Controller {
	return search.NewController(SearchPath, a.Store, search.NavigatorFunc(func(u string) {
		a.Logger.Debug("адрес поиска обновлен", logger.String("url", u))
	}), a.Logger)
}

// printSearch печатает последнюю страницу результатов контроллера
func (a *App) printSearch(ctrl *search.Controller) error {
	res := ctrl.Result()
	page := searchPage{
		URL:        ctrl.URL(),
		Page:       res.Filters.Page,
		TotalPages: res.TotalPages,
		TotalCount: res.View.TotalCount,
		Jobs:       res.View.Items,
	}
	if err := a.Printer.Print(page); err != nil {
		return err
	}
	if a.Printer.Format() == output.FormatTable {
		return a.Printer.Message("Страница %d из %d, найдено %d: %s", page.Page, page.TotalPages, page.TotalCount, page.URL)
	}
	return nil
}

// searchURL собирает адрес поиска из --url и флагов фильтров
func searchURL(cmd *cobra.Command) (string, error) {
	raw, _ := cmd.Flags().GetString("url")
	if raw == "" {
		raw = SearchPath
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", pkgerrors.Wrap(err, pkgerrors.ErrValidation, "Invalid search URL")
	}
	q := u.Query()

	changed := false
	for _, f := range searchFlags {
		if cmd.Flags().Changed(f.flag) {
			v, _ := cmd.Flags().GetString(f.flag)
			q.Set(f.param, v)
			changed = true
		}
	}
	if cmd.Flags().Changed("remote") {
		if remote, _ := cmd.Flags().GetBool("remote"); remote {
			q.Set(search.ParamRemote, "true")
		} else {
			q.Del(search.ParamRemote)
		}
		changed = true
	}
	if cmd.Flags().Changed("skills") {
		skills, _ := cmd.Flags().GetStringSlice("skills")
		q.Set(search.ParamSkills, strings.Join(skills, ","))
		changed = true
	}
	if cmd.Flags().Changed("page-size") {
		size, _ := cmd.Flags().GetInt("page-size")
		q.Set(search.ParamPageSize, strconv.Itoa(size))
		changed = true
	}

	if changed {
		q.Del(search.ParamPage)
	}
	if cmd.Flags().Changed("page") {
		page, _ := cmd.Flags().GetInt("page")
		q.Set(search.ParamPage, strconv.Itoa(page))
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}

// setSaved переключает избранное, если текущее состояние отличается от нужного
func (a *App) setSaved(ctx context.Context, id domain.ID, want bool) error {
	if _, err := a.Store.FetchSavedJobs(ctx); err != nil {
		a.Logger.Warn("не удалось обновить избранное", logger.Error(err))
	}

	t := toggle.New(a.Store.IsJobSaved(id))
	if t.Value() == want {
		if want {
			return a.Printer.Message("Вакансия %s уже в избранном", id)
		}
		return a.Printer.Message("Вакансии %s нет в избранном", id)
	}
	if _, err := t.Flip(ctx, toggle.SaveJob(a.Store, id)); err != nil {
		return err
	}
	if want {
		return a.Printer.Message("Вакансия %s добавлена в избранное", id)
	}
	return a.Printer.Message("Вакансия %s убрана из избранного", id)
}

// setActive переключает публикацию вакансии по ее текущему состоянию на сервере
func (a *App) setActive(ctx context.Context, id domain.ID, want bool) error {
	job, err := a.Store.FetchJob(ctx, id)
	if err != nil {
		return err
	}

	t := toggle.New(job.IsActive)
	if t.Value() == want {
		return a.Printer.Message("Вакансия %s уже в нужном состоянии (active: %s)", id, yesNo(want))
	}
	if _, err := t.Flip(ctx, toggle.JobStatus(a.Store, id)); err != nil {
		return err
	}
	return a.Printer.Message("Вакансия %s: active = %s", id, yesNo(t.Value()))
}
