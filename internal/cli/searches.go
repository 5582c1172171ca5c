package cli

import (
	"context"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/api"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/search"
	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
)

func newSavedSearchesCmd(a *App) *cobra.Command {
	searchesCmd := &cobra.Command{
		Use:     "saved-searches",
		Aliases: []string{"searches"},
		Short:   "Сохраненные поиски",
		Long: `Сохраняет фильтры поиска под именем и повторяет поиск по ним.
При запуске сохраненного поиска фильтры заменяются целиком, поиск начинается с первой страницы.`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Показать сохраненные поиски",
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			var items []domain.SavedSearch
			err := a.call(cmd.Context(), func(ctx context.Context) error {
				var err error
				items, err = a.Store.FetchSavedSearches(ctx)
				return err
			})
			if err != nil {
				return err
			}
			return a.Printer.Print(savedSearchList(items))
		}),
	}

	saveCmd := &cobra.Command{
		Use:   "save <name>...",
		Short: "Сохранить фильтры поиска",
		Long: `Сохраняет фильтры, заданные адресом (--url) и флагами, под указанным именем.
Номер страницы не сохраняется.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			target, err := searchURL(cmd)
			if err != nil {
				return err
			}
			u, err := url.Parse(target)
			if err != nil {
				return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "Invalid search URL")
			}
			filters := search.ParseQuery(u.Query())
			if filters.Active() == 0 {
				return pkgerrors.New(pkgerrors.ErrValidation, "At least one search filter is required")
			}

			saved, err := a.Store.CreateSavedSearch(cmd.Context(), strings.Join(args, " "), filters.Params())
			if err != nil {
				return err
			}
			return a.Printer.Message("Поиск %q сохранен: %s", saved.Name, saved.ID)
		}),
	}
	addSearchFlags(saveCmd)

	runCmd := &cobra.Command{
		Use:   "run <search-id>",
		Short: "Выполнить сохраненный поиск",
		Args:  cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			page, _ := cmd.Flags().GetInt("page")
			ctrl := a.searchController()

			err := a.call(cmd.Context(), func(ctx context.Context) error {
				saved, err := a.Store.SavedSearch(ctx, domain.ID(args[0]))
				if err != nil {
					return err
				}
				if _, err := ctrl.Restore(ctx, search.FromSaved(*saved)); err != nil {
					return err
				}
				if page > 1 {
					_, err = ctrl.SetPage(ctx, page)
				}
				return err
			})
			if err != nil {
				return err
			}
			return a.printSearch(ctrl)
		}),
	}
	runCmd.Flags().Int("page", 1, "номер страницы")

	renameCmd := &cobra.Command{
		Use:   "rename <search-id> <name>...",
		Short: "Переименовать сохраненный поиск",
		Args:  cobra.MinimumNArgs(2),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args[1:], " "))
			if name == "" {
				return pkgerrors.New(pkgerrors.ErrValidation, "Search name is required")
			}
			saved, err := a.Store.UpdateSavedSearch(cmd.Context(), domain.ID(args[0]), api.SavedSearchUpdate{Name: name})
			if err != nil {
				return err
			}
			return a.Printer.Message("Поиск %s переименован в %q", saved.ID, saved.Name)
		}),
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <search-id>",
		Short: "Удалить сохраненный поиск",
		Args:  cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			id := domain.ID(args[0])
			if err := a.Store.DeleteSavedSearch(cmd.Context(), id); err != nil {
				return err
			}
			return a.Printer.Message("Поиск %s удален", id)
		}),
	}

	searchesCmd.AddCommand(listCmd, saveCmd, runCmd, renameCmd, deleteCmd)
	return searchesCmd
}
