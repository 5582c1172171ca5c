package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
)

func newCompanyCmd(a *App) *cobra.Command {
	companyCmd := &cobra.Command{
		Use:   "company",
		Short: "Компании работодателя",
		Long:  `Просмотр и выбор активной компании, управление командой.`,
	}

	showCmd := &cobra.Command{
		Use:   "show [company-id]",
		Short: "Показать компанию",
		Long:  `Показывает компанию по идентификатору или активную компанию.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				c := a.Store.State().Company.Company
				if c == nil {
					return pkgerrors.New(pkgerrors.ErrNotFound, "No company selected")
				}
				return a.Printer.Print(companyList{*c})
			}

			var c *domain.Company
			err := a.call(cmd.Context(), func(ctx context.Context) error {
				var err error
				c, err = a.Store.FetchCompany(ctx, domain.ID(args[0]))
				return err
			})
			if err != nil {
				return err
			}
			return a.Printer.Print(companyList{*c})
		}),
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Показать компании пользователя",
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			var companies []domain.Company
			err := a.call(cmd.Context(), func(ctx context.Context) error {
				var err error
				companies, err = a.Store.FetchUserCompanies(ctx)
				return err
			})
			if err != nil {
				return err
			}
			return a.Printer.Print(companyList(companies))
		}),
	}

	switchCmd := &cobra.Command{
		Use:   "switch <company-id>",
		Short: "Сделать компанию активной",
		Args:  cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			if len(a.Store.State().Company.Companies) == 0 {
				if _, err := a.Store.FetchUserCompanies(cmd.Context()); err != nil {
					return err
				}
			}
			if err := a.Store.SwitchCompany(domain.ID(args[0])); err != nil {
				return err
			}
			return a.Printer.Message("Активная компания: %s", a.Store.State().Company.Company.Name)
		}),
	}

	membersCmd := &cobra.Command{
		Use:   "members",
		Short: "Участники активной компании",
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			var members []domain.TeamMember
			err := a.call(cmd.Context(), func(ctx context.Context) error {
				var err error
				members, err = a.Store.FetchCompanyMembers(ctx)
				return err
			})
			if err != nil {
				return err
			}
			return a.Printer.Print(memberList(members))
		}),
	}

	invitationsCmd := &cobra.Command{
		Use:   "invitations",
		Short: "Приглашения активной компании",
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			var invs []domain.Invitation
			err := a.call(cmd.Context(), func(ctx context.Context) error {
				var err error
				invs, err = a.Store.FetchCompanyInvitations(ctx)
				return err
			})
			if err != nil {
				return err
			}
			return a.Printer.Print(invitationList(invs))
		}),
	}

	inviteCmd := &cobra.Command{
		Use:   "invite <email>",
		Short: "Пригласить участника в активную компанию",
		Args:  cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			role, _ := cmd.Flags().GetString("role")
			inv, err := a.Store.InviteTeamMember(cmd.Context(), args[0], role)
			if err != nil {
				return err
			}
			return a.Printer.Message("Приглашение %s отправлено на %s", inv.ID, inv.Email)
		}),
	}
	inviteCmd.Flags().String("role", "member", "роль участника (admin, member)")

	companyCmd.AddCommand(showCmd, listCmd, switchCmd, membersCmd, invitationsCmd, inviteCmd)
	return companyCmd
}
