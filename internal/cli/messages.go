package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/output"
	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
)

func newMessagesCmd(a *App) *cobra.Command {
	messagesCmd := &cobra.Command{
		Use:   "messages",
		Short: "Переписка с работодателями и соискателями",
	}

	conversationsCmd := &cobra.Command{
		Use:   "conversations",
		Short: "Показать переписки",
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			var convs []domain.Conversation
			err := a.call(cmd.Context(), func(ctx context.Context) error {
				var err error
				convs, err = a.Store.FetchConversations(ctx)
				return err
			})
			if err != nil {
				return err
			}
			return a.Printer.Print(conversationList(convs))
		}),
	}

	readCmd := &cobra.Command{
		Use:   "read <conversation-id>",
		Short: "Прочитать переписку",
		Long:  `Показывает сообщения переписки и отмечает ее прочитанной.`,
		Args:  cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			page, _ := cmd.Flags().GetInt("page")
			id := domain.ID(args[0])

			var msgs []domain.Message
			err := a.call(cmd.Context(), func(ctx context.Context) error {
				if _, err := a.Store.FetchConversation(ctx, id); err != nil {
					return err
				}
				var err error
				msgs, err = a.Store.FetchMessages(ctx, id, page, 0)
				return err
			})
			if err != nil {
				return err
			}
			if err := a.Printer.Print(messageList(msgs)); err != nil {
				return err
			}
			if p := a.Store.State().Messages.Pagination; p.HasMore && a.Printer.Format() == output.FormatTable {
				return a.Printer.Message("Есть еще сообщения: --page %d", p.Page+1)
			}
			return nil
		}),
	}
	readCmd.Flags().Int("page", 1, "номер страницы сообщений")

	sendCmd := &cobra.Command{
		Use:   "send <conversation-id> <text>...",
		Short: "Отправить сообщение",
		Args:  cobra.MinimumNArgs(2),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			msg, err := a.Store.SendMessage(cmd.Context(), domain.ID(args[0]), strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return a.Printer.Message("Сообщение %s отправлено", msg.ID)
		}),
	}

	inquireCmd := &cobra.Command{
		Use:   "inquire <job-id> <text>...",
		Short: "Написать работодателю по вакансии",
		Long:  `Начинает переписку о вакансии с темой "Inquiry about <название>" и отправляет первое сообщение.`,
		Args:  cobra.MinimumNArgs(2),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			recipient, _ := cmd.Flags().GetString("recipient")
			if recipient == "" {
				return pkgerrors.New(pkgerrors.ErrValidation, "Recipient is required")
			}
			job, err := a.Store.FetchJob(cmd.Context(), domain.ID(args[0]))
			if err != nil {
				return err
			}
			conv, err := a.Store.SendJobInquiry(cmd.Context(), *job, domain.ID(recipient), strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return a.Printer.Message("Переписка %s начата: %s", conv.ID, conv.Subject)
		}),
	}
	inquireCmd.Flags().String("recipient", "", "идентификатор получателя")

	unreadCmd := &cobra.Command{
		Use:   "unread",
		Short: "Число непрочитанных сообщений",
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			var n int
			err := a.call(cmd.Context(), func(ctx context.Context) error {
				var err error
				n, err = a.Store.FetchUnreadCount(ctx)
				return err
			})
			if err != nil {
				return err
			}
			return a.Printer.Print(map[string]int{"unread": n})
		}),
	}

	messagesCmd.AddCommand(conversationsCmd, readCmd, sendCmd, inquireCmd, unreadCmd)
	return messagesCmd
}
