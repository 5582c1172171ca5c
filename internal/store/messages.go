package store

import (
	"context"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/logger"
)

// FetchConversations загружает переписки пользователя
func (s *Store) FetchConversations(ctx context.Context) ([]domain.Conversation, error) {
	view, err := run(ctx, s, "fetch_conversations", messagesStatus, func(ctx context.Context) (domain.PageView[domain.Conversation], error) {
		return s.api.ListConversations(ctx)
	}, func(st *State, view domain.PageView[domain.Conversation]) {
		st.Messages.Conversations = view.Items
	})
	return view.Items, err
}

// FetchConversation загружает переписку и делает ее текущей
func (s *Store) FetchConversation(ctx context.Context, id domain.ID) (*domain.Conversation, error) {
	return run(ctx, s, "fetch_conversation", messagesStatus, func(ctx context.Context) (*domain.Conversation, error) {
		return s.api.GetConversation(ctx, id)
	}, func(st *State, conv *domain.Conversation) {
		st.Messages.CurrentConversation = conv
	})
}

type messagesPage struct {
	view     domain.PageView[domain.Message]
	page     int
	pageSize int
}

// FetchMessages загружает страницу сообщений. Первая страница заменяет список,
// следующие дописываются в конец. Непустой ответ отмечает переписку прочитанной.
func (s *Store) FetchMessages(ctx context.Context, conversationID domain.ID, page, pageSize int) ([]domain.Message, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = messagesFetchPageSize
	}
	res, err := run(ctx, s, "fetch_messages", messagesStatus, func(ctx context.Context) (messagesPage, error) {
		view, err := s.api.ListMessages(ctx, conversationID, page, pageSize)
		return messagesPage{view: view, page: page, pageSize: pageSize}, err
	}, func(st *State, res messagesPage) {
		if res.page > 1 {
			st.Messages.Messages = append(st.Messages.Messages, res.view.Items...)
		} else {
			st.Messages.Messages = res.view.Items
		}
		st.Messages.Pagination = MessagePagination{
			Page:       res.page,
			PageSize:   res.pageSize,
			TotalCount: res.view.TotalCount,
			TotalPages: res.view.TotalPages(res.pageSize),
			HasMore:    res.view.HasNext,
		}
	})
	if err != nil {
		return nil, err
	}

	if len(res.view.Items) > 0 {
		if err := s.MarkConversationAsRead(ctx, conversationID); err != nil {
			s.logger.Warn("не удалось отметить переписку прочитанной",
				logger.String("conversation_id", conversationID.String()),
				logger.Error(err),
			)
		}
	}
	return res.view.Items, nil
}

// LoadMoreMessages загружает следующую страницу, если она есть
func (s *Store) LoadMoreMessages(ctx context.Context, conversationID domain.ID) ([]domain.Message, error) {
	p := s.State().Messages.Pagination
	if !p.HasMore {
		return nil, nil
	}
	return s.FetchMessages(ctx, conversationID, p.Page+1, p.PageSize)
}

// CreateConversation начинает переписку, добавляет ее в начало списка и делает текущей
func (s *Store) CreateConversation(ctx context.Context, req domain.NewConversation) (*domain.Conversation, error) {
	if err := s.requireAuth(); err != nil {
		return nil, err
	}
	return run(ctx, s, "create_conversation", messagesStatus, func(ctx context.Context) (*domain.Conversation, error) {
		return s.api.CreateConversation(ctx, req)
	}, func(st *State, conv *domain.Conversation) {
		st.Messages.Conversations = append([]domain.Conversation{*conv}, st.Messages.Conversations...)
		st.Messages.CurrentConversation = conv
		st.Messages.Messages = []domain.Message{}
		if conv.LastMessage != nil {
			st.Messages.Messages = append(st.Messages.Messages, *conv.LastMessage)
		}
	})
}

// SendMessage отправляет сообщение и обновляет последнее сообщение переписки
func (s *Store) SendMessage(ctx context.Context, conversationID domain.ID, content string) (*domain.Message, error) {
	if content == "" {
		return nil, pkgerrors.New(pkgerrors.ErrValidation, "Message cannot be empty")
	}
	return run(ctx, s, "send_message", messagesStatus, func(ctx context.Context) (*domain.Message, error) {
		return s.api.SendMessage(ctx, conversationID, content)
	}, func(st *State, msg *domain.Message) {
		if cur := st.Messages.CurrentConversation; cur != nil && cur.ID == conversationID {
			st.Messages.Messages = append(st.Messages.Messages, *msg)
			last := *msg
			cur.LastMessage = &last
		}
		for i := range st.Messages.Conversations {
			if st.Messages.Conversations[i].ID == conversationID {
				last := *msg
				st.Messages.Conversations[i].LastMessage = &last
				st.Messages.Conversations[i].UpdatedAt = msg.CreatedAt
			}
		}
	})
}

// SendJobInquiry начинает переписку о вакансии и отправляет первое сообщение
func (s *Store) SendJobInquiry(ctx context.Context, job domain.Job, recipient domain.ID, content string) (*domain.Conversation, error) {
	if content == "" {
		return nil, pkgerrors.New(pkgerrors.ErrValidation, "Message cannot be empty")
	}
	conv, err := s.CreateConversation(ctx, domain.NewConversation{
		Recipient: recipient,
		Job:       job.ID,
		Subject:   "Inquiry about " + job.Title,
	})
	if err != nil {
		return nil, err
	}
	if _, err := s.SendMessage(ctx, conv.ID, content); err != nil {
		return conv, err
	}
	return conv, nil
}

// MarkConversationAsRead отмечает переписку прочитанной и обновляет счетчик
func (s *Store) MarkConversationAsRead(ctx context.Context, conversationID domain.ID) error {
	err := s.api.MarkConversationRead(ctx, conversationID)
	s.metrics.ObserveAction("mark_conversation_read", err)
	if err != nil {
		return err
	}
	s.update(ctx, func(st *State) {
		for i := range st.Messages.Conversations {
			if st.Messages.Conversations[i].ID == conversationID {
				st.Messages.Conversations[i].UnreadCount = 0
			}
		}
		if cur := st.Messages.CurrentConversation; cur != nil && cur.ID == conversationID {
			cur.UnreadCount = 0
		}
	})
	_, err = s.FetchUnreadCount(ctx)
	return err
}

// FetchUnreadCount загружает число непрочитанных сообщений. Ошибка не меняет статус среза.
func (s *Store) FetchUnreadCount(ctx context.Context) (int, error) {
	n, err := s.api.UnreadCount(ctx)
	s.metrics.ObserveAction("fetch_unread_count", err)
	if err != nil {
		return 0, err
	}
	s.update(ctx, func(st *State) { st.Messages.UnreadCount = n })
	return n, nil
}
