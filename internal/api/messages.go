package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
)

// ListConversations возвращает переписки пользователя
func (c *Client) ListConversations(ctx context.Context) (domain.PageView[domain.Conversation], error) {
	return page[domain.Conversation](ctx, c, "conversations/", nil, "Failed to fetch conversations")
}

// GetConversation возвращает переписку
func (c *Client) GetConversation(ctx context.Context, id domain.ID) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := c.do(ctx, http.MethodGet, pathf("conversations/%s/", id), nil, nil, &conv, "Failed to fetch conversation"); err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListMessages возвращает страницу сообщений переписки
func (c *Client) ListMessages(ctx context.Context, conversationID domain.ID, pageNum, pageSize int) (domain.PageView[domain.Message], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(pageNum))
	query.Set("page_size", strconv.Itoa(pageSize))
	return page[domain.Message](ctx, c, pathf("conversations/%s/messages/", conversationID), query, "Failed to fetch messages")
}

// CreateConversation начинает новую переписку
func (c *Client) CreateConversation(ctx context.Context, req domain.NewConversation) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := c.do(ctx, http.MethodPost, "conversations/", nil, req, &conv, "Failed to create conversation"); err != nil {
		return nil, err
	}
	return &conv, nil
}

// SendMessage отправляет сообщение в переписку
func (c *Client) SendMessage(ctx context.Context, conversationID domain.ID, content string) (*domain.Message, error) {
	var msg domain.Message
	err := c.do(ctx, http.MethodPost, pathf("conversations/%s/messages/", conversationID), nil,
		map[string]string{"content": content}, &msg, "Failed to send message")
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkConversationRead отмечает переписку прочитанной
func (c *Client) MarkConversationRead(ctx context.Context, conversationID domain.ID) error {
	return c.do(ctx, http.MethodPost, pathf("conversations/%s/read/", conversationID), nil, nil, nil, "Failed to mark conversation as read")
}

// UnreadCount возвращает число непрочитанных сообщений
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var resp struct {
		UnreadCount int `json:"unread_count"`
	}
	if err := c.do(ctx, http.MethodGet, "conversations/unread-count/", nil, nil, &resp, "Failed to fetch unread count"); err != nil {
		return 0, err
	}
	return resp.UnreadCount, nil
}
