package domain

// Conversation переписка между соискателем и работодателем
type Conversation struct {
	ID           ID       `json:"id"`
	Subject      string   `json:"subject,omitempty"`
	Job          ID       `json:"job,omitempty"`
	JobTitle     string   `json:"job_title,omitempty"`
	Participants []ID     `json:"participants,omitempty"`
	LastMessage  *Message `json:"last_message,omitempty"`
	UnreadCount  int      `json:"unread_count,omitempty"`
	UpdatedAt    string   `json:"updated_at,omitempty"`
}

// Message сообщение в переписке
type Message struct {
	ID           ID     `json:"id"`
	Conversation ID     `json:"conversation,omitempty"`
	Sender       ID     `json:"sender,omitempty"`
	SenderName   string `json:"sender_name,omitempty"`
	Content      string `json:"content"`
	IsRead       bool   `json:"is_read"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// NewConversation данные для создания переписки
type NewConversation struct {
	Recipient      ID     `json:"recipient,omitempty"`
	Job            ID     `json:"job,omitempty"`
	Subject        string `json:"subject,omitempty"`
	InitialMessage string `json:"initial_message,omitempty"`
}
