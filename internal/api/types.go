package api

import "time"

// Message roles as the server reports them.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// Session is one conversation thread as listed by GET /api/chat/history.
// The client holds these as a read-through cache; the server is authoritative.
type Session struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// Message is a single exchanged message. Messages are never mutated after
// creation; a session's conversation is an append-only ordered sequence.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type historyResponse struct {
	Chats []Session `json:"chats"`
}

type newChatResponse struct {
	Success bool   `json:"success"`
	ChatID  string `json:"chat_id"`
}

type messagesResponse struct {
	Messages []Message `json:"messages"`
}

type sendRequest struct {
	Message string `json:"message"`
}

type sendResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}
