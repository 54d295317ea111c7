package domain

import "time"

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of a transcript.
type ChatMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

// QuickPrompt prefills the chat input with a suggested question.
type QuickPrompt struct {
	Title   string `json:"title" yaml:"title"`
	Caption string `json:"caption" yaml:"caption"`
	Text    string `json:"text" yaml:"text"`
}
