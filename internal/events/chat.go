// Package events delivers chat transcript events to Kafka.
package events

import (
	"time"

	"example.com/fitgptstudio/internal/domain"
)

// EventTypeChatMessageAppended labels ChatMessageAppended payloads.
const EventTypeChatMessageAppended = "chat.message_appended"

// ChatMessageAppended is emitted for every message added to a conversation.
type ChatMessageAppended struct {
	SessionID  string    `json:"session_id"`
	MessageID  string    `json:"message_id"`
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	OccurredAt time.Time `json:"occurred_at"`
	Version    string    `json:"version"`
}

// NewChatMessageAppended builds the event for msg.
func NewChatMessageAppended(sessionID string, msg domain.ChatMessage) ChatMessageAppended {
	return ChatMessageAppended{
		SessionID:  sessionID,
		MessageID:  msg.ID,
		Role:       string(msg.Role),
		Content:    msg.Content,
		OccurredAt: msg.Timestamp.UTC(),
		Version:    "v1",
	}
}
