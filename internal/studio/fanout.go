package studio

import (
	"example.com/fitgptstudio/internal/chat"
	"example.com/fitgptstudio/internal/domain"
	"example.com/fitgptstudio/internal/events"
	"example.com/fitgptstudio/internal/realtime"
)

// Broadcaster pushes a payload to the subscribers of key.
type Broadcaster interface {
	Broadcast(key, kind string, payload any) int
}

// ChatFanout forwards every appended message to websocket subscribers and the
// event publisher.
func ChatFanout(hub Broadcaster, publisher events.Publisher) chat.SetupFunc {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return func(sessionID string, r *chat.Responder) {
		r.OnAppend(func(msg domain.ChatMessage) {
			if hub != nil {
				hub.Broadcast(sessionID, realtime.TypeMessage, msg)
			}
			publisher.Publish(events.NewChatMessageAppended(sessionID, msg))
		})
	}
}
