package hub

import "encoding/json"

// Client-to-server event names.
const (
	EventSendMessage = "send_message"
	EventTyping      = "typing"
	EventToggleBot   = "toggle_bot"
)

// Server-to-client event names.
const (
	EventConnectionAck    = "connection_ack"
	EventMessageHistory   = "message_history"
	EventNewMessage       = "new_message"
	EventUserTyping       = "user_typing"
	EventBotStatus        = "bot_status"
	EventUserDisconnected = "user_disconnected"
	EventError            = "error"
)

// Envelope frames every event on the wire, both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ConnectionAck greets a freshly connected client.
type ConnectionAck struct {
	Status     string `json:"status"`
	UserID     string `json:"userId"`
	Message    string `json:"message"`
	BotEnabled bool   `json:"botEnabled"`
}

// TypingNotice reports a typing flag change for some identity.
type TypingNotice struct {
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

// BotStatus confirms a bot toggle back to its sender.
type BotStatus struct {
	Enabled bool `json:"enabled"`
}

// Disconnected announces a departed identity.
type Disconnected struct {
	UserID string `json:"userId"`
}

// ErrorNotice is sent only to the client whose event failed.
type ErrorNotice struct {
	Message string `json:"message"`
}

func marshalEvent(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
