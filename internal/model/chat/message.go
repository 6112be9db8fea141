package chat

import "time"

// Sender values carried on every message.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// BotUserID is the synthetic identity the assistant posts and types under.
const BotUserID = "bot"

// Message is a single immutable chat log entry.
type Message struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}
