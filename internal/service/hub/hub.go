// Package hub coordinates live chat sessions: it tracks who is connected,
// orders and broadcasts messages, and drives the simulated assistant.
package hub

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/simplechat/backend/internal/model/chat"
	"github.com/simplechat/backend/internal/service/memory"
	"github.com/simplechat/backend/internal/service/message"
	"github.com/simplechat/backend/internal/service/responder"
)

// Hub is the session coordinator. All session-map mutation happens behind
// the lock; broadcasts operate on a snapshot taken under it, so a session
// fully removed in the same turn never receives the event.
type Hub struct {
	registry *Registry
	log      *message.Service
	memory   *memory.Service
	engine   *responder.Engine
	botDelay time.Duration
	logger   zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// New wires the coordinator to its collaborators. botDelay is how long the
// assistant "types" before its reply is appended and broadcast.
func New(registry *Registry, log *message.Service, mem *memory.Service, engine *responder.Engine, botDelay time.Duration, logger zerolog.Logger) *Hub {
	return &Hub{
		registry: registry,
		log:      log,
		memory:   mem,
		engine:   engine,
		botDelay: botDelay,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Connect registers a new session under the given identity, acknowledges
// the connection, and replays the full message log to it.
func (h *Hub) Connect(identity string) (*Session, error) {
	s := newSession(identity)
	if err := s.fsm.Fire(triggerOpen); err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	h.mu.Lock()
	h.sessions[identity] = s
	h.mu.Unlock()
	h.registry.Register(identity)

	h.logger.Info().Str("userId", identity).Msg("client connected")

	h.sendEvent(s, EventConnectionAck, ConnectionAck{
		Status:     "connected",
		UserID:     identity,
		Message:    "Connected to chat server",
		BotEnabled: h.registry.IsBotEnabled(identity),
	})
	h.sendEvent(s, EventMessageHistory, h.log.All())
	return s, nil
}

// Disconnect removes the session, unregisters its identity, and tells the
// remaining clients. Calling it twice is harmless.
func (h *Hub) Disconnect(s *Session) {
	if err := s.fsm.Fire(triggerClose); err != nil {
		return
	}

	h.mu.Lock()
	delete(h.sessions, s.id)
	h.mu.Unlock()

	s.close()
	h.registry.Unregister(s.id)
	h.logger.Info().Str("userId", s.id).Msg("client disconnected")

	h.broadcast(EventUserDisconnected, Disconnected{UserID: s.id}, nil)
}

// HandleEvent processes one raw inbound event from the session. A failure
// while handling it is reported to that session only; registry and log state
// stay valid and other connections are unaffected.
func (h *Hub) HandleEvent(s *Session, raw []byte) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error().Str("userId", s.id).Interface("panic", r).Msg("recovered while handling client event")
			h.sendEvent(s, EventError, ErrorNotice{Message: "Error processing your message"})
		}
	}()

	if !s.isConnected() {
		return
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.sendEvent(s, EventError, ErrorNotice{Message: "Invalid message format"})
		return
	}

	switch env.Event {
	case EventSendMessage:
		h.handleSendMessage(s, env.Data)
	case EventTyping:
		h.handleTyping(s, env.Data)
	case EventToggleBot:
		h.handleToggleBot(s, env.Data)
	default:
		h.sendEvent(s, EventError, ErrorNotice{Message: "Unknown event: " + env.Event})
	}
}

func (h *Hub) handleSendMessage(s *Session, data json.RawMessage) {
	var payload struct {
		Text any `json:"text"`
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			h.sendEvent(s, EventError, ErrorNotice{Message: "Invalid message format"})
			return
		}
	}

	text, ok := payload.Text.(string)
	if !ok || text == "" {
		h.sendEvent(s, EventError, ErrorNotice{Message: "Invalid message format"})
		return
	}

	msg := h.log.Append(chat.Message{
		Text:   text,
		Sender: chat.SenderUser,
		UserID: s.id,
	})
	h.logger.Info().Str("userId", s.id).Int64("messageId", msg.ID).Msg("message received")
	h.broadcast(EventNewMessage, msg, nil)

	if !h.registry.IsBotEnabled(s.id) {
		return
	}

	h.broadcast(EventUserTyping, TypingNotice{UserID: chat.BotUserID, IsTyping: true}, nil)
	identity := s.id
	s.setBotReply(time.AfterFunc(h.botDelay, func() {
		h.deliverBotReply(identity, text)
	}))
}

// deliverBotReply runs on the reply timer. The originating session may be
// gone by then; the broadcast simply reaches whoever is still connected.
func (h *Hub) deliverBotReply(identity, text string) {
	h.memory.Record(identity, chat.Turn{Role: chat.RoleUser, Content: text})
	reply := h.engine.Reply(text, h.memory.History(identity))
	h.memory.Record(identity, chat.Turn{Role: chat.RoleAssistant, Content: reply})

	msg := h.log.Append(chat.Message{
		Text:   reply,
		Sender: chat.SenderBot,
		UserID: chat.BotUserID,
	})

	h.broadcast(EventUserTyping, TypingNotice{UserID: chat.BotUserID, IsTyping: false}, nil)
	h.broadcast(EventNewMessage, msg, nil)
}

func (h *Hub) handleTyping(s *Session, data json.RawMessage) {
	var payload struct {
		IsTyping bool `json:"isTyping"`
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			h.sendEvent(s, EventError, ErrorNotice{Message: "Invalid message format"})
			return
		}
	}

	h.registry.SetTyping(s.id, payload.IsTyping)
	h.broadcast(EventUserTyping, TypingNotice{UserID: s.id, IsTyping: payload.IsTyping}, s)
}

func (h *Hub) handleToggleBot(s *Session, data json.RawMessage) {
	var payload struct {
		Enabled bool `json:"enabled"`
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			h.sendEvent(s, EventError, ErrorNotice{Message: "Invalid message format"})
			return
		}
	}

	h.registry.SetBotEnabled(s.id, payload.Enabled)
	h.logger.Info().Str("userId", s.id).Bool("enabled", payload.Enabled).Msg("bot toggled")
	h.sendEvent(s, EventBotStatus, BotStatus{Enabled: payload.Enabled})
}

// broadcast delivers the event to every session except the excluded one.
func (h *Hub) broadcast(event string, data any, except *Session) {
	payload, err := marshalEvent(event, data)
	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Msg("failed to marshal broadcast")
		return
	}

	for _, s := range h.snapshot() {
		if s == except {
			continue
		}
		if !s.enqueue(payload) {
			h.logger.Warn().Str("userId", s.id).Str("event", event).Msg("dropping event for slow or closed session")
		}
	}
}

func (h *Hub) sendEvent(s *Session, event string, data any) {
	payload, err := marshalEvent(event, data)
	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Msg("failed to marshal event")
		return
	}
	if !s.enqueue(payload) {
		h.logger.Warn().Str("userId", s.id).Str("event", event).Msg("dropping event for slow or closed session")
	}
}

func (h *Hub) snapshot() []*Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}
