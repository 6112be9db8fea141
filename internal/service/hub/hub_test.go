package hub_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/simplechat/backend/internal/model/chat"
	"github.com/simplechat/backend/internal/service/hub"
	"github.com/simplechat/backend/internal/service/memory"
	"github.com/simplechat/backend/internal/service/message"
	"github.com/simplechat/backend/internal/service/responder"
)

const testBotDelay = 50 * time.Millisecond

func newHub(seed []chat.Message) *hub.Hub {
	return hub.New(
		hub.NewRegistry(),
		message.NewService(seed),
		memory.NewService(),
		responder.NewEngine(),
		testBotDelay,
		zerolog.Nop(),
	)
}

// nextEvent blocks for the session's next outbound event.
func nextEvent(t *testing.T, s *hub.Session) hub.Envelope {
	t.Helper()
	select {
	case payload, ok := <-s.Outbound():
		require.True(t, ok, "outbound channel closed")
		var env hub.Envelope
		require.NoError(t, json.Unmarshal(payload, &env))
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return hub.Envelope{}
	}
}

func decodeData(t *testing.T, env hub.Envelope, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, target))
}

// expectSilence asserts no event arrives within the window.
func expectSilence(t *testing.T, s *hub.Session, window time.Duration) {
	t.Helper()
	select {
	case payload, ok := <-s.Outbound():
		if ok {
			t.Fatalf("unexpected event: %s", payload)
		}
	case <-time.After(window):
	}
}

func sendEvent(t *testing.T, h *hub.Hub, s *hub.Session, event string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	payload, err := json.Marshal(hub.Envelope{Event: event, Data: raw})
	require.NoError(t, err)
	h.HandleEvent(s, payload)
}

func TestConnectSendsAckAndHistory(t *testing.T) {
	h := newHub(message.Seed())

	s, err := h.Connect("alice")
	require.NoError(t, err)

	ack := nextEvent(t, s)
	require.Equal(t, hub.EventConnectionAck, ack.Event)
	var ackData hub.ConnectionAck
	decodeData(t, ack, &ackData)
	require.Equal(t, "connected", ackData.Status)
	require.Equal(t, "alice", ackData.UserID)
	require.True(t, ackData.BotEnabled)

	history := nextEvent(t, s)
	require.Equal(t, hub.EventMessageHistory, history.Event)
	var messages []chat.Message
	decodeData(t, history, &messages)
	require.Len(t, messages, 1)
	require.Equal(t, chat.SenderBot, messages[0].Sender)
}

func TestSendMessageBroadcastsToAllAndBotReplies(t *testing.T) {
	h := newHub(nil)

	a, err := h.Connect("alice")
	require.NoError(t, err)
	b, err := h.Connect("bob")
	require.NoError(t, err)
	drainConnectEvents(t, a, b)

	sendEvent(t, h, a, hub.EventSendMessage, map[string]any{"text": "Hi"})

	for _, s := range []*hub.Session{a, b} {
		env := nextEvent(t, s)
		require.Equal(t, hub.EventNewMessage, env.Event)
		var msg chat.Message
		decodeData(t, env, &msg)
		require.Equal(t, "Hi", msg.Text)
		require.Equal(t, chat.SenderUser, msg.Sender)
		require.Equal(t, "alice", msg.UserID)
	}

	// The bot starts typing, then replies after the delay.
	for _, s := range []*hub.Session{a, b} {
		typing := nextEvent(t, s)
		require.Equal(t, hub.EventUserTyping, typing.Event)
		var notice hub.TypingNotice
		decodeData(t, typing, &notice)
		require.Equal(t, chat.BotUserID, notice.UserID)
		require.True(t, notice.IsTyping)
	}

	for _, s := range []*hub.Session{a, b} {
		stopped := nextEvent(t, s)
		require.Equal(t, hub.EventUserTyping, stopped.Event)
		var notice hub.TypingNotice
		decodeData(t, stopped, &notice)
		require.False(t, notice.IsTyping)

		reply := nextEvent(t, s)
		require.Equal(t, hub.EventNewMessage, reply.Event)
		var msg chat.Message
		decodeData(t, reply, &msg)
		require.Equal(t, chat.SenderBot, msg.Sender)
		require.Contains(t, msg.Text, "Hello there")
	}
}

func TestInvalidMessagePayload(t *testing.T) {
	h := newHub(nil)

	a, err := h.Connect("alice")
	require.NoError(t, err)
	b, err := h.Connect("bob")
	require.NoError(t, err)
	drainConnectEvents(t, a, b)

	for _, data := range []map[string]any{
		{},
		{"text": ""},
		{"text": 123},
		{"text": true},
	} {
		sendEvent(t, h, a, hub.EventSendMessage, data)

		env := nextEvent(t, a)
		require.Equal(t, hub.EventError, env.Event, "payload %v", data)
	}

	// Nothing was logged or broadcast.
	expectSilence(t, b, 2*testBotDelay)
}

func TestToggleBotSuppressesReplies(t *testing.T) {
	h := newHub(nil)

	a, err := h.Connect("alice")
	require.NoError(t, err)
	drainConnectEvents(t, a)

	sendEvent(t, h, a, hub.EventToggleBot, map[string]any{"enabled": false})
	status := nextEvent(t, a)
	require.Equal(t, hub.EventBotStatus, status.Event)
	var statusData hub.BotStatus
	decodeData(t, status, &statusData)
	require.False(t, statusData.Enabled)

	sendEvent(t, h, a, hub.EventSendMessage, map[string]any{"text": "Hello"})
	env := nextEvent(t, a)
	require.Equal(t, hub.EventNewMessage, env.Event)

	// No bot typing or reply within several delay windows.
	expectSilence(t, a, 4*testBotDelay)

	// Re-enabling restores replies.
	sendEvent(t, h, a, hub.EventToggleBot, map[string]any{"enabled": true})
	status = nextEvent(t, a)
	require.Equal(t, hub.EventBotStatus, status.Event)

	sendEvent(t, h, a, hub.EventSendMessage, map[string]any{"text": "Hello again"})
	require.Equal(t, hub.EventNewMessage, nextEvent(t, a).Event)
	require.Equal(t, hub.EventUserTyping, nextEvent(t, a).Event)
	require.Equal(t, hub.EventUserTyping, nextEvent(t, a).Event)
	reply := nextEvent(t, a)
	require.Equal(t, hub.EventNewMessage, reply.Event)
	var msg chat.Message
	decodeData(t, reply, &msg)
	require.Equal(t, chat.SenderBot, msg.Sender)
}

func TestTypingIsNotEchoedToSender(t *testing.T) {
	h := newHub(nil)

	a, err := h.Connect("alice")
	require.NoError(t, err)
	b, err := h.Connect("bob")
	require.NoError(t, err)
	drainConnectEvents(t, a, b)

	sendEvent(t, h, a, hub.EventTyping, map[string]any{"isTyping": true})

	env := nextEvent(t, b)
	require.Equal(t, hub.EventUserTyping, env.Event)
	var notice hub.TypingNotice
	decodeData(t, env, &notice)
	require.Equal(t, "alice", notice.UserID)
	require.True(t, notice.IsTyping)

	expectSilence(t, a, 2*testBotDelay)
}

func TestDisconnectBroadcastsOnce(t *testing.T) {
	h := newHub(nil)

	a, err := h.Connect("alice")
	require.NoError(t, err)
	b, err := h.Connect("bob")
	require.NoError(t, err)
	c, err := h.Connect("carol")
	require.NoError(t, err)
	drainConnectEvents(t, a, b, c)

	h.Disconnect(a)
	h.Disconnect(a) // second call is a no-op

	for _, s := range []*hub.Session{b, c} {
		env := nextEvent(t, s)
		require.Equal(t, hub.EventUserDisconnected, env.Event)
		var gone hub.Disconnected
		decodeData(t, env, &gone)
		require.Equal(t, "alice", gone.UserID)

		expectSilence(t, s, 2*testBotDelay)
	}
}

func TestScheduledReplySurvivesSenderDisconnect(t *testing.T) {
	h := newHub(nil)

	a, err := h.Connect("alice")
	require.NoError(t, err)
	b, err := h.Connect("bob")
	require.NoError(t, err)
	drainConnectEvents(t, a, b)

	sendEvent(t, h, a, hub.EventSendMessage, map[string]any{"text": "Hi"})
	require.Equal(t, hub.EventNewMessage, nextEvent(t, b).Event)
	require.Equal(t, hub.EventUserTyping, nextEvent(t, b).Event)

	// Sender leaves before the reply timer fires.
	h.Disconnect(a)
	require.Equal(t, hub.EventUserDisconnected, nextEvent(t, b).Event)

	require.Equal(t, hub.EventUserTyping, nextEvent(t, b).Event)
	reply := nextEvent(t, b)
	require.Equal(t, hub.EventNewMessage, reply.Event)
	var msg chat.Message
	decodeData(t, reply, &msg)
	require.Equal(t, chat.SenderBot, msg.Sender)
	require.Contains(t, msg.Text, "Hello there")
}

func TestCancelBotReplyHook(t *testing.T) {
	h := newHub(nil)

	a, err := h.Connect("alice")
	require.NoError(t, err)
	drainConnectEvents(t, a)

	sendEvent(t, h, a, hub.EventSendMessage, map[string]any{"text": "Hi"})
	require.Equal(t, hub.EventNewMessage, nextEvent(t, a).Event)
	require.Equal(t, hub.EventUserTyping, nextEvent(t, a).Event)

	a.CancelBotReply()
	expectSilence(t, a, 4*testBotDelay)
}

func TestEventsAfterDisconnectAreIgnored(t *testing.T) {
	h := newHub(nil)

	a, err := h.Connect("alice")
	require.NoError(t, err)
	drainConnectEvents(t, a)
	h.Disconnect(a)

	// Must not panic or enqueue anything on the closed session.
	sendEvent(t, h, a, hub.EventSendMessage, map[string]any{"text": "Hi"})
}

func drainConnectEvents(t *testing.T, sessions ...*hub.Session) {
	t.Helper()
	for _, s := range sessions {
		require.Equal(t, hub.EventConnectionAck, nextEvent(t, s).Event)
		require.Equal(t, hub.EventMessageHistory, nextEvent(t, s).Event)
	}
}
