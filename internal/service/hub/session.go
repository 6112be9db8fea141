package hub

import (
	"sync"
	"time"

	"github.com/qmuntal/stateless"
)

// Connection lifecycle states. Disconnected is terminal.
var (
	stateConnecting   stateless.State = "Connecting"
	stateConnected    stateless.State = "Connected"
	stateDisconnected stateless.State = "Disconnected"
)

var (
	triggerOpen  stateless.Trigger = "Open"
	triggerClose stateless.Trigger = "Close"
)

// Session is one live connection as seen by the coordinator. It is
// transport-free: the websocket layer (or a test) drains Outbound and feeds
// raw events into Hub.HandleEvent.
type Session struct {
	id   string
	send chan []byte
	fsm  *stateless.StateMachine

	mu       sync.Mutex
	closed   bool
	botReply *time.Timer
}

const sendBuffer = 256

func newSession(id string) *Session {
	s := &Session{
		id:   id,
		send: make(chan []byte, sendBuffer),
	}

	fsm := stateless.NewStateMachine(stateConnecting)
	fsm.Configure(stateConnecting).Permit(triggerOpen, stateConnected)
	fsm.Configure(stateConnected).Permit(triggerClose, stateDisconnected)
	s.fsm = fsm
	return s
}

// ID returns the session's identity.
func (s *Session) ID() string {
	return s.id
}

// Outbound is the stream of marshaled server events for this session. It is
// closed when the session disconnects.
func (s *Session) Outbound() <-chan []byte {
	return s.send
}

// CancelBotReply stops the most recently scheduled bot reply, if it has not
// fired yet. The coordinator deliberately does not call this on disconnect:
// an in-flight reply is still delivered to the remaining clients.
func (s *Session) CancelBotReply() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.botReply != nil {
		s.botReply.Stop()
	}
}

func (s *Session) setBotReply(timer *time.Timer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.botReply = timer
}

func (s *Session) isConnected() bool {
	return s.fsm.MustState() == stateConnected
}

// enqueue hands a payload to the session without blocking. It reports false
// when the session is closed or its buffer is full.
func (s *Session) enqueue(payload []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.send <- payload:
		return true
	default:
		return false
	}
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.send)
}
