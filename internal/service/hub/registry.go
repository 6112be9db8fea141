package hub

import "sync"

// ConnectionState is the transient per-connection state tracked while an
// identity is online. It exists from register to unregister and is mutated
// only by events from that same connection.
type ConnectionState struct {
	Identity   string
	Connected  bool
	Typing     bool
	BotEnabled bool
}

// Registry tracks every live connection's state. At most one entry exists
// per identity; all mutation is serialized behind the lock.
type Registry struct {
	mu     sync.RWMutex
	states map[string]*ConnectionState
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{states: make(map[string]*ConnectionState)}
}

// Register creates the identity's state with the bot enabled by default.
func (r *Registry) Register(identity string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[identity] = &ConnectionState{
		Identity:   identity,
		Connected:  true,
		BotEnabled: true,
	}
}

// SetTyping updates the typing flag; no-op if the identity already left.
func (r *Registry) SetTyping(identity string, isTyping bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if state, ok := r.states[identity]; ok {
		state.Typing = isTyping
	}
}

// SetBotEnabled updates the bot flag; no-op if the identity already left.
func (r *Registry) SetBotEnabled(identity string, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if state, ok := r.states[identity]; ok {
		state.BotEnabled = enabled
	}
}

// Unregister removes the identity's state.
func (r *Registry) Unregister(identity string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, identity)
}

// IsBotEnabled reports the identity's bot flag, defaulting to true when the
// identity is unknown.
func (r *Registry) IsBotEnabled(identity string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if state, ok := r.states[identity]; ok {
		return state.BotEnabled
	}
	return true
}

// State returns a copy of the identity's state.
func (r *Registry) State(identity string) (ConnectionState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if state, ok := r.states[identity]; ok {
		return *state, true
	}
	return ConnectionState{}, false
}

// Count reports how many identities are registered.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.states)
}
