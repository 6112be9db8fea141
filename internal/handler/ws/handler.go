// Package ws bridges websocket connections to the session coordinator.
package ws

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	authService "github.com/simplechat/backend/internal/service/auth"
	"github.com/simplechat/backend/internal/service/hub"
)

const (
	maxMessageSize = 4096
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	writeWait      = 10 * time.Second
)

// Handler upgrades authenticated requests and pumps frames between the
// connection and its hub session.
type Handler struct {
	hub      *hub.Hub
	authSvc  *authService.Service
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// New creates the websocket handler. Upgrades are limited to the configured
// frontend origin; non-browser clients without an Origin header are allowed.
func New(h *hub.Hub, authSvc *authService.Service, allowedOrigin string, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:     h,
		authSvc: authSvc,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
	}
}

// RegisterRoutes mounts the realtime endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleSocket)
}

// handleSocket requires a valid bearer token before upgrading. Browsers
// cannot set headers on the websocket handshake, so the token travels in
// the query string.
func (h *Handler) handleSocket(w http.ResponseWriter, r *http.Request) {
	tok := r.URL.Query().Get("token")
	if tok == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	if _, err := h.authSvc.UserFromToken(tok); err != nil {
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	// Connection identity is transport-assigned; several connections may
	// belong to the same account.
	session, err := h.hub.Connect(uuid.NewString())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to open session")
		_ = conn.Close()
		return
	}

	go h.writePump(conn, session)
	h.readPump(conn, session)
}

func (h *Handler) readPump(conn *websocket.Conn, session *hub.Session) {
	defer func() {
		h.hub.Disconnect(session)
		_ = conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn().Err(err).Str("userId", session.ID()).Msg("websocket read error")
			}
			return
		}
		h.hub.HandleEvent(session, raw)
	}
}

func (h *Handler) writePump(conn *websocket.Conn, session *hub.Session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case payload, ok := <-session.Outbound():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
