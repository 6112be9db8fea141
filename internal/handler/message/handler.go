package message

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/simplechat/backend/internal/model/chat"
	messageService "github.com/simplechat/backend/internal/service/message"
	"github.com/simplechat/backend/pkg/utils"
)

// Handler exposes the message log over plain request/response endpoints,
// outside the realtime channel.
type Handler struct {
	messages *messageService.Service
}

// New creates the message handler.
func New(messages *messageService.Service) *Handler {
	return &Handler{messages: messages}
}

// RegisterRoutes mounts the message routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/messages", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleByID)
		r.Post("/", h.handleCreate)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.messages.All())
}

func (h *Handler) handleByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "message not found")
		return
	}

	msg, err := h.messages.ByID(id)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "message not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, msg)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text   string `json:"text"`
		Sender string `json:"sender"`
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Text == "" || payload.Sender == "" {
		utils.RespondError(w, http.StatusBadRequest, "text and sender are required")
		return
	}

	msg := h.messages.Append(chat.Message{
		Text:   payload.Text,
		Sender: payload.Sender,
		UserID: payload.UserID,
	})
	utils.RespondJSON(w, http.StatusCreated, msg)
}
