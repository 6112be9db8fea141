package data

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/simplechat/backend/internal/middleware"
	authService "github.com/simplechat/backend/internal/service/auth"
	dataService "github.com/simplechat/backend/internal/service/data"
	"github.com/simplechat/backend/pkg/utils"
)

// Handler serves authenticated form submissions.
type Handler struct {
	dataSvc *dataService.Service
	authSvc *authService.Service
}

// New creates the data handler.
func New(dataSvc *dataService.Service, authSvc *authService.Service) *Handler {
	return &Handler{dataSvc: dataSvc, authSvc: authSvc}
}

// RegisterRoutes mounts the data routes. Every route requires a token.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/data", func(r chi.Router) {
		r.Use(middleware.Authenticate(h.authSvc))
		r.Post("/", h.handleSubmit)
		r.Get("/", h.handleList)
	})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.dataSvc.Submit(u.ID, payload.Title, payload.Content)
	if err != nil {
		if errors.Is(err, dataService.ErrMissingFields) {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to process submission")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"id":     entry.ID,
		"title":  entry.Title,
		"status": entry.Status,
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.dataSvc.ForUser(u.ID))
}
