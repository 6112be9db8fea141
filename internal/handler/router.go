package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	dataHandler "github.com/simplechat/backend/internal/handler/data"
	messageHandler "github.com/simplechat/backend/internal/handler/message"
	userHandler "github.com/simplechat/backend/internal/handler/user"
	"github.com/simplechat/backend/internal/handler/ws"
	middlewarePkg "github.com/simplechat/backend/internal/middleware"
	authService "github.com/simplechat/backend/internal/service/auth"
	dataService "github.com/simplechat/backend/internal/service/data"
	messageService "github.com/simplechat/backend/internal/service/message"
	"github.com/simplechat/backend/pkg/utils"
)

// NewRouter wires HTTP and websocket routes to core services.
func NewRouter(corsOrigin string, authSvc *authService.Service, messages *messageService.Service, dataSvc *dataService.Service, wsHandler *ws.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(corsOrigin))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	wsHandler.RegisterRoutes(r)

	r.Route("/api", func(api chi.Router) {
		api.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "SimpleChat API is running"})
		})

		userHandler.New(authSvc).RegisterRoutes(api)
		messageHandler.New(messages).RegisterRoutes(api)
		dataHandler.New(dataSvc, authSvc).RegisterRoutes(api)
	})

	return r
}
