package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/simplechat/backend/internal/config"
	"github.com/simplechat/backend/internal/handler"
	"github.com/simplechat/backend/internal/handler/ws"
	"github.com/simplechat/backend/internal/logger"
	userModel "github.com/simplechat/backend/internal/model/user"
	"github.com/simplechat/backend/internal/service/auth"
	"github.com/simplechat/backend/internal/service/data"
	"github.com/simplechat/backend/internal/service/hub"
	"github.com/simplechat/backend/internal/service/memory"
	"github.com/simplechat/backend/internal/service/message"
	"github.com/simplechat/backend/internal/service/responder"
	"github.com/simplechat/backend/internal/service/token"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootLog := logger.Get()

	if err := godotenv.Load(); err != nil {
		bootLog.Warn().Err(err).Msg("failed to load .env file, continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		bootLog.Fatal().Err(err).Msg("failed to configure logging")
	}

	// Stores and core services.
	users := userModel.NewMemoryStore()
	codec := token.NewCodec(cfg.Auth.JWTSecret)
	authSvc := auth.NewService(users, codec)
	messages := message.NewService(message.Seed())
	dataSvc := data.NewService()

	// Realtime layer.
	coordinator := hub.New(
		hub.NewRegistry(),
		messages,
		memory.NewService(),
		responder.NewEngine(),
		cfg.Chat.BotReplyDelay,
		log,
	)
	wsHandler := ws.New(coordinator, authSvc, cfg.Server.CORSOrigin, log)

	router := handler.NewRouter(cfg.Server.CORSOrigin, authSvc, messages, dataSvc, wsHandler)

	startServer(ctx, cfg.Server, router, log)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, log zerolog.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", serverCfg.Addr).Msg("SimpleChat backend listening")
	if err := runServer(ctx, srv); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
