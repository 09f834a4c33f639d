package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"broadside/server"
	"broadside/server/application"
	"broadside/server/domain"
	"broadside/server/handler"
	"broadside/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()
	configureLogger()

	addr := utils.GetEnvDefault("ADDR", "")
	wsPort := utils.GetEnvDefault("WEBSOCKET_PORT", "3000")
	httpPort := utils.GetEnvDefault("HTTP_PORT", "8181")
	staticDir := utils.GetEnvDefault("STATIC_DIR", "./public")
	botDelay := utils.GetEnvMillisDefault("BOT_DELAY_MS", 700*time.Millisecond)

	gateway := domain.NewGateway()
	app := application.NewBattleship(gateway, botDelay)

	wsServer := server.NewServer(addr+":"+wsPort, server.Route(gateway, app))
	staticServer := server.NewServer(addr+":"+httpPort, handler.NewStaticRouter(staticDir))

	go func() {
		if err := wsServer.Serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("websocket server error: %v", err)
		}
	}()
	go func() {
		if err := staticServer.Serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("static server error: %v", err)
		}
	}()
	slog.InfoContext(ctx, "server listening", "ws", wsServer.Addr(), "static", staticServer.Addr())

	<-ctx.Done()
	slog.InfoContext(ctx, "shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, s := range []*server.Server{wsServer, staticServer} {
		if err := s.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(ctx, "graceful shutdown failed", "addr", s.Addr(), "error", err)
			if err := s.Close(); err != nil {
				slog.ErrorContext(ctx, "forced close failed", "addr", s.Addr(), "error", err)
			}
		}
	}
	slog.InfoContext(ctx, "server shutdown complete")
}

func configureLogger() {
	level := slog.LevelInfo
	switch strings.ToLower(utils.GetEnvDefault("LOG_LEVEL", "info")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
