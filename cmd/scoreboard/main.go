package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tatianab/memory-bomb/internal/config"
	"github.com/tatianab/memory-bomb/internal/server"
	"github.com/tatianab/memory-bomb/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	board, closeBoard, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open leaderboard: %v", err)
	}
	defer closeBoard()

	logger := log.New(os.Stdout, "[scoreboard] ", log.LstdFlags)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.NewServer(board, logger).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Printf("shutdown: %v", err)
		}
	}()

	logger.Printf("serving %s leaderboard from %s on %s", cfg.Leaderboard, cfg.SaveDir, cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
}
