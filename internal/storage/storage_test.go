package storage

import (
	"context"
	"testing"

	"github.com/tatianab/memory-bomb/internal/config"
	"github.com/tatianab/memory-bomb/internal/models"
	"github.com/tatianab/memory-bomb/internal/storage/sqlite"
)

func TestOpenBackends(t *testing.T) {
	for _, backend := range []string{config.BackendYAML, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg := &config.Config{SaveDir: t.TempDir(), Leaderboard: backend}
			board, closeFn, err := Open(cfg)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer closeFn()

			if _, err := board.Submit(context.Background(), "ann", 10, 1); err != nil {
				t.Fatalf("submit: %v", err)
			}
			top, err := board.Top(context.Background(), 0)
			if err != nil || len(top) != 1 {
				t.Fatalf("top = %v, err = %v", top, err)
			}

			switch board.(type) {
			case *models.FileStore:
				if backend != config.BackendYAML {
					t.Fatalf("backend %s opened a file store", backend)
				}
			case *sqlite.Store:
				if backend != config.BackendSQLite {
					t.Fatalf("backend %s opened a sqlite store", backend)
				}
			}
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, _, err := Open(&config.Config{SaveDir: t.TempDir(), Leaderboard: "csv"}); err == nil {
		t.Fatal("expected error")
	}
}
