package tui

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tatianab/memory-bomb/internal/audio"
	"github.com/tatianab/memory-bomb/internal/config"
	"github.com/tatianab/memory-bomb/internal/engine"
	"github.com/tatianab/memory-bomb/internal/storage"
)

// Start loads the configuration from the environment and runs the game.
func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	return Launch(cfg)
}

// Launch wires the engine, leaderboard and audio described by cfg and runs the
// game until the player quits. Logs go to cfg.LogFile since the terminal
// belongs to the UI.
func Launch(cfg *config.Config) error {
	f, err := tea.LogToFile(cfg.LogFile, "memory-bomb")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	logger := log.Default()

	tuning, err := cfg.Tuning()
	if err != nil {
		return err
	}
	eng, err := engine.NewEngine(tuning, engine.WithLogger(logger))
	if err != nil {
		return err
	}

	scores, closeScores, err := storage.Open(cfg)
	if err != nil {
		return fmt.Errorf("open leaderboard: %w", err)
	}
	defer closeScores()

	if cfg.Audio {
		sound := audio.NewPlayer(logger)
		if err := sound.Init(); err == nil {
			defer sound.Close()
			eng.Subscribe(sound)
		}
	}

	return Run(eng, scores, cfg.PlayerName, logger)
}
