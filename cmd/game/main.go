package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tatianab/memory-bomb/internal/config"
	"github.com/tatianab/memory-bomb/internal/tui"
)

func main() {
	tuning := flag.String("tuning", "", "YAML tuning file (overrides MEMORYBOMB_TUNING)")
	saveDir := flag.String("save-dir", "", "leaderboard directory (overrides MEMORYBOMB_SAVE_DIR)")
	mute := flag.Bool("mute", false, "disable audio")
	name := flag.String("name", "", "default leaderboard name")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *tuning != "" {
		cfg.TuningFile = *tuning
	}
	if *saveDir != "" {
		cfg.SaveDir = *saveDir
	}
	if *mute {
		cfg.Audio = false
	}
	if *name != "" {
		cfg.PlayerName = *name
	}

	if err := tui.Launch(cfg); err != nil {
		fmt.Printf("Error running game: %v\n", err)
		os.Exit(1)
	}
}
