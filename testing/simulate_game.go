package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/tatianab/memory-bomb/internal/config"
	"github.com/tatianab/memory-bomb/internal/engine"
	"github.com/tatianab/memory-bomb/internal/player"
	"github.com/tatianab/memory-bomb/internal/storage"
)

const (
	step        = 50 * time.Millisecond
	maxGameTime = 30 * time.Minute
)

func main() {
	playerKind := flag.String("player", "perfect", "who plays: perfect, sloppy or gemini")
	seed := flag.Uint64("seed", 0, "random seed (0 picks one)")
	maxRounds := flag.Int("rounds", 25, "stop after this many rounds")
	submit := flag.Bool("submit", false, "record the final score on the leaderboard")
	verbose := flag.Bool("v", false, "log engine activity to stderr")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	tuning, err := cfg.Tuning()
	if err != nil {
		log.Fatalf("Failed to load tuning: %v", err)
	}

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(*seed, *seed))

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(os.Stderr, "[engine] ", log.Lmicroseconds)
	}
	eng, err := engine.NewEngine(tuning, engine.WithRand(rng), engine.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	p, err := player.New(ctx, *playerKind, cfg.GeminiAPIKey, rng)
	if err != nil {
		log.Fatalf("Failed to create player: %v", err)
	}
	if c, ok := p.(interface{ Close() }); ok {
		defer c.Close()
	}

	var (
		yourTurn bool
		rounds   int
		over     *engine.GameOverPayload
	)
	eng.Subscribe(engine.ListenerFunc(func(ev engine.Event) {
		switch ev.Type {
		case engine.EventPlayerTurnStarted:
			yourTurn = true
		case engine.EventRoundResolved:
			rounds++
			res := ev.Payload.(engine.RoundResolvedPayload)
			outcome := "OK"
			if res.TimedOut {
				outcome = "TIMEOUT"
			} else if !res.Success {
				outcome = "WRONG"
			}
			fmt.Printf("Round %2d  level %2d  %-7s expected %v got %v\n", rounds, res.Level, outcome, res.Expected, res.Input)
		case engine.EventGameOver:
			res := ev.Payload.(engine.GameOverPayload)
			over = &res
		}
	}))

	fmt.Printf("--- Simulating %s player (seed %d) ---\n", *playerKind, *seed)
	eng.StartNewGame()

	var elapsed time.Duration
	for over == nil && rounds < *maxRounds && elapsed < maxGameTime {
		eng.AdvanceTime(step)
		elapsed += step

		if !yourTurn {
			continue
		}
		yourTurn = false

		c := player.ChallengeFrom(eng)
		fmt.Printf("Level %d: %v under %q\n", c.Level, c.Sequence, c.Modifier.Name())
		answer, err := p.Respond(ctx, c)
		if err != nil {
			fmt.Printf("Player failed to answer: %v\n", err)
			continue
		}
		for _, sym := range answer {
			eng.ButtonPressed(sym)
		}
	}

	progress := eng.Progress()
	if over != nil {
		fmt.Printf("\nBOOM after %d rounds: score %d, level %d\n", rounds, over.Score, over.Level)
	} else {
		fmt.Printf("\nStopped after %d rounds: score %d, level %d, %.1fs left\n", rounds, progress.Score, progress.Level, progress.Resource)
	}

	if !*submit {
		return
	}
	board, closeBoard, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open leaderboard: %v", err)
	}
	defer closeBoard()
	entry, err := board.Submit(ctx, cfg.PlayerName+" ("+*playerKind+")", progress.Score, progress.Level)
	if err != nil {
		log.Fatalf("Failed to submit score: %v", err)
	}
	fmt.Printf("Recorded %s on the leaderboard\n", entry.ID)
}
