package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"codemafia/internal/config"
	"codemafia/internal/game/room"
	"codemafia/internal/game/wordbank"
	"codemafia/internal/observability"
	"codemafia/internal/server"
	"codemafia/internal/transport/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	log, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	bank, err := wordbank.LoadDir(cfg.Game.WordsDir, cfg.Game.MinWords)
	if err != nil {
		return fmt.Errorf("loading word packs: %w", err)
	}
	log.Info("word bank loaded",
		zap.String("dir", cfg.Game.WordsDir),
		zap.Int("words", bank.Size()),
	)

	rooms := room.NewManager(log, bank, cfg.Rooms)
	srv := ws.NewServer(log, rooms, cfg.Server)

	lifecycle := server.NewLifecycle(log)
	lifecycle.Add("rooms", rooms)
	lifecycle.Add("http", srv)

	return lifecycle.Run(context.Background())
}
