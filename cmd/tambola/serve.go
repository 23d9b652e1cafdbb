package main

import (
	"context"
	"fmt"
	"time"

	"github.com/coder/quartz"
	"github.com/joho/godotenv"

	"github.com/Tanya-Jain20/Tambola-Game/cmd/tambola/shared"
	"github.com/Tanya-Jain20/Tambola-Game/internal/game"
	"github.com/Tanya-Jain20/Tambola-Game/internal/randutil"
	"github.com/Tanya-Jain20/Tambola-Game/internal/server"
	"github.com/Tanya-Jain20/Tambola-Game/internal/store"
)

// ServeCmd runs the game server.
type ServeCmd struct {
	Config   string `help:"Path to HCL config file" default:"tambola.hcl"`
	Addr     string `help:"Listen address, overrides the config file" placeholder:"HOST:PORT"`
	MongoURI string `help:"MongoDB connection string, empty means in-memory storage" env:"MONGO_URI"`
	MongoDB  string `help:"MongoDB database name" env:"MONGO_DB"`
	Seed     int64  `help:"RNG seed for reproducible draws, 0 seeds from the clock"`
	Debug    bool   `help:"Enable debug logging"`
	JSON     bool   `help:"Log as JSON instead of pretty console output"`
}

func (cmd *ServeCmd) Run() error {
	// Optional .env for local development, overridden by real env vars.
	_ = godotenv.Load()

	logger := shared.SetupLogger(cmd.Debug)
	if cmd.JSON {
		logger = shared.SetupStructuredLogger(cmd.Debug)
	}

	cfg, err := server.LoadConfig(cmd.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	addr := cfg.ListenAddress()
	if cmd.Addr != "" {
		addr = cmd.Addr
	}
	mongoURI := cfg.Server.MongoURI
	if cmd.MongoURI != "" {
		mongoURI = cmd.MongoURI
	}
	mongoDB := cfg.Server.MongoDatabase
	if cmd.MongoDB != "" {
		mongoDB = cmd.MongoDB
	}

	seed := cmd.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := randutil.NewLocked(seed)
	logger.Debug().Int64("seed", seed).Msg("rng seeded")

	ctx := shared.SetupSignalHandler(logger)

	var gameStore game.Store
	if mongoURI != "" {
		mongoStore, err := store.DialMongo(ctx, mongoURI, mongoDB)
		if err != nil {
			return fmt.Errorf("connect to mongodb: %w", err)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mongoStore.Close(closeCtx); err != nil {
				logger.Error().Err(err).Msg("mongodb disconnect failed")
			}
		}()
		logger.Info().Str("database", mongoDB).Msg("using mongodb storage")
		gameStore = mongoStore
	} else {
		logger.Info().Msg("using in-memory storage")
		gameStore = store.NewMemoryStore()
	}

	hub := server.NewHub(logger)
	orch := game.NewOrchestrator(gameStore, hub, rng, quartz.NewReal(), logger, cfg.PrizePoints())
	srv := server.NewServer(orch, hub, logger)

	return srv.Run(ctx, addr)
}
