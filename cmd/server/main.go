package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sentry-server/internal/agent"
	"sentry-server/internal/config"
	"sentry-server/internal/engine"
	"sentry-server/internal/server"
	"sentry-server/internal/version"
	"sentry-server/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var (
		seed       int64
		configPath string
		saveDir    string
		loadPath   string
		tick       time.Duration
		relay      bool
	)
	// Читаем флаг -seed. По умолчанию 0 (значит сгенерировать случайно).
	flag.Int64Var(&seed, "seed", 0, "Master seed for tower randomness (0 for config/random)")
	flag.StringVar(&configPath, "config", "", "Path to towers YAML (empty for built-in demo scene)")
	flag.StringVar(&saveDir, "save", "saves", "Directory for .snty saves on shutdown (empty to disable)")
	flag.StringVar(&loadPath, "load", "", "Path to .snty save to restore towers from")
	flag.DurationVar(&tick, "tick", 50*time.Millisecond, "Simulation tick interval")
	flag.BoolVar(&relay, "relay", false, "Run the relay bot that wakes sleeping towers when the player is spotted")
	flag.Parse()

	logger.Log.Info("Starting Sentry server...")
	logger.Log.Info(version.String())

	file := config.Default()
	if configPath != "" {
		var err error
		file, err = config.Load(configPath)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to load config")
		}
	}

	// Формируем конфиг
	cfg := engine.NewConfig()
	cfg.TickInterval = tick
	cfg.SaveDir = saveDir
	switch {
	case seed != 0:
		cfg.Seed = seed
		logger.Log.Infof("Using explicit master seed: %d", seed)
	case file.Seed != 0:
		cfg.Seed = file.Seed
		logger.Log.Infof("Using config master seed: %d", file.Seed)
	default:
		logger.Log.Infof("Using random master seed: %d", cfg.Seed)
	}

	port := os.Getenv("SENTRY_PORT")
	if port == "" {
		port = "8080"
	}

	// 2. Инициализация ядра с конфигом
	svc := engine.NewService(cfg, file)
	if loadPath != "" {
		if err := svc.Load(loadPath); err != nil {
			logger.Log.WithError(err).Fatal("Failed to load save")
		}
	}

	// Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc.Start(ctx)

	if relay {
		bot := agent.NewBot("relay_bot", svc.Hub, svc)
		go bot.Run()
		defer bot.Stop()
	}

	// 3. Запуск сервера
	srv := server.New(svc, port)
	if err := srv.Run(ctx); err != nil {
		logger.Log.WithError(err).Error("Server error")
		stop()
	}

	<-svc.Done()
	logger.Log.Info("Shutting down...")

	if cfg.SaveDir != "" {
		if _, err := svc.Save(); err != nil {
			logger.Log.WithError(err).Error("Failed to save towers")
		}
	}

	logger.Log.Info("Done.")
}
