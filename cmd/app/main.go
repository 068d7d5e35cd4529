package main

import (
	"flag"
	"os"

	"EconDash/internal/di"
	"EconDash/pkg/config"
	applogger "EconDash/pkg/logger"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	boot, _ := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stderr"})

	// Load config
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		boot.Error("config load failed", applogger.Error(err), applogger.String("path", *configPath))
		os.Exit(1)
	}

	// Wire DI: Initialize all dependencies
	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		boot.Error("app initialization failed", applogger.Error(err))
		os.Exit(1)
	}
	defer cleanup()

	boot.Info("config loaded",
		applogger.String("env", cfg.Environment),
		applogger.Strings("countries", cfg.Dashboard.Countries),
		applogger.String("rate_limit", cfg.RateLimit.Backend),
		applogger.Strings("kafka_brokers", cfg.Events.Brokers),
	)

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		boot.Error("app error", applogger.Error(err))
		cleanup()
		os.Exit(1)
	}
}
