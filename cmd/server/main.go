// Package main implements the entry point for the tagforge API server,
// which turns free-text input into normalized hashtags via one of three
// interchangeable LLM providers.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/tagforge/tagforge/internal/config"
	"github.com/tagforge/tagforge/internal/platform/logger"
)

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// initializeApp loads configuration and wires up application components.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server)

	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)
	log.Debug("Provider configuration",
		"anthropic_key_present", cfg.Providers.AnthropicAPIKey != "",
		"openai_key_present", cfg.Providers.OpenAIAPIKey != "",
		"google_ai_key_present", cfg.Providers.GoogleAIAPIKey != "")
	log.Debug("Redis configuration", "url_present", cfg.Redis.URL != "")

	return newApplication(cfg, log)
}
