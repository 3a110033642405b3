package runtimeinit

import (
	"fmt"
	"log"
	"time"

	"ghost-overlay/src/config"
	"ghost-overlay/src/llm"
	"ghost-overlay/src/logutil"
)

type Options struct {
	LoadOptions  config.LoadOptions
	SetupLogging func(bool)
	// RequireClient turns a vision client construction failure into an error.
	// The overlay keeps running without one and reports NotInitialized.
	RequireClient bool
}

// Bootstrap loads configuration, sets up logging, and builds the vision
// client shared by the overlay and the command-line tool.
func Bootstrap(opts Options) (*config.Config, *llm.Client, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.SetupLogging != nil {
		opts.SetupLogging(cfg.EnableFileLogging)
	}

	client, err := llm.New(llm.Config{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
		Timeout: time.Duration(cfg.RequestTimeoutSec) * time.Second,
	})
	if err != nil {
		if opts.RequireClient {
			return cfg, client, fmt.Errorf("%s not usable (checked key file %s and %s env var): %w",
				config.APIKeyEnvVar, cfg.APIKeyPath, config.APIKeyEnvVar, err)
		}
		log.Printf("Gemini client not initialized: %v", err)
		return cfg, client, nil
	}
	log.Printf("Gemini client ready: model=%s key=%s", cfg.Model, logutil.RedactKey(cfg.APIKey))
	return cfg, client, nil
}
