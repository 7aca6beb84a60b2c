package cmd

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/vesselkit/seachest/internal/client"
	"github.com/vesselkit/seachest/internal/config"
	"github.com/vesselkit/seachest/internal/llm"
	"github.com/vesselkit/seachest/internal/logger"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `seachest init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the application logger from config, honoring -v.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	l, err := logger.New(level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return l, nil
}

// createProviderFromConfig creates the AI provider. A missing API key
// is reported but not fatal to callers that can run without AI.
func createProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	provider, err := llm.NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	return provider, nil
}

// newClient creates the API client for CLI commands that talk to a
// running server.
func newClient() *client.Client {
	return client.New(serverURL)
}

func warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}
