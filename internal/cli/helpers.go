// Package cli implements the handlers behind the reef subcommands.
package cli

import (
	"os"
	"path/filepath"

	"github.com/reef-shell/reef/internal/completion"
	"github.com/reef-shell/reef/internal/config"
	"github.com/reef-shell/reef/internal/expand"
	"github.com/reef-shell/reef/internal/logger"
	"github.com/reef-shell/reef/internal/shellenv"
	"github.com/reef-shell/reef/internal/subshell"
)

// components holds the initialized engine and its configuration.
type components struct {
	cfg    *config.Config
	log    *logger.Logger
	engine *completion.Engine
}

// configDir returns the reef configuration directory under XDG rules.
func configDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "reef")
}

// defaultCompletionPath is used when the config does not set one.
func defaultCompletionPath() []string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return []string{
		filepath.Join(dataHome, "reef", "completions"),
		"/usr/share/reef/completions",
	}
}

// initializeComponents loads the configuration and wires the engine.
// logLevel overrides the configured level when non-empty.
func initializeComponents(logLevel string) (*components, error) {
	cfg := config.Default()
	if path := config.Find(configDir()); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if len(cfg.CompletionPath) == 0 {
		cfg.CompletionPath = defaultCompletionPath()
	}

	log := logger.New(cfg.LogLevel, os.Stderr)

	funcs := shellenv.NewFuncTable(nil)
	if data := os.Getenv("REEF_FUNCTIONS"); data != "" {
		funcs = shellenv.ParseFuncTable(data)
	}

	engine := completion.NewEngine(cfg, completion.Sources{
		Vars:     shellenv.NewEnv(),
		Funcs:    funcs,
		Builtins: shellenv.Builtins{},
		Users:    &shellenv.Users{},
		Runner:   subshell.New("", log),
		Expander: expand.New(),
		Resolver: shellenv.Resolver{},
	}, log)

	return &components{cfg: cfg, log: log, engine: engine}, nil
}
