// Package config handles loading and parsing of Reef engine configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	ktoml "github.com/knadh/koanf/parsers/toml"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/reef-shell/reef/internal/rerrors"
)

// SupportedConfigNames contains supported configuration file names, in
// order of preference.
var SupportedConfigNames = []string{
	"reef.yml",
	"reef.yaml",
	"reef.toml",
	"reef.json",
}

// Config holds the completion engine settings.
type Config struct {
	// CompletionPath lists directories searched for per-command
	// completion definitions, highest priority first.
	CompletionPath []string `koanf:"completion_path"`
	// DescribeCommand is the shell fragment used to look up command
	// descriptions. The token being described is appended, escaped.
	DescribeCommand string `koanf:"describe_command"`
	// UserScanBudgetMs caps the wall-clock time spent enumerating
	// password entries for ~user completion.
	UserScanBudgetMs int `koanf:"user_scan_budget_ms"`
	// ConditionTimeoutMs caps a single condition-script evaluation.
	ConditionTimeoutMs int `koanf:"condition_timeout_ms"`
	// LogLevel is debug, info, warn or error.
	LogLevel string `koanf:"log_level"`
}

// Default returns the engine defaults used when no config file exists.
func Default() *Config {
	return &Config{
		DescribeCommand:    "__reef_describe_command",
		UserScanBudgetMs:   200,
		ConditionTimeoutMs: 500,
		LogLevel:           "warn",
	}
}

// Find locates a config file in dir, returning "" when none exists.
func Find(dir string) string {
	for _, name := range SupportedConfigNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load reads, validates and parses the config file at path. The
// returned config starts from Default so absent keys keep their
// defaults.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, rerrors.NewConfigError(path, "failed to read config", err)
	}

	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}

	result, err := ValidateWithSchema(path, content)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, rerrors.NewConfigError(path, result.Errors[0].Message, nil)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(content), parser); err != nil {
		return nil, rerrors.NewConfigError(path, "failed to parse config", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, rerrors.NewConfigError(path, "failed to unmarshal config", err)
	}

	return cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return kyaml.Parser(), nil
	case ".toml":
		return ktoml.Parser(), nil
	case ".json":
		return kjson.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}
}
