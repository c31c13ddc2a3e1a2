package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// defaultConfigFilename is looked up in the working directory when no
// --config is given.
const defaultConfigFilename = "config.json"

// Config is the naming configuration file.
//
//	{"patterns": [["glob", "template"], ...]}
type Config struct {
	Patterns []NamingRule `json:"patterns"`
}

// UnmarshalJSON decodes a rule from its two-element array form and compiles
// the glob.
func (r *NamingRule) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("pattern entry must be a [glob, template] array: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("pattern entry must have exactly 2 elements, got %d", len(pair))
	}
	rule, err := newNamingRule(pair[0], pair[1])
	if err != nil {
		return err
	}
	*r = rule
	return nil
}

// MarshalJSON writes the rule back in its array form.
func (r NamingRule) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{r.Pattern, r.Template})
}

// resolveConfigPath picks the configuration file to load. An explicit
// override always wins; otherwise config.json in workDir is used if it is a
// regular file. An empty result means no configuration.
func resolveConfigPath(workDir, override string) string {
	if override != "" {
		return override
	}
	candidate := filepath.Join(workDir, defaultConfigFilename)
	if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
		return candidate
	}
	return ""
}

// loadConfigFromFile reads the naming configuration from configPath.
// An empty path yields an empty configuration.
func loadConfigFromFile(configPath string, logger zerolog.Logger) (*Config, error) {
	if configPath == "" {
		logger.Debug().Msg("No config file, using default name template only")
		return &Config{}, nil
	}

	logger.Info().Str("path", configPath).Msg("Loading naming config")
	configData, err := os.ReadFile(configPath)
	if err != nil {
		logger.Error().Str("path", configPath).Err(err).Msg("Failed to read config file")
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var cfg Config
	if err := json.Unmarshal(configData, &cfg); err != nil {
		logger.Error().Str("path", configPath).Err(err).Msg("Failed to parse config file JSON")
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	logger.Debug().Int("patterns", len(cfg.Patterns)).Msg("Loaded naming patterns")
	return &cfg, nil
}

// loadConfig resolves and loads the configuration for cli.
func loadConfig(cli *CLI, workDir string, logger zerolog.Logger) (*Config, error) {
	return loadConfigFromFile(resolveConfigPath(workDir, cli.ConfigFile), logger)
}
