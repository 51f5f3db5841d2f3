package config

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/grovetools/sessionsync/errors"
	"github.com/grovetools/sessionsync/pkg/paths"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// configNames are searched in order in each directory.
var configNames = []string{
	"sessionsync.yml",
	"sessionsync.yaml",
	"sessionsync.toml",
	".sessionsync.yml",
	".sessionsync.yaml",
}

// Load reads and parses a configuration file. The format follows the extension.
func Load(path string) (*Config, error) {
	cfg, err := loadRaw(path)
	if err != nil {
		return nil, err
	}
	return finish(cfg)
}

// LoadDefault loads configuration starting from the current directory.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}

	return LoadFrom(cwd)
}

// LoadFrom loads configuration with hierarchical merging starting from the given directory
func LoadFrom(startDir string) (*Config, error) {
	return LoadFromWithLogger(startDir, logrus.New())
}

// LoadFromWithLogger loads configuration with hierarchical merging:
// 1. Global config (~/.config/sessionsync/sessionsync.yml) - base layer
// 2. Project config (first sessionsync.{yml,yaml,toml} found walking up) - overrides global
// 3. Local override (sessionsync.override.yml) - overrides all
// 4. SESSIONSYNC_* environment variables - override every file
func LoadFromWithLogger(startDir string, logger *logrus.Logger) (*Config, error) {
	projectPath, err := FindConfigFile(startDir)
	if err != nil {
		return nil, err
	}

	var finalConfig *Config

	globalPath := globalConfigPath()
	if globalPath != "" && globalPath != projectPath {
		if _, err := os.Stat(globalPath); err == nil {
			logger.WithField("path", globalPath).Debug("Loading global configuration")
			globalConfig, err := loadRaw(globalPath)
			if err != nil {
				logger.WithError(err).Warn("Failed to load global configuration, continuing without it")
			} else {
				finalConfig = globalConfig
			}
		}
	}

	logger.WithField("path", projectPath).Debug("Loading project configuration")
	projectConfig, err := loadRaw(projectPath)
	if err != nil {
		return nil, err
	}
	if finalConfig == nil {
		finalConfig = projectConfig
	} else {
		finalConfig = mergeConfigs(finalConfig, projectConfig)
	}

	projectDir := filepath.Dir(projectPath)
	for _, name := range []string{"sessionsync.override.yml", "sessionsync.override.yaml", "sessionsync.override.toml"} {
		overridePath := filepath.Join(projectDir, name)
		if _, err := os.Stat(overridePath); err != nil {
			continue
		}
		logger.WithField("path", overridePath).Debug("Loading local override configuration")
		overrideConfig, err := loadRaw(overridePath)
		if err != nil {
			logger.WithError(err).Warn("Failed to load override file, skipping")
			continue
		}
		finalConfig = mergeConfigs(finalConfig, overrideConfig)
	}

	return finish(finalConfig)
}

// LoadOrDefault behaves like LoadFrom but falls back to a defaulted config
// (still honoring environment overrides) when no file exists.
func LoadOrDefault(startDir string) (*Config, error) {
	cfg, err := LoadFrom(startDir)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, errors.ErrCodeConfigNotFound) {
		return nil, err
	}
	return finish(&Config{})
}

// LoadFromBytes parses configuration from bytes in the given format ("yaml" or "toml").
func LoadFromBytes(data []byte, format string) (*Config, error) {
	cfg, err := parse(data, format)
	if err != nil {
		return nil, err
	}
	return finish(cfg)
}

// finish applies environment overrides, defaults and validation.
func finish(cfg *Config) (*Config, error) {
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from SESSIONSYNC_* environment variables.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse environment overrides")
	}
	return nil
}

func loadRaw(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	cfg, err := parse(data, formatFor(path))
	if err != nil {
		if sessErr, ok := err.(*errors.SessionError); ok {
			return nil, sessErr.WithDetail("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

func formatFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return "toml"
	}
	return "yaml"
}

func parse(data []byte, format string) (*Config, error) {
	expanded := []byte(expandEnvVars(string(data)))

	var cfg Config
	switch format {
	case "toml":
		var raw map[string]interface{}
		if err := toml.NewDecoder(bytes.NewReader(expanded)).Decode(&raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
		}
		if err := decodeMap(raw, &cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to decode TOML configuration")
		}
	default:
		if err := yaml.Unmarshal(expanded, &cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
		}
	}
	return &cfg, nil
}

// decodeMap fills the typed sections of cfg from a generic map and keeps the
// remaining top-level keys as extensions.
func decodeMap(raw map[string]interface{}, cfg *Config) error {
	typed := make(map[string]interface{})
	for key, value := range raw {
		if knownKeys[key] {
			typed[key] = value
			continue
		}
		if cfg.Extensions == nil {
			cfg.Extensions = make(map[string]interface{})
		}
		cfg.Extensions[key] = value
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(typed)
}

// FindConfigFile searches for a configuration file from startDir up to the
// filesystem root, then in the global config directory.
func FindConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if globalPath := globalConfigPath(); globalPath != "" {
		if info, err := os.Stat(globalPath); err == nil && !info.IsDir() {
			return globalPath, nil
		}
	}

	return "", errors.ConfigNotFound(startDir).WithDetail("searchPath", startDir)
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment values
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}

// globalConfigPath returns the global sessionsync.yml path
func globalConfigPath() string {
	dir := paths.ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "sessionsync.yml")
}
