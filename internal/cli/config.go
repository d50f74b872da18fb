package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/graphgazer/graphgazer/pkg/oracle"
)

// configFileName is the TOML config file looked up under the config directory.
const configFileName = "config.toml"

// defaultAPIKeyEnv is the environment variable consulted for the oracle API key
// when the config file does not name one.
const defaultAPIKeyEnv = "OPENAI_API_KEY"

// fileConfig mirrors the on-disk TOML layout.
type fileConfig struct {
	Oracle oracleConfig `toml:"oracle"`
}

// oracleConfig configures the AI assistant backend.
type oracleConfig struct {
	Model          string `toml:"model"`
	BaseURL        string `toml:"base_url"`
	APIKeyEnv      string `toml:"api_key_env"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// loadConfig reads ~/.config/graphgazer/config.toml if present.
// A missing file is not an error; defaults apply.
func loadConfig() (fileConfig, error) {
	var cfg fileConfig
	dir, err := configDir()
	if err != nil {
		return cfg, nil
	}
	path := filepath.Join(dir, configFileName)
	if _, err := os.Stat(path); err != nil {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// oracleSettings resolves the oracle configuration from file and environment.
// The API key is never stored in the config file, only the name of the
// environment variable that holds it.
func oracleSettings() (oracle.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return oracle.Config{}, err
	}

	keyEnv := cfg.Oracle.APIKeyEnv
	if keyEnv == "" {
		keyEnv = defaultAPIKeyEnv
	}

	out := oracle.Config{
		Model:   cfg.Oracle.Model,
		BaseURL: cfg.Oracle.BaseURL,
		APIKey:  os.Getenv(keyEnv),
	}
	if cfg.Oracle.TimeoutSeconds > 0 {
		out.Timeout = time.Duration(cfg.Oracle.TimeoutSeconds) * time.Second
	}
	return out, nil
}
