package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Oracle.Model != "" {
		t.Errorf("Model = %q, want empty defaults", cfg.Oracle.Model)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	appDir := filepath.Join(dir, appName)
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	content := `
[oracle]
model = "gpt-4o"
base_url = "http://localhost:8080/v1"
api_key_env = "MY_KEY"
timeout_seconds = 10
`
	if err := os.WriteFile(filepath.Join(appDir, configFileName), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Oracle.Model != "gpt-4o" {
		t.Errorf("Model = %q, want %q", cfg.Oracle.Model, "gpt-4o")
	}
	if cfg.Oracle.BaseURL != "http://localhost:8080/v1" {
		t.Errorf("BaseURL = %q", cfg.Oracle.BaseURL)
	}
	if cfg.Oracle.TimeoutSeconds != 10 {
		t.Errorf("TimeoutSeconds = %d, want 10", cfg.Oracle.TimeoutSeconds)
	}
}

func TestOracleSettings(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	appDir := filepath.Join(dir, appName)
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	content := `
[oracle]
api_key_env = "GRAPHGAZER_TEST_KEY"
timeout_seconds = 5
`
	if err := os.WriteFile(filepath.Join(appDir, configFileName), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("GRAPHGAZER_TEST_KEY", "sk-test")

	cfg, err := oracleSettings()
	if err != nil {
		t.Fatalf("oracleSettings() error: %v", err)
	}
	if cfg.APIKey != "sk-test" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "sk-test")
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
	}
}

func TestOracleSettingsDefaultEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(defaultAPIKeyEnv, "sk-default")

	cfg, err := oracleSettings()
	if err != nil {
		t.Fatalf("oracleSettings() error: %v", err)
	}
	if cfg.APIKey != "sk-default" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "sk-default")
	}
}
