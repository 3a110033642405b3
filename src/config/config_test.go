package config

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test_api_key")
	t.Setenv("MODEL", "test_model")
	t.Setenv("ENABLE_FILE_LOGGING", "true")
	t.Setenv("HOTKEY", "Ctrl+Shift+T")
	t.Setenv("OPACITY", "0.75")
	t.Setenv("WINDOW_X", "250")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.APIKey != "test_api_key" {
		t.Errorf("Expected APIKey to be 'test_api_key', got '%s'", cfg.APIKey)
	}
	if cfg.Model != "test_model" {
		t.Errorf("Expected Model to be 'test_model', got '%s'", cfg.Model)
	}
	if !cfg.EnableFileLogging {
		t.Errorf("Expected EnableFileLogging to be true, got %v", cfg.EnableFileLogging)
	}
	if cfg.Hotkey != "Ctrl+Shift+T" {
		t.Errorf("Expected Hotkey to be 'Ctrl+Shift+T', got '%s'", cfg.Hotkey)
	}
	if cfg.Opacity != 0.75 {
		t.Errorf("Expected Opacity 0.75, got %v", cfg.Opacity)
	}
	if cfg.WindowX != 250 || cfg.WindowY != DefaultWindowY {
		t.Errorf("Expected window at (250,%d), got (%d,%d)", DefaultWindowY, cfg.WindowX, cfg.WindowY)
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"GEMINI_API_KEY", "GEMINI_API_KEY_FILE", "MODEL", "BASE_URL", "HOTKEY", "STEALTH", "OPACITY", "REQUEST_TIMEOUT_SEC", "SINGLEINSTANCE_PORT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.APIKey != "" {
		t.Errorf("Expected empty APIKey, got %q", cfg.APIKey)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("Expected default model %q, got %q", DefaultModel, cfg.Model)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("Expected default base URL, got %q", cfg.BaseURL)
	}
	if cfg.Hotkey != DefaultHotkey {
		t.Errorf("Expected default hotkey, got %q", cfg.Hotkey)
	}
	if !cfg.Stealth {
		t.Error("Expected stealth enabled by default")
	}
	if cfg.Opacity != DefaultOpacity {
		t.Errorf("Expected default opacity, got %v", cfg.Opacity)
	}
	if cfg.RequestTimeoutSec != DefaultTimeout {
		t.Errorf("Expected default timeout, got %d", cfg.RequestTimeoutSec)
	}
	if cfg.SingleInstancePort != DefaultPort {
		t.Errorf("Expected default port, got %d", cfg.SingleInstancePort)
	}
}

func TestEmptyHotkeyDisables(t *testing.T) {
	t.Setenv("HOTKEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Hotkey != "" {
		t.Errorf("Expected hotkey disabled, got %q", cfg.Hotkey)
	}
}

func TestAPIKeyFileTakesPriority(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "gemini")
	if err := os.WriteFile(keyFile, []byte("  file_key\n"), 0600); err != nil {
		t.Fatalf("write key file: %v", err)
	}
	t.Setenv("GEMINI_API_KEY", "env_key")

	cfg, err := LoadWithOptions(LoadOptions{APIKeyPathOverride: keyFile})
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.APIKey != "file_key" {
		t.Errorf("Expected key from file, got %q", cfg.APIKey)
	}
	if cfg.APIKeyPath != keyFile {
		t.Errorf("Expected APIKeyPath %q, got %q", keyFile, cfg.APIKeyPath)
	}
}

func TestEnvFileOverride(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("MODEL=gemini-from-dotenv\n"), 0600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("MODEL", "")
	os.Unsetenv("MODEL")
	defer os.Unsetenv("MODEL")

	cfg, err := LoadWithOptions(LoadOptions{EnvPathOverride: envFile})
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Model != "gemini-from-dotenv" {
		t.Errorf("Expected model from .env, got %q", cfg.Model)
	}
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("OPACITY", "1.7")
	t.Setenv("REQUEST_TIMEOUT_SEC", "0")
	t.Setenv("SINGLEINSTANCE_PORT", "80")
	t.Setenv("HIDE_DELAY_MS", "abc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Opacity != DefaultOpacity {
		t.Errorf("Expected default opacity, got %v", cfg.Opacity)
	}
	if cfg.RequestTimeoutSec != DefaultTimeout {
		t.Errorf("Expected default timeout, got %d", cfg.RequestTimeoutSec)
	}
	if cfg.SingleInstancePort != DefaultPort {
		t.Errorf("Expected default port, got %d", cfg.SingleInstancePort)
	}
	if cfg.HideDelayMS != DefaultHideDelay {
		t.Errorf("Expected default hide delay, got %d", cfg.HideDelayMS)
	}
}

func TestMalformedEnvFileIsLogged(t *testing.T) {
	t.Setenv("MODEL", "")
	os.Unsetenv("MODEL")
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("MODEL=from-file\nBAD-KEY=1\n"), 0600); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	cfg, err := LoadWithOptions(LoadOptions{EnvPathOverride: envFile})
	if err != nil {
		t.Fatalf("Expected malformed env file to be tolerated, got %v", err)
	}
	if !strings.Contains(buf.String(), envFile) {
		t.Errorf("Expected log line naming %s, got %q", envFile, buf.String())
	}
	if cfg.Model != DefaultModel {
		t.Errorf("Expected default model when the env file is rejected, got %q", cfg.Model)
	}
}
