package runtimeinit

import (
	"os"
	"testing"

	"ghost-overlay/src/config"
)

func clearKey(t *testing.T) {
	t.Helper()
	for _, key := range []string{config.APIKeyEnvVar, config.APIKeyPathEnvVar} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestBootstrapWithKey(t *testing.T) {
	clearKey(t)
	t.Setenv(config.APIKeyEnvVar, "test-key-123456789")

	logged := false
	cfg, client, err := Bootstrap(Options{SetupLogging: func(bool) { logged = true }})
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if !logged {
		t.Error("Expected logging setup to run")
	}
	if cfg.APIKey != "test-key-123456789" {
		t.Errorf("Unexpected key %q", cfg.APIKey)
	}
	if !client.Ready() {
		t.Error("Expected ready client")
	}
}

func TestBootstrapWithoutKeyKeepsRunning(t *testing.T) {
	clearKey(t)

	cfg, client, err := Bootstrap(Options{})
	if err != nil {
		t.Fatalf("Expected missing key to be tolerated, got %v", err)
	}
	if cfg == nil || client == nil {
		t.Fatal("Expected config and an unusable client")
	}
	if client.Ready() {
		t.Error("Expected client not ready without a key")
	}
}

func TestBootstrapRequireClient(t *testing.T) {
	clearKey(t)

	_, _, err := Bootstrap(Options{RequireClient: true})
	if err == nil {
		t.Fatal("Expected error when the client is required")
	}
}

func TestBootstrapKeyFileOverride(t *testing.T) {
	clearKey(t)
	path := t.TempDir() + "/key"
	if err := os.WriteFile(path, []byte("file-key-abcdefgh\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, client, err := Bootstrap(Options{LoadOptions: config.LoadOptions{APIKeyPathOverride: path}})
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if cfg.APIKey != "file-key-abcdefgh" || !client.Ready() {
		t.Errorf("Expected key from file, got %q ready=%v", cfg.APIKey, client.Ready())
	}
}
