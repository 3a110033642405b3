package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	APIKeyEnvVar     = "GEMINI_API_KEY"
	APIKeyPathEnvVar = "GEMINI_API_KEY_FILE"
	EnvFileEnvVar    = "GHOST_OVERLAY_ENV"

	DefaultModel     = "gemini-2.5-flash"
	DefaultBaseURL   = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultHotkey    = "Ctrl+Alt+G"
	DefaultWindowX   = 100
	DefaultWindowY   = 100
	DefaultOpacity   = 0.90
	DefaultHideDelay = 150
	DefaultTimeout   = 60
	DefaultPort      = 49560
)

type LoadOptions struct {
	APIKeyPathOverride string
	EnvPathOverride    string
}

type Config struct {
	APIKey             string
	APIKeyPath         string
	Model              string
	BaseURL            string
	EnableFileLogging  bool
	Hotkey             string
	Stealth            bool
	Opacity            float64
	WindowX            int
	WindowY            int
	HideDelayMS        int
	RequestTimeoutSec  int
	SingleInstancePort int
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Sources in priority order:
	// 1) explicit override, 2) .env beside the executable, 3) GHOST_OVERLAY_ENV.
	envPath := resolveEnvPath(opts)
	dotenvValues, err := readDotenvValues(envPath)
	if err != nil {
		log.Printf("Ignoring env file %s: %v", envPath, err)
	} else if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			log.Printf("Failed to apply env file %s: %v", envPath, err)
		}
	}

	apiKeyPath := resolveAPIKeyPath(opts, dotenvValues)

	cfg := &Config{
		APIKey:             resolveAPIKey(apiKeyPath),
		APIKeyPath:         apiKeyPath,
		Model:              getEnvWithDefault("MODEL", DefaultModel),
		BaseURL:            getEnvWithDefault("BASE_URL", DefaultBaseURL),
		EnableFileLogging:  strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
		Hotkey:             resolveHotkey(),
		Stealth:            strings.ToLower(getEnvWithDefault("STEALTH", "true")) != "false",
		Opacity:            resolveOpacity(os.Getenv("OPACITY")),
		WindowX:            getIntWithDefault("WINDOW_X", DefaultWindowX, false),
		WindowY:            getIntWithDefault("WINDOW_Y", DefaultWindowY, false),
		HideDelayMS:        getIntWithDefault("HIDE_DELAY_MS", DefaultHideDelay, false),
		RequestTimeoutSec:  getIntWithDefault("REQUEST_TIMEOUT_SEC", DefaultTimeout, true),
		SingleInstancePort: resolvePort(os.Getenv("SINGLEINSTANCE_PORT")),
	}

	return cfg, nil
}

func resolveEnvPath(opts LoadOptions) string {
	if override := strings.TrimSpace(opts.EnvPathOverride); override != "" {
		if _, err := os.Stat(override); err == nil {
			return override
		}
	}

	if execPath, err := os.Executable(); err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(EnvFileEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func readDotenvValues(envPath string) (map[string]string, error) {
	if envPath == "" {
		return map[string]string{}, nil
	}

	values, err := godotenv.Read(envPath)
	if err != nil {
		return map[string]string{}, err
	}

	return values, nil
}

func resolveAPIKeyPath(opts LoadOptions, dotenvValues map[string]string) string {
	keyPath := strings.TrimSpace(os.Getenv(APIKeyPathEnvVar))

	if dotenvPath := strings.TrimSpace(dotenvValues[APIKeyPathEnvVar]); dotenvPath != "" {
		keyPath = dotenvPath
	}

	if overridePath := strings.TrimSpace(opts.APIKeyPathOverride); overridePath != "" {
		keyPath = overridePath
	}

	return keyPath
}

// resolveAPIKey prefers a non-empty key file and falls back to the env var.
func resolveAPIKey(keyPath string) string {
	if keyPath != "" {
		if data, err := os.ReadFile(keyPath); err == nil {
			if fileKey := strings.TrimSpace(string(data)); fileKey != "" {
				return fileKey
			}
		}
	}

	return strings.TrimSpace(os.Getenv(APIKeyEnvVar))
}

// resolveHotkey distinguishes unset (default combo) from explicitly empty (disabled).
func resolveHotkey() string {
	if v, ok := os.LookupEnv("HOTKEY"); ok {
		return strings.TrimSpace(v)
	}
	return DefaultHotkey
}

func resolveOpacity(value string) float64 {
	if value == "" {
		return DefaultOpacity
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || f <= 0 || f > 1 {
		return DefaultOpacity
	}
	return f
}

func resolvePort(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1024 || n > 65535 {
		return DefaultPort
	}
	return n
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntWithDefault(key string, defaultValue int, positive bool) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 || (positive && n == 0) {
		return defaultValue
	}
	return n
}
