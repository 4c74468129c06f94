// Package config reads the server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by LIDE_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("LIDE_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	return intOr("SERVER_PORT", 8080)
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// StorageBackend returns memory, sqlite or postgres. Defaults to memory.
func StorageBackend() string {
	return stringOr("STORAGE_BACKEND", "memory")
}

func SQLitePath() string {
	return stringOr("SQLITE_PATH", "lide.db")
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// StorageDSN returns the connection string for the configured backend.
func StorageDSN() string {
	switch StorageBackend() {
	case "sqlite":
		return SQLitePath()
	case "postgres":
		return DatabaseURL()
	}
	return ""
}

func AnnotatorURL() string {
	return stringOr("ANNOTATOR_URL", "http://localhost:8001")
}

func AnnotatorTimeout() time.Duration {
	return time.Duration(intOr("ANNOTATOR_TIMEOUT_SECONDS", 10)) * time.Second
}

// AugmentProvider returns the LLM provider used for graph augmentation.
// Defaults to "none", which disables augmentation.
// Valid values: none, openai, cerebras, anthropic, codex, mock
func AugmentProvider() string {
	return stringOr("AUGMENT_PROVIDER", "none")
}

func AugmentTimeout() time.Duration {
	return time.Duration(intOr("AUGMENT_TIMEOUT_SECONDS", 30)) * time.Second
}

// AugmentModel overrides the provider's default model.
func AugmentModel() string {
	return os.Getenv("AUGMENT_MODEL")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func CerebrasAPIKey() string {
	return os.Getenv("CEREBRAS_API_KEY")
}

func AnthropicAPIKey() string {
	return os.Getenv("ANTHROPIC_API_KEY")
}

// AugmentAPIKey returns the API key for the configured augmentation provider.
func AugmentAPIKey() string {
	switch AugmentProvider() {
	case "openai":
		return OpenAIAPIKey()
	case "cerebras":
		return CerebrasAPIKey()
	case "anthropic":
		return AnthropicAPIKey()
	}
	return ""
}

func CodexBin() string {
	return stringOr("CODEX_BIN", "codex")
}

// TruthKBPath points at a YAML knowledge base. Empty means the built-in one.
func TruthKBPath() string {
	return os.Getenv("TRUTH_KB_PATH")
}

// APIKey is the bearer key required on /v0 routes. Empty disables auth.
func APIKey() string {
	return os.Getenv("API_KEY")
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	return intOr("RATE_LIMIT_BURST", 20)
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	return stringOr("LOG_LEVEL", "info")
}

func stringOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intOr(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
