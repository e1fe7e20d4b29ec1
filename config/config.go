// Package config loads gateway configuration from environment variables,
// with optional .env file support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the full gateway configuration.
type Config struct {
	ListenAddr  string
	Environment string
	LogLevel    string

	// Ledger
	RPCURL                string
	LeafNFTAddress        string
	PaymentGatewayAddress string
	LedgerTimeout         time.Duration

	// Completion service
	OpenAIAPIKey      string
	OpenAIModel       string
	CompletionTimeout time.Duration

	// Replay protection
	RedisAddr string
	ReplayTTL time.Duration

	// Authorization policy
	EnforceCurrentPrice bool

	// Prompt bounds
	MaxHistoryMessages   int
	MaxHistoryMessageLen int
}

// Load reads configuration from the environment. A .env file is honored
// when present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ListenAddr:  getenv("LISTEN_ADDR", ":3001"),
		Environment: getenv("ENVIRONMENT", "development"),
		LogLevel:    getenv("LOG_LEVEL", "info"),

		RPCURL:                getenv("BASE_SEPOLIA_RPC_URL", "https://sepolia.base.org"),
		LeafNFTAddress:        getenv("LEAF_NFT_ADDRESS", ""),
		PaymentGatewayAddress: getenv("PAYMENT_GATEWAY_ADDRESS", ""),
		LedgerTimeout:         getenvDuration("LEDGER_TIMEOUT", 15*time.Second),

		OpenAIAPIKey:      getenv("OPENAI_API_KEY", ""),
		OpenAIModel:       getenv("OPENAI_MODEL", "gpt-4o-mini"),
		CompletionTimeout: getenvDuration("COMPLETION_TIMEOUT", 60*time.Second),

		RedisAddr: getenv("REDIS_ADDR", ""),
		ReplayTTL: getenvDuration("REPLAY_TTL", 24*time.Hour),

		EnforceCurrentPrice: getenvBool("ENFORCE_CURRENT_PRICE", false),

		MaxHistoryMessages:   getenvInt("MAX_HISTORY_MESSAGES", 20),
		MaxHistoryMessageLen: getenvInt("MAX_HISTORY_MESSAGE_LEN", 2048),
	}
}

// Validate reports missing required settings.
func (c Config) Validate() error {
	var missing []string
	if c.LeafNFTAddress == "" {
		missing = append(missing, "LEAF_NFT_ADDRESS")
	}
	if c.PaymentGatewayAddress == "" {
		missing = append(missing, "PAYMENT_GATEWAY_ADDRESS")
	}
	if c.OpenAIAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
