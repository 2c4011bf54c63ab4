package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr     string
	ChatAddr     string // standalone legacy chat server
	DatabasePath string
	UploadDir    string
	SeedPath     string

	JWTSecret string
	JWTTTL    time.Duration

	SweepInterval time.Duration // presence sweep period
	StaleAfter    time.Duration // connection considered dead after this much silence

	LLM LLMConfig
}

// LLMConfig points at a chat-completions style endpoint. Empty APIKey
// disables the external call; the responder then runs on its local fallback.
type LLMConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}

// Load reads .env if present, then environment variables over defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPAddr:      getEnv("AISCHOOL_HTTP_ADDR", ":8080"),
		ChatAddr:      getEnv("AISCHOOL_CHAT_ADDR", ":8081"),
		DatabasePath:  getEnv("AISCHOOL_DATABASE_PATH", "./data/aischool.db"),
		UploadDir:     getEnv("AISCHOOL_UPLOAD_DIR", "./data/uploads"),
		SeedPath:      getEnv("AISCHOOL_SEED_PATH", "./data/lessons.json"),
		JWTSecret:     getEnv("AISCHOOL_JWT_SECRET", "dev-secret-change-me"),
		JWTTTL:        getEnvDuration("AISCHOOL_JWT_TTL", 24*time.Hour),
		SweepInterval: getEnvDuration("AISCHOOL_SWEEP_INTERVAL", 30*time.Second),
		StaleAfter:    getEnvDuration("AISCHOOL_STALE_AFTER", 90*time.Second),
		LLM: LLMConfig{
			BaseURL:     getEnv("AISCHOOL_LLM_BASE_URL", "https://api.openai.com/v1"),
			APIKey:      getEnv("AISCHOOL_LLM_API_KEY", ""),
			Model:       getEnv("AISCHOOL_LLM_MODEL", "gpt-4o-mini"),
			Timeout:     getEnvDuration("AISCHOOL_LLM_TIMEOUT", 30*time.Second),
			Temperature: getEnvFloat("AISCHOOL_LLM_TEMPERATURE", 0.7),
			MaxTokens:   getEnvInt("AISCHOOL_LLM_MAX_TOKENS", 512),
		},
	}
}

func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("http addr cannot be empty")
	}
	if c.ChatAddr == "" {
		return fmt.Errorf("chat addr cannot be empty")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if c.UploadDir == "" {
		return fmt.Errorf("upload dir cannot be empty")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt secret cannot be empty")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("jwt ttl must be positive")
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("sweep interval must be positive")
	}
	if c.StaleAfter <= 0 {
		return fmt.Errorf("stale-after must be positive")
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm timeout must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
