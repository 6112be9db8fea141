package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every setting the service reads from the environment.
type Config struct {
	Server ServerConfig
	Auth   AuthConfig
	Chat   ChatConfig
	Log    LogConfig
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr       string
	CORSOrigin string
}

// AuthConfig carries the token signing secret.
type AuthConfig struct {
	JWTSecret string
}

// ChatConfig tunes the realtime layer.
type ChatConfig struct {
	BotReplyDelay time.Duration
}

// LogConfig selects log level and output format.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	chat, err := loadChatConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		Auth: AuthConfig{
			JWTSecret: getEnvOrDefault("JWT_SECRET", "your_jwt_secret_key"),
		},
		Chat: chat,
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "console"),
		},
	}, nil
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "5000"
	}

	origin := getEnvOrDefault("CORS_ORIGIN", "http://localhost:3000")

	if strings.Contains(port, ":") {
		// Allow passing ":5000" or "127.0.0.1:5000" directly.
		return ServerConfig{Addr: port, CORSOrigin: origin}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, CORSOrigin: origin}, nil
}

func loadChatConfig() (ChatConfig, error) {
	delayMS, err := parseOptionalIntEnv("BOT_REPLY_DELAY_MS")
	if err != nil {
		return ChatConfig{}, err
	}

	delay := 1000 * time.Millisecond
	if delayMS != nil {
		if *delayMS < 0 {
			return ChatConfig{}, fmt.Errorf("invalid BOT_REPLY_DELAY_MS value: %d", *delayMS)
		}
		delay = time.Duration(*delayMS) * time.Millisecond
	}

	return ChatConfig{BotReplyDelay: delay}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
