// Package config provides application configuration loaded from environment variables.
package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	App    AppConfig
	Mail   MailConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env           string
	AppURL        string // base URL used to build invitation links
	InviteTTLDays int
}

// MailConfig holds SMTP settings. An empty Host means mail goes to the log.
type MailConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// Load reads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		App: AppConfig{
			Env:           getEnv("APP_ENV", "development"),
			AppURL:        getEnv("APP_URL", "http://localhost:8080"),
			InviteTTLDays: getEnvInt("INVITE_TTL_DAYS", 7),
		},
		Mail: MailConfig{
			Host: getEnv("SMTP_HOST", ""),
			Port: getEnv("SMTP_PORT", "587"),
			User: getEnv("SMTP_USER", ""),
			Pass: getEnv("SMTP_PASSWORD", ""),
			From: getEnv("MAIL_FROM", "no-reply@localhost"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
