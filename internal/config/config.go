package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Default notification window, in server local hours
const (
	DefaultNotificationStartHour = 4
	DefaultNotificationEndHour   = 18
)

// Config holds the application configuration
type Config struct {
	Env       string
	Database  DatabaseConfig
	Telegram  TelegramConfig
	AI        AIConfig
	Scheduler SchedulerConfig
}

// DatabaseConfig selects the storage backend
type DatabaseConfig struct {
	Type string // "sqlite" or "postgres"
	Path string // sqlite file path
	DSN  string // postgres connection string
}

type TelegramConfig struct {
	Token  string
	ChatID int64 // chat that receives review reminders
}

// AIConfig configures the optional distractor provider
type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type SchedulerConfig struct {
	Enabled       bool
	StartHour     int
	EndHour       int
	IntervalHours int
}

// Load reads configuration from the environment, loading .env first if present
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env: getEnv("APP_ENV", "development"),
		Database: DatabaseConfig{
			Type: strings.ToLower(getEnv("DB_TYPE", "sqlite")),
			Path: getEnv("SQLITE_PATH", "data/vocabquiz.db"),
			DSN:  getEnv("DATABASE_URL", ""),
		},
		Telegram: TelegramConfig{
			Token:  getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID: getInt64("TELEGRAM_CHAT_ID", 0),
		},
		AI: AIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout: getDuration("OPENAI_TIMEOUT", 15*time.Second),
		},
		Scheduler: SchedulerConfig{
			Enabled:       getEnv("ENABLE_SCHEDULER", "true") != "false",
			StartHour:     getHour("NOTIFICATION_START_HOUR", DefaultNotificationStartHour),
			EndHour:       getHour("NOTIFICATION_END_HOUR", DefaultNotificationEndHour),
			IntervalHours: getPositiveInt("REMINDER_INTERVAL_HOURS", 1),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getInt64(key string, defaultValue int64) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(os.Getenv(key)), 10, 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getHour(key string, defaultValue int) int {
	h, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || h < 0 || h > 23 {
		return defaultValue
	}
	return h
}

func getPositiveInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
