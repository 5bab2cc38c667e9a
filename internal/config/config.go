package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ImagePath     string // Expected location of the image to annotate
	FallbackDir   string // Directory scanned when ImagePath does not exist
	DotRadius     int
	HUDSize       int
	PollInterval  time.Duration
	ToastDuration time.Duration // How long the save confirmation stays on screen
	LogDirectory  string
	LogLevel      string
	JournalPath   string // SQLite export journal; empty disables it
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; variables already set win.
func Load() *Config {
	_ = godotenv.Load()

	desktop := filepath.Join(homeDir(), "Desktop")

	return &Config{
		ImagePath:     getEnv("IMAGE_PATH", filepath.Join(desktop, "image.png")),
		FallbackDir:   getEnv("FALLBACK_DIR", desktop),
		DotRadius:     getEnvAsInt("DOT_RADIUS", 5),
		HUDSize:       getEnvAsInt("HUD_SIZE", 24),
		PollInterval:  getEnvAsMillis("POLL_INTERVAL_MS", 20),
		ToastDuration: getEnvAsMillis("TOAST_DURATION_MS", 500),
		LogDirectory:  getEnv("LOG_DIR", filepath.Join(".", "logs")),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		JournalPath:   getEnv("JOURNAL_PATH", ""),
	}
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsMillis(key string, defaultValue int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultValue)) * time.Millisecond
}
