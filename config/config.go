package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       DBConfig
	HTTP     HTTPConfig
	Session  SessionConfig
	Upload   UploadConfig
	Auth     AuthConfig
	Telegram TelegramConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type HTTPConfig struct {
	Addr string
}

type SessionConfig struct {
	Secret   string
	Lifetime time.Duration
}

type UploadConfig struct {
	Dir          string // on-disk root for uploaded images
	MaxSizeBytes int64
}

type AuthConfig struct {
	AdminCode string // shared secret that grants the admin role at registration
}

type TelegramConfig struct {
	Token       string // token for sending new-order notifications to admin
	AdminChatID int64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	adminChat, _ := strconv.ParseInt(getEnv("ADMIN_CHAT_ID", "0"), 10, 64)

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "kopikoni"),
		},
		HTTP: HTTPConfig{
			Addr: getEnv("HTTP_ADDR", ":3000"),
		},
		Session: SessionConfig{
			Secret:   getEnv("SESSION_SECRET", "kopikoni_secret_key"),
			Lifetime: 24 * time.Hour,
		},
		Upload: UploadConfig{
			Dir:          getEnv("UPLOAD_DIR", "public/uploads"),
			MaxSizeBytes: 5 << 20,
		},
		Auth: AuthConfig{
			AdminCode: getEnv("ADMIN_CODE", ""),
		},
		Telegram: TelegramConfig{
			Token:       getEnv("TOKEN", ""),
			AdminChatID: adminChat,
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
