package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	// AdminSignupKey разрешает регистрацию администраторов. Пустое
	// значение отключает её полностью.
	AdminSignupKey string

	// Сетка клуба.
	CourtCount  int
	OpeningHour int
	ClosingHour int

	// Cloudflare R2 для афиш турниров. Группа опциональна: без неё
	// приложение работает, просто без загрузки файлов.
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// R2Configured сообщает, заполнена ли группа R2 целиком.
func (c *Config) R2Configured() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Загружаем .env файл, если он есть. Отсутствие не фатально.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	courtCount, err := intEnv("COURT_COUNT", 4)
	if err != nil {
		return nil, err
	}
	if courtCount < 1 {
		return nil, fmt.Errorf("COURT_COUNT must be at least 1, got %d", courtCount)
	}

	openingHour, err := intEnv("OPENING_HOUR", 9)
	if err != nil {
		return nil, err
	}
	closingHour, err := intEnv("CLOSING_HOUR", 21)
	if err != nil {
		return nil, err
	}
	if openingHour < 0 || closingHour > 24 || openingHour >= closingHour {
		return nil, fmt.Errorf("invalid club hours: OPENING_HOUR=%d CLOSING_HOUR=%d", openingHour, closingHour)
	}

	cfg := &Config{
		DatabaseURL:    dbURL,
		JWTSecretKey:   jwtKey,
		ServerPort:     port,
		AdminSignupKey: os.Getenv("ADMIN_SIGNUP_KEY"),
		CourtCount:     courtCount,
		OpeningHour:    openingHour,
		ClosingHour:    closingHour,

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}

func intEnv(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	return value, nil
}
