package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Env struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	RedisAddr  string
	RedisPass  string
	RedisDB    int
	HTTPAddr   string
	// SettingsPath points at the JSON settings file shared with the desktop
	// clients. Created with defaults on first use.
	SettingsPath string
}

// LoadEnv reads connection settings from the environment, loading a .env file
// first when one is present.
func LoadEnv() (*Env, error) {
	// A missing .env file is fine; explicit environment variables win anyway.
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, err
	}

	return &Env{
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", ""),
		DBName:       getEnv("DB_NAME", "student_mis"),
		DBPort:       getEnv("DB_PORT", "5432"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:      redisDB,
		HTTPAddr:     getEnv("HTTP_ADDR", ":3000"),
		SettingsPath: getEnv("SETTINGS_PATH", "config.json"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
