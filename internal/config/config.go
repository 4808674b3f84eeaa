package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the runtime configuration read from the environment.
type Config struct {
	Debug    bool
	HTTPAddr string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	JWTTTL    time.Duration
	DraftTTL  time.Duration

	// TelegramBotToken is optional; notifications are disabled without it.
	TelegramBotToken string
	LocalesDir       string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: loading .env: %w", err)
	}
	return fromViper(newViper()), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("debug", false)
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_user", "user")
	v.SetDefault("db_password", "password")
	v.SetDefault("db_name", "grievancedb")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_ttl", 72*time.Hour)
	v.SetDefault("draft_ttl", DraftTTL)
	v.SetDefault("telegram_bot_token", "")
	v.SetDefault("locales_dir", "internal/localization")

	v.AutomaticEnv()
	return v
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Debug:            v.GetBool("debug"),
		HTTPAddr:         v.GetString("http_addr"),
		DBHost:           v.GetString("db_host"),
		DBUser:           v.GetString("db_user"),
		DBPassword:       v.GetString("db_password"),
		DBName:           v.GetString("db_name"),
		DBPort:           v.GetString("db_port"),
		DBSSLMode:        v.GetString("db_sslmode"),
		RedisAddr:        v.GetString("redis_addr"),
		RedisPassword:    v.GetString("redis_password"),
		RedisDB:          v.GetInt("redis_db"),
		JWTSecret:        v.GetString("jwt_secret"),
		JWTTTL:           v.GetDuration("jwt_ttl"),
		DraftTTL:         v.GetDuration("draft_ttl"),
		TelegramBotToken: v.GetString("telegram_bot_token"),
		LocalesDir:       v.GetString("locales_dir"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// Validate checks settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("config: JWT_SECRET must be at least 32 bytes")
	}
	return nil
}
