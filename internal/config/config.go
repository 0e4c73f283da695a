package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Worker   WorkerConfig
	Mailer   MailerConfig
}

type ServerConfig struct {
	Address string
}

type DatabaseConfig struct {
	PostgresURL string
}

type RedisConfig struct {
	Enabled  bool
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

type WorkerConfig struct {
	Interval  time.Duration
	BatchSize int
}

type MailerConfig struct {
	URL  string
	From string
}

func LoadAll() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Address: getEnv("SERVER_ADDRESS", ":8080"),
		},
		Database: DatabaseConfig{
			PostgresURL: mustEnv("POSTGRES_URL"),
		},
		Mailer: MailerConfig{
			URL:  mustEnv("MAILER_URL"),
			From: getEnv("DEFAULT_FROM", "noreply@tailwind.dev"),
		},
		Worker: WorkerConfig{
			Interval:  time.Duration(getEnvInt("WORKER_INTERVAL_SECONDS", 5)) * time.Second,
			BatchSize: getEnvInt("WORKER_BATCH_SIZE", 100),
		},
		Redis: loadRedisConfig(),
	}

	validate(cfg)
	return cfg, nil
}

func loadRedisConfig() RedisConfig {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return RedisConfig{Enabled: false}
	}

	return RedisConfig{
		Enabled:  true,
		Address:  addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       getEnvInt("REDIS_DB", 0),
		TTL:      time.Duration(getEnvInt("REDIS_TTL_SECONDS", 86400)) * time.Second,
	}
}

func validate(cfg *Config) {
	if cfg.Worker.BatchSize <= 0 {
		panic("WORKER_BATCH_SIZE must be > 0")
	}
	if cfg.Worker.Interval <= 0 {
		panic("WORKER_INTERVAL_SECONDS must be > 0")
	}
	if cfg.Mailer.From == "" {
		panic("DEFAULT_FROM must not be empty")
	}
}

func mustEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("missing required env var: %s", key))
	}
	return val
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("invalid int for env %s: %s", key, v))
	}
	return i
}
