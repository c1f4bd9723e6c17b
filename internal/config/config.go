package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DatasetSourceCSV      = "csv"
	DatasetSourcePostgres = "postgres"
)

type Config struct {
	App      AppConfig
	Dataset  DatasetConfig
	Database DatabaseConfig
	Cache    CacheConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	LogLevel    string
}

type DatasetConfig struct {
	Path   string
	Source string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout time.Duration
	PoolMaxConns   int32
}

// Enabled reports whether a Postgres mirror is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.DBHost != ""
}

type CacheConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	TTL           time.Duration
}

func (c CacheConfig) Enabled() bool {
	return c.RedisHost != ""
}

func (c CacheConfig) Addr() string {
	return c.RedisHost + ":" + c.RedisPort
}

var errInvalidEnv = errors.New("invalid environment variables")

func defaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "skill-radar")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_PORT", "8000")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DATASET_PATH", "data/cleaned_skills.csv")
	v.SetDefault("DATASET_SOURCE", DatasetSourceCSV)

	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_CONNECT_TIMEOUT", "5")

	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_TTL", "600")
}

func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	defaults(v)

	var invalid []string
	str := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}
	positive := func(key string) int {
		raw := str(key)
		if raw == "" {
			return 0
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			invalid = append(invalid, fmt.Sprintf("%s=%q", key, raw))
			return 0
		}
		return n
	}

	cfg := Config{}
	cfg.App = AppConfig{
		AppName:     str("APP_NAME"),
		Environment: str("APP_ENV"),
		HTTPPort:    str("HTTP_PORT"),
		LogLevel:    strings.ToLower(str("LOG_LEVEL")),
	}
	if _, err := strconv.Atoi(strings.TrimPrefix(cfg.App.HTTPPort, ":")); err != nil {
		invalid = append(invalid, fmt.Sprintf("HTTP_PORT=%q", cfg.App.HTTPPort))
	}

	cfg.Dataset = DatasetConfig{
		Path:   str("DATASET_PATH"),
		Source: strings.ToLower(str("DATASET_SOURCE")),
	}
	switch cfg.Dataset.Source {
	case DatasetSourceCSV, DatasetSourcePostgres:
	default:
		invalid = append(invalid, fmt.Sprintf("DATASET_SOURCE=%q", cfg.Dataset.Source))
	}

	cfg.Database = DatabaseConfig{
		DBHost:         str("DB_HOST"),
		DBPort:         str("DB_PORT"),
		DBName:         str("DB_NAME"),
		DBUser:         str("DB_USER"),
		DBPassword:     v.GetString("DB_PASSWORD"),
		DBSSLMode:      str("DB_SSL_MODE"),
		ConnectTimeout: time.Duration(positive("DB_CONNECT_TIMEOUT")) * time.Second,
		PoolMaxConns:   int32(positive("DB_POOL_MAX_CONNS")),
	}

	cfg.Cache = CacheConfig{
		RedisHost:     str("REDIS_HOST"),
		RedisPort:     str("REDIS_PORT"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		TTL:           time.Duration(positive("REDIS_TTL")) * time.Second,
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}
	if cfg.Dataset.Source == DatasetSourcePostgres && !cfg.Database.Enabled() {
		return Config{}, fmt.Errorf("DATASET_SOURCE=%s requires DB_HOST", DatasetSourcePostgres)
	}

	return cfg, nil
}
