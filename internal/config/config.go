// internal/config/config.go
//
// Server configuration.
// Sources, lowest to highest precedence:
//   1. Defaults below.
//   2. Optional config.yaml in . or ./config.
//   3. Environment variables: key "redis.addr" reads REDIS_ADDR, "port" reads PORT, etc.
//
// main loads .env (godotenv) before calling Load, so .env values count as environment.

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Session store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	Port         string `mapstructure:"port"`
	LogLevel     string `mapstructure:"log_level"`
	DBPath       string `mapstructure:"db_path"`
	Store        string `mapstructure:"store"`
	CookieName   string `mapstructure:"cookie_name"`
	ClientOrigin string `mapstructure:"client_origin"`
	AppEnv       string `mapstructure:"app_env"`
	DailySalt    string `mapstructure:"daily_salt"`

	Redis struct {
		Addr     string        `mapstructure:"addr"`
		Password string        `mapstructure:"password"`
		DB       int           `mapstructure:"db"`
		TTL      time.Duration `mapstructure:"ttl"`
	} `mapstructure:"redis"`

	JWT struct {
		Secret      string `mapstructure:"secret"`
		ExpiresDays int    `mapstructure:"expires_days"`
	} `mapstructure:"jwt"`

	Scores struct {
		Limit int `mapstructure:"limit"`
	} `mapstructure:"scores"`
}

// Production reports whether cookies must be Secure/SameSite=None.
func (c Config) Production() bool { return c.AppEnv == "production" }

// JWTTTL is the lifetime of an auth token.
func (c Config) JWTTTL() time.Duration {
	return time.Duration(c.JWT.ExpiresDays) * 24 * time.Hour
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "5175")
	v.SetDefault("log_level", "info")
	v.SetDefault("db_path", "./data/minesweeper.db")
	v.SetDefault("store", StoreMemory)
	v.SetDefault("cookie_name", "minesweeper_token")
	v.SetDefault("client_origin", "http://localhost:5173")
	v.SetDefault("app_env", "development")
	v.SetDefault("daily_salt", "local_dev_salt")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 24*time.Hour)

	v.SetDefault("jwt.secret", "dev_secret_change_me")
	v.SetDefault("jwt.expires_days", 14)

	v.SetDefault("scores.limit", 10)
}

// Load builds a Config from defaults, an optional config file and the environment.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Store {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("config: store must be %q or %q, got %q", StoreMemory, StoreRedis, c.Store)
	}
	if c.JWT.ExpiresDays < 1 {
		return fmt.Errorf("config: jwt.expires_days must be positive, got %d", c.JWT.ExpiresDays)
	}
	if c.Scores.Limit < 1 {
		return fmt.Errorf("config: scores.limit must be positive, got %d", c.Scores.Limit)
	}
	return nil
}
