package common

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string
	}
	Database struct {
		DSN string
	}
	Session struct {
		Secret string
	}
	Cache struct {
		Dir    string
		MaxAge time.Duration `mapstructure:"max_age"`
	}
	Site struct {
		Domain string
	}
}

// LoadConfig reads .env, an optional config.yaml and the environment, in
// increasing order of precedence.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("server.port", "8080")
	v.SetDefault("database.dsn", "newsroom.db")
	v.SetDefault("cache.dir", "cache")
	v.SetDefault("cache.max_age", "5m")
	v.SetDefault("site.domain", "http://localhost:8080")

	// Plain names kept for deployments that already export them.
	bindings := map[string][]string{
		"server.port":    {"PORT"},
		"database.dsn":   {"SQLITE_DB", "sqlite_db"},
		"session.secret": {"SESSION_SECRET"},
		"cache.dir":      {"CACHE_DIR"},
		"cache.max_age":  {"CACHE_MAX_AGE"},
		"site.domain":    {"DOMAIN"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		log.Println("Loaded config file:", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Site.Domain = strings.TrimSuffix(cfg.Site.Domain, "/")
	return &cfg, nil
}
