package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// PathEnvVar overrides the config file location.
const PathEnvVar = "CONFIG_PATH"

const defaultPath = "config.yaml"

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Data      DataConfig      `koanf:"data"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Log       LogConfig       `koanf:"log"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

type ServerConfig struct {
	Port           int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout    time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout   time.Duration `koanf:"write_timeout" validate:"gt=0"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"gt=0"`
}

type DataConfig struct {
	Dir                 string   `koanf:"dir" validate:"required"`
	CatalogFiles        []string `koanf:"catalog_files" validate:"min=1,dive,required"`
	RecommendationsFile string   `koanf:"recommendations_file" validate:"required"`
	SeedDemo            bool     `koanf:"seed_demo"`
}

// DatabaseConfig configures the search query log. An empty URL disables it.
type DatabaseConfig struct {
	URL             string `koanf:"url"`
	PoolSize        int    `koanf:"pool_size" validate:"min=1"`
	QueryLogBuffer  int    `koanf:"query_log_buffer" validate:"min=1"`
	QueryLogWorkers int    `koanf:"query_log_workers" validate:"min=1"`
}

// RedisConfig configures the result cache. An empty URL disables it.
type RedisConfig struct {
	URL      string        `koanf:"url"`
	CacheTTL time.Duration `koanf:"cache_ttl" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests" validate:"min=0"`
	Window   time.Duration `koanf:"window" validate:"gt=0"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           5001,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   30 * time.Second,
			RequestTimeout: 30 * time.Second,
		},
		Data: DataConfig{
			Dir:                 "artifacts",
			CatalogFiles:        []string{"product_matrix.json", "product_index_map.json"},
			RecommendationsFile: "precomputed_hybrid.json",
		},
		Database: DatabaseConfig{
			PoolSize:        5,
			QueryLogBuffer:  1024,
			QueryLogWorkers: 2,
		},
		Redis: RedisConfig{
			CacheTTL: 10 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		RateLimit: RateLimitConfig{
			Requests: 100,
			Window:   time.Minute,
		},
	}
}

// envMappings maps environment variables to config paths. Unlisted variables are ignored.
var envMappings = map[string]string{
	"port":                 "server.port",
	"read_timeout":         "server.read_timeout",
	"write_timeout":        "server.write_timeout",
	"request_timeout":      "server.request_timeout",
	"data_dir":             "data.dir",
	"catalog_files":        "data.catalog_files",
	"recommendations_file": "data.recommendations_file",
	"seed_demo_data":       "data.seed_demo",
	"database_url":         "database.url",
	"db_pool_size":         "database.pool_size",
	"query_log_buffer":     "database.query_log_buffer",
	"query_log_workers":    "database.query_log_workers",
	"redis_url":            "redis.url",
	"cache_ttl":            "redis.cache_ttl",
	"log_level":            "log.level",
	"log_format":           "log.format",
	"rate_limit_requests":  "rate_limit.requests",
	"rate_limit_window":    "rate_limit.window",
}

// Load configuration: defaults, then the optional YAML file, then env.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := splitList(k, "data.catalog_files"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) RecommendationsPath() string {
	return filepath.Join(c.Data.Dir, c.Data.RecommendationsFile)
}

func findConfigFile() string {
	path := os.Getenv(PathEnvVar)
	if path == "" {
		path = defaultPath
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func envKey(key string) string {
	return envMappings[strings.ToLower(key)]
}

// splitList turns a comma-separated env value into a slice.
func splitList(k *koanf.Koanf, path string) error {
	s, ok := k.Get(path).(string)
	if !ok {
		return nil
	}

	var items []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	if err := k.Set(path, items); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}
