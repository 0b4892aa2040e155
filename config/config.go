package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v2"
)

// Server is the posts backend configuration, read from the environment.
type Server struct {
	Addr           string   `env:"ADDR,default=0.0.0.0:8080"`
	StorageMode    string   `env:"STORAGE_MODE,default=inmemory"` // inmemory, sqlite, mongo or cached
	DictionaryPath string   `env:"DICTIONARY_PATH,default=data/cmudict-0.7b.txt"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=*"`
	LogLevel       string   `env:"LOG_LEVEL,default=info"`
	LogJSON        bool     `env:"LOG_JSON,default=false"`
	Mongo          struct {
		URL    string `env:"MONGO_URL"`
		DBName string `env:"MONGO_DB_NAME,default=iambic"`
	}
	Redis struct {
		Addr string `env:"REDIS_URL"`
	}
	SQLite struct {
		Path string `env:"SQLITE_PATH,default=iambic.sqlite"`
	}
}

func Load(ctx context.Context) (*Server, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Server, error) {
	config := &Server{}
	if err := envconfig.ProcessWith(ctx, config, l); err != nil {
		return nil, fmt.Errorf("parsing env vars: %w", err)
	}
	switch config.StorageMode {
	case "inmemory", "sqlite":
	case "mongo", "cached":
		if config.Mongo.URL == "" {
			return nil, fmt.Errorf("storage mode %q requires MONGO_URL", config.StorageMode)
		}
		if config.StorageMode == "cached" && config.Redis.Addr == "" {
			return nil, fmt.Errorf("storage mode %q requires REDIS_URL", config.StorageMode)
		}
	default:
		return nil, fmt.Errorf("unknown storage mode %q", config.StorageMode)
	}
	return config, nil
}

// Composer configures the terminal composer and its store.
type Composer struct {
	BaseURL          string        `yaml:"base_url"`
	ErrorDisplay     time.Duration `yaml:"error_display"`     // how long an error banner stays up
	ValidateDebounce time.Duration `yaml:"validate_debounce"` // 0 disables validation while typing
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	LogLevel         string        `yaml:"log_level"`
}

func defaultComposer() Composer {
	return Composer{
		BaseURL:        "http://localhost:8080",
		ErrorDisplay:   3 * time.Second,
		RequestTimeout: 10 * time.Second,
		LogLevel:       "warn",
	}
}

// MustLoadComposer reads a YAML file over the defaults. An empty path
// returns the defaults.
func MustLoadComposer(configPath string) *Composer {
	cfg := defaultComposer()
	if configPath == "" {
		return &cfg
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}
	if err := yaml.Unmarshal(configFile, &cfg); err != nil {
		panic("can't unmarshal config file")
	}
	if cfg.ErrorDisplay <= 0 {
		panic("error_display must be positive")
	}
	return &cfg
}
