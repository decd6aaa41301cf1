package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/SmitUplenchwar2687/schedboard/internal/storage"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SCHEDBOARD_"

// Config is the top-level configuration for a schedboard process.
type Config struct {
	Server ServerConfig `json:"server"`
	API    APIConfig    `json:"api"`
	Live   LiveConfig   `json:"live"`
	Focus  FocusConfig  `json:"focus"`
	Log    LogConfig    `json:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `json:"addr"`
}

// APIConfig points at the scheduler's read API. A zero Timeout means the
// initial fetch waits indefinitely.
type APIConfig struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

// LiveConfig points at the push channel. An empty URL disables live updates.
type LiveConfig struct {
	URL         string        `json:"url"`
	DialTimeout time.Duration `json:"dial_timeout"`
}

// FocusConfig selects where the focused panel is persisted.
type FocusConfig struct {
	Backend string      `json:"backend"`
	File    FileConfig  `json:"file"`
	Redis   RedisConfig `json:"redis"`
}

// FileConfig configures the file backend.
type FileConfig struct {
	Path string `json:"path"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Host        string        `json:"host"`
	Port        int           `json:"port"`
	Password    string        `json:"password"`
	DB          int           `json:"db"`
	PoolSize    int           `json:"pool_size"`
	MaxRetries  int           `json:"max_retries"`
	DialTimeout time.Duration `json:"dial_timeout"`
	Prefix      string        `json:"prefix"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `json:"level"`
	Development bool   `json:"development"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		API: APIConfig{
			BaseURL: "http://localhost:8001",
		},
		Live: LiveConfig{
			DialTimeout: 10 * time.Second,
		},
		Focus: FocusConfig{
			Backend: storage.BackendFile,
			File: FileConfig{
				Path: ".schedboard/state.json",
			},
			Redis: RedisConfig{
				Host:        "localhost",
				Port:        6379,
				PoolSize:    10,
				MaxRetries:  3,
				DialTimeout: 5 * time.Second,
				Prefix:      storage.DefaultRedisPrefix,
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the config is valid.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if err := validateURL("api.base_url", c.API.BaseURL, "http", "https"); err != nil {
		return err
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must be non-negative, got %s", c.API.Timeout)
	}
	if c.Live.URL != "" {
		if err := validateURL("live.url", c.Live.URL, "ws", "wss"); err != nil {
			return err
		}
	}
	if c.Live.DialTimeout < 0 {
		return fmt.Errorf("live.dial_timeout must be non-negative, got %s", c.Live.DialTimeout)
	}

	switch c.Focus.Backend {
	case storage.BackendMemory:
	case storage.BackendFile:
		if c.Focus.File.Path == "" {
			return errors.New("focus.file.path is required for the file backend")
		}
	case storage.BackendRedis:
		if c.Focus.Redis.Host == "" {
			return errors.New("focus.redis.host is required for the redis backend")
		}
		if c.Focus.Redis.Port <= 0 {
			return fmt.Errorf("focus.redis.port must be positive, got %d", c.Focus.Redis.Port)
		}
	default:
		return fmt.Errorf("unknown focus backend %q, must be one of: memory, file, redis", c.Focus.Backend)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q, must be one of: debug, info, warn, error", c.Log.Level)
	}
	return nil
}

func validateURL(field, raw string, schemes ...string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	for _, s := range schemes {
		if u.Scheme == s && u.Host != "" {
			return nil
		}
	}
	return fmt.Errorf("%s must be a %s URL, got %q", field, strings.Join(schemes, " or "), raw)
}

// LoadFile reads a JSON config file and merges it with defaults.
// Fields not specified in the file retain their default values.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	// Use a raw intermediate struct to handle duration parsing.
	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}

	if raw.Server.Addr != "" {
		cfg.Server.Addr = raw.Server.Addr
	}
	if raw.API.BaseURL != "" {
		cfg.API.BaseURL = raw.API.BaseURL
	}
	if err := parseDuration("api.timeout", raw.API.Timeout, &cfg.API.Timeout); err != nil {
		return cfg, err
	}
	if raw.Live.URL != "" {
		cfg.Live.URL = raw.Live.URL
	}
	if err := parseDuration("live.dial_timeout", raw.Live.DialTimeout, &cfg.Live.DialTimeout); err != nil {
		return cfg, err
	}

	if raw.Focus.Backend != "" {
		cfg.Focus.Backend = raw.Focus.Backend
	}
	if raw.Focus.File.Path != "" {
		cfg.Focus.File.Path = raw.Focus.File.Path
	}
	r := raw.Focus.Redis
	if r.Host != "" {
		cfg.Focus.Redis.Host = r.Host
	}
	if r.Port > 0 {
		cfg.Focus.Redis.Port = r.Port
	}
	if r.Password != "" {
		cfg.Focus.Redis.Password = r.Password
	}
	if r.DB > 0 {
		cfg.Focus.Redis.DB = r.DB
	}
	if r.PoolSize > 0 {
		cfg.Focus.Redis.PoolSize = r.PoolSize
	}
	if r.MaxRetries > 0 {
		cfg.Focus.Redis.MaxRetries = r.MaxRetries
	}
	if r.Prefix != "" {
		cfg.Focus.Redis.Prefix = r.Prefix
	}
	if err := parseDuration("focus.redis.dial_timeout", r.DialTimeout, &cfg.Focus.Redis.DialTimeout); err != nil {
		return cfg, err
	}

	if raw.Log.Level != "" {
		cfg.Log.Level = raw.Log.Level
	}
	if raw.Log.Development != nil {
		cfg.Log.Development = *raw.Log.Development
	}

	return cfg, nil
}

func parseDuration(field, raw string, dst *time.Duration) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", field, err)
	}
	*dst = d
	return nil
}

// rawConfig is the JSON-friendly representation with string durations.
type rawConfig struct {
	Server struct {
		Addr string `json:"addr"`
	} `json:"server"`
	API struct {
		BaseURL string `json:"base_url"`
		Timeout string `json:"timeout"`
	} `json:"api"`
	Live struct {
		URL         string `json:"url"`
		DialTimeout string `json:"dial_timeout"`
	} `json:"live"`
	Focus struct {
		Backend string `json:"backend"`
		File    struct {
			Path string `json:"path"`
		} `json:"file"`
		Redis struct {
			Host        string `json:"host"`
			Port        int    `json:"port"`
			Password    string `json:"password"`
			DB          int    `json:"db"`
			PoolSize    int    `json:"pool_size"`
			MaxRetries  int    `json:"max_retries"`
			DialTimeout string `json:"dial_timeout"`
			Prefix      string `json:"prefix"`
		} `json:"redis"`
	} `json:"focus"`
	Log struct {
		Level       string `json:"level"`
		Development *bool  `json:"development"`
	} `json:"log"`
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding ones already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overlays SCHEDBOARD_* environment variables on c.
// SCHEDBOARD_WEBSOCKET_URL sets the push channel endpoint.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = n
		return nil
	}
	dur := func(name string, dst *time.Duration) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = d
		return nil
	}

	str("ADDR", &c.Server.Addr)
	str("API_URL", &c.API.BaseURL)
	str("WEBSOCKET_URL", &c.Live.URL)
	str("FOCUS_BACKEND", &c.Focus.Backend)
	str("FOCUS_FILE", &c.Focus.File.Path)
	str("REDIS_HOST", &c.Focus.Redis.Host)
	str("REDIS_PASSWORD", &c.Focus.Redis.Password)
	str("LOG_LEVEL", &c.Log.Level)

	if err := dur("API_TIMEOUT", &c.API.Timeout); err != nil {
		return err
	}
	if err := num("REDIS_PORT", &c.Focus.Redis.Port); err != nil {
		return err
	}
	if err := num("REDIS_DB", &c.Focus.Redis.DB); err != nil {
		return err
	}
	if v, ok := lookup(EnvPrefix + "LOG_DEVELOPMENT"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sLOG_DEVELOPMENT: %w", EnvPrefix, err)
		}
		c.Log.Development = b
	}
	return nil
}

// StorageOptions converts the focus section into storage.Open options.
func (c Config) StorageOptions() storage.Options {
	r := c.Focus.Redis
	return storage.Options{
		Backend:  c.Focus.Backend,
		FilePath: c.Focus.File.Path,
		Redis: storage.RedisConfig{
			Host:        r.Host,
			Port:        r.Port,
			Password:    r.Password,
			DB:          r.DB,
			PoolSize:    r.PoolSize,
			MaxRetries:  r.MaxRetries,
			DialTimeout: r.DialTimeout,
			Prefix:      r.Prefix,
		},
	}
}

// WriteExample writes an example config file to the given path.
func WriteExample(path string) error {
	example := `{
  "server": {
    "addr": ":8080"
  },
  "api": {
    "base_url": "http://localhost:8001",
    "timeout": "0s"
  },
  "live": {
    "url": "ws://localhost:8001",
    "dial_timeout": "10s"
  },
  "focus": {
    "backend": "file",
    "file": {
      "path": ".schedboard/state.json"
    },
    "redis": {
      "host": "localhost",
      "port": 6379,
      "db": 0,
      "pool_size": 10,
      "max_retries": 3,
      "dial_timeout": "5s",
      "prefix": "schedboard:local:"
    }
  },
  "log": {
    "level": "info",
    "development": false
  }
}
`
	return os.WriteFile(path, []byte(example), 0o644)
}
