package cli

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/SmitUplenchwar2687/schedboard/internal/config"
	"github.com/SmitUplenchwar2687/schedboard/internal/storage"
)

// storageOptions selects where the focused panel is persisted.
type storageOptions struct {
	backend          string
	filePath         string
	redisHost        string
	redisPort        int
	redisPassword    string
	redisDB          int
	redisPoolSize    int
	redisMaxRetries  int
	redisDialTimeout time.Duration
	redisPrefix      string
}

func (o *storageOptions) addFlags(fs *pflag.FlagSet) {
	def := config.Default().Focus
	fs.StringVar(&o.backend, "storage", def.Backend, "focus storage backend (memory, file, redis)")
	fs.StringVar(&o.filePath, "storage-file", def.File.Path, "state file for the file backend")
	fs.StringVar(&o.redisHost, "redis-host", def.Redis.Host, "redis host (or host:port)")
	fs.IntVar(&o.redisPort, "redis-port", def.Redis.Port, "redis port")
	fs.StringVar(&o.redisPassword, "redis-password", "", "redis password")
	fs.IntVar(&o.redisDB, "redis-db", 0, "redis database index")
	fs.IntVar(&o.redisPoolSize, "redis-pool-size", def.Redis.PoolSize, "redis connection pool size")
	fs.IntVar(&o.redisMaxRetries, "redis-max-retries", def.Redis.MaxRetries, "redis max retries")
	fs.DurationVar(&o.redisDialTimeout, "redis-dial-timeout", def.Redis.DialTimeout, "redis dial timeout")
	fs.StringVar(&o.redisPrefix, "redis-prefix", def.Redis.Prefix, "key prefix in redis")
}

// applyConfigIfUnset copies config values into every option whose flag was
// not given on the command line.
func (o *storageOptions) applyConfigIfUnset(cmd *cobra.Command, cfg *config.FocusConfig) {
	if cfg == nil {
		return
	}

	if !cmd.Flags().Changed("storage") {
		o.backend = cfg.Backend
	}
	if !cmd.Flags().Changed("storage-file") {
		o.filePath = cfg.File.Path
	}
	if !cmd.Flags().Changed("redis-host") {
		o.redisHost = cfg.Redis.Host
	}
	if !cmd.Flags().Changed("redis-port") {
		o.redisPort = cfg.Redis.Port
	}
	if !cmd.Flags().Changed("redis-password") {
		o.redisPassword = cfg.Redis.Password
	}
	if !cmd.Flags().Changed("redis-db") {
		o.redisDB = cfg.Redis.DB
	}
	if !cmd.Flags().Changed("redis-pool-size") {
		o.redisPoolSize = cfg.Redis.PoolSize
	}
	if !cmd.Flags().Changed("redis-max-retries") {
		o.redisMaxRetries = cfg.Redis.MaxRetries
	}
	if !cmd.Flags().Changed("redis-dial-timeout") {
		o.redisDialTimeout = cfg.Redis.DialTimeout
	}
	if !cmd.Flags().Changed("redis-prefix") {
		o.redisPrefix = cfg.Redis.Prefix
	}
}

func (o *storageOptions) normalize() error {
	if o.backend != storage.BackendRedis {
		return nil
	}

	host, port, err := normalizeRedisHostPort(o.redisHost, o.redisPort)
	if err != nil {
		return err
	}
	o.redisHost = host
	o.redisPort = port
	return nil
}

func (o *storageOptions) toOptions() storage.Options {
	return storage.Options{
		Backend:  o.backend,
		FilePath: o.filePath,
		Redis: storage.RedisConfig{
			Host:        o.redisHost,
			Port:        o.redisPort,
			Password:    o.redisPassword,
			DB:          o.redisDB,
			PoolSize:    o.redisPoolSize,
			MaxRetries:  o.redisMaxRetries,
			DialTimeout: o.redisDialTimeout,
			Prefix:      o.redisPrefix,
		},
	}
}

// resolve merges flags over cfg.Focus and returns storage options.
func (o *storageOptions) resolve(cmd *cobra.Command, cfg config.Config) (storage.Options, error) {
	o.applyConfigIfUnset(cmd, &cfg.Focus)
	if err := o.normalize(); err != nil {
		return storage.Options{}, err
	}
	return o.toOptions(), nil
}

func normalizeRedisHostPort(host string, port int) (string, int, error) {
	if strings.Contains(host, ":") {
		h, p, err := net.SplitHostPort(host)
		if err != nil {
			return "", 0, fmt.Errorf("invalid --redis-host value %q: %w", host, err)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", 0, fmt.Errorf("invalid redis port in --redis-host %q: %w", host, err)
		}
		host = h
		port = n
	}

	if host == "" {
		return "", 0, fmt.Errorf("redis host cannot be empty")
	}
	if port <= 0 {
		return "", 0, fmt.Errorf("redis port must be positive, got %d", port)
	}

	return host, port, nil
}
