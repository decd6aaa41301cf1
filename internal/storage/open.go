package storage

import (
	"context"
	"fmt"
)

// Options selects and configures a backend.
type Options struct {
	Backend  string
	FilePath string
	Redis    RedisConfig
}

// Open builds the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Storage, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewMemoryStorage(), nil
	case BackendFile, "":
		return NewFileStorage(opts.FilePath)
	case BackendRedis:
		return NewRedisStorage(ctx, &opts.Redis)
	default:
		return nil, fmt.Errorf("unknown storage backend %q, must be one of: memory, file, redis", opts.Backend)
	}
}
