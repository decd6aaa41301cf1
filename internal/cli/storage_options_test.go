package cli

import (
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/schedboard/internal/config"
	"github.com/SmitUplenchwar2687/schedboard/internal/storage"
)

func TestNormalizeRedisHostPort(t *testing.T) {
	host, port, err := normalizeRedisHostPort("localhost:6380", 6379)
	if err != nil {
		t.Fatalf("normalizeRedisHostPort() error = %v", err)
	}
	if host != "localhost" || port != 6380 {
		t.Fatalf("normalizeRedisHostPort() = %s:%d, want localhost:6380", host, port)
	}

	host, port, err = normalizeRedisHostPort("redis.internal", 6379)
	if err != nil {
		t.Fatalf("normalizeRedisHostPort() error = %v", err)
	}
	if host != "redis.internal" || port != 6379 {
		t.Fatalf("normalizeRedisHostPort() = %s:%d, want redis.internal:6379", host, port)
	}
}

func TestNormalizeRedisHostPort_Invalid(t *testing.T) {
	if _, _, err := normalizeRedisHostPort("", 6379); err == nil {
		t.Fatal("expected error for empty host")
	}
	if _, _, err := normalizeRedisHostPort("localhost", 0); err == nil {
		t.Fatal("expected error for non-positive port")
	}
	if _, _, err := normalizeRedisHostPort("localhost:abc", 6379); err == nil {
		t.Fatal("expected error for non-numeric port")
	}
}

func TestStorageOptions_FlagsWinOverConfig(t *testing.T) {
	var o storageOptions
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	o.addFlags(cmd.Flags())
	if err := cmd.ParseFlags([]string{"--storage", "redis", "--redis-host", "cache:6390"}); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Focus.Backend = storage.BackendMemory
	cfg.Focus.Redis.DB = 4
	cfg.Focus.Redis.DialTimeout = 9 * time.Second

	opts, err := o.resolve(cmd, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Backend != storage.BackendRedis {
		t.Errorf("backend = %q, want redis", opts.Backend)
	}
	if opts.Redis.Host != "cache" || opts.Redis.Port != 6390 {
		t.Errorf("redis endpoint = %s:%d, want cache:6390", opts.Redis.Host, opts.Redis.Port)
	}
	if opts.Redis.DB != 4 || opts.Redis.DialTimeout != 9*time.Second {
		t.Errorf("unset flags should come from config, got %+v", opts.Redis)
	}
}
