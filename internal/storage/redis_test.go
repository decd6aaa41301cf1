package storage

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStorageFromClient(client, "")
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStorage_SetGet(t *testing.T) {
	s, mr := setupRedisStorage(t)

	require.NoError(t, s.Set(ctx, "focused", []byte("4")))

	val, err := s.Get(ctx, "focused")
	require.NoError(t, err)
	assert.Equal(t, "4", string(val))

	raw, err := mr.Get(DefaultRedisPrefix + "focused")
	require.NoError(t, err)
	assert.Equal(t, "4", raw)
}

func TestRedisStorage_GetMissing(t *testing.T) {
	s, _ := setupRedisStorage(t)

	val, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisStorage_Delete(t *testing.T) {
	s, mr := setupRedisStorage(t)
	require.NoError(t, s.Set(ctx, "focused", []byte("1")))

	require.NoError(t, s.Delete(ctx, "focused"))
	assert.False(t, mr.Exists(DefaultRedisPrefix+"focused"))
	require.NoError(t, s.Delete(ctx, "focused"))
}

func TestRedisStorage_BackendError(t *testing.T) {
	s, mr := setupRedisStorage(t)
	mr.SetError("LOADING")

	_, err := s.Get(ctx, "focused")
	assert.Error(t, err)
	assert.Error(t, s.Set(ctx, "focused", []byte("1")))
}

func TestNewRedisStorage_Connects(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	s, err := NewRedisStorage(context.Background(), &RedisConfig{
		Host:   mr.Host(),
		Port:   port,
		Prefix: "test:",
	})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(ctx, "focused", []byte("null")))
	assert.True(t, mr.Exists("test:focused"))
}

func TestNewRedisStorage_BadEndpoint(t *testing.T) {
	_, err := NewRedisStorage(context.Background(), &RedisConfig{
		Host:        "127.0.0.1",
		Port:        1,
		MaxRetries:  1,
		DialTimeout: 100 * time.Millisecond,
	})
	assert.Error(t, err)
}

func TestNewRedisStorage_ConfigValidation(t *testing.T) {
	_, err := NewRedisStorage(context.Background(), nil)
	assert.Error(t, err)

	_, err = NewRedisStorage(context.Background(), &RedisConfig{Cluster: true})
	assert.Error(t, err, "cluster without nodes should fail")

	_, err = NewRedisStorage(context.Background(), &RedisConfig{Port: 6379})
	assert.Error(t, err, "missing host should fail")
}

func TestRedisStorage_Close_Idempotent(t *testing.T) {
	s, _ := setupRedisStorage(t)
	require.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}
