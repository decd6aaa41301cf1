package focus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmitUplenchwar2687/schedboard/internal/storage"
)

func TestToggle(t *testing.T) {
	f := None.Toggle(3)
	assert.True(t, f.Is(3), "selecting with nothing focused focuses the panel")

	assert.Equal(t, None, f.Toggle(3), "selecting the focused panel clears focus")
	assert.Equal(t, None, f.Toggle(1), "selecting another panel also clears focus")
}

func TestFocus_JSON(t *testing.T) {
	tests := []struct {
		in      string
		want    Focus
		wantErr bool
	}{
		{"null", None, false},
		{"2", On(2), false},
		{" 4 ", On(4), false},
		{"0", None, false},
		{"2.0", On(2), false},
		{"3e0", On(3), false},
		{"-0.0", None, false},
		{"1e300", None, true},
		{`"2"`, None, true},
		{"true", None, true},
		{"1.5", None, true},
		{"{}", None, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse([]byte(tt.in))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	data, err := json.Marshal(On(2))
	require.NoError(t, err)
	assert.Equal(t, "2", string(data))

	data, err = json.Marshal(None)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestParse_Empty(t *testing.T) {
	f, err := Parse(nil)
	require.NoError(t, err)
	assert.False(t, f.IsSet())
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStorage()
	s := NewStore(backend)

	f, err := s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, f.IsSet(), "nothing stored means no focus")

	require.NoError(t, s.Save(ctx, On(2)))
	raw, _ := backend.Get(ctx, Key)
	assert.Equal(t, "2", string(raw))

	f, err = s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, f.Is(2))

	require.NoError(t, s.Save(ctx, None))
	raw, _ = backend.Get(ctx, Key)
	assert.Equal(t, "null", string(raw))

	require.NoError(t, s.Clear(ctx))
	raw, _ = backend.Get(ctx, Key)
	assert.Nil(t, raw)
}

func TestStore_LoadMalformed(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStorage()
	backend.Set(ctx, Key, []byte("{oops"))

	_, err := NewStore(backend).Load(ctx)
	assert.True(t, errors.Is(err, ErrInvalid), "err = %v", err)
}

func TestStore_Redis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	backend := storage.NewRedisStorageFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")
	defer backend.Close()

	s := NewStore(backend)
	require.NoError(t, s.Save(ctx, On(1)))

	raw, err := mr.Get(storage.DefaultRedisPrefix + Key)
	require.NoError(t, err)
	assert.Equal(t, "1", raw)

	f, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, f.Is(1))
}
