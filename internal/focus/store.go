package focus

import (
	"context"
	"fmt"

	"github.com/SmitUplenchwar2687/schedboard/internal/storage"
)

// Key is the local storage key the focus lives under.
const Key = "focused"

// Store reads and writes the persisted focus.
type Store struct {
	backend storage.Storage
}

// NewStore returns a Store over backend.
func NewStore(backend storage.Storage) *Store {
	return &Store{backend: backend}
}

// Load returns the stored focus, or None when nothing is stored. A value
// that does not parse is returned as an error wrapping ErrInvalid.
func (s *Store) Load(ctx context.Context) (Focus, error) {
	data, err := s.backend.Get(ctx, Key)
	if err != nil {
		return None, fmt.Errorf("reading %q: %w", Key, err)
	}
	f, err := Parse(data)
	if err != nil {
		return None, fmt.Errorf("parsing %q: %w", Key, err)
	}
	return f, nil
}

// Save writes f under Key as JSON.
func (s *Store) Save(ctx context.Context, f Focus) error {
	data, err := f.MarshalJSON()
	if err != nil {
		return err
	}
	if err := s.backend.Set(ctx, Key, data); err != nil {
		return fmt.Errorf("writing %q: %w", Key, err)
	}
	return nil
}

// Clear removes the stored value entirely.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx, Key); err != nil {
		return fmt.Errorf("deleting %q: %w", Key, err)
	}
	return nil
}
