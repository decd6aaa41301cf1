package storage

import (
	"context"
	"sync"
	"testing"
)

var ctx = context.Background()

func TestMemoryStorage_SetGet(t *testing.T) {
	s := NewMemoryStorage()

	if err := s.Set(ctx, "key1", []byte(`"hello"`)); err != nil {
		t.Fatal(err)
	}

	val, err := s.Get(ctx, "key1")
	if err != nil {
		t.Fatal(err)
	}
	if string(val) != `"hello"` {
		t.Errorf("Get() = %q, want %q", val, `"hello"`)
	}
}

func TestMemoryStorage_GetMissing(t *testing.T) {
	s := NewMemoryStorage()

	val, err := s.Get(ctx, "missing")
	if err != nil {
		t.Fatal(err)
	}
	if val != nil {
		t.Errorf("Get(missing) = %v, want nil", val)
	}
}

func TestMemoryStorage_Overwrite(t *testing.T) {
	s := NewMemoryStorage()
	s.Set(ctx, "focused", []byte("1"))
	s.Set(ctx, "focused", []byte("null"))

	val, _ := s.Get(ctx, "focused")
	if string(val) != "null" {
		t.Errorf("Get() = %q, want %q", val, "null")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestMemoryStorage_Delete(t *testing.T) {
	s := NewMemoryStorage()
	s.Set(ctx, "key1", []byte("1"))

	if err := s.Delete(ctx, "key1"); err != nil {
		t.Fatal(err)
	}
	if val, _ := s.Get(ctx, "key1"); val != nil {
		t.Error("key should be deleted")
	}
	if err := s.Delete(ctx, "never-set"); err != nil {
		t.Errorf("deleting a missing key should not fail, got %v", err)
	}
}

func TestMemoryStorage_ValueIsolation(t *testing.T) {
	s := NewMemoryStorage()
	original := []byte("123")
	s.Set(ctx, "key1", original)

	original[0] = '9'
	val, _ := s.Get(ctx, "key1")
	if string(val) != "123" {
		t.Errorf("stored value changed with caller's slice: %q", val)
	}

	val[0] = '7'
	again, _ := s.Get(ctx, "key1")
	if string(again) != "123" {
		t.Errorf("stored value changed through returned slice: %q", again)
	}
}

func TestMemoryStorage_Concurrent(t *testing.T) {
	s := NewMemoryStorage()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Set(ctx, "focused", []byte("2"))
		}()
		go func() {
			defer wg.Done()
			s.Get(ctx, "focused")
		}()
	}
	wg.Wait()

	val, _ := s.Get(ctx, "focused")
	if string(val) != "2" {
		t.Errorf("Get() = %q, want %q", val, "2")
	}
}
