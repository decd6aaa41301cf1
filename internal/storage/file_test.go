package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStorage_SetGetPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "local.json")
	s, err := NewFileStorage(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Set(ctx, "focused", []byte("3")); err != nil {
		t.Fatal(err)
	}

	// A second instance on the same file sees the value.
	again, err := NewFileStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	val, err := again.Get(ctx, "focused")
	if err != nil {
		t.Fatal(err)
	}
	if string(val) != "3" {
		t.Errorf("Get() = %q, want %q", val, "3")
	}

	data, _ := os.ReadFile(path)
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("storage file is not a JSON object: %v", err)
	}
	if string(raw["focused"]) != "3" {
		t.Errorf("file content = %s", data)
	}
}

func TestFileStorage_GetMissingFile(t *testing.T) {
	s, _ := NewFileStorage(filepath.Join(t.TempDir(), "local.json"))

	val, err := s.Get(ctx, "focused")
	if err != nil {
		t.Fatal(err)
	}
	if val != nil {
		t.Errorf("Get() = %q, want nil", val)
	}
}

func TestFileStorage_RejectsInvalidJSON(t *testing.T) {
	s, _ := NewFileStorage(filepath.Join(t.TempDir(), "local.json"))

	if err := s.Set(ctx, "focused", []byte("{not json")); err == nil {
		t.Error("expected error for non-JSON value")
	}
}

func TestFileStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.json")
	os.WriteFile(path, []byte("not json at all"), 0o644)
	s, _ := NewFileStorage(path)

	if _, err := s.Get(ctx, "focused"); err == nil {
		t.Error("expected error for corrupt storage file")
	}
}

func TestFileStorage_DeleteKeepsOtherKeys(t *testing.T) {
	s, _ := NewFileStorage(filepath.Join(t.TempDir(), "local.json"))
	s.Set(ctx, "focused", []byte("1"))
	s.Set(ctx, "theme", []byte(`"dark"`))

	if err := s.Delete(ctx, "focused"); err != nil {
		t.Fatal(err)
	}
	if val, _ := s.Get(ctx, "focused"); val != nil {
		t.Error("focused should be deleted")
	}
	if val, _ := s.Get(ctx, "theme"); string(val) != `"dark"` {
		t.Errorf("theme = %q, want %q", val, `"dark"`)
	}
}

func TestNewFileStorage_EmptyPath(t *testing.T) {
	if _, err := NewFileStorage(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestOpen_Backends(t *testing.T) {
	s, err := Open(ctx, Options{Backend: BackendMemory})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*MemoryStorage); !ok {
		t.Errorf("memory backend = %T", s)
	}

	s, err = Open(ctx, Options{Backend: BackendFile, FilePath: filepath.Join(t.TempDir(), "local.json")})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*FileStorage); !ok {
		t.Errorf("file backend = %T", s)
	}

	if _, err := Open(ctx, Options{Backend: "bogus"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}
