package cli

import "testing"

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()
	if cmd == nil {
		t.Fatal("NewRootCmd() returned nil")
	}
	if cmd.Use != "schedboard" {
		t.Fatalf("Use = %q, want %q", cmd.Use, "schedboard")
	}
	for _, name := range []string{"serve", "snapshot", "focus", "replay", "generate"} {
		if sub, _, err := cmd.Find([]string{name}); err != nil || sub.Name() != name {
			t.Errorf("missing subcommand %q", name)
		}
	}
}
