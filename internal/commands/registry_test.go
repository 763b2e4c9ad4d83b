package commands

import (
	"testing"
)

func TestRegistry_FindByAlias(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&RmCmd{}); err != nil {
		t.Fatalf("register: %v", err)
	}

	for _, name := range []string{"rm", "delete"} {
		cmd, ok := r.Find(name)
		if !ok {
			t.Fatalf("expected %q to resolve", name)
		}
		if cmd.Name() != "rm" {
			t.Errorf("Find(%q) = %q, want rm", name, cmd.Name())
		}
	}
}

func TestRegistry_DuplicateAlias(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&AddCmd{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(&AddCmd{}); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestDefaultRegistry_All(t *testing.T) {
	want := []string{"add", "done", "edit", "help", "list", "login", "logout", "rm", "signup", "version", "whoami"}

	all := DefaultRegistry.All()
	if len(all) != len(want) {
		t.Fatalf("expected %d commands, got %d", len(want), len(all))
	}
	for i, cmd := range all {
		if cmd.Name() != want[i] {
			t.Errorf("command %d: expected %q, got %q", i, want[i], cmd.Name())
		}
		if cmd.Synopsis() == "" {
			t.Errorf("%s: empty synopsis", cmd.Name())
		}
	}
}
