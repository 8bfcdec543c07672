package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore()
	if _, ok, err := m.Get("x"); ok || err != nil {
		t.Fatalf("expected empty store")
	}
	_ = m.Set("b", "2")
	_ = m.Set("a", "1")
	if v, ok, _ := m.Get("a"); !ok || v != "1" {
		t.Fatalf("Get(a) = %q %v", v, ok)
	}
	all, _ := m.All(context.Background())
	if len(all) != 2 || all["b"] != "2" {
		t.Fatalf("All = %v", all)
	}
	all["a"] = "mutated"
	if v, _, _ := m.Get("a"); v != "1" {
		t.Fatalf("All must return a copy")
	}
	_ = m.Remove("a")
	if _, ok, _ := m.Get("a"); ok {
		t.Fatalf("expected a removed")
	}
}

func TestOpenOrMemory_FallsBack(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	core, logs := observer.New(zap.WarnLevel)
	store, closer := OpenOrMemory(context.Background(), filepath.Join(blocker, "db.sqlite"), zap.New(core))
	defer closer()
	if _, ok := store.(*MemoryStore); !ok {
		t.Fatalf("expected MemoryStore fallback, got %T", store)
	}
	if logs.FilterMessage("store_unavailable_using_memory").Len() != 1 {
		t.Fatalf("expected fallback warning, got %v", logs.All())
	}
}

func TestOpenOrMemory_Database(t *testing.T) {
	store, closer := OpenOrMemory(context.Background(), filepath.Join(t.TempDir(), "db.sqlite"), zap.NewNop())
	defer closer()
	if _, ok := store.(*Database); !ok {
		t.Fatalf("expected *Database, got %T", store)
	}
}
