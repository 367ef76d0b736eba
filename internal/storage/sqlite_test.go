package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteKV_GetSet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "test.db")
	store, err := NewSQLiteKV(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, KeySnippets); err != nil || ok {
		t.Fatalf("absent key: ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, KeySnippets, []byte(`[{"id":1}]`)); err != nil {
		t.Fatal(err)
	}
	got, ok, err := store.Get(ctx, KeySnippets)
	if err != nil || !ok {
		t.Fatalf("Get after Set: ok=%v err=%v", ok, err)
	}
	if string(got) != `[{"id":1}]` {
		t.Errorf("got %s", got)
	}

	if err := store.Set(ctx, KeySnippets, []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	got, _, _ = store.Get(ctx, KeySnippets)
	if string(got) != `[]` {
		t.Errorf("overwrite: got %s", got)
	}
}

func TestSQLiteKV_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	ctx := context.Background()

	store, err := NewSQLiteKV(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, KeyNotionToken, []byte(`"secret_x"`)); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	store, err = NewSQLiteKV(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	got, ok, err := store.Get(ctx, KeyNotionToken)
	if err != nil || !ok || string(got) != `"secret_x"` {
		t.Errorf("after reopen: %s ok=%v err=%v", got, ok, err)
	}
	keys, err := store.Keys(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 || keys[0] != KeyNotionToken {
		t.Errorf("keys: %v", keys)
	}
}

func TestMemoryKV(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	if _, ok, _ := kv.Get(ctx, "x"); ok {
		t.Error("absent key reported present")
	}
	buf := []byte("v1")
	_ = kv.Set(ctx, "x", buf)
	buf[0] = 'X'
	got, ok, _ := kv.Get(ctx, "x")
	if !ok || string(got) != "v1" {
		t.Errorf("stored value should be copied: %s", got)
	}
	_ = kv.Set(ctx, "a", []byte("1"))
	keys, _ := kv.Keys(ctx)
	if len(keys) != 2 || keys[0] != "a" {
		t.Errorf("keys: %v", keys)
	}
}
