package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDatabaseFiles(t *testing.T) {
	if DatabaseFiles("") != nil {
		t.Error("empty path should have no files")
	}
	got := DatabaseFiles("/tmp/s.db")
	want := []string{"/tmp/s.db", "/tmp/s.db-wal", "/tmp/s.db-shm"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("file %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDatabaseSize(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "s.db")

	got, err := DatabaseSize(db)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("missing database: got %d bytes, want 0", got)
	}

	if err := os.WriteFile(db, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(db+"-wal", []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err = DatabaseSize(db)
	if err != nil {
		t.Fatal(err)
	}
	if got != 8 {
		t.Errorf("db+wal: got %d bytes, want 8", got)
	}
}

func TestDatabaseSize_LiveSQLite(t *testing.T) {
	db := filepath.Join(t.TempDir(), "live.db")
	kv, err := NewSQLiteKV(db)
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()
	if err := kv.Set(context.Background(), KeySnippets, []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	got, err := DatabaseSize(db)
	if err != nil {
		t.Fatal(err)
	}
	if got == 0 {
		t.Error("expected a non-zero size for a written database")
	}
}
