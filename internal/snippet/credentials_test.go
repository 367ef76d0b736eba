package snippet

import (
	"context"
	"testing"

	"github.com/hyperjump/snippetsaver/internal/models"
	"github.com/hyperjump/snippetsaver/internal/storage"
)

func TestCredentials_LoadAbsent(t *testing.T) {
	c := NewCredentials(storage.NewMemoryKV())
	cfg, err := c.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Complete() {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestCredentials_SaveLoad(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	c := NewCredentials(kv)
	if err := c.Save(ctx, models.NotionConfig{IntegrationToken: " secret_x ", TargetPageID: "abc-123"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := c.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.IntegrationToken != "secret_x" || cfg.TargetPageID != "abc-123" {
		t.Errorf("got %+v", cfg)
	}
	raw, _, _ := kv.Get(ctx, storage.KeyNotionToken)
	if string(raw) != `"secret_x"` {
		t.Errorf("stored token = %s", raw)
	}
}

func TestCredentials_SaveRequiresBoth(t *testing.T) {
	c := NewCredentials(storage.NewMemoryKV())
	if err := c.Save(context.Background(), models.NotionConfig{IntegrationToken: "x"}); err == nil {
		t.Error("expected error when page id missing")
	}
}
