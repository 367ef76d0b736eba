package snippet

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hyperjump/snippetsaver/internal/models"
	"github.com/hyperjump/snippetsaver/internal/storage"
)

// Credentials reads and writes the Notion configuration in the storage medium.
// Nothing is cached: every Load goes to storage.
type Credentials struct {
	kv storage.KV
}

func NewCredentials(kv storage.KV) *Credentials {
	return &Credentials{kv: kv}
}

// Load returns the stored config. Absent keys yield empty fields.
func (c *Credentials) Load(ctx context.Context) (models.NotionConfig, error) {
	var cfg models.NotionConfig
	token, err := c.getString(ctx, storage.KeyNotionToken)
	if err != nil {
		return cfg, err
	}
	pageID, err := c.getString(ctx, storage.KeyNotionPageID)
	if err != nil {
		return cfg, err
	}
	cfg.IntegrationToken = token
	cfg.TargetPageID = pageID
	return cfg, nil
}

// Save stores both fields. Both must be non-empty after trimming.
func (c *Credentials) Save(ctx context.Context, cfg models.NotionConfig) error {
	cfg.IntegrationToken = strings.TrimSpace(cfg.IntegrationToken)
	cfg.TargetPageID = strings.TrimSpace(cfg.TargetPageID)
	if !cfg.Complete() {
		return fmt.Errorf("please fill in both fields")
	}
	if err := c.setString(ctx, storage.KeyNotionToken, cfg.IntegrationToken); err != nil {
		return err
	}
	return c.setString(ctx, storage.KeyNotionPageID, cfg.TargetPageID)
}

func (c *Credentials) getString(ctx context.Context, key string) (string, error) {
	raw, ok, err := c.kv.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return s, nil
}

func (c *Credentials) setString(ctx context.Context, key, value string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
