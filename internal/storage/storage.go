// Package storage defines the persistent key-value medium snippets and credentials live in.
package storage

import (
	"context"
)

// Well-known keys.
const (
	KeySnippets     = "snippets"
	KeyNotionToken  = "notionToken"
	KeyNotionPageID = "notionPageId"
)

// KV is a process-wide persistent key-value store. Values are opaque JSON bytes.
// Get reports ok=false for an absent key; readers must treat that as unset.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}
