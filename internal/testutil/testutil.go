// Package testutil provides helpers shared across package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/celeaxy/tradepost/internal/cache"
	"github.com/celeaxy/tradepost/internal/config"
	"github.com/celeaxy/tradepost/internal/store"
)

// NewTestStore opens a store backed by a database file in a per-test temp
// directory and closes it when the test finishes.
func NewTestStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "tradepost.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("failed to close test store: %v", err)
		}
	})
	return st
}

// NewTestConfig returns a default configuration pointed at a per-test data
// directory with an unused port.
func NewTestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Server.DataDir = t.TempDir()
	cfg.Server.Port = 0
	return cfg
}

// NewTestCache returns an enabled list cache sized for tests.
func NewTestCache(t *testing.T) *cache.ListCache {
	t.Helper()

	c, err := cache.New(32, 60, true)
	if err != nil {
		t.Fatalf("failed to create test cache: %v", err)
	}
	return c
}
