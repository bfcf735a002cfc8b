package testsupport

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"dupescan/internal/config"
	"dupescan/internal/fingerprint"
	"dupescan/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SaveScan persists records under a fresh scan and returns it.
func SaveScan(t testing.TB, st *store.Store, root string, records []*fingerprint.Record) store.Scan {
	t.Helper()

	now := time.Now()
	scan := store.Scan{ID: uuid.NewString(), Root: root, StartedAt: now, FinishedAt: now}
	if err := st.SaveScan(context.Background(), scan, records); err != nil {
		t.Fatalf("store.SaveScan: %v", err)
	}
	scan.FileCount = len(records)
	return scan
}
