package memory

import (
	"context"
	"testing"
)

func TestKVStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewKVStore()

	if _, ok, err := store.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok, _ := store.Get(ctx, "k"); !ok || v != "v" {
		t.Fatalf("expected v, got %q %v", v, ok)
	}
}
