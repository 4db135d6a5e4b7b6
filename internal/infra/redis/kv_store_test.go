package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"guess-the-app/internal/app"
)

func TestKVStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewKVStore(newClient(mr), "install-1")

	if _, ok, err := store.Get(ctx, app.KeyBestScore); ok || err != nil {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, app.KeyBestScore, "0"); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, ok, err := store.Get(ctx, app.KeyBestScore)
	if err != nil || !ok || value != "0" {
		t.Fatalf("expected stored zero, got %q ok=%v err=%v", value, ok, err)
	}
	if got, _ := mr.Get("install-1:" + app.KeyBestScore); got != "0" {
		t.Fatalf("expected namespaced key, got %q", got)
	}
}

func TestKVStoreBacksPreferencesAcrossRestarts(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	first := app.NewPreferences(NewKVStore(newClient(mr), ""), nil)
	first.SetPlayerName(ctx, "Margaret")
	first.SetSoundEnabled(ctx, false)

	second := app.NewPreferences(NewKVStore(newClient(mr), ""), nil)
	if name, ok := second.PlayerName(ctx); !ok || name != "Margaret" {
		t.Fatalf("expected name to survive, got %q %v", name, ok)
	}
	if second.SoundEnabled(ctx) {
		t.Fatalf("expected sound disabled to survive")
	}
}

func TestKVStoreSurfacesOutage(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := newClient(mr)
	mr.Close()

	ctx := context.Background()
	store := NewKVStore(client, "")
	if err := store.Set(ctx, app.KeyPlayerName, "x"); err == nil {
		t.Fatalf("expected error with redis down")
	}

	prefs := app.NewPreferences(store, nil)
	prefs.SetPlayerName(ctx, "Offline")
	if prefs.Pending() != 1 {
		t.Fatalf("expected write to stay pending, got %d", prefs.Pending())
	}
}
