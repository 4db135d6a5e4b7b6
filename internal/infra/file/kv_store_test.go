package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"guess-the-app/internal/app"
)

func TestKVStorePersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")

	first := NewKVStore(path)
	if _, ok, err := first.Get(ctx, app.KeyPlayerName); ok || err != nil {
		t.Fatalf("expected empty store, got ok=%v err=%v", ok, err)
	}
	if err := first.Set(ctx, app.KeyPlayerName, "Barbara"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := first.Set(ctx, app.KeyBestScore, "0"); err != nil {
		t.Fatalf("set: %v", err)
	}

	second := NewKVStore(path)
	if v, ok, _ := second.Get(ctx, app.KeyPlayerName); !ok || v != "Barbara" {
		t.Fatalf("expected name to persist, got %q %v", v, ok)
	}
	if v, ok, _ := second.Get(ctx, app.KeyBestScore); !ok || v != "0" {
		t.Fatalf("expected best score zero to persist, got %q %v", v, ok)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temporary file left behind")
	}
}

func TestKVStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("- not\n- a map\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	store := NewKVStore(path)
	if _, _, err := store.Get(context.Background(), app.KeyPlayerName); err == nil {
		t.Fatalf("expected parse error")
	}

	// the gateway treats that as absent
	prefs := app.NewPreferences(store, nil)
	if _, ok := prefs.PlayerName(context.Background()); ok {
		t.Fatalf("expected corrupt file to look empty")
	}
}
