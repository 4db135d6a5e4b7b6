package memory

import (
	"context"
	"testing"
	"time"

	"guess-the-app/internal/app"
	"guess-the-app/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore(time.Minute)
	ctrl := newController()

	store.Put(ctrl)
	got, ok := store.Get(ctrl.ID())
	if !ok || got != ctrl {
		t.Fatalf("expected session present")
	}

	store.Delete(ctrl.ID())
	if _, ok := store.Get(ctrl.ID()); ok {
		t.Fatalf("expected session removed")
	}
}

func TestSessionStoreExpiresIdleSessions(t *testing.T) {
	store := NewSessionStore(time.Minute)
	now := time.Now()
	store.clock = func() time.Time { return now }

	stale := newController()
	store.Put(stale)
	now = now.Add(2 * time.Minute)

	fresh := newController()
	store.Put(fresh)
	if store.Len() != 1 {
		t.Fatalf("expected stale session swept, have %d", store.Len())
	}
	if _, ok := store.Get(stale.ID()); ok {
		t.Fatalf("expected stale session gone")
	}
	if _, ok := store.Get(fresh.ID()); !ok {
		t.Fatalf("expected fresh session kept")
	}
}

func newController() *app.Controller {
	prefs := app.NewPreferences(NewKVStore(), nil)
	return app.NewController(context.Background(), domain.DefaultBank(), prefs, app.WithClock(app.NewManualClock()))
}
