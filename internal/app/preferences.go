package app

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Persisted keys. Values are stored as text.
const (
	KeyPlayerName   = "guessTheApp_playerName"
	KeyBestScore    = "guessTheApp_bestScore"
	KeySoundEnabled = "guessTheApp_soundEnabled"
)

// storeTimeout bounds every store call so a slow backend cannot stall a round.
const storeTimeout = 2 * time.Second

// KVStore abstracts where preferences live (memory, file, Redis, Postgres).
// Get reports ok=false when the key has never been written.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Preferences is the best-effort gateway to persisted player data.
// Read failures look like absent keys. Failed writes stay pending and are
// retried ahead of the next write.
type Preferences struct {
	store KVStore
	log   logrus.FieldLogger

	mu      sync.Mutex
	pending map[string]string

	// bestMu serializes RaiseBestScore across controllers sharing p.
	bestMu sync.Mutex
}

func NewPreferences(store KVStore, log logrus.FieldLogger) *Preferences {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Preferences{
		store:   store,
		log:     log,
		pending: make(map[string]string),
	}
}

// PlayerName returns the persisted display name.
func (p *Preferences) PlayerName(ctx context.Context) (string, bool) {
	name, ok := p.get(ctx, KeyPlayerName)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

func (p *Preferences) SetPlayerName(ctx context.Context, name string) {
	p.set(ctx, KeyPlayerName, name)
}

// BestScore returns the persisted best score. 0 with ok=true is a real score.
func (p *Preferences) BestScore(ctx context.Context) (int, bool) {
	raw, ok := p.get(ctx, KeyBestScore)
	if !ok {
		return 0, false
	}
	best, err := strconv.Atoi(raw)
	if err != nil || best < 0 {
		p.log.WithField("value", raw).Warn("ignoring malformed best score")
		return 0, false
	}
	return best, true
}

func (p *Preferences) SetBestScore(ctx context.Context, best int) {
	p.set(ctx, KeyBestScore, strconv.Itoa(best))
}

// RaiseBestScore persists score when it beats the stored best, or when no
// best exists yet. It returns the resulting best and whether it changed.
func (p *Preferences) RaiseBestScore(ctx context.Context, score int) (int, bool) {
	p.bestMu.Lock()
	defer p.bestMu.Unlock()
	if best, ok := p.BestScore(ctx); ok && score <= best {
		return best, false
	}
	p.SetBestScore(ctx, score)
	return score, true
}

// SoundEnabled defaults to true when nothing is stored.
func (p *Preferences) SoundEnabled(ctx context.Context) bool {
	raw, ok := p.get(ctx, KeySoundEnabled)
	if !ok {
		return true
	}
	return raw == "true"
}

func (p *Preferences) SetSoundEnabled(ctx context.Context, enabled bool) {
	p.set(ctx, KeySoundEnabled, strconv.FormatBool(enabled))
}

// Pending returns how many writes are waiting to be retried.
func (p *Preferences) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

func (p *Preferences) get(ctx context.Context, key string) (string, bool) {
	p.mu.Lock()
	if value, ok := p.pending[key]; ok {
		p.mu.Unlock()
		return value, true
	}
	p.mu.Unlock()

	if p.store == nil {
		return "", false
	}
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	value, ok, err := p.store.Get(ctx, key)
	if err != nil {
		p.log.WithError(err).WithField("key", key).Warn("preference read failed, using default")
		return "", false
	}
	return value, ok
}

func (p *Preferences) set(ctx context.Context, key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pending[key] = value
	if p.store == nil {
		return
	}

	keys := make([]string, 0, len(p.pending))
	for k := range p.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	for _, k := range keys {
		if err := p.store.Set(ctx, k, p.pending[k]); err != nil {
			p.log.WithError(err).WithField("key", k).Warn("preference write failed, will retry")
			continue
		}
		delete(p.pending, k)
	}
}
