package app

import (
	"context"
	"fmt"
	"sync"

	"guess-the-app/internal/domain"
)

// Ledger reconciles session scores with the persisted best score.
type Ledger struct {
	prefs *Preferences

	mu   sync.Mutex
	best int
	has  bool
}

// NewLedger loads the persisted best score. Several ledgers may share one
// Preferences; RecordBest always compares against the stored value.
func NewLedger(ctx context.Context, prefs *Preferences) *Ledger {
	l := &Ledger{prefs: prefs}
	l.best, l.has = prefs.BestScore(ctx)
	return l
}

// Best returns the best score last seen by this ledger and whether one was
// ever recorded.
func (l *Ledger) Best() (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.best, l.has
}

// RecordBest persists sessionScore when it beats the current best. A first
// completed session always sets the best, even with a score of 0.
func (l *Ledger) RecordBest(ctx context.Context, sessionScore, totalQuestions int) (int, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if sessionScore < 0 || sessionScore > totalQuestions {
		return l.best, false, fmt.Errorf("%w: %d of %d", domain.ErrScoreOutOfRange, sessionScore, totalQuestions)
	}
	if l.has && sessionScore <= l.best {
		l.refreshLocked(ctx)
		return l.best, false, nil
	}

	best, updated := l.prefs.RaiseBestScore(ctx, sessionScore)
	l.best = best
	l.has = true
	return best, updated, nil
}

// refreshLocked picks up a higher best recorded through another ledger.
func (l *Ledger) refreshLocked(ctx context.Context) {
	if best, ok := l.prefs.BestScore(ctx); ok && best > l.best {
		l.best = best
	}
}
