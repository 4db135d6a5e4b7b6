package memory

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"guess-the-app/internal/domain"
)

// BankLoader fetches bank content from a backing store (compiled-in, YAML file, Postgres).
type BankLoader interface {
	LoadBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// BankRepository caches banks with TTL to avoid repeated loads.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedBank
}

type cachedBank struct {
	bank      domain.Bank
	expiresAt time.Time
}

func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedBank),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) (domain.Bank, error) {
	if bank, ok := r.cached(bankID); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		if bank, ok := r.cached(bankID); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx, bankID)
		if err != nil {
			return domain.Bank{}, err
		}
		if err := bank.Validate(); err != nil {
			return domain.Bank{}, err
		}

		r.mu.Lock()
		r.cache[bankID] = cachedBank{
			bank:      bank,
			expiresAt: r.clock().Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

func (r *BankRepository) cached(bankID string) (domain.Bank, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.cache[bankID]; ok && entry.expiresAt.After(now) {
		return entry.bank, true
	}
	return domain.Bank{}, false
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticBankLoader serves banks from an in-memory map (the compiled-in catalog, tests).
type StaticBankLoader struct {
	banks map[string]domain.Bank
}

func NewStaticBankLoader(banks ...domain.Bank) *StaticBankLoader {
	byID := make(map[string]domain.Bank, len(banks))
	for _, b := range banks {
		byID[b.ID] = b
	}
	return &StaticBankLoader{banks: byID}
}

func (l *StaticBankLoader) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	if bank, ok := l.banks[bankID]; ok {
		return bank, nil
	}
	return domain.Bank{}, domain.ErrBankNotFound
}

// FallbackBankLoader tries primary first and consults fallback only for banks
// primary does not have.
type FallbackBankLoader struct {
	primary  BankLoader
	fallback BankLoader
}

func NewFallbackBankLoader(primary, fallback BankLoader) *FallbackBankLoader {
	return &FallbackBankLoader{primary: primary, fallback: fallback}
}

func (l *FallbackBankLoader) LoadBank(ctx context.Context, bankID string) (domain.Bank, error) {
	bank, err := l.primary.LoadBank(ctx, bankID)
	if errors.Is(err, domain.ErrBankNotFound) {
		return l.fallback.LoadBank(ctx, bankID)
	}
	return bank, err
}
