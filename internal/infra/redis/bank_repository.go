package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"guess-the-app/internal/domain"
)

// BankLoader fetches bank content from a backing store.
type BankLoader interface {
	LoadBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// BankRepository caches whole banks in Redis as JSON and falls back to a
// loader on cache miss. Banks are stored as: SET bank:{bankID} {json} EX ttl
type BankRepository struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewBankRepository(client *redis.Client, loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) (domain.Bank, error) {
	if bank, ok := r.cached(ctx, bankID); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if bank, ok := r.cached(ctx, bankID); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx, bankID)
		if err != nil {
			return domain.Bank{}, err
		}
		if err := bank.Validate(); err != nil {
			return domain.Bank{}, err
		}

		// cache fill is best-effort; a Redis outage only costs a reload
		if data, err := json.Marshal(bank); err == nil {
			_ = r.client.Set(ctx, r.key(bankID), data, r.ttlWithJitter()).Err()
		}
		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

func (r *BankRepository) cached(ctx context.Context, bankID string) (domain.Bank, bool) {
	raw, err := r.client.Get(ctx, r.key(bankID)).Bytes()
	if err != nil {
		return domain.Bank{}, false
	}
	var bank domain.Bank
	if err := json.Unmarshal(raw, &bank); err != nil {
		return domain.Bank{}, false
	}
	if bank.Validate() != nil {
		return domain.Bank{}, false
	}
	return bank, true
}

func (r *BankRepository) key(bankID string) string {
	return "bank:" + bankID
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
