package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"guess-the-app/internal/app"
	"guess-the-app/internal/config"
	"guess-the-app/internal/domain"
	"guess-the-app/internal/infra/file"
	"guess-the-app/internal/infra/memory"
	pgstore "guess-the-app/internal/infra/postgres"
	redisstore "guess-the-app/internal/infra/redis"
	"guess-the-app/internal/logging"
)

// backends holds the optional shared connections named in config.
type backends struct {
	redis *redis.Client
	pool  *pgxpool.Pool
}

func openBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	b := &backends{}
	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.pool = pool
	}
	return b, nil
}

func (b *backends) Close() {
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
}

func newLogger(cfg config.Config) (*logrus.Logger, error) {
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}
	return log, nil
}

// newBankRepository layers the configured source over the compiled-in bank,
// behind a Redis cache when Redis is configured.
func newBankRepository(cfg config.Config, b *backends) app.BankRepository {
	var loader memory.BankLoader = memory.NewStaticBankLoader(domain.DefaultBank())
	switch {
	case b.pool != nil:
		loader = memory.NewFallbackBankLoader(pgstore.NewBankLoader(b.pool), loader)
	case cfg.Quiz.BankPath != "":
		loader = memory.NewFallbackBankLoader(file.NewBankLoader(cfg.Quiz.BankPath), loader)
	}

	ttl := config.TTLDuration(cfg.Quiz.BankTTL, 10*time.Minute)
	if b.redis != nil {
		return redisstore.NewBankRepository(b.redis, loader, ttl)
	}
	return memory.NewBankRepository(loader, ttl)
}

// newPreferenceStore picks the key-value backend for player preferences.
// An empty backend falls back to def.
func newPreferenceStore(cfg config.Config, b *backends, def string) (app.KVStore, error) {
	backend := cfg.Storage.Backend
	if backend == "" {
		backend = def
	}
	switch backend {
	case config.StorageMemory:
		return memory.NewKVStore(), nil
	case config.StorageFile:
		path := cfg.Storage.Path
		if path == "" {
			path = defaultPreferencesPath()
		}
		return file.NewKVStore(path), nil
	case config.StorageRedis:
		if b.redis == nil {
			return nil, fmt.Errorf("storage backend redis: redis.addr not configured")
		}
		return redisstore.NewKVStore(b.redis, cfg.Redis.Namespace), nil
	case config.StoragePostgres:
		if b.pool == nil {
			return nil, fmt.Errorf("storage backend postgres: postgres.url not configured")
		}
		return pgstore.NewKVStore(b.pool), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

func defaultPreferencesPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "guess-the-app", "preferences.yaml")
}

func bankID(cfg config.Config) string {
	if cfg.Quiz.Bank != "" {
		return cfg.Quiz.Bank
	}
	return domain.DefaultBankID
}

func controllerOptions(cfg config.Config, log logrus.FieldLogger) []app.Option {
	return []app.Option{
		app.WithLogger(log),
		app.WithRoundBudget(cfg.Quiz.RoundTicks, config.TTLDuration(cfg.Quiz.Tick, app.DefaultTickInterval)),
	}
}
