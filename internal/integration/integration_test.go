package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"guess-the-app/internal/app"
	"guess-the-app/internal/domain"
	pgstore "guess-the-app/internal/infra/postgres"
	pgmigrations "guess-the-app/internal/infra/postgres/migrations"
	infraredis "guess-the-app/internal/infra/redis"
)

func TestSessionPersistsBestScoreEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateSchema(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgstore.NewBankLoader(pool)
	if err := loader.SaveBank(ctx, domain.DefaultBank()); err != nil {
		t.Fatalf("seed bank: %v", err)
	}
	if _, err := loader.LoadBank(ctx, "missing"); !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected bank not found, got %v", err)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()
	banks := infraredis.NewBankRepository(redisClient, loader, 5*time.Minute)
	sessions := infraredis.NewSessionStore(redisClient, 5*time.Minute)

	bank, err := banks.GetBank(ctx, domain.DefaultBankID)
	if err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if len(bank.Questions) != len(domain.DefaultBank().Questions) {
		t.Fatalf("expected %d questions, got %d", len(domain.DefaultBank().Questions), len(bank.Questions))
	}

	prefs := app.NewPreferences(pgstore.NewKVStore(pool), nil)
	ctrl := app.NewController(ctx, bank, prefs, app.WithClock(app.NewManualClock()))
	defer ctrl.Close()
	sessions.Put(ctrl)

	if err := ctrl.SubmitName(ctx, "Alice"); err != nil {
		t.Fatalf("submit name: %v", err)
	}
	if err := ctrl.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := range bank.Questions {
		if !ctrl.SubmitAnswer(true) {
			t.Fatalf("answer %d did not resolve", i+1)
		}
		if err := ctrl.Advance(ctx); err != nil {
			t.Fatalf("advance %d: %v", i+1, err)
		}
	}
	if snap := ctrl.Snapshot(); snap.Phase != domain.PhaseThankYou || snap.Summary == nil || !snap.Summary.NewBest {
		t.Fatalf("expected completed session with new best, got %+v", snap)
	}

	// a fresh gateway sees what the finished session persisted
	reloaded := app.NewPreferences(pgstore.NewKVStore(pool), nil)
	if best, ok := reloaded.BestScore(ctx); !ok || best != len(bank.Questions) {
		t.Fatalf("expected persisted best %d, got %d %v", len(bank.Questions), best, ok)
	}
	if name, ok := reloaded.PlayerName(ctx); !ok || name != "Alice" {
		t.Fatalf("expected persisted name Alice, got %q %v", name, ok)
	}

	if got, ok := sessions.Get(ctrl.ID()); !ok || got != ctrl {
		t.Fatalf("expected session to be resumable from redis marker")
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateSchema(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
