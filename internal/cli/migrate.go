package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"guess-the-app/internal/config"
	"guess-the-app/internal/domain"
	"guess-the-app/internal/infra/file"
	pgstore "guess-the-app/internal/infra/postgres"
	pgmigrations "guess-the-app/internal/infra/postgres/migrations"
)

// NewMigrateCmd applies database migrations and seeds the question banks.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and seed question banks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), *configPath)
		},
	}
}

func runMigrations(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	return runMigrationsWithConfig(ctx, cfg, log)
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config, log logrus.FieldLogger) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		log.Info("no new migrations")
	} else {
		log.WithField("group", group.String()).Info("migrations applied")
	}
	return seedBanks(ctx, cfg, log)
}

// seedBanks upserts the compiled-in bank and the configured bank file, if any.
func seedBanks(ctx context.Context, cfg config.Config, log logrus.FieldLogger) error {
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	loader := pgstore.NewBankLoader(pool)

	banks := []domain.Bank{domain.DefaultBank()}
	if cfg.Quiz.BankPath != "" && cfg.Quiz.Bank != "" && cfg.Quiz.Bank != domain.DefaultBankID {
		bank, err := file.NewBankLoader(cfg.Quiz.BankPath).LoadBank(ctx, cfg.Quiz.Bank)
		if err != nil {
			return err
		}
		banks = append(banks, bank)
	}
	for _, bank := range banks {
		if err := loader.SaveBank(ctx, bank); err != nil {
			return err
		}
		log.WithField("bank", bank.ID).Info("question bank seeded")
	}
	return nil
}
