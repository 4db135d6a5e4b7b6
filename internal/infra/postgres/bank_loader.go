package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"guess-the-app/internal/domain"
)

// BankLoader loads question bank JSONB from Postgres.
type BankLoader struct {
	pool *pgxpool.Pool
}

func NewBankLoader(pool *pgxpool.Pool) *BankLoader {
	return &BankLoader{pool: pool}
}

func (l *BankLoader) LoadBank(ctx context.Context, bankID string) (domain.Bank, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_banks WHERE id=$1`, bankID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Bank{}, fmt.Errorf("load bank %s: %w", bankID, domain.ErrBankNotFound)
	}
	if err != nil {
		return domain.Bank{}, fmt.Errorf("load bank: %w", err)
	}
	var bank domain.Bank
	if err := json.Unmarshal(raw, &bank); err != nil {
		return domain.Bank{}, fmt.Errorf("unmarshal bank: %w", err)
	}
	if bank.ID == "" {
		bank.ID = bankID
	}
	return bank, nil
}

// SaveBank upserts a bank document; used to seed the table.
func (l *BankLoader) SaveBank(ctx context.Context, bank domain.Bank) error {
	if err := bank.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(bank)
	if err != nil {
		return fmt.Errorf("marshal bank: %w", err)
	}
	_, err = l.pool.Exec(ctx,
		`INSERT INTO question_banks (id, data) VALUES ($1, $2::jsonb)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		bank.ID, string(data))
	if err != nil {
		return fmt.Errorf("save bank: %w", err)
	}
	return nil
}
