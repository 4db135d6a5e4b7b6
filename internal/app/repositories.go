package app

import (
	"context"

	"guess-the-app/internal/domain"
)

// BankRepository loads question bank content (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// SessionRepository keeps live controllers addressable by session id so a
// client can reconnect to its session.
type SessionRepository interface {
	Put(c *Controller)
	Get(sessionID string) (*Controller, bool)
	Delete(sessionID string)
}
