package postgres

import (
	"context"
	"database/sql"

	"busline/internal/repository"
)

// TransactionManager is a PostgreSQL implementation of
// repository.TransactionManager built on database/sql transactions.
type TransactionManager struct {
	db *sql.DB
}

// NewTransactionManager creates a new TransactionManager.
func NewTransactionManager(db *sql.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

var _ repository.TransactionManager = (*TransactionManager)(nil)

// ExecuteTransaction begins a transaction, hands transaction-scoped
// repositories to fn, and commits. Any error from fn rolls everything back.
func (m *TransactionManager) ExecuteTransaction(ctx context.Context, fn repository.TransactionFunc) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	repos := repository.TxRepositories{
		Bookings:   NewBookingRepositoryWithTx(tx),
		Seats:      NewSeatCommitmentRepositoryWithTx(tx),
		Promotions: NewPromotionRepositoryWithTx(tx),
	}

	if err = fn(ctx, repos); err != nil {
		return err
	}

	return tx.Commit()
}
