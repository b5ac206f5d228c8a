package repository

import "context"

// TxRepositories bundles the repositories scoped to one transaction.
type TxRepositories struct {
	Bookings   BookingRepository
	Seats      SeatCommitmentRepository
	Promotions PromotionRepository
}

// TransactionFunc runs against transaction-scoped repositories.
type TransactionFunc func(ctx context.Context, r TxRepositories) error

// TransactionManager executes a function inside a single storage
// transaction. The function's error aborts the transaction; nothing it
// wrote is visible afterwards.
type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}
