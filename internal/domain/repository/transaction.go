package repository

import "context"

// TransactionManager defines the interface for managing database transactions.
// This allows the use case layer to handle transactions without depending on
// a specific DB driver like GORM.
type TransactionManager interface {
	// Execute runs a function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// Otherwise, it's committed. All repository operations obtained from
	// the factory use the same database transaction.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides repository instances bound to a specific
// transaction, so every store touched by one report/cancel commits or rolls
// back as a unit.
type RepositoryFactory interface {
	// RiskUserRepo returns a RiskUserRepository bound to the current transaction.
	RiskUserRepo() RiskUserRepository

	// IdentifierRepo returns an IdentifierRepository bound to the current transaction.
	IdentifierRepo() IdentifierRepository

	// ProfileRepo returns a ProfileRepository bound to the current transaction.
	ProfileRepo() ProfileRepository

	// OrderRepo returns a RefundOrderRepository bound to the current transaction.
	OrderRepo() RefundOrderRepository
}
