package repotest

import (
	"context"

	"shopunit-catalog/internal/domain/repository"
)

// MemTxManager adapts a MemStore to repository.TxManager: there is no real
// transaction, so WithinTx/WithinReadOnlyTx just hand the same store to fn.
// Good enough for exercising internal/service's orchestration without a
// database.
type MemTxManager struct {
	Store *MemStore
}

// NewMemTxManager constructs a MemTxManager over a fresh MemStore.
func NewMemTxManager() *MemTxManager {
	return &MemTxManager{Store: NewMemStore()}
}

func (t *MemTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, store repository.Store) error) error {
	return fn(ctx, t.Store)
}

func (t *MemTxManager) WithinReadOnlyTx(ctx context.Context, fn func(ctx context.Context, store repository.Store) error) error {
	return fn(ctx, t.Store)
}
