package application

import "context"

// UnitOfWork provides the transactional boundary for multi-step mutations.
// Every mutating operation on a booking, out-of-service period or change
// request runs inside one, which also serializes writers per aggregate.
type UnitOfWork interface {
	Begin(ctx context.Context) (context.Context, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UnitOfWorkFunc is a function that executes within a unit of work.
type UnitOfWorkFunc func(ctx context.Context) error

// WithUnitOfWork executes the given function within a unit of work. Any error
// rolls the whole unit back, so multi-entity side effects (a transfer
// truncating one booking and creating another) are all-or-nothing.
func WithUnitOfWork(ctx context.Context, uow UnitOfWork, fn UnitOfWorkFunc) error {
	txCtx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(txCtx); err != nil {
		_ = uow.Rollback(txCtx)
		return err
	}

	return uow.Commit(txCtx)
}
