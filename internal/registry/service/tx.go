package service

import "context"

// inMemoryStoreTx is the no-op transaction scope used with the in-memory
// stores, which enforce their own consistency under a lock. SQL-backed
// deployments install a real runner via WithTx.
type inMemoryStoreTx struct{}

func newInMemoryStoreTx() StoreTx {
	return inMemoryStoreTx{}
}

func (inMemoryStoreTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
