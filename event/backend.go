package event

import (
	"context"

	"github.com/agentflow/agentcore/agentcoreerr"
)

// StorageBackend is the polymorphic persistence adapter for events. It is
// expressed as a capability set rather than an inheritance hierarchy: every
// backend implements the full interface, but some operations legitimately
// return ErrUnsupported (e.g. the append-only file backend's deletes).
type StorageBackend interface {
	Store(ctx context.Context, e Event) error
	Retrieve(ctx context.Context, filter Expr, limit int) ([]Event, error)
	RetrieveByIDs(ctx context.Context, ids []string) ([]Event, error)
	DeleteByIDs(ctx context.Context, ids []string) (int, error)
	DeleteByFilter(ctx context.Context, filter Expr) (int, error)
	Count(ctx context.Context, filter Expr) (int, error)
	Clear(ctx context.Context) error
	Close() error
}

// ErrUnsupported is returned by backend operations that are declared
// unsupported by design (e.g. deletes on an append-only log).
func ErrUnsupported(op string) error {
	return agentcoreerr.New(agentcoreerr.CodeUnsupported, "operation not supported by this backend: "+op)
}

func matchesFilter(e Event, filter Expr) bool {
	if filter == nil {
		return true
	}
	return filter.Evaluate(e)
}
