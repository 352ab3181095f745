package shared

import "context"

// TransactionManager runs a unit of work inside a single transaction
// boundary. Repositories participating in the unit of work must honor
// the transactional context passed to fn.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
