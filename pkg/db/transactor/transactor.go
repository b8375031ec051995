package transactor

import (
	"context"
)

// Transactor runs function within a single unit of work
type Transactor interface {
	WithinTransaction(context.Context, func(context.Context) error) error
}
