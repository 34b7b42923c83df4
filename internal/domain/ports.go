package domain

import (
	"context"

	"github.com/google/uuid"
)

type ProductRepo interface {
	Save(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, f ProductFilter) ([]Product, int64, error)
	AddImages(ctx context.Context, productID uuid.UUID, imgs []ImageRecord) error
	ListVariants(ctx context.Context, productID uuid.UUID) ([]Variant, error)
}

type OrderRepo interface {
	Save(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context, f OrderFilter) ([]Order, error)
	MarkNotified(ctx context.Context, id uuid.UUID) error
}

// Notifier dispatches an operator notification. Implementations are expected
// to fail; callers treat any error as non-fatal.
type Notifier interface {
	Send(ctx context.Context, n OperatorNotification) error
}

// OrderQueue is the degraded-path store used when the primary repo is down.
type OrderQueue interface {
	Enqueue(o *Order) error
	Pending() ([]Order, error)
	Remove(id uuid.UUID) error
}
