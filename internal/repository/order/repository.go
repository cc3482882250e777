package order

import (
	"context"

	"grocermart/internal/domain"
)

// ListFilter narrows the admin order listing. DateFrom is an inclusive lower
// bound compared against the stored date string (YYYY-MM-DD), matching how the
// records themselves sort.
type ListFilter struct {
	Status   string
	DateFrom string
	Page     int
	Limit    int
}

type Repository interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	// GetByOrderID looks an order up by its public id. A non-empty userEmail
	// restricts the match to that owner.
	GetByOrderID(ctx context.Context, orderID, userEmail string) (*domain.Order, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Order, error)
	List(ctx context.Context, f ListFilter) ([]domain.Order, int, error)
	UpdateStatus(ctx context.Context, orderID, status string) (*domain.Order, error)
}
