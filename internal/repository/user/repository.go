package user

import (
	"context"
	"time"

	"grocermart/internal/domain"
)

// ListFilter narrows the admin user listing. Role is "admin" or "user";
// CreatedFrom is an inclusive lower bound on the account creation time.
type ListFilter struct {
	Role        string
	CreatedFrom time.Time
	Page        int
	Limit       int
}

type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, f ListFilter) ([]domain.User, int, error)
	UpdateProfile(ctx context.Context, id, fullName, phoneNumber string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
}
