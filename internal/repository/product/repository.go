package product

import (
	"context"

	"grocermart/internal/domain"
)

// Sort keys accepted by Search. TitleAsc is the default.
const (
	SortTitleAsc    = "title_asc"
	SortTitleDesc   = "title_desc"
	SortPriceAsc    = "price_asc"
	SortPriceDesc   = "price_desc"
	SortCreatedAsc  = "created_asc"
	SortCreatedDesc = "created_desc"
)

// SearchFilter narrows and pages a product listing. Zero values mean "no
// constraint"; Limit 0 disables pagination and returns every match.
type SearchFilter struct {
	Search   string // case-insensitive substring match on title
	Category string // exact category match
	Status   string // "active" (not deleted), "inactive" (deleted), "" (both)
	Sort     string
	Page     int
	Limit    int
}

type Repository interface {
	Search(ctx context.Context, f SearchFilter) ([]domain.Product, int, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	DistinctCategories(ctx context.Context) ([]string, error)
}
