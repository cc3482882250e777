package catalog

import (
	"context"
	"errors"
	"strings"

	"grocermart/internal/domain"
	productrepo "grocermart/internal/repository/product"
)

const (
	defaultPublicLimit = 9
	defaultAdminLimit  = 10
)

// Service is the catalog query layer plus the admin product management
// operations.
type Service struct {
	repo productRepo
}

type productRepo interface {
	Search(ctx context.Context, f productrepo.SearchFilter) ([]domain.Product, int, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	DistinctCategories(ctx context.Context) ([]string, error)
}

func New(repo productRepo) *Service {
	return &Service{repo: repo}
}

// Category is one entry of the UI's category selector.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PublicListInput filters the storefront listing.
type PublicListInput struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

// PublicListing is the storefront response. Categories is only populated for
// first-page no-filter requests, where it seeds the UI's category selector.
type PublicListing struct {
	Products   []domain.Product
	Total      int
	Pages      int
	Page       int
	Categories []Category
}

// PublicList returns non-deleted products matching a case-insensitive
// substring title search and/or an exact category. The first page without any
// filter is served unpaginated together with the distinct category list; every
// other request is paginated.
func (s *Service) PublicList(ctx context.Context, in PublicListInput) (*PublicListing, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPublicLimit
	}
	category := strings.TrimSpace(in.Category)
	if category == "all" {
		category = ""
	}
	search := strings.TrimSpace(in.Search)

	if in.Page <= 1 && category == "" && search == "" {
		products, total, err := s.repo.Search(ctx, productrepo.SearchFilter{Status: "active"})
		if err != nil {
			return nil, err
		}
		names, err := s.repo.DistinctCategories(ctx)
		if err != nil {
			return nil, err
		}
		categories := make([]Category, 0, len(names)+1)
		categories = append(categories, Category{ID: "all", Name: "All"})
		for _, name := range names {
			categories = append(categories, Category{ID: name, Name: name})
		}
		return &PublicListing{
			Products:   products,
			Total:      total,
			Pages:      pageCount(total, limit),
			Page:       1,
			Categories: categories,
		}, nil
	}

	products, total, err := s.repo.Search(ctx, productrepo.SearchFilter{
		Search:   search,
		Category: category,
		Status:   "active",
		Page:     in.Page,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}
	page := in.Page
	if page < 1 {
		page = 1
	}
	return &PublicListing{
		Products: products,
		Total:    total,
		Pages:    pageCount(total, limit),
		Page:     page,
	}, nil
}

// AdminListInput filters the management listing; Status is "active",
// "inactive" or empty for both.
type AdminListInput struct {
	Search   string
	Category string
	Status   string
	Sort     string
	Page     int
	Limit    int
}

// AdminList pages through the full product table, deleted products included.
func (s *Service) AdminList(ctx context.Context, in AdminListInput) ([]domain.Product, int, int, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultAdminLimit
	}
	page := in.Page
	if page < 1 {
		page = 1
	}
	products, total, err := s.repo.Search(ctx, productrepo.SearchFilter{
		Search:   in.Search,
		Category: in.Category,
		Status:   in.Status,
		Sort:     in.Sort,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, 0, 0, err
	}
	return products, total, pageCount(total, limit), nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// ProductInput carries the admin create/update payload; Price is dollars.
type ProductInput struct {
	Title              string  `json:"title"`
	Price              float64 `json:"price"`
	PriceDescription   string  `json:"price_description"`
	ProductDescription string  `json:"product_description"`
	ImagePath          string  `json:"image_path"`
	Category           string  `json:"category"`
	IsDeleted          bool    `json:"is_deleted"`
}

func (in ProductInput) toDomain() (domain.Product, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Product{}, errors.New("title required")
	}
	if in.Price < 0 {
		return domain.Product{}, errors.New("price must not be negative")
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = "uncategorized"
	}
	return domain.Product{
		Title:              title,
		PriceCents:         domain.DollarsToCents(in.Price),
		PriceDescription:   in.PriceDescription,
		ProductDescription: in.ProductDescription,
		ImagePath:          in.ImagePath,
		Category:           category,
		IsDeleted:          in.IsDeleted,
	}, nil
}

func (s *Service) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	p, err := in.toDomain()
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	p, err := in.toDomain()
	if err != nil {
		return nil, err
	}
	p.ID = id
	return s.repo.Update(ctx, p)
}

// ToggleStatus flips the soft-delete flag and returns the updated product.
func (s *Service) ToggleStatus(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.IsDeleted = !p.IsDeleted
	return s.repo.Update(ctx, *p)
}

// Delete removes the product row for good. The storefront uses the soft
// delete; this is the admin's hard delete.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ExportAll returns every product, title-ordered, for the spreadsheet export.
func (s *Service) ExportAll(ctx context.Context) ([]domain.Product, error) {
	products, _, err := s.repo.Search(ctx, productrepo.SearchFilter{})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func pageCount(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
