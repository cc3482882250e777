package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"grocermart/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `id::text, title, price_cents, COALESCE(price_description, ''), product_description, image_path, category, is_deleted, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Search(ctx context.Context, f SearchFilter) ([]domain.Product, int, error) {
	where := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)

	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		where = append(where, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		args = append(args, c)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	switch f.Status {
	case "active":
		where = append(where, "is_deleted = FALSE")
	case "inactive":
		where = append(where, "is_deleted = TRUE")
	}

	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM products " + clause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Printf("product repo: count error=%v", err)
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM products %s ORDER BY %s", productColumns, clause, orderBy(f.Sort))
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, (page-1)*f.Limit)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Printf("product repo: search error=%v", err)
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, 0, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: search rows error=%v", err)
		return nil, 0, err
	}
	return result, total, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	// ids are UUIDs; anything else cannot match a row and would only trip
	// a cast error in Postgres.
	if uuid.Validate(id) != nil {
		return nil, domain.ErrNotFound
	}
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns)
	var p domain.Product
	if err := scanProduct(r.pool.QueryRow(ctx, query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: get id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (title, price_cents, price_description, product_description, image_path, category, is_deleted)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
RETURNING ` + productColumns
	var out domain.Product
	err := scanProduct(r.pool.QueryRow(ctx, q,
		p.Title, p.PriceCents, p.PriceDescription, p.ProductDescription, p.ImagePath, p.Category, p.IsDeleted,
	), &out)
	if err != nil {
		r.logger.Printf("product repo: create title=%q error=%v", p.Title, err)
		return nil, err
	}
	r.logger.Printf("product repo: created id=%s title=%q", out.ID, out.Title)
	return &out, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
UPDATE products
SET title = $2,
    price_cents = $3,
    price_description = NULLIF($4, ''),
    product_description = $5,
    image_path = $6,
    category = $7,
    is_deleted = $8
WHERE id = $1
RETURNING ` + productColumns
	if uuid.Validate(p.ID) != nil {
		return nil, domain.ErrNotFound
	}
	var out domain.Product
	err := scanProduct(r.pool.QueryRow(ctx, q,
		p.ID, p.Title, p.PriceCents, p.PriceDescription, p.ProductDescription, p.ImagePath, p.Category, p.IsDeleted,
	), &out)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: update id=%s error=%v", p.ID, err)
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return domain.ErrNotFound
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DistinctCategories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT category FROM products ORDER BY category ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func orderBy(sort string) string {
	switch sort {
	case SortTitleDesc:
		return "title DESC"
	case SortPriceAsc:
		return "price_cents ASC"
	case SortPriceDesc:
		return "price_cents DESC"
	case SortCreatedAsc:
		return "created_at ASC"
	case SortCreatedDesc:
		return "created_at DESC"
	default:
		return "title ASC"
	}
}

func scanProduct(row pgx.Row, p *domain.Product) error {
	return row.Scan(
		&p.ID,
		&p.Title,
		&p.PriceCents,
		&p.PriceDescription,
		&p.ProductDescription,
		&p.ImagePath,
		&p.Category,
		&p.IsDeleted,
		&p.CreatedAt,
	)
}
