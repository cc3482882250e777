package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Title              string
	PriceCents         int64
	PriceDescription   string
	ProductDescription string
	ImagePath          string
	Category           string
}

// Apply inserts demo data for manual testing. It is idempotent: products are
// keyed by title, the admin account by email.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Title:              "Apple",
			PriceCents:         300,
			PriceDescription:   "per lb",
			ProductDescription: "Crisp red apples",
			ImagePath:          "images/fruits/apple.png",
			Category:           "fruits",
		},
		{
			Title:              "Banana",
			PriceCents:         150,
			PriceDescription:   "per bunch",
			ProductDescription: "Fresh yellow bananas",
			ImagePath:          "images/fruits/banana.png",
			Category:           "fruits",
		},
		{
			Title:              "Sourdough Bread",
			PriceCents:         500,
			PriceDescription:   "per loaf",
			ProductDescription: "Stone-baked sourdough",
			ImagePath:          "images/bakery/sourdough.png",
			Category:           "bakery",
		},
		{
			Title:              "Whole Milk",
			PriceCents:         350,
			PriceDescription:   "per gallon",
			ProductDescription: "Grade A whole milk",
			ImagePath:          "images/dairy/milk.png",
			Category:           "dairy",
		},
		{
			Title:              "Cheddar Cheese",
			PriceCents:         650,
			PriceDescription:   "per block",
			ProductDescription: "Aged sharp cheddar",
			ImagePath:          "images/dairy/cheddar.png",
			Category:           "dairy",
		},
		{
			Title:              "Baby Spinach",
			PriceCents:         400,
			PriceDescription:   "per bag",
			ProductDescription: "Washed baby spinach leaves",
			ImagePath:          "images/vegetables/spinach.png",
			Category:           "vegetables",
		},
	}

	for _, p := range products {
		if err := insertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("insert product %s: %w", p.Title, err)
		}
	}

	if err := ensureAdmin(ctx, pool, "admin@grocermart.local", "admin123"); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	return nil
}

func insertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (title, price_cents, price_description, product_description, image_path, category)
SELECT $1, $2, $3, $4, $5, $6
WHERE NOT EXISTS (SELECT 1 FROM products WHERE title = $1)
`
	_, err := pool.Exec(ctx, q, p.Title, p.PriceCents, p.PriceDescription, p.ProductDescription, p.ImagePath, p.Category)
	return err
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (full_name, phone_number, email, password_hash, is_admin, active)
VALUES ('Store Admin', '', lower($1), $2, TRUE, TRUE)
ON CONFLICT (email) DO NOTHING
`
	_, err = pool.Exec(ctx, q, email, string(hashed))
	return err
}
