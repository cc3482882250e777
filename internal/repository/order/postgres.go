package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"grocermart/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `id::text, order_id, user_email, user_name, products, user_address, user_zipcode, user_country, user_state, total_cents, COALESCE(payment_method, ''), payment_status, order_status, date, time, created_at`

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

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	lines, err := json.Marshal(o.Lines)
	if err != nil {
		return nil, err
	}
	const q = `
INSERT INTO orders (order_id, user_email, user_name, products, user_address, user_zipcode, user_country, user_state, total_cents, payment_method, payment_status, order_status, date, time)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11, $12, $13, $14)
RETURNING ` + orderColumns
	row := r.pool.QueryRow(ctx, q,
		o.OrderID, o.UserEmail, o.UserName, lines, o.UserAddress, o.UserZipcode,
		o.UserCountry, o.UserState, o.TotalCents, o.PaymentMethod, o.PaymentStatus,
		o.OrderStatus, o.Date, o.Time,
	)
	out, err := scanOrder(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("order repo: create order_id=%s error=%v", o.OrderID, err)
		return nil, err
	}
	r.logger.Printf("order repo: created order_id=%s user=%s total_cents=%d", out.OrderID, out.UserEmail, out.TotalCents)
	return out, nil
}

func (r *postgresRepo) GetByOrderID(ctx context.Context, orderID, userEmail string) (*domain.Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders WHERE order_id = $1", orderColumns)
	args := []interface{}{orderID}
	if userEmail != "" {
		query += " AND lower(user_email) = lower($2)"
		args = append(args, userEmail)
	}
	out, err := scanOrder(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get order_id=%s error=%v", orderID, err)
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) ListByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE lower(user_email) = lower($1) ORDER BY date DESC, time DESC`, orderColumns)
	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		r.logger.Printf("order repo: list email=%s error=%v", email, err)
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.Order, int, error) {
	where := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)
	if s := strings.TrimSpace(f.Status); s != "" {
		args = append(args, s)
		where = append(where, fmt.Sprintf("order_status = $%d", len(args)))
	}
	if f.DateFrom != "" {
		args = append(args, f.DateFrom)
		where = append(where, fmt.Sprintf("date >= $%d", len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders "+clause, args...).Scan(&total); err != nil {
		r.logger.Printf("order repo: count error=%v", err)
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM orders %s ORDER BY date DESC, time DESC", orderColumns, clause)
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
		r.logger.Printf("order repo: list error=%v", err)
		return nil, 0, err
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, orderID, status string) (*domain.Order, error) {
	query := fmt.Sprintf(`UPDATE orders SET order_status = $2 WHERE order_id = $1 RETURNING %s`, orderColumns)
	out, err := scanOrder(r.pool.QueryRow(ctx, query, orderID, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: update status order_id=%s error=%v", orderID, err)
		return nil, err
	}
	r.logger.Printf("order repo: order_id=%s status=%s", out.OrderID, out.OrderStatus)
	return out, nil
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var lines []byte
	if err := row.Scan(
		&o.ID,
		&o.OrderID,
		&o.UserEmail,
		&o.UserName,
		&lines,
		&o.UserAddress,
		&o.UserZipcode,
		&o.UserCountry,
		&o.UserState,
		&o.TotalCents,
		&o.PaymentMethod,
		&o.PaymentStatus,
		&o.OrderStatus,
		&o.Date,
		&o.Time,
		&o.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(lines) > 0 {
		if err := json.Unmarshal(lines, &o.Lines); err != nil {
			return nil, err
		}
	}
	return &o, nil
}
