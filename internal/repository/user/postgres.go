package user

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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id::text, full_name, phone_number, email, password_hash, is_admin, active, created_at, updated_at, password_changed_at`

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

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (full_name, phone_number, email, password_hash, is_admin, active)
VALUES ($1, $2, lower($3), $4, $5, $6)
RETURNING ` + userColumns
	out, err := scanUser(r.pool.QueryRow(ctx, q, u.FullName, u.PhoneNumber, u.Email, u.PasswordHash, u.IsAdmin, u.Active))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("user repo: create email=%s error=%v", u.Email, err)
		return nil, err
	}
	r.logger.Printf("user repo: created id=%s email=%s", out.ID, out.Email)
	return out, nil
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = lower($1) LIMIT 1", userColumns)
	out, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("user repo: get email=%s error=%v", email, err)
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	// ids are UUIDs; anything else cannot match a row and would only trip
	// a cast error in Postgres.
	if uuid.Validate(id) != nil {
		return nil, domain.ErrNotFound
	}
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)
	out, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("user repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.User, int, error) {
	where := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)
	switch f.Role {
	case "admin":
		where = append(where, "is_admin = TRUE")
	case "user":
		where = append(where, "is_admin = FALSE")
	}
	if !f.CreatedFrom.IsZero() {
		args = append(args, f.CreatedFrom)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users "+clause, args...).Scan(&total); err != nil {
		r.logger.Printf("user repo: count error=%v", err)
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM users %s ORDER BY created_at DESC", userColumns, clause)
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
		r.logger.Printf("user repo: list error=%v", err)
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *postgresRepo) UpdateProfile(ctx context.Context, id, fullName, phoneNumber string) (*domain.User, error) {
	query := fmt.Sprintf(`
UPDATE users SET full_name = $2, phone_number = $3, updated_at = now()
WHERE id = $1
RETURNING %s`, userColumns)
	if uuid.Validate(id) != nil {
		return nil, domain.ErrNotFound
	}
	out, err := scanUser(r.pool.QueryRow(ctx, query, id, fullName, phoneNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("user repo: update profile id=%s error=%v", id, err)
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if uuid.Validate(id) != nil {
		return domain.ErrNotFound
	}
	cmd, err := r.pool.Exec(ctx, `
UPDATE users SET password_hash = $2, password_changed_at = now(), updated_at = now()
WHERE id = $1`, id, passwordHash)
	if err != nil {
		r.logger.Printf("user repo: update password id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	query := fmt.Sprintf(`
UPDATE users SET active = $2, updated_at = now()
WHERE id = $1
RETURNING %s`, userColumns)
	if uuid.Validate(id) != nil {
		return nil, domain.ErrNotFound
	}
	out, err := scanUser(r.pool.QueryRow(ctx, query, id, active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("user repo: set active id=%s error=%v", id, err)
		return nil, err
	}
	return out, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.FullName,
		&u.PhoneNumber,
		&u.Email,
		&u.PasswordHash,
		&u.IsAdmin,
		&u.Active,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.PasswordChangedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}
