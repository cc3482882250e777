package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"grocermart/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, s Session) error {
	const q = `
INSERT INTO sessions (token, user_id, cart, expires_at)
VALUES ($1, $2, $3, $4)
`
	var cart []byte
	if s.Cart != nil {
		var err error
		cart, err = json.Marshal(s.Cart)
		if err != nil {
			return err
		}
	}
	_, err := r.pool.Exec(ctx, q, s.Token, s.UserID, cart, s.ExpiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *postgresRepo) Get(ctx context.Context, token string) (*Session, error) {
	const q = `
SELECT token, user_id::text, cart, created_at, expires_at
FROM sessions
WHERE token = $1
LIMIT 1
`
	var s Session
	var userID *string
	var cart []byte
	if err := r.pool.QueryRow(ctx, q, token).Scan(&s.Token, &userID, &cart, &s.CreatedAt, &s.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if time.Now().After(s.ExpiresAt) {
		_ = r.Delete(ctx, token)
		return nil, domain.ErrNotFound
	}
	s.UserID = userID
	if len(cart) > 0 {
		var c domain.Cart
		if err := json.Unmarshal(cart, &c); err != nil {
			return nil, err
		}
		s.Cart = &c
	}
	return &s, nil
}

func (r *postgresRepo) BindUser(ctx context.Context, token, userID string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE sessions SET user_id = $2 WHERE token = $1`, token, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) UnbindUser(ctx context.Context, token string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE sessions SET user_id = NULL WHERE token = $1`, token)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) SaveCart(ctx context.Context, token string, cart *domain.Cart) error {
	var payload []byte
	if cart != nil {
		var err error
		payload, err = json.Marshal(cart)
		if err != nil {
			return err
		}
	}
	cmd, err := r.pool.Exec(ctx, `UPDATE sessions SET cart = $2 WHERE token = $1`, token, payload)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, token string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
