package session

import (
	"context"
	"time"

	"grocermart/internal/domain"
)

// Session is one browser session: an opaque token handed out as a cookie, an
// optional authenticated user, and the whole cart serialized on the row. The
// cart is always written back wholesale after a mutation, never patched.
type Session struct {
	Token     string
	UserID    *string
	Cart      *domain.Cart
	CreatedAt time.Time
	ExpiresAt time.Time
}

type Repository interface {
	Create(ctx context.Context, s Session) error
	// Get returns ErrNotFound for unknown or expired tokens; expired rows are
	// removed on read.
	Get(ctx context.Context, token string) (*Session, error)
	BindUser(ctx context.Context, token, userID string) error
	// UnbindUser detaches the user but keeps the session (and its cart) alive.
	UnbindUser(ctx context.Context, token string) error
	// SaveCart rewrites the serialized cart; a nil cart clears it.
	SaveCart(ctx context.Context, token string, cart *domain.Cart) error
	Delete(ctx context.Context, token string) error
}
