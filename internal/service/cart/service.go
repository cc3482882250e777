package cart

import (
	"context"
	"errors"

	"grocermart/internal/domain"
	sessionrepo "grocermart/internal/repository/session"
)

// Service applies cart mutations to the session-held cart: the cart is
// reconstructed from the session row, mutated as a value, and written back
// wholesale. No lock is taken; concurrent mutations of the same session are
// last-write-wins at the session store.
type Service struct {
	sessions sessionRepo
	products productRepo
}

type sessionRepo interface {
	Get(ctx context.Context, token string) (*sessionrepo.Session, error)
	SaveCart(ctx context.Context, token string, cart *domain.Cart) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(sessions sessionRepo, products productRepo) *Service {
	return &Service{sessions: sessions, products: products}
}

// Get returns the session's cart. Missing sessions and sessions without a cart
// read as an empty cart.
func (s *Service) Get(ctx context.Context, token string) (*domain.Cart, error) {
	if token == "" {
		return domain.NewCart(nil), nil
	}
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewCart(nil), nil
		}
		return nil, err
	}
	if sess.Cart == nil {
		return domain.NewCart(nil), nil
	}
	return domain.NewCart(sess.Cart.Items), nil
}

// Add looks the product up, merges it into the session cart and stores the
// cart back. The session must already exist.
func (s *Service) Add(ctx context.Context, token, productID string, quantity int) (*domain.Cart, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	var cart *domain.Cart
	if sess.Cart != nil {
		cart = domain.NewCart(sess.Cart.Items)
	} else {
		cart = domain.NewCart(nil)
	}
	if err := cart.Add(*product, quantity); err != nil {
		return nil, err
	}
	if err := s.sessions.SaveCart(ctx, token, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity overwrites the quantity of one line. ErrNotFound when the
// session holds no cart; an absent item id is a no-op.
func (s *Service) UpdateQuantity(ctx context.Context, token, itemID string, quantity int) (*domain.Cart, error) {
	cart, err := s.sessionCart(ctx, token)
	if err != nil {
		return nil, err
	}
	cart.UpdateQuantity(itemID, quantity)
	if err := s.sessions.SaveCart(ctx, token, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Remove deletes one line. ErrNotFound when the session holds no cart; an
// absent item id is a no-op.
func (s *Service) Remove(ctx context.Context, token, itemID string) (*domain.Cart, error) {
	cart, err := s.sessionCart(ctx, token)
	if err != nil {
		return nil, err
	}
	cart.RemoveItem(itemID)
	if err := s.sessions.SaveCart(ctx, token, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear drops the cart from the session. Clearing a session that has no cart
// (or no session at all) succeeds.
func (s *Service) Clear(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.SaveCart(ctx, token, nil); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

func (s *Service) sessionCart(ctx context.Context, token string) (*domain.Cart, error) {
	if token == "" {
		return nil, domain.ErrNotFound
	}
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess.Cart == nil {
		return nil, domain.ErrNotFound
	}
	return domain.NewCart(sess.Cart.Items), nil
}
