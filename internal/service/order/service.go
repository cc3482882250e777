package order

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"grocermart/internal/domain"
	orderrepo "grocermart/internal/repository/order"
	sessionrepo "grocermart/internal/repository/session"
	"github.com/google/uuid"
)

// Notifier receives orders right after they are persisted. Implementations
// must not block.
type Notifier interface {
	OrderCreated(o domain.Order)
}

// Service owns the order lifecycle: submission from a session cart, the
// Pending-only user cancellation, and the unconstrained admin transitions.
type Service struct {
	orders   orderRepo
	sessions sessionRepo
	notifier Notifier
	logger   *log.Logger
}

type orderRepo interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByOrderID(ctx context.Context, orderID, userEmail string) (*domain.Order, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Order, error)
	List(ctx context.Context, f orderrepo.ListFilter) ([]domain.Order, int, error)
	UpdateStatus(ctx context.Context, orderID, status string) (*domain.Order, error)
}

type sessionRepo interface {
	Get(ctx context.Context, token string) (*sessionrepo.Session, error)
	SaveCart(ctx context.Context, token string, cart *domain.Cart) error
}

func New(orders orderRepo, sessions sessionRepo, notifier Notifier, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{orders: orders, sessions: sessions, notifier: notifier, logger: logger}
}

// LineInput is one submitted order line; prices arrive as dollar amounts.
type LineInput struct {
	Title             string  `json:"title" binding:"required"`
	Quantity          int     `json:"quantity" binding:"required"`
	Category          string  `json:"category" binding:"required"`
	ImagePath         string  `json:"image_path" binding:"required"`
	TotalProductPrice float64 `json:"total_product_price" binding:"required"`
}

// SubmitInput mirrors the order submission payload.
type SubmitInput struct {
	UserEmail     string      `json:"user_email" binding:"required,email"`
	UserName      string      `json:"user_name" binding:"required"`
	Products      []LineInput `json:"products" binding:"required,dive"`
	UserAddress   string      `json:"user_address" binding:"required"`
	UserZipcode   int         `json:"user_zipcode" binding:"required"`
	UserCountry   string      `json:"user_country" binding:"required"`
	UserState     string      `json:"user_state" binding:"required"`
	TotalPrice    float64     `json:"total_price" binding:"required"`
	PaymentStatus bool        `json:"payment_status"`
	Date          string      `json:"date" binding:"required"`
	Time          string      `json:"time" binding:"required"`
	PaymentMethod string      `json:"payment_method"`
}

// AdminListInput filters the admin order listing.
type AdminListInput struct {
	Status     string
	DateFilter string // today | week | month | year
	Page       int
	Limit      int
}

// Submit turns the session cart plus the submitted shipping/payment fields
// into a persisted Pending order. ErrEmptyCart when the session holds no cart
// state. Persisting the order and clearing the cart are two separate steps; a
// crash in between leaves the cart behind and can look like a duplicate
// submission. That gap is inherited deliberately, see the failure-mode notes.
func (s *Service) Submit(ctx context.Context, token string, in SubmitInput) (*domain.Order, error) {
	if token == "" {
		return nil, domain.ErrEmptyCart
	}
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEmptyCart
		}
		return nil, err
	}
	if sess.Cart == nil || sess.Cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	lines := make([]domain.OrderLine, 0, len(in.Products))
	for _, l := range in.Products {
		lines = append(lines, domain.OrderLine{
			Title:      l.Title,
			Quantity:   l.Quantity,
			Category:   l.Category,
			ImagePath:  l.ImagePath,
			TotalCents: domain.DollarsToCents(l.TotalProductPrice),
		})
	}

	order := domain.Order{
		OrderID:       uuid.NewString(),
		UserEmail:     strings.ToLower(strings.TrimSpace(in.UserEmail)),
		UserName:      in.UserName,
		Lines:         lines,
		UserAddress:   in.UserAddress,
		UserZipcode:   in.UserZipcode,
		UserCountry:   in.UserCountry,
		UserState:     in.UserState,
		TotalCents:    domain.DollarsToCents(in.TotalPrice),
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: in.PaymentStatus,
		OrderStatus:   domain.StatusPending,
		Date:          in.Date,
		Time:          in.Time,
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.SaveCart(ctx, token, nil); err != nil {
		// The order is already persisted; the stale cart stays behind until
		// the session expires or the client clears it.
		s.logger.Printf("order service: clear cart after submit order_id=%s error=%v", created.OrderID, err)
	}

	if s.notifier != nil {
		s.notifier.OrderCreated(*created)
	}
	return created, nil
}

// Cancel is the user-initiated transition: allowed from Pending only. Non-admin
// callers can only reach their own orders; a mismatch reads as ErrNotFound.
func (s *Service) Cancel(ctx context.Context, orderID, requesterEmail string, admin bool) (*domain.Order, error) {
	emailFilter := requesterEmail
	if admin {
		emailFilter = ""
	}
	o, err := s.orders.GetByOrderID(ctx, orderID, emailFilter)
	if err != nil {
		return nil, err
	}
	if err := o.Cancel(); err != nil {
		return nil, err
	}
	return s.orders.UpdateStatus(ctx, orderID, o.OrderStatus)
}

// UpdateStatus is the admin overwrite: any status from any status.
func (s *Service) UpdateStatus(ctx context.Context, orderID, status string) (*domain.Order, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, errors.New("status required")
	}
	return s.orders.UpdateStatus(ctx, orderID, status)
}

// Refund marks the order refunded. No payment processor is involved.
func (s *Service) Refund(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.orders.UpdateStatus(ctx, orderID, domain.StatusRefunded)
}

// Get returns one order; non-admin callers only see their own.
func (s *Service) Get(ctx context.Context, orderID, requesterEmail string, admin bool) (*domain.Order, error) {
	emailFilter := requesterEmail
	if admin {
		emailFilter = ""
	}
	return s.orders.GetByOrderID(ctx, orderID, emailFilter)
}

// ListForUser returns the user's orders, newest first by the stored date/time
// strings.
func (s *Service) ListForUser(ctx context.Context, email string) ([]domain.Order, error) {
	return s.orders.ListByEmail(ctx, email)
}

// ListAll pages through every order for the admin dashboard.
func (s *Service) ListAll(ctx context.Context, in AdminListInput) ([]domain.Order, int, int, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = 10
	}
	page := in.Page
	if page < 1 {
		page = 1
	}
	orders, total, err := s.orders.List(ctx, orderrepo.ListFilter{
		Status:   in.Status,
		DateFrom: dateLowerBound(in.DateFilter, time.Now()),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, 0, 0, err
	}
	return orders, total, pageCount(total, limit), nil
}

// dateLowerBound translates the dashboard's relative date filter into the
// inclusive YYYY-MM-DD lower bound the repository compares date strings with.
func dateLowerBound(filter string, now time.Time) string {
	switch filter {
	case "today":
		return now.Format("2006-01-02")
	case "week":
		return now.AddDate(0, 0, -7).Format("2006-01-02")
	case "month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
	case "year":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
	}
	return ""
}

func pageCount(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
