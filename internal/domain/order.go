package domain

import "time"

// Order statuses. StatusPending is the only status an order is created with;
// user-initiated cancellation is allowed from Pending only, while admin status
// overwrites are deliberately unconstrained.
const (
	StatusPending   = "Pending"
	StatusCancelled = "Cancelled"
	StatusRefunded  = "Refunded"
)

// OrderLine is one product entry on a persisted order. TotalCents is the line
// total in cents; it is fixed at submission time.
type OrderLine struct {
	Title      string `json:"title"`
	Quantity   int    `json:"quantity"`
	Category   string `json:"category"`
	ImagePath  string `json:"image_path"`
	TotalCents int64  `json:"total_product_price"`
}

// Order is the persisted record created from a cart at checkout. Lines and
// TotalCents are immutable after creation; only OrderStatus and PaymentStatus
// may change. Orders are never deleted, their lifecycle is status-only.
// Date and Time are kept as the two display strings the client submitted;
// ordering over them is plain string comparison.
type Order struct {
	ID            string      `json:"-"`
	OrderID       string      `json:"order_id"`
	UserEmail     string      `json:"user_email"`
	UserName      string      `json:"user_name"`
	Lines         []OrderLine `json:"products"`
	UserAddress   string      `json:"user_address"`
	UserZipcode   int         `json:"user_zipcode"`
	UserCountry   string      `json:"user_country"`
	UserState     string      `json:"user_state"`
	TotalCents    int64       `json:"total_price"`
	PaymentMethod string      `json:"payment_method"`
	PaymentStatus bool        `json:"payment_status"`
	OrderStatus   string      `json:"order_status"`
	Date          string      `json:"date"`
	Time          string      `json:"time"`
	CreatedAt     time.Time   `json:"-"`
}

// Cancel transitions the order to Cancelled. Allowed from Pending only.
func (o *Order) Cancel() error {
	if o.OrderStatus != StatusPending {
		return ErrInvalidTransition
	}
	o.OrderStatus = StatusCancelled
	return nil
}

// SetStatus overwrites the status unconditionally. This is the admin
// operation: no transition table is enforced here, which is an intentional
// policy, not an oversight. User-facing transitions go through Cancel.
func (o *Order) SetStatus(status string) {
	o.OrderStatus = status
}

// Refund marks the order refunded. Payment processor integration is a stub;
// nothing is reversed anywhere else.
func (o *Order) Refund() {
	o.OrderStatus = StatusRefunded
}
