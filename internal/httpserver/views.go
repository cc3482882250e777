package httpserver

import (
	"sort"
	"time"

	"grocermart/internal/domain"
)

// The wire keeps the dollar-number shape the storefront already speaks; cents
// stay internal.

type lineItemView struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	ImagePath string  `json:"imagePath"`
	Category  string  `json:"category"`
}

func cartItemsView(cart *domain.Cart) []lineItemView {
	lines := cart.LineItems()
	sort.Slice(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })
	items := make([]lineItemView, 0, len(lines))
	for _, l := range lines {
		items = append(items, lineItemView{
			ID:        l.ID,
			Title:     l.Title,
			Quantity:  l.Quantity,
			Price:     domain.CentsToDollars(l.UnitCents),
			ImagePath: l.ImagePath,
			Category:  l.Category,
		})
	}
	return items
}

type orderLineView struct {
	Title             string  `json:"title"`
	Quantity          int     `json:"quantity"`
	Category          string  `json:"category"`
	ImagePath         string  `json:"image_path"`
	TotalProductPrice float64 `json:"total_product_price"`
}

type orderView struct {
	OrderID       string          `json:"order_id"`
	UserEmail     string          `json:"user_email"`
	UserName      string          `json:"user_name"`
	Products      []orderLineView `json:"products"`
	UserAddress   string          `json:"user_address"`
	UserZipcode   int             `json:"user_zipcode"`
	UserCountry   string          `json:"user_country"`
	UserState     string          `json:"user_state"`
	TotalPrice    float64         `json:"total_price"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus bool            `json:"payment_status"`
	OrderStatus   string          `json:"order_status"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
}

func toOrderView(o domain.Order) orderView {
	products := make([]orderLineView, 0, len(o.Lines))
	for _, l := range o.Lines {
		products = append(products, orderLineView{
			Title:             l.Title,
			Quantity:          l.Quantity,
			Category:          l.Category,
			ImagePath:         l.ImagePath,
			TotalProductPrice: domain.CentsToDollars(l.TotalCents),
		})
	}
	return orderView{
		OrderID:       o.OrderID,
		UserEmail:     o.UserEmail,
		UserName:      o.UserName,
		Products:      products,
		UserAddress:   o.UserAddress,
		UserZipcode:   o.UserZipcode,
		UserCountry:   o.UserCountry,
		UserState:     o.UserState,
		TotalPrice:    domain.CentsToDollars(o.TotalCents),
		PaymentMethod: o.PaymentMethod,
		PaymentStatus: o.PaymentStatus,
		OrderStatus:   o.OrderStatus,
		Date:          o.Date,
		Time:          o.Time,
	}
}

func toOrderViews(orders []domain.Order) []orderView {
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	return views
}

type productView struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Price              float64   `json:"price"`
	PriceDescription   string    `json:"price_description"`
	ProductDescription string    `json:"product_description"`
	ImagePath          string    `json:"image_path"`
	Category           string    `json:"category"`
	IsDeleted          bool      `json:"is_deleted"`
	CreatedAt          time.Time `json:"created_at"`
}

func toProductView(p domain.Product) productView {
	return productView{
		ID:                 p.ID,
		Title:              p.Title,
		Price:              domain.CentsToDollars(p.PriceCents),
		PriceDescription:   p.PriceDescription,
		ProductDescription: p.ProductDescription,
		ImagePath:          p.ImagePath,
		Category:           p.Category,
		IsDeleted:          p.IsDeleted,
		CreatedAt:          p.CreatedAt,
	}
}

func toProductViews(products []domain.Product) []productView {
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, toProductView(p))
	}
	return views
}

type userView struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number"`
	Email       string    `json:"email"`
	IsAdmin     bool      `json:"is_admin"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toUserView(u domain.User) userView {
	return userView{
		ID:          u.ID,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		Email:       u.Email,
		IsAdmin:     u.IsAdmin,
		Active:      u.Active,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func toUserViews(users []domain.User) []userView {
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	return views
}
