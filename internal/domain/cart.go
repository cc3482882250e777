package domain

// CartItem is one line of a cart: a snapshot of the product at the time it was
// added, the chosen quantity, and the derived line subtotal in cents. The
// subtotal is never stored independently of its inputs; every mutation
// recomputes it from unit price and quantity.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Price    int64   `json:"price"`
}

// Cart aggregates the items selected within one session. It is a value type:
// reconstructed from the session store on each request, mutated, and written
// back wholesale. TotalQuantity and TotalPrice are always recomputed over all
// items after any mutation, never patched incrementally.
type Cart struct {
	Items         map[string]CartItem `json:"items"`
	TotalQuantity int                 `json:"totalQuantity"`
	TotalPrice    int64               `json:"totalPrice"`
}

// CartLineView is the display projection of one cart line. Price is the unit
// price in cents, not the line subtotal.
type CartLineView struct {
	ID        string
	Title     string
	Quantity  int
	UnitCents int64
	ImagePath string
	Category  string
}

// NewCart builds a cart over previously stored items and recomputes totals.
func NewCart(items map[string]CartItem) *Cart {
	if items == nil {
		items = make(map[string]CartItem)
	}
	c := &Cart{Items: items}
	c.recomputeTotals()
	return c
}

// Add merges quantity into the line for the product, creating the line when
// absent. Quantity must be a positive integer.
func (c *Cart) Add(p Product, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if c.Items == nil {
		c.Items = make(map[string]CartItem)
	}
	item, ok := c.Items[p.ID]
	if !ok {
		item = CartItem{Product: p}
	}
	item.Quantity += quantity
	item.Price = item.Product.PriceCents * int64(item.Quantity)
	c.Items[p.ID] = item
	c.recomputeTotals()
	return nil
}

// UpdateQuantity overwrites the quantity of an existing line. Absent product
// ids are a no-op. Any integer is accepted, matching the permissive behavior
// of the cart this one replaces.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	item, ok := c.Items[productID]
	if !ok {
		return
	}
	item.Quantity = quantity
	item.Price = item.Product.PriceCents * int64(item.Quantity)
	c.Items[productID] = item
	c.recomputeTotals()
}

// RemoveItem deletes the line for the product id. Absent ids are a no-op.
func (c *Cart) RemoveItem(productID string) {
	delete(c.Items, productID)
	c.recomputeTotals()
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// LineItems returns display projections of the current lines.
func (c *Cart) LineItems() []CartLineView {
	views := make([]CartLineView, 0, len(c.Items))
	for id, item := range c.Items {
		views = append(views, CartLineView{
			ID:        id,
			Title:     item.Product.Title,
			Quantity:  item.Quantity,
			UnitCents: item.Product.PriceCents,
			ImagePath: item.Product.ImagePath,
			Category:  item.Product.Category,
		})
	}
	return views
}

func (c *Cart) recomputeTotals() {
	c.TotalQuantity = 0
	c.TotalPrice = 0
	for _, item := range c.Items {
		c.TotalQuantity += item.Quantity
		c.TotalPrice += item.Price
	}
}
