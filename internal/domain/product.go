package domain

import "time"

type Product struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	PriceCents         int64     `json:"priceCents"`
	PriceDescription   string    `json:"priceDescription,omitempty"`
	ProductDescription string    `json:"productDescription,omitempty"`
	ImagePath          string    `json:"imagePath"`
	Category           string    `json:"category"`
	IsDeleted          bool      `json:"isDeleted"`
	CreatedAt          time.Time `json:"createdAt"`
}
