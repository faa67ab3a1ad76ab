package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalogue item. Price is the authoritative unit price;
// order line items snapshot it at creation time.
type Product struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	UserID       uuid.UUID       `json:"user" db:"user_id"`
	Name         string          `json:"name" db:"name"`
	Image        string          `json:"image" db:"image"`
	Brand        string          `json:"brand" db:"brand"`
	Category     string          `json:"category" db:"category"`
	Description  string          `json:"description" db:"description"`
	Price        decimal.Decimal `json:"price" db:"price"`
	CountInStock int             `json:"countInStock" db:"count_in_stock"`
	Rating       decimal.Decimal `json:"rating" db:"rating"`
	NumReviews   int             `json:"numReviews" db:"num_reviews"`
	Reviews      []Review        `json:"reviews,omitempty"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`
}

// Review represents a customer review of a product.
type Review struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"-" db:"product_id"`
	UserID    uuid.UUID `json:"user" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ProductRequest represents the request payload for creating or updating a product.
type ProductRequest struct {
	Name         string           `json:"name"`
	Image        string           `json:"image"`
	Brand        string           `json:"brand"`
	Category     string           `json:"category"`
	Description  string           `json:"description"`
	Price        *decimal.Decimal `json:"price"`
	CountInStock *int             `json:"countInStock"`
}

// ReviewRequest represents the request payload for creating a review.
type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ProductPage represents one page of a paginated product listing.
type ProductPage struct {
	Products []Product `json:"products"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
}
