package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order represents a purchase with frozen pricing and a payment/delivery lifecycle.
// Totals are computed once at creation and never recomputed; unit prices are
// snapshots of the catalogue at creation time, never client input.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	UserID          uuid.UUID       `json:"user" db:"user_id"`
	Items           []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod" db:"payment_method"`
	ItemsPrice      decimal.Decimal `json:"itemsPrice" db:"items_price"`
	TaxPrice        decimal.Decimal `json:"taxPrice" db:"tax_price"`
	ShippingPrice   decimal.Decimal `json:"shippingPrice" db:"shipping_price"`
	TotalPrice      decimal.Decimal `json:"totalPrice" db:"total_price"`
	IsPaid          bool            `json:"isPaid" db:"is_paid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty" db:"paid_at"`
	PaymentResult   *PaymentResult  `json:"paymentResult,omitempty"`
	IsDelivered     bool            `json:"isDelivered" db:"is_delivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty" db:"delivered_at"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item with the unit price frozen at order creation.
type OrderItem struct {
	ID        uuid.UUID       `json:"-" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID uuid.UUID       `json:"product" db:"product_id"`
	Name      string          `json:"name" db:"name"`
	Quantity  int             `json:"qty" db:"quantity"`
	Image     string          `json:"image" db:"image"`
	UnitPrice decimal.Decimal `json:"price" db:"unit_price"`
}

// ShippingAddress is an address snapshot, immutable after order creation.
type ShippingAddress struct {
	Address    string `json:"address" db:"ship_address"`
	City       string `json:"city" db:"ship_city"`
	PostalCode string `json:"postalCode" db:"ship_postal_code"`
	Country    string `json:"country" db:"ship_country"`
}

// PaymentResult records the verified provider transaction attached to a paid order.
type PaymentResult struct {
	TransactionID string    `json:"id" db:"payment_id"`
	Status        string    `json:"status" db:"payment_status"`
	UpdateTime    string    `json:"updateTime" db:"payment_update_time"`
	PayerEmail    string    `json:"emailAddress" db:"payment_email"`
	ConfirmedAt   time.Time `json:"-" db:"paid_at"`
}

// OrderRequest represents the request payload for creating an order.
// Client-supplied prices are intentionally absent from the item shape used for
// pricing; only product references and quantities are trusted.
type OrderRequest struct {
	Items           []OrderItemRequest `json:"orderItems"`
	ShippingAddress ShippingAddress    `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
}

// OrderItemRequest represents a single item in an order request.
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product"`
	Quantity  int       `json:"qty"`
}

// PaymentClaim represents a client-asserted payment confirmation. The claim is
// never trusted on its own; the transaction id is verified against the provider.
type PaymentClaim struct {
	TransactionID string `json:"id"`
	Status        string `json:"status"`
	UpdateTime    string `json:"updateTime"`
	PayerEmail    string `json:"emailAddress"`
}
