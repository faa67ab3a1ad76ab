package service

import (
	"context"

	"proshop/internal/model"

	"github.com/google/uuid"
)

// UserService defines operations for registration, authentication and
// account management.
type UserService interface {
	// Register creates a new user account with a hashed password.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)

	// Login authenticates by email and password.
	Login(ctx context.Context, req *model.LoginRequest) (*model.User, error)

	// GetByID retrieves a user, or nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// UpdateProfile updates the calling user's own name, email or password.
	UpdateProfile(ctx context.Context, id uuid.UUID, req *model.UpdateProfileRequest) (*model.User, error)

	// GetAll retrieves all users (admin).
	GetAll(ctx context.Context) ([]model.User, error)

	// UpdateUser updates another user's account (admin).
	UpdateUser(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error)

	// Delete removes a user (admin).
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductService defines operations for catalogue management.
type ProductService interface {
	// GetPage retrieves one page of products matching the optional keyword.
	GetPage(ctx context.Context, keyword string, page int) (*model.ProductPage, error)

	// GetByID retrieves a single product with its reviews, or nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetTop retrieves the highest-rated products.
	GetTop(ctx context.Context) ([]model.Product, error)

	// Create inserts a new placeholder product owned by the given admin.
	Create(ctx context.Context, userID uuid.UUID) (*model.Product, error)

	// Update applies the non-empty fields of the request to a product.
	Update(ctx context.Context, id uuid.UUID, req *model.ProductRequest) (*model.Product, error)

	// Delete removes a product.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddReview records a review by the given user, one per user per product.
	AddReview(ctx context.Context, productID uuid.UUID, user *model.User, req *model.ReviewRequest) error
}

// OrderService owns the order lifecycle: created, then paid, then delivered.
type OrderService interface {
	// Create prices the cart against the catalogue and persists a new unpaid
	// order. Unit prices are frozen from catalogue records, never client input.
	Create(ctx context.Context, userID uuid.UUID, req *model.OrderRequest) (*model.Order, error)

	// GetByID retrieves an order, or nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetMine retrieves the calling user's orders.
	GetMine(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// GetAll retrieves all orders (admin).
	GetAll(ctx context.Context) ([]model.Order, error)

	// Pay verifies a claimed payment with the provider and transitions the
	// order to paid exactly once.
	Pay(ctx context.Context, orderID uuid.UUID, claim *model.PaymentClaim) (*model.Order, error)

	// Deliver transitions a paid order to delivered (admin).
	Deliver(ctx context.Context, orderID uuid.UUID) (*model.Order, error)
}
