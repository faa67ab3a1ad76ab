package repository

import (
	"context"
	"time"

	"proshop/internal/model"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// Create inserts a new user. A duplicate email yields model.ErrEmailTaken.
	Create(ctx context.Context, user *model.User) error

	// GetByID retrieves a user by id, or nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByEmail retrieves a user by email, or nil when absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// Update persists changes to name, email, password hash and admin flag.
	Update(ctx context.Context, user *model.User) error

	// Delete removes a user. Returns model.ErrUserNotFound when absent.
	Delete(ctx context.Context, id uuid.UUID) error

	// GetAll retrieves all users.
	GetAll(ctx context.Context) ([]model.User, error)
}

// ProductRepository defines the interface for catalogue data access operations.
type ProductRepository interface {
	// GetPage retrieves one page of products matching the optional keyword,
	// along with the total match count.
	GetPage(ctx context.Context, keyword string, limit, offset int) ([]model.Product, int, error)

	// GetByID retrieves a single product by its ID, or nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetByIDs retrieves multiple products keyed by id. Missing ids are simply
	// absent from the result map.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Product, error)

	// GetTop retrieves the highest-rated products.
	GetTop(ctx context.Context, limit int) ([]model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, product *model.Product) error

	// Update persists changes to a product.
	Update(ctx context.Context, product *model.Product) error

	// Delete removes a product. Returns model.ErrProductNotFound when absent.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddReview inserts a review and recomputes the product rating in one
	// transaction. A second review by the same user yields model.ErrAlreadyReviewed.
	AddReview(ctx context.Context, review *model.Review) error

	// GetReviews retrieves all reviews for a product.
	GetReviews(ctx context.Context, productID uuid.UUID) ([]model.Review, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// Create inserts an order and its line items in one transaction.
	Create(ctx context.Context, order *model.Order) error

	// GetByID retrieves an order with its items, or nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByUser retrieves all orders placed by the given user.
	GetByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// GetAll retrieves all orders.
	GetAll(ctx context.Context) ([]model.Order, error)

	// TransactionExists reports whether any order already carries the given
	// provider transaction id.
	TransactionExists(ctx context.Context, transactionID string) (bool, error)

	// MarkPaid attaches the payment result to an unpaid order. The update is
	// conditional on is_paid = FALSE; a lost race yields model.ErrAlreadyPaid
	// and a transaction id already recorded on another order yields
	// model.ErrDuplicateTransaction via the unique index on payment_id.
	MarkPaid(ctx context.Context, orderID uuid.UUID, result model.PaymentResult, paidAt time.Time) error

	// MarkDelivered flags an order as delivered. Returns model.ErrOrderNotFound
	// when absent.
	MarkDelivered(ctx context.Context, orderID uuid.UUID, deliveredAt time.Time) error
}
