package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"proshop/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

const orderColumns = `id, user_id, payment_method,
	items_price, tax_price, shipping_price, total_price,
	ship_address, ship_city, ship_postal_code, ship_country,
	is_paid, paid_at, payment_id, payment_status, payment_update_time, payment_email,
	is_delivered, delivered_at, created_at, updated_at`

func scanOrder(row pgx.Row) (model.Order, error) {
	var (
		o                 model.Order
		paymentID         *string
		paymentStatus     *string
		paymentUpdateTime *string
		paymentEmail      *string
	)

	err := row.Scan(
		&o.ID, &o.UserID, &o.PaymentMethod,
		&o.ItemsPrice, &o.TaxPrice, &o.ShippingPrice, &o.TotalPrice,
		&o.ShippingAddress.Address, &o.ShippingAddress.City,
		&o.ShippingAddress.PostalCode, &o.ShippingAddress.Country,
		&o.IsPaid, &o.PaidAt, &paymentID, &paymentStatus, &paymentUpdateTime, &paymentEmail,
		&o.IsDelivered, &o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return o, err
	}

	if paymentID != nil {
		result := model.PaymentResult{TransactionID: *paymentID}
		if paymentStatus != nil {
			result.Status = *paymentStatus
		}
		if paymentUpdateTime != nil {
			result.UpdateTime = *paymentUpdateTime
		}
		if paymentEmail != nil {
			result.PayerEmail = *paymentEmail
		}
		if o.PaidAt != nil {
			result.ConfirmedAt = *o.PaidAt
		}
		o.PaymentResult = &result
	}

	return o, nil
}

// Create inserts an order and its line items in one transaction.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	insertOrder := `
		INSERT INTO orders (id, user_id, payment_method,
			items_price, tax_price, shipping_price, total_price,
			ship_address, ship_city, ship_postal_code, ship_country,
			is_paid, is_delivered, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, FALSE, FALSE, $12, $13)
	`

	_, err = tx.Exec(ctx, insertOrder,
		order.ID, order.UserID, order.PaymentMethod,
		order.ItemsPrice, order.TaxPrice, order.ShippingPrice, order.TotalPrice,
		order.ShippingAddress.Address, order.ShippingAddress.City,
		order.ShippingAddress.PostalCode, order.ShippingAddress.Country,
		order.CreatedAt, order.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	insertItem := `
		INSERT INTO order_items (id, order_id, product_id, name, quantity, image, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for _, item := range order.Items {
		batch.Queue(insertItem, item.ID, item.OrderID, item.ProductID, item.Name, item.Quantity, item.Image, item.UnitPrice)
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < len(order.Items); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			r.logger.Error().
				Err(err).
				Str("order_id", order.ID.String()).
				Str("product_id", order.Items[i].ProductID.String()).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to flush order item batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit order transaction")
		return fmt.Errorf("failed to commit order transaction: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Int("item_count", len(order.Items)).
		Msg("order created successfully")

	return nil
}

// GetByID retrieves an order with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.getItems(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	order.Items = items[id]

	return &order, nil
}

// GetByUser retrieves all orders placed by the given user.
func (r *orderRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, userID)
}

// GetAll retrieves all orders.
func (r *orderRepository) GetAll(ctx context.Context) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.queryOrders(ctx, query)
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	var ids []uuid.UUID
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	items, err := r.getItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}

	return orders, nil
}

// getItems loads line items for the given order ids, keyed by order id.
func (r *orderRepository) getItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]model.OrderItem, error) {
	items := make(map[uuid.UUID][]model.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return items, nil
	}

	query := `
		SELECT id, order_id, product_id, name, quantity, image, unit_price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		r.logger.Error().Err(err).Int("order_count", len(orderIDs)).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Quantity, &item.Image, &item.UnitPrice)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

// TransactionExists reports whether any order already carries the given
// provider transaction id.
func (r *orderRepository) TransactionExists(ctx context.Context, transactionID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE payment_id = $1)`, transactionID,
	).Scan(&exists)
	if err != nil {
		r.logger.Error().Err(err).Str("transaction_id", transactionID).Msg("failed to check transaction reuse")
		return false, fmt.Errorf("failed to check transaction reuse: %w", err)
	}
	return exists, nil
}

// MarkPaid attaches the payment result to an unpaid order.
//
// The is_paid = FALSE condition makes the read-then-write race safe: of two
// concurrent confirmations for the same order, exactly one update matches.
// The partial unique index on payment_id is the cross-order safety net: a
// transaction id already recorded elsewhere fails the insert with a unique
// violation instead of succeeding.
func (r *orderRepository) MarkPaid(ctx context.Context, orderID uuid.UUID, result model.PaymentResult, paidAt time.Time) error {
	query := `
		UPDATE orders
		SET is_paid = TRUE,
			paid_at = $2,
			payment_id = $3,
			payment_status = $4,
			payment_update_time = $5,
			payment_email = $6,
			updated_at = $2
		WHERE id = $1 AND is_paid = FALSE
	`

	tag, err := r.pool.Exec(ctx, query,
		orderID, paidAt, result.TransactionID, result.Status, result.UpdateTime, result.PayerEmail)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.Warn().
				Str("order_id", orderID.String()).
				Str("transaction_id", result.TransactionID).
				Msg("transaction id already recorded on another order")
			return model.ErrDuplicateTransaction
		}
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to mark order paid")
		return fmt.Errorf("failed to mark order paid: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Warn().Str("order_id", orderID.String()).Msg("conditional paid update matched no rows")
		return model.ErrAlreadyPaid
	}

	r.logger.Info().
		Str("order_id", orderID.String()).
		Str("transaction_id", result.TransactionID).
		Msg("order marked paid")

	return nil
}

// MarkDelivered flags an order as delivered.
func (r *orderRepository) MarkDelivered(ctx context.Context, orderID uuid.UUID, deliveredAt time.Time) error {
	query := `
		UPDATE orders
		SET is_delivered = TRUE, delivered_at = $2, updated_at = $2
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, orderID, deliveredAt)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to mark order delivered")
		return fmt.Errorf("failed to mark order delivered: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	r.logger.Info().Str("order_id", orderID.String()).Msg("order marked delivered")

	return nil
}
