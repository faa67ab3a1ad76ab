package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"proshop/internal/model"
	"proshop/internal/payment"
	"proshop/internal/pricing"
	"proshop/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	pricer      *pricing.Engine
	verifier    payment.Verifier
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	pricer *pricing.Engine,
	verifier payment.Verifier,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		pricer:      pricer,
		verifier:    verifier,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// Create prices the cart against the catalogue and persists a new unpaid order.
func (s *orderService) Create(ctx context.Context, userID uuid.UUID, req *model.OrderRequest) (*model.Order, error) {
	if req == nil || len(req.Items) == 0 {
		return nil, model.ErrEmptyCart
	}

	productIDs := make([]uuid.UUID, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, model.ErrInvalidQuantity
		}
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to resolve cart products")
		return nil, fmt.Errorf("failed to resolve cart products: %w", err)
	}

	now := time.Now()
	orderID := uuid.New()
	items := make([]model.OrderItem, len(req.Items))
	lineItems := make([]pricing.LineItem, len(req.Items))
	for i, item := range req.Items {
		product, ok := products[item.ProductID]
		if !ok {
			s.logger.Warn().Str("product_id", item.ProductID.String()).Msg("unknown product in cart")
			return nil, model.NewDomainError(model.ErrCodeProductNotFound,
				fmt.Sprintf("Product %s not found", item.ProductID))
		}

		// Unit price, name and image are snapshots of the catalogue record.
		items[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			Image:     product.Image,
			UnitPrice: product.Price,
		}
		lineItems[i] = pricing.LineItem{
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		}
	}

	totals, err := s.pricer.Price(lineItems)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		ID:              orderID,
		UserID:          userID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ItemsPrice:      totals.ItemsTotal,
		TaxPrice:        totals.TaxTotal,
		ShippingPrice:   totals.ShippingTotal,
		TotalPrice:      totals.GrandTotal,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to persist order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("user_id", userID.String()).
		Int("item_count", len(items)).
		Str("total", totals.GrandTotal.String()).
		Msg("order created")

	return order, nil
}

// GetByID retrieves an order.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// GetMine retrieves the calling user's orders.
func (s *orderService) GetMine(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orderRepo.GetByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get user orders")
		return nil, fmt.Errorf("failed to get user orders: %w", err)
	}
	return orders, nil
}

// GetAll retrieves all orders.
func (s *orderService) GetAll(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get orders")
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, nil
}

// Pay verifies a claimed payment and transitions the order to paid.
//
// The sequence is: load, reject if already paid, reject a reused transaction
// id, verify with the provider, then a conditional write. The conditional
// write re-checks is_paid so a concurrent confirmation that slipped past the
// initial load still loses the race cleanly. The whole operation is safe to
// retry: a replay of the same claim fails as AlreadyPaid or
// DuplicateTransaction instead of double-applying.
func (s *orderService) Pay(ctx context.Context, orderID uuid.UUID, claim *model.PaymentClaim) (*model.Order, error) {
	if claim == nil || claim.TransactionID == "" {
		return nil, model.ErrMissingPaymentID
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	if order.IsPaid {
		return nil, model.ErrAlreadyPaid
	}

	used, err := s.orderRepo.TransactionExists(ctx, claim.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check transaction reuse: %w", err)
	}
	if used {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("transaction_id", claim.TransactionID).
			Msg("rejected reused transaction id")
		return nil, model.ErrDuplicateTransaction
	}

	// The verifier call holds no lock or transaction; its own HTTP timeout
	// bounds how long a confirmation can stall.
	verification, err := s.verifier.Verify(ctx, claim.TransactionID)
	if err != nil {
		if errors.Is(err, model.ErrProviderUnavailable) {
			s.logger.Error().
				Err(err).
				Str("order_id", orderID.String()).
				Str("transaction_id", claim.TransactionID).
				Msg("payment provider unavailable, rejecting confirmation")
			return nil, model.ErrProviderUnavailable
		}
		return nil, fmt.Errorf("payment verification failed: %w", err)
	}

	if !verification.Verified {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("transaction_id", claim.TransactionID).
			Str("provider_status", verification.RawStatus).
			Msg("provider did not confirm transaction")
		return nil, model.ErrPaymentUnverified
	}

	if !verification.Amount.Equal(order.TotalPrice) {
		// Flagged for manual review; the order stays unpaid until reconciled.
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("transaction_id", claim.TransactionID).
			Str("order_total", order.TotalPrice.String()).
			Str("paid_amount", verification.Amount.String()).
			Msg("provider-reported amount disagrees with order total")
		return nil, model.ErrAmountMismatch
	}

	payerEmail := verification.PayerEmail
	if payerEmail == "" {
		payerEmail = claim.PayerEmail
	}
	updateTime := claim.UpdateTime
	if updateTime == "" {
		updateTime = time.Now().UTC().Format(time.RFC3339)
	}

	result := model.PaymentResult{
		TransactionID: claim.TransactionID,
		Status:        verification.RawStatus,
		UpdateTime:    updateTime,
		PayerEmail:    payerEmail,
	}

	if err := s.orderRepo.MarkPaid(ctx, orderID, result, time.Now()); err != nil {
		var domainErr *model.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to record payment")
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	updated, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("transaction_id", claim.TransactionID).
		Msg("payment confirmed")

	return updated, nil
}

// Deliver transitions a paid order to delivered. Delivery of an unpaid order
// is rejected.
func (s *orderService) Deliver(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	if !order.IsPaid {
		return nil, model.ErrOrderNotPaid
	}

	if err := s.orderRepo.MarkDelivered(ctx, orderID, time.Now()); err != nil {
		var domainErr *model.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to mark order delivered")
		return nil, fmt.Errorf("failed to mark order delivered: %w", err)
	}

	updated, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}

	return updated, nil
}
