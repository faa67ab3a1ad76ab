package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"proshop/internal/cache"
	"proshop/internal/model"
	"proshop/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// topProductCount is how many products the top-rated listing returns.
const topProductCount = 3

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	cache       cache.Cache
	cacheTTL    time.Duration
	pageSize    int
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	productCache cache.Cache,
	cacheTTL time.Duration,
	pageSize int,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo: productRepo,
		cache:       productCache,
		cacheTTL:    cacheTTL,
		pageSize:    pageSize,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetPage retrieves one page of products matching the optional keyword.
func (s *productService) GetPage(ctx context.Context, keyword string, page int) (*model.ProductPage, error) {
	if page < 1 {
		page = 1
	}
	offset := s.pageSize * (page - 1)

	products, count, err := s.productRepo.GetPage(ctx, keyword, s.pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	pages := (count + s.pageSize - 1) / s.pageSize
	if pages < 1 {
		pages = 1
	}

	if products == nil {
		products = []model.Product{}
	}

	return &model.ProductPage{
		Products: products,
		Page:     page,
		Pages:    pages,
	}, nil
}

// GetByID retrieves a single product with its reviews.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, nil
	}

	reviews, err := s.productRepo.GetReviews(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}
	product.Reviews = reviews

	return product, nil
}

// GetTop retrieves the highest-rated products, served from cache when fresh.
// Cache failures degrade to a direct catalogue read.
func (s *productService) GetTop(ctx context.Context) ([]model.Product, error) {
	key := s.cache.Key("products", "top")

	if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
		var products []model.Product
		if err := json.Unmarshal([]byte(cached), &products); err == nil {
			s.logger.Debug().Msg("top products served from cache")
			return products, nil
		}
		s.logger.Warn().Msg("discarding unreadable cached top products")
	}

	products, err := s.productRepo.GetTop(ctx, topProductCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get top products: %w", err)
	}

	if encoded, err := json.Marshal(products); err == nil {
		_ = s.cache.Set(ctx, key, string(encoded), s.cacheTTL)
	}

	return products, nil
}

// Create inserts a new placeholder product for the admin to edit afterwards.
func (s *productService) Create(ctx context.Context, userID uuid.UUID) (*model.Product, error) {
	now := time.Now()
	product := &model.Product{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        "Sample name",
		Image:       "/images/sample.jpg",
		Brand:       "Sample brand",
		Category:    "Sample category",
		Description: "Sample description",
		Price:       decimal.Zero,
		Rating:      decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", product.ID.String()).Msg("product created")

	return product, nil
}

// Update applies the non-empty fields of the request to a product.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req *model.ProductRequest) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Image != "" {
		product.Image = req.Image
	}
	if req.Brand != "" {
		product.Brand = req.Brand
	}
	if req.Category != "" {
		product.Category = req.Category
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.CountInStock != nil {
		product.CountInStock = *req.CountInStock
	}
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Delete removes a product.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("product_id", id.String()).Msg("product deleted")
	return nil
}

// AddReview records a review by the given user.
func (s *productService) AddReview(ctx context.Context, productID uuid.UUID, user *model.User, req *model.ReviewRequest) error {
	if req == nil || req.Rating < 1 || req.Rating > 5 {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "rating must be between 1 and 5")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return model.ErrProductNotFound
	}

	review := &model.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    user.ID,
		Name:      user.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}

	if err := s.productRepo.AddReview(ctx, review); err != nil {
		return err
	}

	s.logger.Info().
		Str("product_id", productID.String()).
		Str("user_id", user.ID.String()).
		Int("rating", req.Rating).
		Msg("review added")

	return nil
}
