package repository

import (
	"context"
	"errors"
	"fmt"

	"proshop/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

const productColumns = `id, user_id, name, image, brand, category, description, price, count_in_stock, rating, num_reviews, created_at, updated_at`

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Image, &p.Brand, &p.Category, &p.Description,
		&p.Price, &p.CountInStock, &p.Rating, &p.NumReviews, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetPage retrieves one page of products matching the optional keyword.
func (r *productRepository) GetPage(ctx context.Context, keyword string, limit, offset int) ([]model.Product, int, error) {
	pattern := "%" + keyword + "%"

	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE $1 = '' OR name ILIKE $2`, keyword, pattern,
	).Scan(&count)
	if err != nil {
		r.logger.Error().Err(err).Str("keyword", keyword).Msg("failed to count products")
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE $1 = '' OR name ILIKE $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query, keyword, pattern, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Str("keyword", keyword).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, count, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id.String()).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetByIDs retrieves multiple products keyed by id.
func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Product, error) {
	products := make(map[uuid.UUID]model.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query products by IDs")
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products[p.ID] = p
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetTop retrieves the highest-rated products.
func (r *productRepository) GetTop(ctx context.Context, limit int) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY rating DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error().Err(err).Int("limit", limit).Msg("failed to query top products")
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Create inserts a new product.
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	query := `
		INSERT INTO products (id, user_id, name, image, brand, category, description,
			price, count_in_stock, rating, num_reviews, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		product.ID, product.UserID, product.Name, product.Image, product.Brand,
		product.Category, product.Description, product.Price, product.CountInStock,
		product.Rating, product.NumReviews, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", product.ID.String()).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug().Str("product_id", product.ID.String()).Msg("product created successfully")

	return nil
}

// Update persists changes to a product.
func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	query := `
		UPDATE products
		SET name = $2, image = $3, brand = $4, category = $5, description = $6,
			price = $7, count_in_stock = $8, updated_at = $9
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		product.ID, product.Name, product.Image, product.Brand, product.Category,
		product.Description, product.Price, product.CountInStock, product.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", product.ID.String()).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	return nil
}

// Delete removes a product.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	r.logger.Debug().Str("product_id", id.String()).Msg("product deleted")

	return nil
}

// AddReview inserts a review and recomputes the product rating in one transaction.
func (r *productRepository) AddReview(ctx context.Context, review *model.Review) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	insert := `
		INSERT INTO reviews (id, product_id, user_id, name, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.Exec(ctx, insert,
		review.ID, review.ProductID, review.UserID, review.Name, review.Rating,
		review.Comment, review.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.Warn().
				Str("product_id", review.ProductID.String()).
				Str("user_id", review.UserID.String()).
				Msg("product already reviewed by user")
			return model.ErrAlreadyReviewed
		}
		r.logger.Error().Err(err).Str("product_id", review.ProductID.String()).Msg("failed to insert review")
		return fmt.Errorf("failed to insert review: %w", err)
	}

	// Recompute the aggregate from the reviews table so concurrent reviews
	// cannot drift the stored rating.
	aggregate := `
		UPDATE products
		SET rating = sub.avg_rating,
			num_reviews = sub.review_count,
			updated_at = NOW()
		FROM (
			SELECT AVG(rating) AS avg_rating, COUNT(*) AS review_count
			FROM reviews
			WHERE product_id = $1
		) AS sub
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, aggregate, review.ProductID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", review.ProductID.String()).Msg("failed to update product rating")
		return fmt.Errorf("failed to update product rating: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("product_id", review.ProductID.String()).Msg("failed to commit review transaction")
		return fmt.Errorf("failed to commit review transaction: %w", err)
	}

	r.logger.Debug().
		Str("product_id", review.ProductID.String()).
		Str("user_id", review.UserID.String()).
		Msg("review added")

	return nil
}

// GetReviews retrieves all reviews for a product.
func (r *productRepository) GetReviews(ctx context.Context, productID uuid.UUID) ([]model.Review, error) {
	query := `
		SELECT id, product_id, user_id, name, rating, comment, created_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to query reviews")
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var rev model.Review
		err := rows.Scan(&rev.ID, &rev.ProductID, &rev.UserID, &rev.Name, &rev.Rating, &rev.Comment, &rev.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan review row")
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rev)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating review rows")
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}
