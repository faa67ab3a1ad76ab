package integration

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container with the application schema
// applied.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing. It mirrors
// scripts/schema.sql.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			name          VARCHAR(255) NOT NULL,
			email         VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			is_admin      BOOLEAN NOT NULL DEFAULT FALSE,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS products (
			id             UUID PRIMARY KEY,
			user_id        UUID NOT NULL REFERENCES users(id),
			name           VARCHAR(255) NOT NULL,
			image          VARCHAR(500) NOT NULL DEFAULT '',
			brand          VARCHAR(255) NOT NULL DEFAULT '',
			category       VARCHAR(255) NOT NULL DEFAULT '',
			description    TEXT NOT NULL DEFAULT '',
			price          DECIMAL(12, 2) NOT NULL DEFAULT 0,
			count_in_stock INTEGER NOT NULL DEFAULT 0,
			rating         DECIMAL(3, 2) NOT NULL DEFAULT 0,
			num_reviews    INTEGER NOT NULL DEFAULT 0,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS reviews (
			id         UUID PRIMARY KEY,
			product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			user_id    UUID NOT NULL REFERENCES users(id),
			name       VARCHAR(255) NOT NULL,
			rating     INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			comment    TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (product_id, user_id)
		);

		CREATE TABLE IF NOT EXISTS orders (
			id                  UUID PRIMARY KEY,
			user_id             UUID NOT NULL REFERENCES users(id),
			payment_method      VARCHAR(50) NOT NULL DEFAULT '',
			items_price         DECIMAL(12, 2) NOT NULL,
			tax_price           DECIMAL(12, 2) NOT NULL,
			shipping_price      DECIMAL(12, 2) NOT NULL,
			total_price         DECIMAL(12, 2) NOT NULL,
			ship_address        VARCHAR(500) NOT NULL DEFAULT '',
			ship_city           VARCHAR(255) NOT NULL DEFAULT '',
			ship_postal_code    VARCHAR(50) NOT NULL DEFAULT '',
			ship_country        VARCHAR(255) NOT NULL DEFAULT '',
			is_paid             BOOLEAN NOT NULL DEFAULT FALSE,
			paid_at             TIMESTAMPTZ,
			payment_id          VARCHAR(255),
			payment_status      VARCHAR(50),
			payment_update_time VARCHAR(50),
			payment_email       VARCHAR(255),
			is_delivered        BOOLEAN NOT NULL DEFAULT FALSE,
			delivered_at        TIMESTAMPTZ,
			created_at          TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at          TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_payment_id
			ON orders (payment_id) WHERE payment_id IS NOT NULL;

		CREATE TABLE IF NOT EXISTS order_items (
			id         UUID PRIMARY KEY,
			order_id   UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id UUID NOT NULL REFERENCES products(id),
			name       VARCHAR(255) NOT NULL,
			quantity   INTEGER NOT NULL CHECK (quantity > 0),
			image      VARCHAR(500) NOT NULL DEFAULT '',
			unit_price DECIMAL(12, 2) NOT NULL
		);
	`

	if _, err := pool.Exec(ctx, schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}
