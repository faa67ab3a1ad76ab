// Seeds the database with an admin account and a small sample catalogue.
// Run with: go run ./scripts/seed
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"proshop/internal/auth"
	"proshop/internal/config"
	"proshop/internal/database"
	"proshop/internal/model"
	"proshop/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := zerolog.Nop()
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)

	hash, err := auth.HashPassword("123456")
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now()
	admin := &model.User{
		ID:           uuid.New(),
		Name:         "Admin User",
		Email:        "admin@example.com",
		PasswordHash: hash,
		IsAdmin:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			log.Println("Admin user already exists, skipping user seed")
			existing, getErr := userRepo.GetByEmail(ctx, admin.Email)
			if getErr != nil || existing == nil {
				log.Fatalf("Failed to load existing admin user: %v", getErr)
			}
			admin = existing
		} else {
			log.Fatalf("Failed to create admin user: %v", err)
		}
	}

	samples := []struct {
		name        string
		image       string
		brand       string
		category    string
		description string
		price       string
		stock       int
	}{
		{
			name:        "Airpods Wireless Bluetooth Headphones",
			image:       "/images/airpods.jpg",
			brand:       "Apple",
			category:    "Electronics",
			description: "Bluetooth technology lets you connect it with compatible devices wirelessly",
			price:       "89.99",
			stock:       10,
		},
		{
			name:        "iPhone 13 Pro 256GB Memory",
			image:       "/images/phone.jpg",
			brand:       "Apple",
			category:    "Electronics",
			description: "Introducing the iPhone 13 Pro. A transformative triple-camera system",
			price:       "599.99",
			stock:       7,
		},
		{
			name:        "Cannon EOS 80D DSLR Camera",
			image:       "/images/camera.jpg",
			brand:       "Cannon",
			category:    "Electronics",
			description: "Characterized by versatile imaging specs and a robust focusing system",
			price:       "929.99",
			stock:       5,
		},
		{
			name:        "Sony Playstation 5",
			image:       "/images/playstation.jpg",
			brand:       "Sony",
			category:    "Electronics",
			description: "The ultimate home entertainment center starts with PlayStation",
			price:       "399.99",
			stock:       11,
		},
		{
			name:        "Logitech G-Series Gaming Mouse",
			image:       "/images/mouse.jpg",
			brand:       "Logitech",
			category:    "Electronics",
			description: "Get a better handle on your games with this Logitech LIGHTSYNC gaming mouse",
			price:       "49.99",
			stock:       7,
		},
		{
			name:        "Amazon Echo Dot 3rd Generation",
			image:       "/images/alexa.jpg",
			brand:       "Amazon",
			category:    "Electronics",
			description: "Meet Echo Dot - Our most popular smart speaker with a fabric design",
			price:       "29.99",
			stock:       0,
		},
	}

	for _, sample := range samples {
		product := &model.Product{
			ID:           uuid.New(),
			UserID:       admin.ID,
			Name:         sample.name,
			Image:        sample.image,
			Brand:        sample.brand,
			Category:     sample.category,
			Description:  sample.description,
			Price:        decimal.RequireFromString(sample.price),
			CountInStock: sample.stock,
			Rating:       decimal.Zero,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := productRepo.Create(ctx, product); err != nil {
			log.Fatalf("Failed to create product %q: %v", sample.name, err)
		}
		log.Printf("Seeded product: %s", sample.name)
	}

	log.Println("Database seeded successfully")
}
