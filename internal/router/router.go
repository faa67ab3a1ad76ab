package router

import (
	"net/http"

	"proshop/internal/auth"
	"proshop/internal/handler"
	"proshop/internal/middleware"
	"proshop/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates the HTTP router with all routes and middleware configured.
func New(
	userHandler *handler.UserHandler,
	productHandler *handler.ProductHandler,
	orderHandler *handler.OrderHandler,
	uploadHandler *handler.UploadHandler,
	tokens *auth.TokenManager,
	userRepo repository.UserRepository,
	cookieName string,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	requireAuth := middleware.RequireAuth(tokens, userRepo, cookieName, logger)
	requireAdmin := middleware.RequireAdmin(logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/", userHandler.Register)
		r.Post("/auth", userHandler.Login)
		r.Post("/logout", userHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/profile", userHandler.GetProfile)
			r.Put("/profile", userHandler.UpdateProfile)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Get("/", userHandler.GetAll)
				r.Get("/{id}", userHandler.GetByID)
				r.Put("/{id}", userHandler.Update)
				r.Delete("/{id}", userHandler.Delete)
			})
		})
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", productHandler.GetPage)
		r.Get("/top", productHandler.GetTop)
		r.Get("/{id}", productHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/{id}/reviews", productHandler.AddReview)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Post("/", productHandler.Create)
				r.Put("/{id}", productHandler.Update)
				r.Delete("/{id}", productHandler.Delete)
			})
		})
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", orderHandler.Create)
		r.Get("/mine", orderHandler.GetMine)
		r.Get("/{id}", orderHandler.GetByID)
		r.Put("/{id}/pay", orderHandler.Pay)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/", orderHandler.GetAll)
			r.Put("/{id}/deliver", orderHandler.Deliver)
		})
	})

	r.Route("/api/upload", func(r chi.Router) {
		r.Use(requireAuth, requireAdmin)
		r.Post("/", uploadHandler.Upload)
	})

	return r
}
