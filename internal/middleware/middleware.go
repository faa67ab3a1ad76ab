package middleware

import (
	"context"
	"net/http"
	"time"

	"proshop/internal/auth"
	"proshop/internal/model"
	"proshop/internal/repository"

	"github.com/rs/zerolog"
)

type contextKey string

// userContextKey is where RequireAuth stores the resolved user.
const userContextKey contextKey = "user"

// UserFrom returns the authenticated user stored in the request context.
func UserFrom(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	return user, ok
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// RequireAuth resolves the session cookie to a user and stores it in the
// request context, rejecting the request when the cookie is missing, invalid
// or refers to a deleted account.
func RequireAuth(tokens *auth.TokenManager, users repository.UserRepository, cookieName string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				logger.Warn().Str("path", r.URL.Path).Msg("missing session cookie")
				unauthorised(w, "Not authorized, no token")
				return
			}

			userID, err := tokens.Parse(cookie.Value)
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("invalid session token")
				unauthorised(w, "Not authorized, token failed")
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to resolve session user")
				unauthorised(w, "Not authorized, token failed")
				return
			}
			if user == nil {
				logger.Warn().Str("user_id", userID.String()).Msg("session refers to unknown user")
				unauthorised(w, "Not authorized, token failed")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin rejects requests whose authenticated user is not an
// administrator. It must run after RequireAuth.
func RequireAdmin(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFrom(r.Context())
			if !ok || !user.IsAdmin {
				logger.Warn().Str("path", r.URL.Path).Msg("non-admin access to admin endpoint")
				unauthorised(w, "Not authorized as an admin")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorised(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error": "` + model.ErrCodeUnauthorised + `", "message": "` + message + `"}`))
}

// Logging logs HTTP requests with timing information.
func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.statusCode).
				Dur("duration", duration).
				Str("remote_addr", r.RemoteAddr).
				Msg("http request")
		})
	}
}

// Recovery recovers from panics and returns a 500 error.
func Recovery(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error().
						Interface("panic", err).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Msg("panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"error": "` + model.ErrCodeInternalError + `"}`))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// CORS adds CORS headers to the response.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code.
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
