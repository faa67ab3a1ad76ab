package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"proshop/internal/auth"
	"proshop/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

const testCookieName = "jwt"

func authedHandler(t *testing.T, expected *model.User) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFrom(r.Context())
		require.True(t, ok, "user should be in context")
		assert.Equal(t, expected.ID, user.ID)
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_ValidCookie(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	users := new(MockUserRepository)

	user := &model.User{ID: uuid.New(), Name: "Jane"}
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	token, err := tokens.Issue(user.ID)
	require.NoError(t, err)

	handler := RequireAuth(tokens, users, testCookieName, zerolog.Nop())(authedHandler(t, user))

	req := httptest.NewRequest(http.MethodGet, "/api/orders/mine", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_MissingCookie(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	handler := RequireAuth(tokens, new(MockUserRepository), testCookieName, zerolog.Nop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be reached")
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/orders/mine", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	handler := RequireAuth(tokens, new(MockUserRepository), testCookieName, zerolog.Nop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be reached")
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/orders/mine", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: "garbage"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_DeletedUser(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	users := new(MockUserRepository)

	userID := uuid.New()
	users.On("GetByID", mock.Anything, userID).Return(nil, nil)

	token, err := tokens.Issue(userID)
	require.NoError(t, err)

	handler := RequireAuth(tokens, users, testCookieName, zerolog.Nop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be reached")
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/orders/mine", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	handler := RequireAdmin(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req = req.WithContext(WithUser(req.Context(), &model.User{ID: uuid.New(), IsAdmin: true}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin_RejectsNonAdmin(t *testing.T) {
	handler := RequireAdmin(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req = req.WithContext(WithUser(req.Context(), &model.User{ID: uuid.New()}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin_RejectsMissingUser(t *testing.T) {
	handler := RequireAdmin(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecovery_ConvertsPanicTo500(t *testing.T) {
	handler := Recovery(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCORS_AnswersPreflight(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached on preflight")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
