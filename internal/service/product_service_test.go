package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"proshop/internal/cache"
	"proshop/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCache is a mock implementation of cache.Cache.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Key(operation, suffix string) string {
	return "proshop:" + operation + ":" + suffix
}

func (m *MockCache) Close() error {
	return nil
}

func newTestProductService(productRepo *MockProductRepository, productCache cache.Cache) ProductService {
	if productCache == nil {
		productCache = cache.NewNoopCache()
	}
	return NewProductService(productRepo, productCache, time.Minute, 8, zerolog.Nop())
}

func TestProductService_GetPage_ComputesPageCount(t *testing.T) {
	productRepo := new(MockProductRepository)
	svc := newTestProductService(productRepo, nil)

	products := []model.Product{{ID: uuid.New(), Name: "Camera"}}
	productRepo.On("GetPage", mock.Anything, "", 8, 8).Return(products, 17, nil)

	page, err := svc.GetPage(context.Background(), "", 2)
	require.NoError(t, err)

	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.Pages, "17 products at 8 per page is 3 pages")
	assert.Len(t, page.Products, 1)
}

func TestProductService_GetPage_EmptyCatalogueStillHasOnePage(t *testing.T) {
	productRepo := new(MockProductRepository)
	svc := newTestProductService(productRepo, nil)

	productRepo.On("GetPage", mock.Anything, "camera", 8, 0).Return([]model.Product{}, 0, nil)

	page, err := svc.GetPage(context.Background(), "camera", 1)
	require.NoError(t, err)

	assert.Equal(t, 1, page.Pages)
	assert.NotNil(t, page.Products)
	assert.Empty(t, page.Products)
}

func TestProductService_GetByID_AttachesReviews(t *testing.T) {
	productRepo := new(MockProductRepository)
	svc := newTestProductService(productRepo, nil)

	productID := uuid.New()
	reviews := []model.Review{{ID: uuid.New(), ProductID: productID, Rating: 5}}
	productRepo.On("GetByID", mock.Anything, productID).Return(&model.Product{ID: productID}, nil)
	productRepo.On("GetReviews", mock.Anything, productID).Return(reviews, nil)

	product, err := svc.GetByID(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Len(t, product.Reviews, 1)
}

func TestProductService_GetByID_NotFound(t *testing.T) {
	productRepo := new(MockProductRepository)
	svc := newTestProductService(productRepo, nil)

	productID := uuid.New()
	productRepo.On("GetByID", mock.Anything, productID).Return(nil, nil)

	product, err := svc.GetByID(context.Background(), productID)
	require.NoError(t, err)
	assert.Nil(t, product)
	productRepo.AssertNotCalled(t, "GetReviews")
}

func TestProductService_GetTop_CacheHitSkipsRepository(t *testing.T) {
	productRepo := new(MockProductRepository)
	productCache := new(MockCache)
	svc := newTestProductService(productRepo, productCache)

	cached := []model.Product{{ID: uuid.New(), Name: "Cached Camera"}}
	encoded, err := json.Marshal(cached)
	require.NoError(t, err)

	productCache.On("Get", mock.Anything, "proshop:products:top").Return(string(encoded), nil)

	products, err := svc.GetTop(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Cached Camera", products[0].Name)
	productRepo.AssertNotCalled(t, "GetTop")
}

func TestProductService_GetTop_CacheMissFillsCache(t *testing.T) {
	productRepo := new(MockProductRepository)
	productCache := new(MockCache)
	svc := newTestProductService(productRepo, productCache)

	top := []model.Product{{ID: uuid.New(), Name: "Top Camera"}}
	productCache.On("Get", mock.Anything, "proshop:products:top").Return("", nil)
	productRepo.On("GetTop", mock.Anything, 3).Return(top, nil)
	productCache.On("Set", mock.Anything, "proshop:products:top", mock.AnythingOfType("string"), time.Minute).Return(nil)

	products, err := svc.GetTop(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Top Camera", products[0].Name)
	productCache.AssertExpectations(t)
}

func TestProductService_GetTop_CacheFailureDegradesToRepository(t *testing.T) {
	productRepo := new(MockProductRepository)
	productCache := new(MockCache)
	svc := newTestProductService(productRepo, productCache)

	top := []model.Product{{ID: uuid.New(), Name: "Top Camera"}}
	productCache.On("Get", mock.Anything, mock.Anything).Return("", errors.New("connection refused"))
	productRepo.On("GetTop", mock.Anything, 3).Return(top, nil)
	productCache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	products, err := svc.GetTop(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestProductService_Create_InsertsPlaceholder(t *testing.T) {
	productRepo := new(MockProductRepository)
	svc := newTestProductService(productRepo, nil)

	userID := uuid.New()
	productRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Product")).Return(nil)

	product, err := svc.Create(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, "Sample name", product.Name)
	assert.Equal(t, userID, product.UserID)
	assert.True(t, product.Price.IsZero())
}

func TestProductService_Update_AppliesOnlyProvidedFields(t *testing.T) {
	productRepo := new(MockProductRepository)
	svc := newTestProductService(productRepo, nil)

	productID := uuid.New()
	stored := &model.Product{
		ID:           productID,
		Name:         "Old Name",
		Brand:        "Old Brand",
		Price:        decimal.RequireFromString("10.00"),
		CountInStock: 5,
	}
	productRepo.On("GetByID", mock.Anything, productID).Return(stored, nil)
	productRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Product")).Return(nil)

	newPrice := decimal.RequireFromString("25.00")
	product, err := svc.Update(context.Background(), productID, &model.ProductRequest{
		Name:  "New Name",
		Price: &newPrice,
	})
	require.NoError(t, err)

	assert.Equal(t, "New Name", product.Name)
	assert.Equal(t, "Old Brand", product.Brand)
	assert.True(t, product.Price.Equal(newPrice))
	assert.Equal(t, 5, product.CountInStock)
}

func TestProductService_Update_NotFound(t *testing.T) {
	productRepo := new(MockProductRepository)
	svc := newTestProductService(productRepo, nil)

	productID := uuid.New()
	productRepo.On("GetByID", mock.Anything, productID).Return(nil, nil)

	_, err := svc.Update(context.Background(), productID, &model.ProductRequest{Name: "X"})
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestProductService_AddReview_Success(t *testing.T) {
	productRepo := new(MockProductRepository)
	svc := newTestProductService(productRepo, nil)

	productID := uuid.New()
	user := &model.User{ID: uuid.New(), Name: "Jane"}

	productRepo.On("GetByID", mock.Anything, productID).Return(&model.Product{ID: productID}, nil)
	productRepo.On("AddReview", mock.Anything, mock.MatchedBy(func(review *model.Review) bool {
		return review.ProductID == productID &&
			review.UserID == user.ID &&
			review.Name == "Jane" &&
			review.Rating == 4
	})).Return(nil)

	err := svc.AddReview(context.Background(), productID, user, &model.ReviewRequest{Rating: 4, Comment: "Solid"})
	require.NoError(t, err)
	productRepo.AssertExpectations(t)
}

func TestProductService_AddReview_InvalidRating(t *testing.T) {
	svc := newTestProductService(new(MockProductRepository), nil)
	user := &model.User{ID: uuid.New(), Name: "Jane"}

	err := svc.AddReview(context.Background(), uuid.New(), user, &model.ReviewRequest{Rating: 0})
	assert.Error(t, err)

	err = svc.AddReview(context.Background(), uuid.New(), user, &model.ReviewRequest{Rating: 6})
	assert.Error(t, err)
}

func TestProductService_AddReview_AlreadyReviewed(t *testing.T) {
	productRepo := new(MockProductRepository)
	svc := newTestProductService(productRepo, nil)

	productID := uuid.New()
	user := &model.User{ID: uuid.New(), Name: "Jane"}

	productRepo.On("GetByID", mock.Anything, productID).Return(&model.Product{ID: productID}, nil)
	productRepo.On("AddReview", mock.Anything, mock.Anything).Return(model.ErrAlreadyReviewed)

	err := svc.AddReview(context.Background(), productID, user, &model.ReviewRequest{Rating: 5})
	assert.ErrorIs(t, err, model.ErrAlreadyReviewed)
}
