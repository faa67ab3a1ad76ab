package service

import (
	"context"
	"testing"

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

func TestUserService_Register_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo, zerolog.Nop())

	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "John Doe",
		Email:    "  John@Example.COM ",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.Equal(t, "John Doe", user.Name)
	assert.Equal(t, "john@example.com", user.Email, "email should be normalised")
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.True(t, auth.CheckPassword(user.PasswordHash, "password123"))
	assert.False(t, user.IsAdmin)

	userRepo.AssertExpectations(t)
}

func TestUserService_Register_MissingFields(t *testing.T) {
	svc := NewUserService(new(MockUserRepository), zerolog.Nop())

	_, err := svc.Register(context.Background(), &model.RegisterRequest{Email: "a@b.com"})
	assert.Error(t, err)

	_, err = svc.Register(context.Background(), nil)
	assert.Error(t, err)
}

func TestUserService_Register_EmailTaken(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo, zerolog.Nop())

	userRepo.On("Create", mock.Anything, mock.Anything).Return(model.ErrEmailTaken)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, model.ErrEmailTaken)
}

func TestUserService_Login_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo, zerolog.Nop())

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	stored := &model.User{
		ID:           uuid.New(),
		Email:        "john@example.com",
		PasswordHash: hash,
	}
	userRepo.On("GetByEmail", mock.Anything, "john@example.com").Return(stored, nil)

	user, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "John@Example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, stored.ID, user.ID)
}

func TestUserService_Login_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo, zerolog.Nop())

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	userRepo.On("GetByEmail", mock.Anything, "known@example.com").
		Return(&model.User{ID: uuid.New(), PasswordHash: hash}, nil)
	userRepo.On("GetByEmail", mock.Anything, "unknown@example.com").Return(nil, nil)

	_, wrongPassErr := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "known@example.com",
		Password: "wrong",
	})
	_, unknownErr := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "unknown@example.com",
		Password: "password123",
	})

	assert.ErrorIs(t, wrongPassErr, model.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownErr, model.ErrInvalidCredentials)
}

func TestUserService_UpdateProfile_PartialUpdate(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo, zerolog.Nop())

	userID := uuid.New()
	stored := &model.User{
		ID:    userID,
		Name:  "Old Name",
		Email: "old@example.com",
	}
	userRepo.On("GetByID", mock.Anything, userID).Return(stored, nil)
	userRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	user, err := svc.UpdateProfile(context.Background(), userID, &model.UpdateProfileRequest{
		Name: "New Name",
	})
	require.NoError(t, err)

	assert.Equal(t, "New Name", user.Name)
	assert.Equal(t, "old@example.com", user.Email, "unset fields stay unchanged")
}

func TestUserService_UpdateProfile_UserNotFound(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo, zerolog.Nop())

	userID := uuid.New()
	userRepo.On("GetByID", mock.Anything, userID).Return(nil, nil)

	_, err := svc.UpdateProfile(context.Background(), userID, &model.UpdateProfileRequest{Name: "X"})
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestUserService_UpdateUser_TogglesAdminFlag(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo, zerolog.Nop())

	userID := uuid.New()
	stored := &model.User{ID: userID, Name: "Jane", IsAdmin: false}
	userRepo.On("GetByID", mock.Anything, userID).Return(stored, nil)
	userRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	isAdmin := true
	user, err := svc.UpdateUser(context.Background(), userID, &model.UpdateUserRequest{IsAdmin: &isAdmin})
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
}

func TestUserService_Delete(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo, zerolog.Nop())

	userID := uuid.New()
	userRepo.On("Delete", mock.Anything, userID).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), userID))
	userRepo.AssertExpectations(t)
}
