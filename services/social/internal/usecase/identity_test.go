package usecase

import (
	"context"
	"testing"
	"time"

	"social-feed/pkg/jwt"
	"social-feed/services/social/internal/entity"
	"social-feed/services/social/internal/repo/persistent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Create(ctx context.Context, token *entity.AccessToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepository) GetByTokenID(ctx context.Context, tokenID string) (*entity.AccessToken, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AccessToken), args.Error(1)
}

func (m *MockTokenRepository) DeleteByTokenID(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenRepository) Touch(ctx context.Context, tokenID string, at time.Time) error {
	args := m.Called(ctx, tokenID, at)
	return args.Error(0)
}

var _ persistent.TokenRepository = (*MockTokenRepository)(nil)

type MockUserRepository struct {
	mock.Mock
	persistent.UserRepository
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

const testSecret = "test-secret"

func newTestResolver(tokens *MockTokenRepository, users *MockUserRepository) *identityResolver {
	return NewIdentityResolver(tokens, users, jwt.NewService(testSecret), testLogger()).(*identityResolver)
}

func signedToken(t *testing.T, secret, userID, tokenID string, ttl time.Duration) string {
	t.Helper()
	token, err := jwt.NewService(secret).GenerateToken(userID, tokenID, ttl)
	require.NoError(t, err)
	return token
}

func TestResolve_Success(t *testing.T) {
	tokens := new(MockTokenRepository)
	users := new(MockUserRepository)
	resolver := newTestResolver(tokens, users)
	user := &entity.User{ID: "user-1", Permission: entity.DefaultPermission("user-1")}

	tokens.On("GetByTokenID", mock.Anything, "tok-1").Return(&entity.AccessToken{UserID: "user-1", TokenID: "tok-1"}, nil)
	tokens.On("Touch", mock.Anything, "tok-1", mock.AnythingOfType("time.Time")).Return(nil)
	users.On("GetByID", mock.Anything, "user-1").Return(user, nil)

	identity, err := resolver.Resolve(context.Background(), signedToken(t, testSecret, "user-1", "tok-1", 0))
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID())
	assert.Equal(t, "tok-1", identity.TokenID)
	assert.True(t, identity.Permission().CanCreatePost)
	tokens.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestResolve_MissingToken(t *testing.T) {
	resolver := newTestResolver(new(MockTokenRepository), new(MockUserRepository))

	_, err := resolver.Resolve(context.Background(), "  ")
	assert.ErrorIs(t, err, entity.ErrMissingToken)
}

func TestResolve_BadSignature(t *testing.T) {
	tokens := new(MockTokenRepository)
	resolver := newTestResolver(tokens, new(MockUserRepository))

	_, err := resolver.Resolve(context.Background(), signedToken(t, "other-secret", "user-1", "tok-1", 0))
	assert.ErrorIs(t, err, entity.ErrInvalidToken)

	_, err = resolver.Resolve(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, entity.ErrInvalidToken)
	tokens.AssertNotCalled(t, "GetByTokenID", mock.Anything, mock.Anything)
}

func TestResolve_RevokedToken(t *testing.T) {
	tokens := new(MockTokenRepository)
	resolver := newTestResolver(tokens, new(MockUserRepository))

	tokens.On("GetByTokenID", mock.Anything, "tok-1").Return(nil, entity.ErrInvalidToken)

	_, err := resolver.Resolve(context.Background(), signedToken(t, testSecret, "user-1", "tok-1", 0))
	assert.ErrorIs(t, err, entity.ErrInvalidToken)
}

func TestResolve_TokenOfAnotherUser(t *testing.T) {
	tokens := new(MockTokenRepository)
	resolver := newTestResolver(tokens, new(MockUserRepository))

	tokens.On("GetByTokenID", mock.Anything, "tok-1").Return(&entity.AccessToken{UserID: "user-2", TokenID: "tok-1"}, nil)

	_, err := resolver.Resolve(context.Background(), signedToken(t, testSecret, "user-1", "tok-1", 0))
	assert.ErrorIs(t, err, entity.ErrInvalidToken)
}

func TestResolve_ExpiredRow(t *testing.T) {
	tokens := new(MockTokenRepository)
	users := new(MockUserRepository)
	resolver := newTestResolver(tokens, users)

	past := time.Now().Add(-time.Minute)
	tokens.On("GetByTokenID", mock.Anything, "tok-1").Return(&entity.AccessToken{UserID: "user-1", TokenID: "tok-1", ExpiresAt: &past}, nil)

	_, err := resolver.Resolve(context.Background(), signedToken(t, testSecret, "user-1", "tok-1", 0))
	assert.ErrorIs(t, err, entity.ErrExpiredToken)
	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestResolve_ExpiresOnTheNextRequest(t *testing.T) {
	tokens := new(MockTokenRepository)
	users := new(MockUserRepository)
	resolver := newTestResolver(tokens, users)

	expiresAt := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	tokens.On("GetByTokenID", mock.Anything, "tok-1").Return(&entity.AccessToken{UserID: "user-1", TokenID: "tok-1", ExpiresAt: &expiresAt}, nil)
	tokens.On("Touch", mock.Anything, "tok-1", mock.Anything).Return(nil)
	users.On("GetByID", mock.Anything, "user-1").Return(&entity.User{ID: "user-1"}, nil)
	raw := signedToken(t, testSecret, "user-1", "tok-1", 0)

	resolver.now = func() time.Time { return expiresAt.Add(-time.Second) }
	_, err := resolver.Resolve(context.Background(), raw)
	require.NoError(t, err)

	resolver.now = func() time.Time { return expiresAt }
	_, err = resolver.Resolve(context.Background(), raw)
	assert.ErrorIs(t, err, entity.ErrExpiredToken)
}

func TestResolve_ExpiredSignature(t *testing.T) {
	resolver := newTestResolver(new(MockTokenRepository), new(MockUserRepository))

	// exp is truncated to whole seconds, so a 1ns lifetime is already over
	raw := signedToken(t, testSecret, "user-1", "tok-1", time.Nanosecond)

	_, err := resolver.Resolve(context.Background(), raw)
	assert.ErrorIs(t, err, entity.ErrExpiredToken)
}

func TestResolve_OrphanedToken(t *testing.T) {
	tokens := new(MockTokenRepository)
	users := new(MockUserRepository)
	resolver := newTestResolver(tokens, users)

	tokens.On("GetByTokenID", mock.Anything, "tok-1").Return(&entity.AccessToken{UserID: "user-1", TokenID: "tok-1"}, nil)
	users.On("GetByID", mock.Anything, "user-1").Return(nil, entity.ErrUserNotFound)

	_, err := resolver.Resolve(context.Background(), signedToken(t, testSecret, "user-1", "tok-1", 0))
	assert.ErrorIs(t, err, entity.ErrOrphanedToken)
}

func TestResolve_StoreUnavailable(t *testing.T) {
	tokens := new(MockTokenRepository)
	resolver := newTestResolver(tokens, new(MockUserRepository))

	tokens.On("GetByTokenID", mock.Anything, "tok-1").Return(nil, entity.ErrServiceUnavailable)

	_, err := resolver.Resolve(context.Background(), signedToken(t, testSecret, "user-1", "tok-1", 0))
	assert.ErrorIs(t, err, entity.ErrServiceUnavailable)
}

func TestResolve_TouchFailureIsNotFatal(t *testing.T) {
	tokens := new(MockTokenRepository)
	users := new(MockUserRepository)
	resolver := newTestResolver(tokens, users)

	tokens.On("GetByTokenID", mock.Anything, "tok-1").Return(&entity.AccessToken{UserID: "user-1", TokenID: "tok-1"}, nil)
	tokens.On("Touch", mock.Anything, "tok-1", mock.Anything).Return(assert.AnError)
	users.On("GetByID", mock.Anything, "user-1").Return(&entity.User{ID: "user-1"}, nil)

	identity, err := resolver.Resolve(context.Background(), signedToken(t, testSecret, "user-1", "tok-1", 0))
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID())
}
