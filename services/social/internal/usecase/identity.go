package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"social-feed/pkg/jwt"
	"social-feed/pkg/logger"
	"social-feed/services/social/internal/entity"
	"social-feed/services/social/internal/repo/persistent"
)

// IdentityResolver turns a raw bearer token into the caller's identity.
// Failures are entity.ErrMissingToken, ErrInvalidToken, ErrExpiredToken or
// ErrOrphanedToken; store failures pass through unchanged.
type IdentityResolver interface {
	Resolve(ctx context.Context, rawToken string) (*entity.Identity, error)
}

type identityResolver struct {
	tokenRepo  persistent.TokenRepository
	userRepo   persistent.UserRepository
	jwtService *jwt.Service
	logger     *logger.Logger
	now        func() time.Time
}

func NewIdentityResolver(
	tokenRepo persistent.TokenRepository,
	userRepo persistent.UserRepository,
	jwtService *jwt.Service,
	logger *logger.Logger,
) IdentityResolver {
	return &identityResolver{
		tokenRepo:  tokenRepo,
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
		now:        time.Now,
	}
}

func (r *identityResolver) Resolve(ctx context.Context, rawToken string) (*entity.Identity, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, entity.ErrMissingToken
	}

	claims, err := r.jwtService.ValidateToken(rawToken)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, entity.ErrExpiredToken
		}
		return nil, entity.ErrInvalidToken
	}

	token, err := r.tokenRepo.GetByTokenID(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if token.UserID != claims.UserID {
		return nil, entity.ErrInvalidToken
	}

	now := r.now()
	if token.Expired(now) {
		return nil, entity.ErrExpiredToken
	}

	user, err := r.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, entity.ErrOrphanedToken
		}
		return nil, err
	}

	if err := r.tokenRepo.Touch(ctx, token.TokenID, now); err != nil {
		r.logger.Warn("Failed to record token use for user %s: %v", user.ID, err)
	}

	return &entity.Identity{User: user, TokenID: token.TokenID}, nil
}
