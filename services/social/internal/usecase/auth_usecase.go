package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"social-feed/pkg/jwt"
	"social-feed/pkg/logger"
	"social-feed/services/social/internal/entity"
	"social-feed/services/social/internal/repo/persistent"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenType = "Bearer"
	tokenName = "auth_token"

	emailTakenMessage = "The email has already been taken."
)

type AuthUseCase interface {
	Register(ctx context.Context, name, email, password string) (*entity.User, string, error)
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	// Logout revokes only the token the actor authenticated with.
	Logout(ctx context.Context, actor *entity.Identity) error
	Me(ctx context.Context, actor *entity.Identity) (*entity.User, error)
}

type authUseCase struct {
	userRepo   persistent.UserRepository
	tokenRepo  persistent.TokenRepository
	jwtService *jwt.Service
	tokenTTL   time.Duration
	bcryptCost int
	logger     *logger.Logger
}

func NewAuthUseCase(
	userRepo persistent.UserRepository,
	tokenRepo persistent.TokenRepository,
	jwtService *jwt.Service,
	tokenTTL time.Duration,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
		tokenTTL:   tokenTTL,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger,
	}
}

func (uc *authUseCase) Register(ctx context.Context, name, email, password string) (*entity.User, string, error) {
	email = normalizeEmail(email)

	exists, err := uc.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", entity.NewValidationError("email", emailTakenMessage)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := uc.userRepo.CreateWithPermission(ctx, user); err != nil {
		if errors.Is(err, entity.ErrEmailTaken) {
			return nil, "", entity.NewValidationError("email", emailTakenMessage)
		}
		return nil, "", err
	}

	token, err := uc.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	uc.logger.Info("User registered: %s", user.ID)
	return user, token, nil
}

func (uc *authUseCase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, "", entity.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", entity.ErrInvalidCredentials
	}

	token, err := uc.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (uc *authUseCase) Logout(ctx context.Context, actor *entity.Identity) error {
	if actor == nil {
		return entity.ErrMissingToken
	}
	return uc.tokenRepo.DeleteByTokenID(ctx, actor.TokenID)
}

func (uc *authUseCase) Me(ctx context.Context, actor *entity.Identity) (*entity.User, error) {
	if actor == nil {
		return nil, entity.ErrMissingToken
	}
	if actor.User != nil && actor.User.Permission != nil {
		return actor.User, nil
	}
	return uc.userRepo.GetByID(ctx, actor.UserID())
}

// issueToken stores a new revocable token row and signs its id.
func (uc *authUseCase) issueToken(ctx context.Context, userID string) (string, error) {
	record := &entity.AccessToken{
		UserID:  userID,
		TokenID: uuid.New().String(),
		Name:    tokenName,
	}
	if uc.tokenTTL > 0 {
		expiresAt := time.Now().Add(uc.tokenTTL)
		record.ExpiresAt = &expiresAt
	}

	if err := uc.tokenRepo.Create(ctx, record); err != nil {
		return "", err
	}

	signed, err := uc.jwtService.GenerateToken(userID, record.TokenID, uc.tokenTTL)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Emails are stored and matched lowercased.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
