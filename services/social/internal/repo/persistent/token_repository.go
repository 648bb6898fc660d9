package persistent

import (
	"context"
	"errors"
	"time"

	"social-feed/services/social/internal/entity"
	"social-feed/services/social/internal/model"

	"gorm.io/gorm"
)

type TokenRepository interface {
	Create(ctx context.Context, token *entity.AccessToken) error
	// GetByTokenID returns entity.ErrInvalidToken when no row exists.
	GetByTokenID(ctx context.Context, tokenID string) (*entity.AccessToken, error)
	DeleteByTokenID(ctx context.Context, tokenID string) error
	Touch(ctx context.Context, tokenID string, at time.Time) error
}

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *entity.AccessToken) error {
	tokenModel := ToAccessTokenModel(token)
	if err := r.db.WithContext(ctx).Create(tokenModel).Error; err != nil {
		return wrap("create token", err)
	}
	*token = *ToAccessTokenEntity(tokenModel)
	return nil
}

func (r *tokenRepository) GetByTokenID(ctx context.Context, tokenID string) (*entity.AccessToken, error) {
	var tokenModel model.AccessTokenModel
	err := r.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&tokenModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrInvalidToken
		}
		return nil, wrap("get token", err)
	}
	return ToAccessTokenEntity(&tokenModel), nil
}

func (r *tokenRepository) DeleteByTokenID(ctx context.Context, tokenID string) error {
	if err := r.db.WithContext(ctx).Where("token_id = ?", tokenID).Delete(&model.AccessTokenModel{}).Error; err != nil {
		return wrap("delete token", err)
	}
	return nil
}

func (r *tokenRepository) Touch(ctx context.Context, tokenID string, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&model.AccessTokenModel{}).
		Where("token_id = ?", tokenID).
		Update("last_used_at", at).Error
	return wrap("touch token", err)
}
