package persistent

import (
	"context"
	"errors"
	"time"

	"social-feed/services/social/internal/entity"
	"social-feed/services/social/internal/model"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	GetByID(ctx context.Context, id string) (*entity.Comment, error)
	ListByPostID(ctx context.Context, postID string) ([]*entity.Comment, error)
	// ListByPostIDs loads the comments of many posts in one query.
	ListByPostIDs(ctx context.Context, postIDs []string) ([]*entity.Comment, error)
	UpdateContent(ctx context.Context, comment *entity.Comment) error
	Delete(ctx context.Context, id string) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	commentModel := ToCommentModel(comment)
	if err := r.db.WithContext(ctx).Create(commentModel).Error; err != nil {
		return wrap("create comment", err)
	}
	*comment = *ToCommentEntity(commentModel)
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	var commentModel model.CommentModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&commentModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrCommentNotFound
		}
		return nil, wrap("get comment", err)
	}
	return ToCommentEntity(&commentModel), nil
}

func (r *commentRepository) ListByPostID(ctx context.Context, postID string) ([]*entity.Comment, error) {
	return r.ListByPostIDs(ctx, []string{postID})
}

func (r *commentRepository) ListByPostIDs(ctx context.Context, postIDs []string) ([]*entity.Comment, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}

	var commentModels []model.CommentModel
	err := r.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Order("created_at DESC").Order("id DESC").
		Find(&commentModels).Error
	if err != nil {
		return nil, wrap("list comments", err)
	}

	comments := make([]*entity.Comment, len(commentModels))
	for i := range commentModels {
		comments[i] = ToCommentEntity(&commentModels[i])
	}
	return comments, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, comment *entity.Comment) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&model.CommentModel{}).
		Where("id = ?", comment.ID).
		Updates(map[string]interface{}{"content": comment.Content, "updated_at": now})
	if result.Error != nil {
		return wrap("update comment", result.Error)
	}
	if result.RowsAffected == 0 {
		return entity.ErrCommentNotFound
	}
	comment.UpdatedAt = now
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.CommentModel{})
	if result.Error != nil {
		return wrap("delete comment", result.Error)
	}
	if result.RowsAffected == 0 {
		return entity.ErrCommentNotFound
	}
	return nil
}
