package persistent

import (
	"context"
	"errors"
	"time"

	"social-feed/services/social/internal/entity"
	"social-feed/services/social/internal/model"

	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	// List returns one page ordered newest first, with the total row count.
	List(ctx context.Context, limit, offset int) ([]*entity.Post, int64, error)
	UpdateContent(ctx context.Context, post *entity.Post) error
	UpdateImage(ctx context.Context, post *entity.Post) error
	// Delete removes the post with its likes and comments in one transaction.
	Delete(ctx context.Context, id string) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	postModel := ToPostModel(post)
	if err := r.db.WithContext(ctx).Create(postModel).Error; err != nil {
		return wrap("create post", err)
	}
	*post = *ToPostEntity(postModel)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	var postModel model.PostModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&postModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrPostNotFound
		}
		return nil, wrap("get post", err)
	}
	return ToPostEntity(&postModel), nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*entity.Post, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&model.PostModel{}).Count(&total).Error; err != nil {
		return nil, 0, wrap("count posts", err)
	}

	var postModels []model.PostModel
	err := db.Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&postModels).Error
	if err != nil {
		return nil, 0, wrap("list posts", err)
	}

	posts := make([]*entity.Post, len(postModels))
	for i := range postModels {
		posts[i] = ToPostEntity(&postModels[i])
	}
	return posts, total, nil
}

func (r *postRepository) UpdateContent(ctx context.Context, post *entity.Post) error {
	return r.update(ctx, "update post", post, map[string]interface{}{
		"content": post.Content,
	})
}

func (r *postRepository) UpdateImage(ctx context.Context, post *entity.Post) error {
	return r.update(ctx, "update post image", post, map[string]interface{}{
		"image_url": post.ImageURL,
		"image_key": post.ImageKey,
	})
}

func (r *postRepository) update(ctx context.Context, op string, post *entity.Post, fields map[string]interface{}) error {
	now := time.Now()
	fields["updated_at"] = now

	result := r.db.WithContext(ctx).Model(&model.PostModel{}).Where("id = ?", post.ID).Updates(fields)
	if result.Error != nil {
		return wrap(op, result.Error)
	}
	if result.RowsAffected == 0 {
		return entity.ErrPostNotFound
	}
	post.UpdatedAt = now
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.LikeModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.CommentModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.PostModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return entity.ErrPostNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, entity.ErrPostNotFound) {
			return err
		}
		return wrap("delete post", err)
	}
	return nil
}
