package persistent

import (
	"context"

	"social-feed/services/social/internal/entity"
	"social-feed/services/social/internal/model"

	"gorm.io/gorm"
)

type LikeRepository interface {
	// Create inserts the (user, post) pair; a second insert fails with entity.ErrAlreadyLiked.
	Create(ctx context.Context, userID, postID string) error
	// Delete removes the pair and reports whether a row existed.
	Delete(ctx context.Context, userID, postID string) (bool, error)
	Aggregate(ctx context.Context, postID, viewerID string) (entity.LikeAggregate, error)
	Aggregates(ctx context.Context, postIDs []string, viewerID string) (map[string]entity.LikeAggregate, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

type aggregateRow struct {
	PostID      string
	LikesCount  int64
	ViewerLikes int64
}

func (r *likeRepository) Create(ctx context.Context, userID, postID string) error {
	likeModel := &model.LikeModel{UserID: userID, PostID: postID}
	if err := r.db.WithContext(ctx).Create(likeModel).Error; err != nil {
		if isDuplicate(err) {
			return entity.ErrAlreadyLiked
		}
		return wrap("create like", err)
	}
	return nil
}

func (r *likeRepository) Delete(ctx context.Context, userID, postID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.LikeModel{})
	if result.Error != nil {
		return false, wrap("delete like", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Aggregate reads the count and the viewer's like in one statement. An empty
// viewerID is anonymous and skips the viewer term.
func (r *likeRepository) Aggregate(ctx context.Context, postID, viewerID string) (entity.LikeAggregate, error) {
	var row aggregateRow
	err := r.aggregateQuery(ctx, viewerID, false).
		Where("post_id = ?", postID).
		Scan(&row).Error
	if err != nil {
		return entity.LikeAggregate{}, wrap("aggregate likes", err)
	}

	return entity.LikeAggregate{
		PostID:     postID,
		LikesCount: row.LikesCount,
		IsLiked:    row.ViewerLikes > 0,
	}, nil
}

func (r *likeRepository) Aggregates(ctx context.Context, postIDs []string, viewerID string) (map[string]entity.LikeAggregate, error) {
	aggregates := make(map[string]entity.LikeAggregate, len(postIDs))
	if len(postIDs) == 0 {
		return aggregates, nil
	}

	var rows []aggregateRow
	err := r.aggregateQuery(ctx, viewerID, true).
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, wrap("aggregate likes", err)
	}

	for _, id := range postIDs {
		aggregates[id] = entity.LikeAggregate{PostID: id}
	}
	for _, row := range rows {
		aggregates[row.PostID] = entity.LikeAggregate{
			PostID:     row.PostID,
			LikesCount: row.LikesCount,
			IsLiked:    row.ViewerLikes > 0,
		}
	}
	return aggregates, nil
}

func (r *likeRepository) aggregateQuery(ctx context.Context, viewerID string, grouped bool) *gorm.DB {
	columns := "COUNT(*) AS likes_count"
	if grouped {
		columns = "post_id, " + columns
	}

	query := r.db.WithContext(ctx).Model(&model.LikeModel{})
	if viewerID == "" {
		return query.Select(columns + ", 0 AS viewer_likes")
	}
	return query.Select(columns+", COALESCE(SUM(CASE WHEN user_id = ? THEN 1 ELSE 0 END), 0) AS viewer_likes", viewerID)
}
