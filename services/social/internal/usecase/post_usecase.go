package usecase

import (
	"context"
	"fmt"
	"time"

	"social-feed/pkg/logger"
	"social-feed/pkg/queue"
	"social-feed/services/social/internal/entity"
	"social-feed/services/social/internal/repo/persistent"

	"github.com/google/uuid"
)

type PostUseCase interface {
	ListPosts(ctx context.Context, page, perPage int) ([]*entity.Post, int64, error)
	GetPost(ctx context.Context, id string) (*entity.Post, error)
	CreatePost(ctx context.Context, actor *entity.Identity, content string, image *entity.Image) (*entity.Post, error)
	// UpdatePost replaces the content when content is non-nil.
	UpdatePost(ctx context.Context, actor *entity.Identity, id string, content *string) (*entity.Post, error)
	UpdatePostImage(ctx context.Context, actor *entity.Identity, id string, image *entity.Image) (*entity.Post, error)
	DeletePost(ctx context.Context, actor *entity.Identity, id string) error
	LikePost(ctx context.Context, actor *entity.Identity, id string) (*entity.Post, entity.LikeAggregate, error)
	UnlikePost(ctx context.Context, actor *entity.Identity, id string) (*entity.Post, entity.LikeAggregate, error)
	ToggleLike(ctx context.Context, actor *entity.Identity, id string) (*entity.Post, entity.ToggleResult, entity.LikeAggregate, error)
}

type postUseCase struct {
	postRepo  persistent.PostRepository
	ledger    InteractionLedger
	storage   ImageStorage
	publisher EventPublisher
	logger    *logger.Logger
}

func NewPostUseCase(
	postRepo persistent.PostRepository,
	ledger InteractionLedger,
	storage ImageStorage,
	publisher EventPublisher,
	logger *logger.Logger,
) PostUseCase {
	return &postUseCase{
		postRepo:  postRepo,
		ledger:    ledger,
		storage:   storage,
		publisher: publisher,
		logger:    logger,
	}
}

func (uc *postUseCase) ListPosts(ctx context.Context, page, perPage int) ([]*entity.Post, int64, error) {
	return uc.postRepo.List(ctx, perPage, (page-1)*perPage)
}

func (uc *postUseCase) GetPost(ctx context.Context, id string) (*entity.Post, error) {
	return uc.postRepo.GetByID(ctx, id)
}

func (uc *postUseCase) CreatePost(ctx context.Context, actor *entity.Identity, content string, image *entity.Image) (*entity.Post, error) {
	if err := Authorize(actor, entity.ActionCreatePost, nil); err != nil {
		return nil, err
	}

	key, url, err := uc.uploadImage(ctx, actor.UserID(), image)
	if err != nil {
		return nil, err
	}

	post := &entity.Post{
		AuthorID: actor.UserID(),
		Content:  content,
		ImageURL: url,
		ImageKey: key,
	}
	if err := uc.postRepo.Create(ctx, post); err != nil {
		uc.removeImage(key)
		return nil, err
	}

	uc.logger.Info("Post created: %s by %s", post.ID, post.AuthorID)
	return post, nil
}

func (uc *postUseCase) UpdatePost(ctx context.Context, actor *entity.Identity, id string, content *string) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, entity.ActionUpdatePost, post); err != nil {
		return nil, err
	}

	if content == nil {
		return post, nil
	}
	post.Content = *content
	if err := uc.postRepo.UpdateContent(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (uc *postUseCase) UpdatePostImage(ctx context.Context, actor *entity.Identity, id string, image *entity.Image) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, entity.ActionUpdatePost, post); err != nil {
		return nil, err
	}

	key, url, err := uc.uploadImage(ctx, actor.UserID(), image)
	if err != nil {
		return nil, err
	}

	oldKey := post.ImageKey
	post.ImageURL, post.ImageKey = url, key
	if err := uc.postRepo.UpdateImage(ctx, post); err != nil {
		uc.removeImage(key)
		return nil, err
	}

	uc.removeImage(oldKey)
	return post, nil
}

// DeletePost commits the row delete first; the stored image is removed
// afterwards and a failure there is only logged.
func (uc *postUseCase) DeletePost(ctx context.Context, actor *entity.Identity, id string) error {
	post, err := uc.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(actor, entity.ActionDeletePost, post); err != nil {
		return err
	}

	if err := uc.postRepo.Delete(ctx, post.ID); err != nil {
		return err
	}

	uc.removeImage(post.ImageKey)
	uc.logger.Info("Post deleted: %s by %s", post.ID, actor.UserID())
	return nil
}

func (uc *postUseCase) LikePost(ctx context.Context, actor *entity.Identity, id string) (*entity.Post, entity.LikeAggregate, error) {
	post, err := uc.loadForInteraction(ctx, actor, id, entity.ActionLikePost)
	if err != nil {
		return nil, entity.LikeAggregate{}, err
	}

	agg, err := uc.ledger.Like(ctx, actor.UserID(), post.ID)
	if err != nil {
		return nil, entity.LikeAggregate{}, err
	}

	uc.publishLiked(post, actor.UserID(), agg)
	return post, agg, nil
}

func (uc *postUseCase) UnlikePost(ctx context.Context, actor *entity.Identity, id string) (*entity.Post, entity.LikeAggregate, error) {
	post, err := uc.loadForInteraction(ctx, actor, id, entity.ActionUnlikePost)
	if err != nil {
		return nil, entity.LikeAggregate{}, err
	}

	agg, err := uc.ledger.Unlike(ctx, actor.UserID(), post.ID)
	if err != nil {
		return nil, entity.LikeAggregate{}, err
	}
	return post, agg, nil
}

func (uc *postUseCase) ToggleLike(ctx context.Context, actor *entity.Identity, id string) (*entity.Post, entity.ToggleResult, entity.LikeAggregate, error) {
	post, err := uc.loadForInteraction(ctx, actor, id, entity.ActionToggleLike)
	if err != nil {
		return nil, "", entity.LikeAggregate{}, err
	}

	result, agg, err := uc.ledger.Toggle(ctx, actor.UserID(), post.ID)
	if err != nil {
		return nil, "", entity.LikeAggregate{}, err
	}

	if result == entity.ToggleLiked {
		uc.publishLiked(post, actor.UserID(), agg)
	}
	return post, result, agg, nil
}

func (uc *postUseCase) loadForInteraction(ctx context.Context, actor *entity.Identity, id string, action entity.Action) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, action, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (uc *postUseCase) uploadImage(ctx context.Context, userID string, image *entity.Image) (string, string, error) {
	if image == nil || image.Reader == nil {
		return "", "", entity.NewValidationError("image", "The image field is required.")
	}

	key := fmt.Sprintf("posts/%s/%s%s", userID, uuid.New().String(), image.Extension)
	url, err := uc.storage.UploadFile(ctx, key, image.Reader, image.Size, image.ContentType)
	if err != nil {
		return "", "", fmt.Errorf("failed to upload image: %w", err)
	}
	return key, url, nil
}

// removeImage is best-effort cleanup; it runs on its own deadline so an
// expiring request context does not cancel it.
func (uc *postUseCase) removeImage(key string) {
	if key == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := uc.storage.DeleteFile(ctx, key); err != nil {
		uc.logger.Warn("Failed to delete image %s: %v", key, err)
	}
}

func (uc *postUseCase) publishLiked(post *entity.Post, userID string, agg entity.LikeAggregate) {
	publishAsync(uc.publisher, uc.logger, queue.RoutingPostLiked, PostLikedEvent{
		Type:         "post_liked",
		PostID:       post.ID,
		PostAuthorID: post.AuthorID,
		UserID:       userID,
		LikesCount:   agg.LikesCount,
		OccurredAt:   time.Now().Unix(),
	})
}
