package usecase

import (
	"context"
	"time"

	"social-feed/pkg/logger"
	"social-feed/pkg/queue"
	"social-feed/services/social/internal/entity"
	"social-feed/services/social/internal/repo/persistent"
)

type CommentUseCase interface {
	ListComments(ctx context.Context, postID string) ([]*entity.Comment, error)
	GetComment(ctx context.Context, postID, id string) (*entity.Comment, error)
	CreateComment(ctx context.Context, actor *entity.Identity, postID, content string) (*entity.Comment, error)
	UpdateComment(ctx context.Context, actor *entity.Identity, postID, id, content string) (*entity.Comment, error)
	DeleteComment(ctx context.Context, actor *entity.Identity, postID, id string) error
}

type commentUseCase struct {
	commentRepo persistent.CommentRepository
	postRepo    persistent.PostRepository
	publisher   EventPublisher
	logger      *logger.Logger
}

func NewCommentUseCase(
	commentRepo persistent.CommentRepository,
	postRepo persistent.PostRepository,
	publisher EventPublisher,
	logger *logger.Logger,
) CommentUseCase {
	return &commentUseCase{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

func (uc *commentUseCase) ListComments(ctx context.Context, postID string) ([]*entity.Comment, error) {
	if _, err := uc.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return uc.commentRepo.ListByPostID(ctx, postID)
}

// GetComment treats a comment of another post as missing.
func (uc *commentUseCase) GetComment(ctx context.Context, postID, id string) (*entity.Comment, error) {
	comment, err := uc.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.PostID != postID {
		return nil, entity.ErrCommentNotFound
	}
	return comment, nil
}

func (uc *commentUseCase) CreateComment(ctx context.Context, actor *entity.Identity, postID, content string) (*entity.Comment, error) {
	post, err := uc.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, entity.ActionCreateComment, nil); err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		PostID:   post.ID,
		AuthorID: actor.UserID(),
		Content:  content,
	}
	if err := uc.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	publishAsync(uc.publisher, uc.logger, queue.RoutingCommentCreated, CommentCreatedEvent{
		Type:         "comment_created",
		CommentID:    comment.ID,
		PostID:       post.ID,
		PostAuthorID: post.AuthorID,
		UserID:       comment.AuthorID,
		OccurredAt:   time.Now().Unix(),
	})
	return comment, nil
}

func (uc *commentUseCase) UpdateComment(ctx context.Context, actor *entity.Identity, postID, id, content string) (*entity.Comment, error) {
	comment, err := uc.GetComment(ctx, postID, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, entity.ActionUpdateComment, comment); err != nil {
		return nil, err
	}

	comment.Content = content
	if err := uc.commentRepo.UpdateContent(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (uc *commentUseCase) DeleteComment(ctx context.Context, actor *entity.Identity, postID, id string) error {
	comment, err := uc.GetComment(ctx, postID, id)
	if err != nil {
		return err
	}
	if err := Authorize(actor, entity.ActionDeleteComment, comment); err != nil {
		return err
	}
	return uc.commentRepo.Delete(ctx, comment.ID)
}
