package usecase

import (
	"context"
	"errors"
	"fmt"

	"social-feed/services/social/internal/entity"
	"social-feed/services/social/internal/repo/persistent"
)

// InteractionLedger owns the (user, post) like relation. Uniqueness is left to
// the store's unique index; no application lock is taken.
type InteractionLedger interface {
	// Like fails with entity.ErrAlreadyLiked when the pair exists, including
	// for the loser of two concurrent likes.
	Like(ctx context.Context, userID, postID string) (entity.LikeAggregate, error)
	// Unlike fails with entity.ErrNotLiked when the pair does not exist.
	Unlike(ctx context.Context, userID, postID string) (entity.LikeAggregate, error)
	// Toggle flips the pair and reports the transition. It never fails on state.
	// Of two concurrent toggles one reports liked and the other unliked.
	Toggle(ctx context.Context, userID, postID string) (entity.ToggleResult, entity.LikeAggregate, error)
	Aggregate(ctx context.Context, postID, viewerID string) (entity.LikeAggregate, error)
	Aggregates(ctx context.Context, postIDs []string, viewerID string) (map[string]entity.LikeAggregate, error)
}

type interactionLedger struct {
	likeRepo persistent.LikeRepository
}

func NewInteractionLedger(likeRepo persistent.LikeRepository) InteractionLedger {
	return &interactionLedger{likeRepo: likeRepo}
}

func (l *interactionLedger) Like(ctx context.Context, userID, postID string) (entity.LikeAggregate, error) {
	if err := l.likeRepo.Create(ctx, userID, postID); err != nil {
		return entity.LikeAggregate{}, err
	}
	return l.likeRepo.Aggregate(ctx, postID, userID)
}

func (l *interactionLedger) Unlike(ctx context.Context, userID, postID string) (entity.LikeAggregate, error) {
	deleted, err := l.likeRepo.Delete(ctx, userID, postID)
	if err != nil {
		return entity.LikeAggregate{}, err
	}
	if !deleted {
		return entity.LikeAggregate{}, entity.ErrNotLiked
	}
	return l.likeRepo.Aggregate(ctx, postID, userID)
}

// maxToggleAttempts bounds the retries when concurrent toggles on the same
// pair keep racing each other.
const maxToggleAttempts = 3

func (l *interactionLedger) Toggle(ctx context.Context, userID, postID string) (entity.ToggleResult, entity.LikeAggregate, error) {
	var result entity.ToggleResult
	for attempt := 0; attempt < maxToggleAttempts && result == ""; attempt++ {
		deleted, err := l.likeRepo.Delete(ctx, userID, postID)
		if err != nil {
			return "", entity.LikeAggregate{}, err
		}
		if deleted {
			result = entity.ToggleUnliked
			break
		}

		err = l.likeRepo.Create(ctx, userID, postID)
		switch {
		case err == nil:
			result = entity.ToggleLiked
		case errors.Is(err, entity.ErrAlreadyLiked):
			// a concurrent toggle inserted the pair first; this one flips it back
		default:
			return "", entity.LikeAggregate{}, err
		}
	}
	if result == "" {
		return "", entity.LikeAggregate{}, fmt.Errorf("toggle like: %w", entity.ErrServiceUnavailable)
	}

	agg, err := l.likeRepo.Aggregate(ctx, postID, userID)
	if err != nil {
		return "", entity.LikeAggregate{}, err
	}
	return result, agg, nil
}

func (l *interactionLedger) Aggregate(ctx context.Context, postID, viewerID string) (entity.LikeAggregate, error) {
	return l.likeRepo.Aggregate(ctx, postID, viewerID)
}

func (l *interactionLedger) Aggregates(ctx context.Context, postIDs []string, viewerID string) (map[string]entity.LikeAggregate, error) {
	return l.likeRepo.Aggregates(ctx, postIDs, viewerID)
}
