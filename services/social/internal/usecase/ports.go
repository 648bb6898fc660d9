package usecase

import (
	"context"
	"io"
	"time"

	"social-feed/pkg/logger"
)

// ImageStorage is the blob store holding post images (pkg/s3 or pkg/minio).
type ImageStorage interface {
	UploadFile(ctx context.Context, key string, file io.Reader, size int64, contentType string) (string, error)
	DeleteFile(ctx context.Context, key string) error
}

// EventPublisher is the notification sink (pkg/queue).
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

const publishTimeout = 5 * time.Second

// publishAsync delivers event without holding up the request. A nil
// publisher disables events.
func publishAsync(publisher EventPublisher, log *logger.Logger, routingKey string, event any) {
	if publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := publisher.Publish(ctx, routingKey, event); err != nil {
			log.Warn("Failed to publish %s event: %v", routingKey, err)
		}
	}()
}

type PostLikedEvent struct {
	Type         string `json:"type"`
	PostID       string `json:"post_id"`
	PostAuthorID string `json:"post_author_id"`
	UserID       string `json:"user_id"`
	LikesCount   int64  `json:"likes_count"`
	OccurredAt   int64  `json:"occurred_at"`
}

type CommentCreatedEvent struct {
	Type         string `json:"type"`
	CommentID    string `json:"comment_id"`
	PostID       string `json:"post_id"`
	PostAuthorID string `json:"post_author_id"`
	UserID       string `json:"user_id"`
	OccurredAt   int64  `json:"occurred_at"`
}
