// Package notifier turns like and comment events into per-user
// notifications.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"social-feed/pkg/logger"
	"social-feed/pkg/queue"

	"github.com/redis/go-redis/v9"
)

const (
	maxStoredNotifications = 100
	notificationTTL        = 30 * 24 * time.Hour
)

type Notification struct {
	UserID    string         `json:"user_id"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
	CreatedAt string         `json:"created_at"`
}

// Sink stores a notification for its recipient.
type Sink interface {
	Deliver(ctx context.Context, n *Notification) error
}

type Notifier struct {
	sink   Sink
	logger *logger.Logger
	now    func() time.Time
}

func New(sink Sink, logger *logger.Logger) *Notifier {
	return &Notifier{sink: sink, logger: logger, now: time.Now}
}

// Handle is a queue.Client Consume handler. Returning an error requeues the
// message, so malformed events are logged and dropped instead.
func (n *Notifier) Handle(routingKey string, body map[string]any) error {
	notification, ok := n.build(routingKey, body)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := n.sink.Deliver(ctx, notification); err != nil {
		n.logger.Error("[NOTIFIER] Failed to deliver %s notification to user %s: %v", notification.Type, notification.UserID, err)
		return err
	}

	n.logger.Info("[NOTIFIER] Delivered %s notification to user %s", notification.Type, notification.UserID)
	return nil
}

func (n *Notifier) build(routingKey string, body map[string]any) (*Notification, bool) {
	recipient, _ := body["post_author_id"].(string)
	actor, _ := body["user_id"].(string)
	postID, _ := body["post_id"].(string)

	if recipient == "" || actor == "" || postID == "" {
		n.logger.Error("[NOTIFIER] Invalid %s event: missing post_author_id, user_id or post_id, body=%+v", routingKey, body)
		return nil, false
	}
	// Acting on your own post is not news.
	if recipient == actor {
		return nil, false
	}

	notification := &Notification{
		UserID:    recipient,
		CreatedAt: n.now().UTC().Format(time.RFC3339),
		Data: map[string]any{
			"post_id": postID,
			"user_id": actor,
		},
	}

	switch routingKey {
	case queue.RoutingPostLiked:
		notification.Type = "like"
		notification.Title = "New Like!"
		notification.Message = "Someone liked your post"
		if count, ok := body["likes_count"].(float64); ok {
			notification.Data["likes_count"] = int64(count)
		}
	case queue.RoutingCommentCreated:
		notification.Type = "comment"
		notification.Title = "New Comment!"
		notification.Message = "Someone commented on your post"
		if commentID, ok := body["comment_id"].(string); ok {
			notification.Data["comment_id"] = commentID
		}
	default:
		n.logger.Warn("[NOTIFIER] Ignoring event with routing key %s", routingKey)
		return nil, false
	}

	return notification, true
}

// RedisSink keeps the latest notifications of each user in a capped list
// and publishes them on the user's channel.
type RedisSink struct {
	client *redis.Client
}

func NewRedisSink(client *redis.Client) *RedisSink {
	return &RedisSink{client: client}
}

func (s *RedisSink) Deliver(ctx context.Context, n *Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	key := fmt.Sprintf("notifications:%s", n.UserID)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, maxStoredNotifications-1)
	pipe.Expire(ctx, key, notificationTTL)
	pipe.Publish(ctx, key, payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	return nil
}
