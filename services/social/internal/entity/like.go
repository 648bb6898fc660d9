package entity

import "time"

type Like struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeAggregate is the viewer-relative like view of one post, read from a
// single statement so both values describe the same row set.
type LikeAggregate struct {
	PostID     string `json:"post_id"`
	LikesCount int64  `json:"likes_count"`
	IsLiked    bool   `json:"is_liked"`
}

type ToggleResult string

const (
	ToggleLiked   ToggleResult = "liked"
	ToggleUnliked ToggleResult = "unliked"
)
