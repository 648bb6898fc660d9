package projector

import "social-feed/services/social/internal/entity"

// Timestamps are epoch seconds in every view.

type PermissionView struct {
	UserID           string `json:"user_id"`
	CanCreatePost    bool   `json:"can_create_post"`
	CanUpdatePost    bool   `json:"can_update_post"`
	CanDeletePost    bool   `json:"can_delete_post"`
	CanCreateComment bool   `json:"can_create_comment"`
	CanUpdateComment bool   `json:"can_update_comment"`
	CanDeleteComment bool   `json:"can_delete_comment"`
	CanLikePost      bool   `json:"can_like_post"`
	CanUnlikePost    bool   `json:"can_unlike_post"`
}

type UserView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	CreatedAt   int64           `json:"created_at"`
	UpdatedAt   int64           `json:"updated_at"`
	Permissions *PermissionView `json:"permissions,omitempty"`
}

type CommentView struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Content   string    `json:"content"`
	CreatedAt int64     `json:"created_at"`
	UpdatedAt int64     `json:"updated_at"`
	Author    *UserView `json:"author,omitempty"`
}

type PostView struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	ImageURL   string    `json:"image_url"`
	LikesCount int64     `json:"likes_count"`
	IsLiked    bool      `json:"is_liked"`
	CreatedAt  int64     `json:"created_at"`
	UpdatedAt  int64     `json:"updated_at"`
	Author     *UserView `json:"author,omitempty"`
	// Comments is nil unless requested, and an empty list when requested
	// for a post without comments.
	Comments *[]CommentView `json:"comments,omitempty"`
}

func permissionView(p *entity.Permission) *PermissionView {
	if p == nil {
		return nil
	}
	return &PermissionView{
		UserID:           p.UserID,
		CanCreatePost:    p.CanCreatePost,
		CanUpdatePost:    p.CanUpdatePost,
		CanDeletePost:    p.CanDeletePost,
		CanCreateComment: p.CanCreateComment,
		CanUpdateComment: p.CanUpdateComment,
		CanDeleteComment: p.CanDeleteComment,
		CanLikePost:      p.CanLikePost,
		CanUnlikePost:    p.CanUnlikePost,
	}
}

// userView always carries permissions when nested; a user's permissions are
// a default include.
func userView(u *entity.User, withPermissions bool) *UserView {
	if u == nil {
		return nil
	}
	view := &UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Unix(),
		UpdatedAt: u.UpdatedAt.Unix(),
	}
	if withPermissions {
		view.Permissions = permissionView(u.Permission)
	}
	return view
}

func commentView(c *entity.Comment, author *entity.User) CommentView {
	return CommentView{
		ID:        c.ID,
		PostID:    c.PostID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt.Unix(),
		UpdatedAt: c.UpdatedAt.Unix(),
		Author:    userView(author, true),
	}
}
