package entity

// Permission is the per-user capability flag set. Every flag defaults to true.
type Permission struct {
	ID               string `json:"id"`
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

func DefaultPermission(userID string) *Permission {
	return &Permission{
		UserID:           userID,
		CanCreatePost:    true,
		CanUpdatePost:    true,
		CanDeletePost:    true,
		CanCreateComment: true,
		CanUpdateComment: true,
		CanDeleteComment: true,
		CanLikePost:      true,
		CanUnlikePost:    true,
	}
}

// Allows reports whether the capability class of action is granted.
func (p *Permission) Allows(action Action) bool {
	if p == nil {
		return false
	}
	switch action {
	case ActionCreatePost:
		return p.CanCreatePost
	case ActionUpdatePost:
		return p.CanUpdatePost
	case ActionDeletePost:
		return p.CanDeletePost
	case ActionCreateComment:
		return p.CanCreateComment
	case ActionUpdateComment:
		return p.CanUpdateComment
	case ActionDeleteComment:
		return p.CanDeleteComment
	case ActionLikePost:
		return p.CanLikePost
	case ActionUnlikePost:
		return p.CanUnlikePost
	case ActionToggleLike:
		return p.CanLikePost && p.CanUnlikePost
	default:
		return false
	}
}
