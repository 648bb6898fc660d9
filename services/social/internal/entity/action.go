package entity

type Action string

const (
	ActionCreatePost    Action = "create_post"
	ActionUpdatePost    Action = "update_post"
	ActionDeletePost    Action = "delete_post"
	ActionCreateComment Action = "create_comment"
	ActionUpdateComment Action = "update_comment"
	ActionDeleteComment Action = "delete_comment"
	ActionLikePost      Action = "like_post"
	ActionUnlikePost    Action = "unlike_post"
	ActionToggleLike    Action = "toggle_like"
)

// Owned is implemented by resources whose mutations are restricted to their author.
type Owned interface {
	OwnerID() string
}
