package usecase

import (
	"social-feed/services/social/internal/entity"
)

var capabilityDenied = map[entity.Action]string{
	entity.ActionCreatePost:    "You do not have permission to create posts",
	entity.ActionUpdatePost:    "You do not have permission to update posts",
	entity.ActionDeletePost:    "You do not have permission to delete posts",
	entity.ActionCreateComment: "You do not have permission to create comments",
	entity.ActionUpdateComment: "You do not have permission to update comments",
	entity.ActionDeleteComment: "You do not have permission to delete comments",
	entity.ActionLikePost:      "You do not have permission to like posts",
	entity.ActionUnlikePost:    "You do not have permission to unlike posts",
	entity.ActionToggleLike:    "You do not have permission to like or unlike posts",
}

// Only these actions are restricted to the resource author.
var ownershipDenied = map[entity.Action]string{
	entity.ActionUpdatePost:    "Unauthorized to update this post",
	entity.ActionDeletePost:    "Unauthorized to delete this post",
	entity.ActionUpdateComment: "Unauthorized to update this comment",
	entity.ActionDeleteComment: "Unauthorized to delete this comment",
}

// Authorize decides whether actor may perform action on an already loaded
// resource. The capability flag is checked before ownership. resource may be
// nil for create and like actions. Denials are *entity.ForbiddenError.
func Authorize(actor *entity.Identity, action entity.Action, resource entity.Owned) error {
	if actor == nil || actor.User == nil {
		return entity.ErrMissingToken
	}

	if !actor.Permission().Allows(action) {
		reason, ok := capabilityDenied[action]
		if !ok {
			reason = "You do not have permission to perform this action"
		}
		return &entity.ForbiddenError{Reason: reason}
	}

	if reason, ok := ownershipDenied[action]; ok {
		if resource == nil || resource.OwnerID() != actor.UserID() {
			return &entity.ForbiddenError{Reason: reason}
		}
	}

	return nil
}
