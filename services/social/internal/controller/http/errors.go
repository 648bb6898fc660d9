package http

import (
	"context"
	"errors"
	"net/http"

	"social-feed/pkg/logger"
	"social-feed/pkg/response"
	"social-feed/services/social/internal/entity"

	"github.com/gin-gonic/gin"
)

const serviceUnavailableMessage = "Service temporarily unavailable"

// respondError maps err onto the envelope. Errors outside the known
// categories are logged and answered with internalMessage.
func respondError(c *gin.Context, log *logger.Logger, err error, internalMessage string) {
	var validation *entity.ValidationError
	var forbidden *entity.ForbiddenError

	switch {
	case errors.As(err, &validation):
		response.ValidationError(c, validation.Fields, "Validation failed")
	case errors.As(err, &forbidden):
		response.Error(c, http.StatusForbidden, forbidden.Reason)
	case errors.Is(err, entity.ErrPostNotFound):
		response.Error(c, http.StatusNotFound, "Post not found")
	case errors.Is(err, entity.ErrCommentNotFound):
		response.Error(c, http.StatusNotFound, "Comment not found")
	case errors.Is(err, entity.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "User not found")
	case errors.Is(err, entity.ErrAlreadyLiked):
		response.Error(c, http.StatusBadRequest, "You have already liked this post")
	case errors.Is(err, entity.ErrNotLiked):
		response.Error(c, http.StatusBadRequest, "You have not liked this post")
	case errors.Is(err, entity.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "Invalid credentials")
	case isTokenError(err):
		unauthorized(c, err)
	case errors.Is(err, entity.ErrServiceUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		log.Warn("%s: %v", internalMessage, err)
		response.Error(c, http.StatusServiceUnavailable, serviceUnavailableMessage)
	default:
		log.Error("%s: %v", internalMessage, err)
		response.Error(c, http.StatusInternalServerError, internalMessage)
	}
}

func isTokenError(err error) bool {
	return errors.Is(err, entity.ErrMissingToken) ||
		errors.Is(err, entity.ErrInvalidToken) ||
		errors.Is(err, entity.ErrExpiredToken) ||
		errors.Is(err, entity.ErrOrphanedToken)
}

// unauthorized aborts with 401 and the cause code in data.error.
func unauthorized(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrMissingToken):
		response.Unauthorized(c, "Token not provided", "missing_token")
	case errors.Is(err, entity.ErrExpiredToken):
		response.Unauthorized(c, "Token expired", "expired_token")
	case errors.Is(err, entity.ErrOrphanedToken):
		response.Unauthorized(c, "User not found", "orphaned_token")
	default:
		response.Unauthorized(c, "Invalid token", "invalid_token")
	}
}
