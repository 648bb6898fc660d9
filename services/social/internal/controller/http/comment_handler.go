package http

import (
	"strings"

	"social-feed/pkg/logger"
	"social-feed/pkg/response"
	"social-feed/services/social/internal/entity"
	"social-feed/services/social/internal/projector"
	"social-feed/services/social/internal/usecase"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentUseCase usecase.CommentUseCase
	projector      *projector.Projector
	logger         *logger.Logger
}

func NewCommentHandler(commentUseCase usecase.CommentUseCase, projector *projector.Projector, logger *logger.Logger) *CommentHandler {
	return &CommentHandler{
		commentUseCase: commentUseCase,
		projector:      projector,
		logger:         logger,
	}
}

type CommentRequest struct {
	Content string `json:"content" form:"content" binding:"required,notblank,max=1000"`
}

type CommentResponse struct {
	Comment *projector.CommentView `json:"comment"`
}

type CommentListResponse struct {
	Comments []projector.CommentView `json:"comments"`
}

// ListComments godoc
// @Summary      List comments of a post
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  response.Envelope{data=CommentListResponse}
// @Failure      404  {object}  response.Envelope
// @Router       /post/{id}/comment [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	inc, err := projector.ParseIncludes(projector.KindComment, c.Query("include"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve comments")
		return
	}

	ctx := c.Request.Context()
	comments, err := h.commentUseCase.ListComments(ctx, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve comments")
		return
	}

	views, err := h.projector.Comments(ctx, comments, inc)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve comments")
		return
	}

	response.Success(c, CommentListResponse{Comments: views}, "Comments retrieved successfully")
}

// GetComment godoc
// @Summary      Get a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        commentId path string true "Comment ID"
// @Success      200  {object}  response.Envelope{data=CommentResponse}
// @Failure      404  {object}  response.Envelope
// @Router       /post/{id}/comment/{commentId} [get]
func (h *CommentHandler) GetComment(c *gin.Context) {
	inc, err := projector.ParseIncludes(projector.KindComment, c.Query("include"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve comment")
		return
	}

	comment, err := h.commentUseCase.GetComment(c.Request.Context(), c.Param("id"), c.Param("commentId"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve comment")
		return
	}

	h.respondComment(c, comment, inc, "Comment retrieved successfully", "Failed to retrieve comment", false)
}

// CreateComment godoc
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        request body CommentRequest true "Comment"
// @Success      201  {object}  response.Envelope{data=CommentResponse}
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Failure      422  {object}  response.Envelope
// @Router       /post/{id}/comment [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	req, inc, ok := h.bindComment(c, "Failed to create comment")
	if !ok {
		return
	}

	comment, err := h.commentUseCase.CreateComment(c.Request.Context(), currentIdentity(c), c.Param("id"), req.Content)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create comment")
		return
	}

	h.respondComment(c, comment, inc, "Comment created successfully", "Failed to create comment", true)
}

// UpdateComment godoc
// @Summary      Update a comment
// @Description  Only the comment author may update.
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        commentId path string true "Comment ID"
// @Param        request body CommentRequest true "Comment"
// @Success      200  {object}  response.Envelope{data=CommentResponse}
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Failure      422  {object}  response.Envelope
// @Router       /post/{id}/comment/{commentId} [put]
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	req, inc, ok := h.bindComment(c, "Failed to update comment")
	if !ok {
		return
	}

	comment, err := h.commentUseCase.UpdateComment(c.Request.Context(), currentIdentity(c), c.Param("id"), c.Param("commentId"), req.Content)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update comment")
		return
	}

	h.respondComment(c, comment, inc, "Comment updated successfully", "Failed to update comment", false)
}

// DeleteComment godoc
// @Summary      Delete a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        commentId path string true "Comment ID"
// @Success      200  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /post/{id}/comment/{commentId} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	if err := h.commentUseCase.DeleteComment(c.Request.Context(), currentIdentity(c), c.Param("id"), c.Param("commentId")); err != nil {
		respondError(c, h.logger, err, "Failed to delete comment")
		return
	}
	response.Success(c, nil, "Comment deleted successfully")
}

func (h *CommentHandler) bindComment(c *gin.Context, failure string) (CommentRequest, projector.Includes, bool) {
	var req CommentRequest
	verr := bind(c, &req)
	inc, err := projector.ParseIncludes(projector.KindComment, c.Query("include"))
	if err != nil {
		verr = merge(verr, err.(*entity.ValidationError))
	}
	if verr != nil {
		respondError(c, h.logger, verr, failure)
		return req, inc, false
	}
	req.Content = strings.TrimSpace(req.Content)
	return req, inc, true
}

func (h *CommentHandler) respondComment(c *gin.Context, comment *entity.Comment, inc projector.Includes, message, failure string, created bool) {
	view, err := h.projector.Comment(c.Request.Context(), comment, inc)
	if err != nil {
		respondError(c, h.logger, err, failure)
		return
	}
	if created {
		response.Created(c, CommentResponse{Comment: view}, message)
		return
	}
	response.Success(c, CommentResponse{Comment: view}, message)
}
