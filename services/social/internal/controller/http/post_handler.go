package http

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"social-feed/pkg/logger"
	"social-feed/pkg/response"
	"social-feed/services/social/internal/entity"
	"social-feed/services/social/internal/projector"
	"social-feed/services/social/internal/usecase"

	"github.com/gin-gonic/gin"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

type PostHandler struct {
	postUseCase  usecase.PostUseCase
	projector    *projector.Projector
	maxImageSize int64
	logger       *logger.Logger
}

func NewPostHandler(postUseCase usecase.PostUseCase, projector *projector.Projector, maxImageSize int64, logger *logger.Logger) *PostHandler {
	return &PostHandler{
		postUseCase:  postUseCase,
		projector:    projector,
		maxImageSize: maxImageSize,
		logger:       logger,
	}
}

type CreatePostRequest struct {
	Content string `form:"content" json:"content" binding:"max=2000"`
}

type UpdatePostRequest struct {
	Content *string `form:"content" json:"content" binding:"omitempty,max=2000"`
}

type Pagination struct {
	Total       int64 `json:"total"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
}

type PostListResponse struct {
	Posts      []projector.PostView `json:"posts"`
	Pagination Pagination           `json:"pagination"`
}

type PostResponse struct {
	Post *projector.PostView `json:"post"`
}

// ListPosts godoc
// @Summary      List posts
// @Description  Newest first. Anonymous callers always see is_liked=false.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Page size (max 100)" default(10)
// @Param        include query string false "Extra relations (author, comments)"
// @Success      200  {object}  response.Envelope{data=PostListResponse}
// @Failure      401  {object}  response.Envelope
// @Failure      422  {object}  response.Envelope
// @Router       /post [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	page, perPage, verr := parsePagination(c)
	inc, err := projector.ParseIncludes(projector.KindPost, c.Query("include"))
	if err != nil {
		verr = merge(verr, err.(*entity.ValidationError))
	}
	if verr != nil {
		respondError(c, h.logger, verr, "Failed to retrieve posts")
		return
	}

	ctx := c.Request.Context()
	posts, total, err := h.postUseCase.ListPosts(ctx, page, perPage)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve posts")
		return
	}

	views, err := h.projector.Posts(ctx, currentIdentity(c), posts, inc)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve posts")
		return
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	response.Success(c, PostListResponse{
		Posts: views,
		Pagination: Pagination{
			Total:       total,
			PerPage:     perPage,
			CurrentPage: page,
			LastPage:    lastPage,
		},
	}, "Posts retrieved successfully")
}

// CreatePost godoc
// @Summary      Create a post
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        content formData string false "Post text (max 2000)"
// @Param        image formData file true "jpeg, png or gif image"
// @Success      201  {object}  response.Envelope{data=PostResponse}
// @Failure      401  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Failure      422  {object}  response.Envelope
// @Router       /post [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	verr := bind(c, &req)
	inc, err := projector.ParseIncludes(projector.KindPost, c.Query("include"))
	if err != nil {
		verr = merge(verr, err.(*entity.ValidationError))
	}
	image, file, imageErr := readImage(c, "image", h.maxImageSize)
	if file != nil {
		defer file.Close()
	}
	verr = merge(verr, imageErr)
	if verr != nil {
		respondError(c, h.logger, verr, "Failed to create post")
		return
	}

	actor := currentIdentity(c)
	post, err := h.postUseCase.CreatePost(c.Request.Context(), actor, strings.TrimSpace(req.Content), image)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create post")
		return
	}

	h.respondPost(c, actor, post, nil, inc, "Post created successfully", "Failed to create post", true)
}

// GetPost godoc
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        include query string false "Extra relations (author, comments)"
// @Success      200  {object}  response.Envelope{data=PostResponse}
// @Failure      404  {object}  response.Envelope
// @Router       /post/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	inc, err := projector.ParseIncludes(projector.KindPost, c.Query("include"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve post")
		return
	}

	post, err := h.postUseCase.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve post")
		return
	}

	h.respondPost(c, currentIdentity(c), post, nil, inc, "Post retrieved successfully", "Failed to retrieve post", false)
}

// UpdatePost godoc
// @Summary      Update a post
// @Description  Only the author may update. Omitting content leaves it unchanged.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        request body UpdatePostRequest true "New content"
// @Success      200  {object}  response.Envelope{data=PostResponse}
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Failure      422  {object}  response.Envelope
// @Router       /post/{id} [put]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var req UpdatePostRequest
	verr := bind(c, &req)
	inc, err := projector.ParseIncludes(projector.KindPost, c.Query("include"))
	if err != nil {
		verr = merge(verr, err.(*entity.ValidationError))
	}
	if verr != nil {
		respondError(c, h.logger, verr, "Failed to update post")
		return
	}

	if req.Content != nil {
		trimmed := strings.TrimSpace(*req.Content)
		req.Content = &trimmed
	}

	actor := currentIdentity(c)
	post, err := h.postUseCase.UpdatePost(c.Request.Context(), actor, c.Param("id"), req.Content)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update post")
		return
	}

	h.respondPost(c, actor, post, nil, inc, "Post updated successfully", "Failed to update post", false)
}

// UpdateImage godoc
// @Summary      Replace a post image
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        image formData file true "jpeg, png or gif image"
// @Success      200  {object}  response.Envelope{data=PostResponse}
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Failure      422  {object}  response.Envelope
// @Router       /post/{id}/update-image [post]
func (h *PostHandler) UpdateImage(c *gin.Context) {
	inc, err := projector.ParseIncludes(projector.KindPost, c.Query("include"))
	var verr *entity.ValidationError
	if err != nil {
		verr = err.(*entity.ValidationError)
	}
	image, file, imageErr := readImage(c, "image", h.maxImageSize)
	if file != nil {
		defer file.Close()
	}
	verr = merge(verr, imageErr)
	if verr != nil {
		respondError(c, h.logger, verr, "Failed to update image")
		return
	}

	actor := currentIdentity(c)
	post, err := h.postUseCase.UpdatePostImage(c.Request.Context(), actor, c.Param("id"), image)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update image")
		return
	}

	h.respondPost(c, actor, post, nil, inc, "Image updated successfully", "Failed to update image", false)
}

// DeletePost godoc
// @Summary      Delete a post
// @Description  Removes the post with its comments and likes, then its image.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /post/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.postUseCase.DeletePost(c.Request.Context(), currentIdentity(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Failed to delete post")
		return
	}
	response.Success(c, nil, "Post deleted successfully")
}

// LikePost godoc
// @Summary      Like a post
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  response.Envelope{data=PostResponse}
// @Failure      400  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /post/{id}/like [post]
func (h *PostHandler) LikePost(c *gin.Context) {
	h.interact(c, "Failed to like post", func(ctx context.Context, actor *entity.Identity, id string) (*entity.Post, entity.LikeAggregate, string, error) {
		post, agg, err := h.postUseCase.LikePost(ctx, actor, id)
		return post, agg, "Post liked successfully", err
	})
}

// UnlikePost godoc
// @Summary      Unlike a post
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  response.Envelope{data=PostResponse}
// @Failure      400  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /post/{id}/unlike [post]
func (h *PostHandler) UnlikePost(c *gin.Context) {
	h.interact(c, "Failed to unlike post", func(ctx context.Context, actor *entity.Identity, id string) (*entity.Post, entity.LikeAggregate, string, error) {
		post, agg, err := h.postUseCase.UnlikePost(ctx, actor, id)
		return post, agg, "Post unliked successfully", err
	})
}

// ToggleLike godoc
// @Summary      Toggle a like
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  response.Envelope{data=PostResponse}
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /post/{id}/toggle-like [post]
func (h *PostHandler) ToggleLike(c *gin.Context) {
	h.interact(c, "Failed to toggle like", func(ctx context.Context, actor *entity.Identity, id string) (*entity.Post, entity.LikeAggregate, string, error) {
		post, result, agg, err := h.postUseCase.ToggleLike(ctx, actor, id)
		if result == entity.ToggleUnliked {
			return post, agg, "Post unliked successfully", err
		}
		return post, agg, "Post liked successfully", err
	})
}

type interaction func(ctx context.Context, actor *entity.Identity, id string) (*entity.Post, entity.LikeAggregate, string, error)

func (h *PostHandler) interact(c *gin.Context, failure string, do interaction) {
	inc, err := projector.ParseIncludes(projector.KindPost, c.Query("include"))
	if err != nil {
		respondError(c, h.logger, err, failure)
		return
	}

	actor := currentIdentity(c)
	post, agg, message, err := do(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, failure)
		return
	}

	h.respondPost(c, actor, post, &agg, inc, message, failure, false)
}

func (h *PostHandler) respondPost(
	c *gin.Context,
	viewer *entity.Identity,
	post *entity.Post,
	agg *entity.LikeAggregate,
	inc projector.Includes,
	message, failure string,
	created bool,
) {
	var (
		view *projector.PostView
		err  error
	)
	if agg != nil {
		view, err = h.projector.PostWithLikes(c.Request.Context(), viewer, post, *agg, inc)
	} else {
		view, err = h.projector.Post(c.Request.Context(), viewer, post, inc)
	}
	if err != nil {
		respondError(c, h.logger, err, failure)
		return
	}

	if created {
		response.Created(c, PostResponse{Post: view}, message)
		return
	}
	response.Success(c, PostResponse{Post: view}, message)
}

func parsePagination(c *gin.Context) (int, int, *entity.ValidationError) {
	var verr *entity.ValidationError
	page, perPage := 1, defaultPerPage

	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			verr = merge(verr, entity.NewValidationError("page", "The page field must be an integer."))
		case n < 1:
			verr = merge(verr, entity.NewValidationError("page", "The page field must be at least 1."))
		default:
			page = n
		}
	}

	if raw := c.Query("per_page"); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			verr = merge(verr, entity.NewValidationError("per_page", "The per page field must be an integer."))
		case n < 1:
			verr = merge(verr, entity.NewValidationError("per_page", "The per page field must be at least 1."))
		case n > maxPerPage:
			verr = merge(verr, entity.NewValidationError("per_page", "The per page field must not be greater than 100."))
		default:
			perPage = n
		}
	}

	// The row offset must fit in an int.
	if maxPage := math.MaxInt / perPage; page > maxPage {
		verr = merge(verr, entity.NewValidationError("page",
			fmt.Sprintf("The page field must not be greater than %d.", maxPage)))
	}

	return page, perPage, verr
}
