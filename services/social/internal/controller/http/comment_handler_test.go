package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"social-feed/services/social/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testComment(id, postID, authorID string) *entity.Comment {
	return &entity.Comment{ID: id, PostID: postID, AuthorID: authorID, Content: "nice", CreatedAt: testTime, UpdatedAt: testTime}
}

func newCommentRouter(commentUC *MockCommentUseCase, identity *entity.Identity) http.Handler {
	handler := NewCommentHandler(commentUC, testProjector(), testLogger())
	router := setupTestRouter()

	router.GET("/post/:id/comment", handler.ListComments)
	router.GET("/post/:id/comment/:commentId", handler.GetComment)

	authed := router.Group("/")
	authed.Use(asUser(identity))
	authed.POST("/post/:id/comment", handler.CreateComment)
	authed.PUT("/post/:id/comment/:commentId", handler.UpdateComment)
	authed.DELETE("/post/:id/comment/:commentId", handler.DeleteComment)
	return router
}

func TestCreateComment(t *testing.T) {
	identity := &entity.Identity{User: testUser("user-2")}

	t.Run("created", func(t *testing.T) {
		commentUC := new(MockCommentUseCase)
		router := newCommentRouter(commentUC, identity)
		commentUC.On("CreateComment", mock.Anything, identity, "post-1", "nice").
			Return(testComment("c-1", "post-1", "user-2"), nil)

		req := httptest.NewRequest(http.MethodPost, "/post/post-1/comment", strings.NewReader(`{"content":"nice"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		env := decode(t, w)
		assert.Equal(t, "Comment created successfully", env.Message)

		var data CommentResponse
		decodeData(t, env, &data)
		assert.Equal(t, "c-1", data.Comment.ID)
		assert.Equal(t, "user-2", data.Comment.Author.ID)
	})

	t.Run("content required", func(t *testing.T) {
		commentUC := new(MockCommentUseCase)
		router := newCommentRouter(commentUC, identity)

		req := httptest.NewRequest(http.MethodPost, "/post/post-1/comment", strings.NewReader(`{"content":""}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "The content field is required.")
	})

	t.Run("blank content", func(t *testing.T) {
		commentUC := new(MockCommentUseCase)
		router := newCommentRouter(commentUC, identity)

		req := httptest.NewRequest(http.MethodPost, "/post/post-1/comment", strings.NewReader(`{"content":"   \t "}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "The content field is required.")
		commentUC.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("content trimmed", func(t *testing.T) {
		commentUC := new(MockCommentUseCase)
		router := newCommentRouter(commentUC, identity)
		commentUC.On("CreateComment", mock.Anything, identity, "post-1", "nice").
			Return(testComment("c-1", "post-1", "user-2"), nil)

		req := httptest.NewRequest(http.MethodPost, "/post/post-1/comment", strings.NewReader(`{"content":"  nice  "}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		commentUC.AssertExpectations(t)
	})

	t.Run("content too long", func(t *testing.T) {
		commentUC := new(MockCommentUseCase)
		router := newCommentRouter(commentUC, identity)

		body := `{"content":"` + strings.Repeat("a", 1001) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/post/post-1/comment", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "The content field must not be greater than 1000 characters.")
	})

	t.Run("missing post", func(t *testing.T) {
		commentUC := new(MockCommentUseCase)
		router := newCommentRouter(commentUC, identity)
		commentUC.On("CreateComment", mock.Anything, identity, "nope", "nice").Return(nil, entity.ErrPostNotFound)

		req := httptest.NewRequest(http.MethodPost, "/post/nope/comment", strings.NewReader(`{"content":"nice"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Post not found", decode(t, w).Message)
	})
}

func TestCommentOwnership(t *testing.T) {
	identity := &entity.Identity{User: testUser("user-1")}
	commentUC := new(MockCommentUseCase)
	router := newCommentRouter(commentUC, identity)

	commentUC.On("UpdateComment", mock.Anything, identity, "post-1", "c-1", "edited").
		Return(nil, &entity.ForbiddenError{Reason: "Unauthorized to update this comment"})
	commentUC.On("DeleteComment", mock.Anything, identity, "post-1", "c-1").
		Return(&entity.ForbiddenError{Reason: "Unauthorized to delete this comment"})

	req := httptest.NewRequest(http.MethodPut, "/post/post-1/comment/c-1", strings.NewReader(`{"content":"edited"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Unauthorized to update this comment", decode(t, w).Message)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/post/post-1/comment/c-1", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Unauthorized to delete this comment", decode(t, w).Message)
}

func TestListAndGetComments(t *testing.T) {
	commentUC := new(MockCommentUseCase)
	router := newCommentRouter(commentUC, &entity.Identity{User: testUser("user-1")})

	commentUC.On("ListComments", mock.Anything, "post-1").
		Return([]*entity.Comment{testComment("c-1", "post-1", "user-1"), testComment("c-2", "post-1", "user-2")}, nil)
	commentUC.On("GetComment", mock.Anything, "post-2", "c-1").Return(nil, entity.ErrCommentNotFound)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/post/post-1/comment", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var data CommentListResponse
	decodeData(t, decode(t, w), &data)
	require.Len(t, data.Comments, 2)
	assert.Equal(t, "user-2", data.Comments[1].Author.ID)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/post/post-2/comment/c-1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Comment not found", decode(t, w).Message)
}
