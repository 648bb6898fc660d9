package http

import (
	"context"
	"io"
	"time"

	"social-feed/pkg/logger"
	"social-feed/services/social/internal/entity"
	"social-feed/services/social/internal/projector"
	"social-feed/services/social/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

type MockIdentityResolver struct {
	mock.Mock
}

func (m *MockIdentityResolver) Resolve(ctx context.Context, rawToken string) (*entity.Identity, error) {
	args := m.Called(ctx, rawToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Identity), args.Error(1)
}

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Register(ctx context.Context, name, email, password string) (*entity.User, string, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.User), args.String(1), args.Error(2)
}

func (m *MockAuthUseCase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.User), args.String(1), args.Error(2)
}

func (m *MockAuthUseCase) Logout(ctx context.Context, actor *entity.Identity) error {
	args := m.Called(ctx, actor)
	return args.Error(0)
}

func (m *MockAuthUseCase) Me(ctx context.Context, actor *entity.Identity) (*entity.User, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

type MockPostUseCase struct {
	mock.Mock
}

func (m *MockPostUseCase) ListPosts(ctx context.Context, page, perPage int) ([]*entity.Post, int64, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.Post), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostUseCase) GetPost(ctx context.Context, id string) (*entity.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) CreatePost(ctx context.Context, actor *entity.Identity, content string, image *entity.Image) (*entity.Post, error) {
	args := m.Called(ctx, actor, content, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) UpdatePost(ctx context.Context, actor *entity.Identity, id string, content *string) (*entity.Post, error) {
	args := m.Called(ctx, actor, id, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) UpdatePostImage(ctx context.Context, actor *entity.Identity, id string, image *entity.Image) (*entity.Post, error) {
	args := m.Called(ctx, actor, id, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) DeletePost(ctx context.Context, actor *entity.Identity, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockPostUseCase) LikePost(ctx context.Context, actor *entity.Identity, id string) (*entity.Post, entity.LikeAggregate, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, entity.LikeAggregate{}, args.Error(2)
	}
	return args.Get(0).(*entity.Post), args.Get(1).(entity.LikeAggregate), args.Error(2)
}

func (m *MockPostUseCase) UnlikePost(ctx context.Context, actor *entity.Identity, id string) (*entity.Post, entity.LikeAggregate, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, entity.LikeAggregate{}, args.Error(2)
	}
	return args.Get(0).(*entity.Post), args.Get(1).(entity.LikeAggregate), args.Error(2)
}

func (m *MockPostUseCase) ToggleLike(ctx context.Context, actor *entity.Identity, id string) (*entity.Post, entity.ToggleResult, entity.LikeAggregate, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, "", entity.LikeAggregate{}, args.Error(3)
	}
	return args.Get(0).(*entity.Post), args.Get(1).(entity.ToggleResult), args.Get(2).(entity.LikeAggregate), args.Error(3)
}

type MockCommentUseCase struct {
	mock.Mock
}

func (m *MockCommentUseCase) ListComments(ctx context.Context, postID string) ([]*entity.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Comment), args.Error(1)
}

func (m *MockCommentUseCase) GetComment(ctx context.Context, postID, id string) (*entity.Comment, error) {
	args := m.Called(ctx, postID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comment), args.Error(1)
}

func (m *MockCommentUseCase) CreateComment(ctx context.Context, actor *entity.Identity, postID, content string) (*entity.Comment, error) {
	args := m.Called(ctx, actor, postID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comment), args.Error(1)
}

func (m *MockCommentUseCase) UpdateComment(ctx context.Context, actor *entity.Identity, postID, id, content string) (*entity.Comment, error) {
	args := m.Called(ctx, actor, postID, id, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comment), args.Error(1)
}

func (m *MockCommentUseCase) DeleteComment(ctx context.Context, actor *entity.Identity, postID, id string) error {
	args := m.Called(ctx, actor, postID, id)
	return args.Error(0)
}

var (
	_ usecase.IdentityResolver = (*MockIdentityResolver)(nil)
	_ usecase.AuthUseCase      = (*MockAuthUseCase)(nil)
	_ usecase.PostUseCase      = (*MockPostUseCase)(nil)
	_ usecase.CommentUseCase   = (*MockCommentUseCase)(nil)
)

// stubSources serves projector lookups from fixed data.
type stubSources struct {
	users    map[string]*entity.User
	comments []*entity.Comment
}

func (s *stubSources) GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	var out []*entity.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *stubSources) ListByPostIDs(ctx context.Context, postIDs []string) ([]*entity.Comment, error) {
	return s.comments, nil
}

func (s *stubSources) Aggregates(ctx context.Context, postIDs []string, viewerID string) (map[string]entity.LikeAggregate, error) {
	out := make(map[string]entity.LikeAggregate, len(postIDs))
	for _, id := range postIDs {
		out[id] = entity.LikeAggregate{PostID: id}
	}
	return out, nil
}

var testTime = time.Unix(1700000000, 0)

func testUser(id string) *entity.User {
	return &entity.User{
		ID:         id,
		Name:       "User " + id,
		Email:      id + "@example.com",
		CreatedAt:  testTime,
		UpdatedAt:  testTime,
		Permission: entity.DefaultPermission(id),
	}
}

func testPost(id, authorID string) *entity.Post {
	return &entity.Post{
		ID:        id,
		AuthorID:  authorID,
		Content:   "hello",
		ImageURL:  "http://storage.test/posts/" + id + ".png",
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
}

func testProjector() *projector.Projector {
	sources := &stubSources{users: map[string]*entity.User{
		"user-1": testUser("user-1"),
		"user-2": testUser("user-2"),
	}}
	return projector.New(sources, sources, sources)
}

func testLogger() *logger.Logger {
	return logger.NewWithWriters(io.Discard, io.Discard)
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	RegisterValidation()
	return gin.New()
}

// asUser stands in for the auth middleware.
func asUser(identity *entity.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(identityKey, identity)
		c.Set("user_id", identity.UserID())
		c.Next()
	}
}
