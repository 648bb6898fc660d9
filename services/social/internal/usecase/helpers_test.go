package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"social-feed/pkg/database"
	"social-feed/pkg/logger"
	"social-feed/services/social/internal/entity"
	"social-feed/services/social/internal/model"
	"social-feed/services/social/internal/repo/persistent"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewSQLiteDB("file::memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func testLogger() *logger.Logger {
	return logger.NewWithWriters(io.Discard, io.Discard)
}

// fakeStorage keeps uploaded objects in memory.
type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	deleteErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) UploadFile(ctx context.Context, key string, file io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return "http://storage.test/" + key, nil
}

func (s *fakeStorage) DeleteFile(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, key)
	return nil
}

func (s *fakeStorage) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

type publishedEvent struct {
	routingKey string
	event      any
}

type fakePublisher struct {
	events chan publishedEvent
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{events: make(chan publishedEvent, 16)}
}

func (p *fakePublisher) Publish(ctx context.Context, routingKey string, event any) error {
	p.events <- publishedEvent{routingKey: routingKey, event: event}
	return nil
}

var errStorageDown = errors.New("storage down")

func testImage() *entity.Image {
	data := []byte("\x89PNG\r\n\x1a\nfake")
	return &entity.Image{
		Reader:      bytes.NewReader(data),
		Size:        int64(len(data)),
		ContentType: "image/png",
		Extension:   ".png",
	}
}

// testEnv wires real repositories on sqlite with in-memory collaborators.
type testEnv struct {
	db        *gorm.DB
	users     persistent.UserRepository
	posts     persistent.PostRepository
	comments  persistent.CommentRepository
	likes     persistent.LikeRepository
	ledger    InteractionLedger
	storage   *fakeStorage
	publisher *fakePublisher
	postUC    PostUseCase
	commentUC CommentUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	env := &testEnv{
		db:        db,
		users:     persistent.NewUserRepository(db),
		posts:     persistent.NewPostRepository(db),
		comments:  persistent.NewCommentRepository(db),
		likes:     persistent.NewLikeRepository(db),
		storage:   newFakeStorage(),
		publisher: newFakePublisher(),
	}
	env.ledger = NewInteractionLedger(env.likes)
	env.postUC = NewPostUseCase(env.posts, env.ledger, env.storage, env.publisher, testLogger())
	env.commentUC = NewCommentUseCase(env.comments, env.posts, env.publisher, testLogger())
	return env
}

func (env *testEnv) identity(t *testing.T, email string) *entity.Identity {
	t.Helper()
	user := &entity.User{Name: email, Email: email, PasswordHash: "hash"}
	require.NoError(t, env.users.CreateWithPermission(context.Background(), user))
	return &entity.Identity{User: user, TokenID: "token-" + user.ID}
}

func (env *testEnv) post(t *testing.T, author *entity.Identity) *entity.Post {
	t.Helper()
	post, err := env.postUC.CreatePost(context.Background(), author, "hello", testImage())
	require.NoError(t, err)
	return post
}
