package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"social-feed/pkg/config"
	"social-feed/pkg/database"
	"social-feed/pkg/logger"
	"social-feed/services/social/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

type memStorage struct {
	mu      sync.Mutex
	objects map[string]int64
}

func (s *memStorage) UploadFile(ctx context.Context, key string, file io.Reader, size int64, contentType string) (string, error) {
	n, err := io.Copy(io.Discard, file)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = n
	return "http://storage.test/" + key, nil
}

func (s *memStorage) DeleteFile(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

type server struct {
	t       *testing.T
	db      *gorm.DB
	storage *memStorage
	router  *gin.Engine
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewSQLiteDB("file::memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{
		JWTSecret:          "test-secret",
		RequestTimeout:     5 * time.Second,
		RateLimitPerMinute: 100,
		MaxImageSize:       2048 * 1024,
	}
	storage := &memStorage{objects: make(map[string]int64)}

	return &server{
		t:       t,
		db:      db,
		storage: storage,
		router: NewRouter(Dependencies{
			Config:  cfg,
			Logger:  logger.NewWithWriters(io.Discard, io.Discard),
			DB:      db,
			Storage: storage,
		}),
	}
}

type result struct {
	Code    int
	Message string
	Data    map[string]any
}

func (s *server) do(method, path, token string, body io.Reader, contentType string) result {
	s.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env struct {
		Status  int            `json:"status"`
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return result{Code: w.Code, Message: env.Message, Data: env.Data}
}

func (s *server) json(method, path, token, body string) result {
	s.t.Helper()
	return s.do(method, path, token, strings.NewReader(body), "application/json")
}

func (s *server) register(name, email string) string {
	s.t.Helper()
	res := s.json(http.MethodPost, "/api/register", "",
		`{"name":"`+name+`","email":"`+email+`","password":"secret123","password_confirmation":"secret123"}`)
	require.Equal(s.t, http.StatusCreated, res.Code, res.Message)
	return res.Data["token"].(string)
}

func (s *server) createPost(token string) string {
	s.t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(s.t, writer.WriteField("content", "hello"))
	part, err := writer.CreateFormFile("image", "pic.png")
	require.NoError(s.t, err)
	_, err = part.Write(pngBytes)
	require.NoError(s.t, err)
	require.NoError(s.t, writer.Close())

	res := s.do(http.MethodPost, "/api/post", token, body, writer.FormDataContentType())
	require.Equal(s.t, http.StatusCreated, res.Code, res.Message)
	return res.Data["post"].(map[string]any)["id"].(string)
}

func post(res result) map[string]any {
	return res.Data["post"].(map[string]any)
}

func TestScenario_Register(t *testing.T) {
	s := newServer(t)

	res := s.json(http.MethodPost, "/api/register", "",
		`{"name":"Ana","email":"ana@x.com","password":"secret123","password_confirmation":"secret123"}`)

	require.Equal(t, http.StatusCreated, res.Code)
	assert.NotEmpty(t, res.Data["token"])
	assert.Equal(t, "Bearer", res.Data["token_type"])
	user := res.Data["user"].(map[string]any)
	assert.Equal(t, "ana@x.com", user["email"])
	assert.NotNil(t, user["permissions"])

	again := s.json(http.MethodPost, "/api/register", "",
		`{"name":"Ana","email":"ana@x.com","password":"secret123","password_confirmation":"secret123"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, again.Code)

	var permissions int64
	require.NoError(t, s.db.Model(&model.PermissionModel{}).Count(&permissions).Error)
	assert.Equal(t, int64(1), permissions)
}

func TestScenario_LoginWrongPassword(t *testing.T) {
	s := newServer(t)
	s.register("Ana", "ana@x.com")

	res := s.json(http.MethodPost, "/api/login", "", `{"email":"ana@x.com","password":"wrong-password"}`)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Invalid credentials", res.Message)
	assert.Nil(t, res.Data)
}

func TestScenario_NonOwnerDelete(t *testing.T) {
	s := newServer(t)
	alice := s.register("Ana", "ana@x.com")
	bob := s.register("Bo", "bo@x.com")
	postID := s.createPost(alice)

	res := s.do(http.MethodDelete, "/api/post/"+postID, bob, nil, "")
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, "Unauthorized to delete this post", res.Message)

	res = s.do(http.MethodGet, "/api/post/"+postID, "", nil, "")
	assert.Equal(t, http.StatusOK, res.Code)

	res = s.json(http.MethodPatch, "/api/post/"+postID, bob, `{"content":"mine now"}`)
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, "Unauthorized to update this post", res.Message)
}

func TestScenario_DoubleLike(t *testing.T) {
	s := newServer(t)
	alice := s.register("Ana", "ana@x.com")
	postID := s.createPost(alice)

	res := s.do(http.MethodPost, "/api/post/"+postID+"/like", alice, nil, "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, true, post(res)["is_liked"])
	assert.Equal(t, float64(1), post(res)["likes_count"])

	res = s.do(http.MethodPost, "/api/post/"+postID+"/like", alice, nil, "")
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "You have already liked this post", res.Message)

	// Anonymous viewers see the count but never is_liked.
	res = s.do(http.MethodGet, "/api/post/"+postID, "", nil, "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, false, post(res)["is_liked"])
	assert.Equal(t, float64(1), post(res)["likes_count"])
}

func TestScenario_ToggleTwice(t *testing.T) {
	s := newServer(t)
	alice := s.register("Ana", "ana@x.com")
	postID := s.createPost(alice)

	res := s.do(http.MethodPost, "/api/post/"+postID+"/toggle-like", alice, nil, "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Post liked successfully", res.Message)

	res = s.do(http.MethodPost, "/api/post/"+postID+"/toggle-like", alice, nil, "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Post unliked successfully", res.Message)
	assert.Equal(t, false, post(res)["is_liked"])
	assert.Equal(t, float64(0), post(res)["likes_count"])
}

func TestScenario_CommentTooLong(t *testing.T) {
	s := newServer(t)
	alice := s.register("Ana", "ana@x.com")
	postID := s.createPost(alice)

	body := `{"content":"` + strings.Repeat("x", 1001) + `"}`
	res := s.json(http.MethodPost, "/api/post/"+postID+"/comment", alice, body)

	require.Equal(t, http.StatusUnprocessableEntity, res.Code)
	errs := res.Data["errors"].(map[string]any)
	assert.Contains(t, errs, "content")

	var comments int64
	require.NoError(t, s.db.Model(&model.CommentModel{}).Count(&comments).Error)
	assert.Zero(t, comments)
}

func TestBlankCommentRejected(t *testing.T) {
	s := newServer(t)
	alice := s.register("Ana", "ana@x.com")
	postID := s.createPost(alice)

	res := s.json(http.MethodPost, "/api/post/"+postID+"/comment", alice, `{"content":"    "}`)

	require.Equal(t, http.StatusUnprocessableEntity, res.Code)
	errs := res.Data["errors"].(map[string]any)
	assert.Equal(t, []any{"The content field is required."}, errs["content"])

	var comments int64
	require.NoError(t, s.db.Model(&model.CommentModel{}).Count(&comments).Error)
	assert.Zero(t, comments)
}

func TestRevokedTokenRejectedOnNextRequest(t *testing.T) {
	s := newServer(t)
	alice := s.register("Ana", "ana@x.com")

	res := s.do(http.MethodGet, "/api/me", alice, nil, "")
	require.Equal(t, http.StatusOK, res.Code)

	res = s.do(http.MethodPost, "/api/logout", alice, nil, "")
	require.Equal(t, http.StatusOK, res.Code)

	res = s.do(http.MethodGet, "/api/me", alice, nil, "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "invalid_token", res.Data["error"])

	// Optional routes still reject a bad token rather than treating it as anonymous.
	res = s.do(http.MethodGet, "/api/post", alice, nil, "")
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestDeletePostRemovesChildren(t *testing.T) {
	s := newServer(t)
	alice := s.register("Ana", "ana@x.com")
	bob := s.register("Bo", "bo@x.com")
	postID := s.createPost(alice)

	res := s.json(http.MethodPost, "/api/post/"+postID+"/comment", bob, `{"content":"nice"}`)
	require.Equal(t, http.StatusCreated, res.Code)
	res = s.do(http.MethodPost, "/api/post/"+postID+"/like", bob, nil, "")
	require.Equal(t, http.StatusOK, res.Code)

	res = s.do(http.MethodGet, "/api/post?include=comments", bob, nil, "")
	require.Equal(t, http.StatusOK, res.Code)
	listed := res.Data["posts"].([]any)[0].(map[string]any)
	assert.Len(t, listed["comments"], 1)
	assert.Equal(t, true, listed["is_liked"])

	res = s.do(http.MethodDelete, "/api/post/"+postID, alice, nil, "")
	require.Equal(t, http.StatusOK, res.Code)

	var comments, likes int64
	require.NoError(t, s.db.Model(&model.CommentModel{}).Count(&comments).Error)
	require.NoError(t, s.db.Model(&model.LikeModel{}).Count(&likes).Error)
	assert.Zero(t, comments)
	assert.Zero(t, likes)
	assert.Empty(t, s.storage.objects)
}

func TestHealth(t *testing.T) {
	s := newServer(t)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
