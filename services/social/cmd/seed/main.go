package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"time"

	"social-feed/pkg/config"
	"social-feed/pkg/database"
	"social-feed/pkg/jwt"
	"social-feed/pkg/logger"
	socialApp "social-feed/services/social/internal/app"
	"social-feed/services/social/internal/entity"
	"social-feed/services/social/internal/repo/persistent"
	"social-feed/services/social/internal/usecase"

	"github.com/gabriel-vasile/mimetype"
)

const (
	seedPassword = "password123"
	// restrictedEmail is seeded like everyone else, then loses the
	// delete-post and create-comment capabilities.
	restrictedEmail = "eve@test.com"
)

type seeder struct {
	users      persistent.UserRepository
	auth       usecase.AuthUseCase
	resolver   usecase.IdentityResolver
	posts      usecase.PostUseCase
	comments   usecase.CommentUseCase
	httpClient *http.Client
	log        *logger.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.New(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}
	if cfg.DBAutoMigrate {
		if err := socialApp.Migrate(db); err != nil {
			log.Error("Failed to migrate database: %v", err)
			panic(err)
		}
	}

	ctx := context.Background()
	storage, err := socialApp.NewImageStorage(ctx, cfg)
	if err != nil {
		log.Error("Failed to create image storage: %v", err)
		panic(err)
	}

	jwtService := jwt.NewService(cfg.JWTSecret)
	userRepo := persistent.NewUserRepository(db)
	tokenRepo := persistent.NewTokenRepository(db)
	postRepo := persistent.NewPostRepository(db)
	ledger := usecase.NewInteractionLedger(persistent.NewLikeRepository(db))

	s := &seeder{
		users:      userRepo,
		auth:       usecase.NewAuthUseCase(userRepo, tokenRepo, jwtService, cfg.TokenTTL, log),
		resolver:   usecase.NewIdentityResolver(tokenRepo, userRepo, jwtService, log),
		posts:      usecase.NewPostUseCase(postRepo, ledger, storage, nil, log),
		comments:   usecase.NewCommentUseCase(persistent.NewCommentRepository(db), postRepo, nil, log),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}

	if err := s.seed(ctx); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func (s *seeder) seed(ctx context.Context) error {
	testUsers := []struct {
		email string
		name  string
	}{
		{"alice@test.com", "Alice"},
		{"bob@test.com", "Bob"},
		{"charlie@test.com", "Charlie"},
		{"diana@test.com", "Diana"},
		{restrictedEmail, "Eve"},
	}

	identities := make([]*entity.Identity, 0, len(testUsers))
	for _, u := range testUsers {
		identity, err := s.signIn(ctx, u.name, u.email)
		if err != nil {
			s.log.Error("Failed to create user %s: %v", u.email, err)
			continue
		}
		identities = append(identities, identity)
	}

	var postIDs []string
	for i, author := range identities {
		for j := 0; j < 2; j++ {
			post, err := s.createPost(ctx, author, i*2+j)
			if err != nil {
				s.log.Error("Failed to create post for %s: %v", author.User.Email, err)
				continue
			}
			postIDs = append(postIDs, post.ID)
		}
	}

	for i, viewer := range identities {
		for j, postID := range postIDs {
			if (i+j)%2 == 0 {
				if _, _, err := s.posts.LikePost(ctx, viewer, postID); err != nil && !errors.Is(err, entity.ErrAlreadyLiked) {
					s.log.Error("Failed to like post %s: %v", postID, err)
				}
			}
			if (i+j)%3 == 0 {
				content := fmt.Sprintf("Lovely picture! (from %s)", viewer.User.Name)
				if _, err := s.comments.CreateComment(ctx, viewer, postID, content); err != nil {
					s.log.Error("Failed to comment on post %s: %v", postID, err)
				}
			}
		}
	}

	for _, identity := range identities {
		if identity.User.Email != restrictedEmail {
			continue
		}
		permission := entity.DefaultPermission(identity.UserID())
		permission.CanDeletePost = false
		permission.CanCreateComment = false
		if err := setPermission(ctx, s.users, permission); err != nil {
			s.log.Error("Failed to restrict %s: %v", restrictedEmail, err)
		}
	}

	s.log.Info("Seeded %d users and %d posts", len(identities), len(postIDs))
	return nil
}

// setPermission overwrites the permission row of a user, creating it when
// the user has none.
func setPermission(ctx context.Context, users persistent.UserRepository, permission *entity.Permission) error {
	err := users.UpdatePermission(ctx, permission)
	if errors.Is(err, entity.ErrUserNotFound) {
		return users.CreatePermission(ctx, permission)
	}
	return err
}

// signIn registers the user, or logs in when the email is already taken.
func (s *seeder) signIn(ctx context.Context, name, email string) (*entity.Identity, error) {
	_, token, err := s.auth.Register(ctx, name, email, seedPassword)
	var validation *entity.ValidationError
	if errors.As(err, &validation) {
		s.log.Info("User %s already exists, logging in", email)
		_, token, err = s.auth.Login(ctx, email, seedPassword)
	}
	if err != nil {
		return nil, err
	}
	return s.resolver.Resolve(ctx, token)
}

func (s *seeder) createPost(ctx context.Context, author *entity.Identity, index int) (*entity.Post, error) {
	data, err := s.fetchCat(author.User.Name, index)
	if err != nil {
		s.log.Warn("Falling back to a generated image: %v", err)
		if data, err = placeholderImage(index); err != nil {
			return nil, err
		}
	}

	mtype := mimetype.Detect(data)
	img := &entity.Image{
		Reader:      bytes.NewReader(data),
		Size:        int64(len(data)),
		ContentType: mtype.String(),
		Extension:   mtype.Extension(),
	}

	content := fmt.Sprintf("Cat post #%d by %s", index+1, author.User.Name)
	post, err := s.posts.CreatePost(ctx, author, content, img)
	if err != nil {
		return nil, err
	}
	s.log.Info("Created post %s by %s", post.ID, author.User.Email)
	return post, nil
}

func (s *seeder) fetchCat(name string, index int) ([]byte, error) {
	url := "https://cataas.com/cat"
	if index%2 == 0 {
		url += fmt.Sprintf("/says/Hello from %s", name)
	}

	resp, err := s.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cat image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cataas API returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("received empty image data")
	}
	return data, nil
}

func placeholderImage(index int) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	fill := color.RGBA{R: uint8(40 * index), G: 120, B: 200, A: 255}
	for x := 0; x < 64; x++ {
		for y := 0; y < 64; y++ {
			img.Set(x, y, fill)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
