package app

import (
	"net/http"
	"time"

	"social-feed/pkg/config"
	"social-feed/pkg/jwt"
	"social-feed/pkg/logger"
	"social-feed/pkg/middleware"
	socialHTTP "social-feed/services/social/internal/controller/http"
	"social-feed/services/social/internal/projector"
	"social-feed/services/social/internal/repo/persistent"
	"social-feed/services/social/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "social-feed/services/social/docs" // Swagger docs
)

// Dependencies are the external collaborators of the router. Publisher and
// Redis may be nil.
type Dependencies struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        *gorm.DB
	Storage   usecase.ImageStorage
	Publisher usecase.EventPublisher
	Redis     *redis.Client
	Registry  *prometheus.Registry
}

func NewRouter(deps Dependencies) *gin.Engine {
	cfg, log := deps.Config, deps.Logger
	jwtService := jwt.NewService(cfg.JWTSecret)

	// Initialize repositories
	userRepo := persistent.NewUserRepository(deps.DB)
	tokenRepo := persistent.NewTokenRepository(deps.DB)
	postRepo := persistent.NewPostRepository(deps.DB)
	commentRepo := persistent.NewCommentRepository(deps.DB)
	likeRepo := persistent.NewLikeRepository(deps.DB)

	// Initialize use cases
	ledger := usecase.NewInteractionLedger(likeRepo)
	resolver := usecase.NewIdentityResolver(tokenRepo, userRepo, jwtService, log)
	authUseCase := usecase.NewAuthUseCase(userRepo, tokenRepo, jwtService, cfg.TokenTTL, log)
	postUseCase := usecase.NewPostUseCase(postRepo, ledger, deps.Storage, deps.Publisher, log)
	commentUseCase := usecase.NewCommentUseCase(commentRepo, postRepo, deps.Publisher, log)

	// Initialize HTTP handlers
	views := projector.New(userRepo, commentRepo, ledger)
	auth := socialHTTP.NewAuthMiddleware(resolver, log)
	authHandler := socialHTTP.NewAuthHandler(authUseCase, views, log)
	postHandler := socialHTTP.NewPostHandler(postUseCase, views, cfg.MaxImageSize, log)
	commentHandler := socialHTTP.NewCommentHandler(commentUseCase, views, log)
	socialHTTP.RegisterValidation()

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	metrics := middleware.NewMetrics(registry)
	limit := middleware.RateLimitMiddleware(deps.Redis, cfg.RateLimitPerMinute, time.Minute, log)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.MaxMultipartMemory = cfg.MaxImageSize + 1<<20

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(metrics.Middleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.Use(middleware.Timeout(cfg.RequestTimeout))

	public := api.Group("")
	public.Use(limit)
	{
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)
	}

	optional := api.Group("")
	optional.Use(auth.Optional(), limit)
	{
		optional.GET("/post", postHandler.ListPosts)
		optional.GET("/post/:id", postHandler.GetPost)
		optional.GET("/post/:id/comment", commentHandler.ListComments)
		optional.GET("/post/:id/comment/:commentId", commentHandler.GetComment)
	}

	protected := api.Group("")
	protected.Use(auth.Required(), limit)
	{
		protected.GET("/me", authHandler.Me)
		protected.POST("/logout", authHandler.Logout)

		protected.POST("/post", postHandler.CreatePost)
		protected.PUT("/post/:id", postHandler.UpdatePost)
		protected.PATCH("/post/:id", postHandler.UpdatePost)
		protected.DELETE("/post/:id", postHandler.DeletePost)
		protected.POST("/post/:id/update-image", postHandler.UpdateImage)
		protected.POST("/post/:id/like", postHandler.LikePost)
		protected.POST("/post/:id/unlike", postHandler.UnlikePost)
		protected.POST("/post/:id/toggle-like", postHandler.ToggleLike)

		protected.POST("/post/:id/comment", commentHandler.CreateComment)
		protected.PUT("/post/:id/comment/:commentId", commentHandler.UpdateComment)
		protected.PATCH("/post/:id/comment/:commentId", commentHandler.UpdateComment)
		protected.DELETE("/post/:id/comment/:commentId", commentHandler.DeleteComment)
	}

	return r
}
