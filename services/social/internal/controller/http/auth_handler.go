package http

import (
	"social-feed/pkg/logger"
	"social-feed/pkg/response"
	"social-feed/services/social/internal/projector"
	"social-feed/services/social/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUseCase usecase.AuthUseCase
	projector   *projector.Projector
	logger      *logger.Logger
}

func NewAuthHandler(authUseCase usecase.AuthUseCase, projector *projector.Projector, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		projector:   projector,
		logger:      logger,
	}
}

type RegisterRequest struct {
	Name                 string `json:"name" form:"name" binding:"required,max=255"`
	Email                string `json:"email" form:"email" binding:"required,email,max=255"`
	Password             string `json:"password" form:"password" binding:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation" binding:"eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type AuthResponse struct {
	User      *projector.UserView `json:"user"`
	Token     string              `json:"token"`
	TokenType string              `json:"token_type"`
}

// Register godoc
// @Summary      Register a new user
// @Description  Create an account with default permissions and issue a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration data"
// @Success      201  {object}  response.Envelope{data=AuthResponse}
// @Failure      422  {object}  response.Envelope
// @Failure      500  {object}  response.Envelope
// @Router       /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if verr := bind(c, &req); verr != nil {
		respondError(c, h.logger, verr, "Registration failed")
		return
	}

	user, token, err := h.authUseCase.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err, "Registration failed")
		return
	}

	response.Created(c, AuthResponse{
		User:      h.projector.User(user, projector.DefaultIncludes(projector.KindUser)),
		Token:     token,
		TokenType: usecase.TokenType,
	}, "User registered successfully")
}

// Login godoc
// @Summary      Log in
// @Description  Exchange credentials for a new bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200  {object}  response.Envelope{data=AuthResponse}
// @Failure      401  {object}  response.Envelope
// @Failure      422  {object}  response.Envelope
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if verr := bind(c, &req); verr != nil {
		respondError(c, h.logger, verr, "Login failed")
		return
	}

	user, token, err := h.authUseCase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err, "Login failed")
		return
	}

	response.Success(c, AuthResponse{
		User:      h.projector.User(user, projector.DefaultIncludes(projector.KindUser)),
		Token:     token,
		TokenType: usecase.TokenType,
	}, "Login successful")
}

// Logout godoc
// @Summary      Log out
// @Description  Revoke the token used for this request
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope
// @Failure      401  {object}  response.Envelope
// @Router       /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authUseCase.Logout(c.Request.Context(), currentIdentity(c)); err != nil {
		respondError(c, h.logger, err, "Logout failed")
		return
	}
	response.Success(c, nil, "Logged out successfully")
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        include query string false "Extra relations (permissions)"
// @Success      200  {object}  response.Envelope
// @Failure      401  {object}  response.Envelope
// @Router       /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	inc, err := projector.ParseIncludes(projector.KindUser, c.Query("include"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve user")
		return
	}

	user, err := h.authUseCase.Me(c.Request.Context(), currentIdentity(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve user")
		return
	}

	response.Success(c, gin.H{"user": h.projector.User(user, inc)}, "User data retrieved successfully")
}
