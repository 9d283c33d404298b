package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/soundbyteapp/soundbyte-service/domain"
	"github.com/soundbyteapp/soundbyte-service/dto"
	"github.com/soundbyteapp/soundbyte-service/logger"
	"github.com/soundbyteapp/soundbyte-service/service"
)

type AuthHandler struct {
	userService service.UserService
	jwtSecret   string
}

func NewAuthHandler(userService service.UserService, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtSecret:   jwtSecret,
	}
}

// POST /auth/sign-up
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn(logger.EventValidationFailure, "Invalid sign-up request", logger.Fields(
			"ip", c.ClientIP(),
			"error", err.Error(),
		))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.signToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	logger.Info(logger.EventGeneral, "New user registered", logger.Fields(
		"user_id", user.ID,
		"ip", c.ClientIP(),
	))
	c.JSON(http.StatusCreated, dto.TokenResponse{Token: token})
}

// POST /auth/sign-in
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		logger.Security(logger.EventLoginFailure, "Sign-in failed", logger.Fields(
			"username", req.Username,
			"ip", c.ClientIP(),
		))
		respondError(c, err)
		return
	}

	token, err := h.signToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	logger.Security(logger.EventLoginSuccess, "User signed in", logger.Fields(
		"user_id", user.ID,
		"ip", c.ClientIP(),
	))
	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

func (h *AuthHandler) signToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

func (h *AuthHandler) RegisterRoutes(router *gin.Engine, strictLimit gin.HandlerFunc) {
	auth := router.Group("/auth")
	{
		auth.POST("/sign-up", strictLimit, h.SignUp)
		auth.POST("/sign-in", strictLimit, h.SignIn)
	}
}
