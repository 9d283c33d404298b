package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundbyteapp/soundbyte-service/domain"
	"github.com/soundbyteapp/soundbyte-service/dto"
	"github.com/soundbyteapp/soundbyte-service/middleware"
	"github.com/soundbyteapp/soundbyte-service/service"
)

type UserHandler struct {
	userService    service.UserService
	jukeboxService service.JukeboxService
	jwtSecret      string
}

func NewUserHandler(userService service.UserService, jukeboxService service.JukeboxService, jwtSecret string) *UserHandler {
	return &UserHandler{
		userService:    userService,
		jukeboxService: jukeboxService,
		jwtSecret:      jwtSecret,
	}
}

// GET /users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.ListUsernames(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if users == nil {
		users = []*dto.UserSummary{}
	}
	c.JSON(http.StatusOK, users)
}

// GET /users/:userId. A user may only read their own full record.
func (h *UserHandler) Get(c *gin.Context) {
	callerID := c.GetString("user_id")
	userID := c.Param("userId")

	if callerID != userID {
		respondError(c, fmt.Errorf("cannot read another user's account: %w", domain.ErrForbidden))
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		Bio:         user.Bio,
		Followers:   user.Followers,
		Following:   user.Following,
		Jukebox:     user.Jukebox,
		CreatedAt:   user.CreatedAt,
	})
}

// GET /users/:userId/profile
func (h *UserHandler) Profile(c *gin.Context) {
	profile, err := h.userService.PublicProfile(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// POST /users/:userId/follow
func (h *UserHandler) Follow(c *gin.Context) {
	callerID := c.GetString("user_id")
	if err := h.userService.Follow(c.Request.Context(), callerID, c.Param("userId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DELETE /users/:userId/follow
func (h *UserHandler) Unfollow(c *gin.Context) {
	callerID := c.GetString("user_id")
	if err := h.userService.Unfollow(c.Request.Context(), callerID, c.Param("userId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /users/:userId/jukebox. Public read.
func (h *UserHandler) GetJukebox(c *gin.Context) {
	tracks, err := h.jukeboxService.List(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tracks)
}

// POST /users/:userId/jukebox. Owner only, idempotent add.
func (h *UserHandler) AddToJukebox(c *gin.Context) {
	callerID := c.GetString("user_id")

	var req dto.JukeboxAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tracks, err := h.jukeboxService.Add(c.Request.Context(), callerID, c.Param("userId"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tracks)
}

// DELETE /users/:userId/jukebox/:trackId. Owner only, idempotent remove.
func (h *UserHandler) RemoveFromJukebox(c *gin.Context) {
	callerID := c.GetString("user_id")

	tracks, err := h.jukeboxService.Remove(c.Request.Context(), callerID, c.Param("userId"), c.Param("trackId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tracks)
}

func (h *UserHandler) RegisterRoutes(router *gin.Engine) {
	auth := middleware.AuthMiddleware(h.jwtSecret)

	users := router.Group("/users")
	{
		users.GET("", auth, h.List)
		users.GET("/:userId", auth, h.Get)
		users.GET("/:userId/profile", h.Profile)
		users.POST("/:userId/follow", auth, h.Follow)
		users.DELETE("/:userId/follow", auth, h.Unfollow)

		users.GET("/:userId/jukebox", h.GetJukebox)
		users.POST("/:userId/jukebox", auth, h.AddToJukebox)
		users.DELETE("/:userId/jukebox/:trackId", auth, h.RemoveFromJukebox)
	}
}
