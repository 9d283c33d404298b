package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/soundbyteapp/soundbyte-service/domain"
	"github.com/soundbyteapp/soundbyte-service/dto"
	"github.com/soundbyteapp/soundbyte-service/middleware"
	"github.com/soundbyteapp/soundbyte-service/service"
)

type SoundByteHandler struct {
	soundBytes service.SoundByteService
	users      service.UserService
	jwtSecret  string
}

func NewSoundByteHandler(soundBytes service.SoundByteService, users service.UserService, jwtSecret string) *SoundByteHandler {
	return &SoundByteHandler{
		soundBytes: soundBytes,
		users:      users,
		jwtSecret:  jwtSecret,
	}
}

// GET /sBytes. Newest first, simple pagination.
func (h *SoundByteHandler) List(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	skip, _ := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)
	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	posts, total, err := h.soundBytes.List(c.Request.Context(), limit, skip)
	if err != nil {
		respondError(c, err)
		return
	}

	authors := map[string]*dto.AuthorResponse{}
	items := make([]*dto.SoundByteResponse, 0, len(posts))
	for _, p := range posts {
		items = append(items, h.toResponse(c.Request.Context(), p, authors))
	}

	c.JSON(http.StatusOK, dto.FeedResponse{
		Total: total,
		Limit: limit,
		Skip:  skip,
		Items: items,
	})
}

// GET /sBytes/:sByteId
func (h *SoundByteHandler) Get(c *gin.Context) {
	post, err := h.soundBytes.Get(c.Request.Context(), c.Param("sByteId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toResponse(c.Request.Context(), post, nil))
}

// POST /sBytes. The author always comes from the verified identity.
func (h *SoundByteHandler) Create(c *gin.Context) {
	callerID := c.GetString("user_id")

	var req dto.CreateSoundByteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.soundBytes.Create(c.Request.Context(), callerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.toResponse(c.Request.Context(), post, nil))
}

// PUT /sBytes/:sByteId. Owner only.
func (h *SoundByteHandler) Update(c *gin.Context) {
	callerID := c.GetString("user_id")

	var req dto.UpdateSoundByteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.soundBytes.Update(c.Request.Context(), callerID, c.Param("sByteId"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toResponse(c.Request.Context(), post, nil))
}

// DELETE /sBytes/:sByteId. Owner only.
func (h *SoundByteHandler) Delete(c *gin.Context) {
	callerID := c.GetString("user_id")
	id := c.Param("sByteId")

	if err := h.soundBytes.Delete(c.Request.Context(), callerID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "deletedId": id})
}

// POST /sBytes/:sByteId/like
func (h *SoundByteHandler) Like(c *gin.Context) {
	callerID := c.GetString("user_id")

	post, err := h.soundBytes.Like(c.Request.Context(), callerID, c.Param("sByteId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.LikesResponse{ID: post.ID, LikesCount: post.LikesCount})
}

// POST /sBytes/:sByteId/unlike. Clamped at zero.
func (h *SoundByteHandler) Unlike(c *gin.Context) {
	callerID := c.GetString("user_id")

	post, err := h.soundBytes.Unlike(c.Request.Context(), callerID, c.Param("sByteId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.LikesResponse{ID: post.ID, LikesCount: post.LikesCount})
}

// POST /sBytes/:sByteId/comments
func (h *SoundByteHandler) AddComment(c *gin.Context) {
	callerID := c.GetString("user_id")

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.soundBytes.AddComment(c.Request.Context(), callerID, c.Param("sByteId"), req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.toResponse(c.Request.Context(), post, nil))
}

// PUT /sBytes/:sByteId/comments/:commentId. Comment author only.
func (h *SoundByteHandler) EditComment(c *gin.Context) {
	callerID := c.GetString("user_id")

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.soundBytes.EditComment(c.Request.Context(), callerID, c.Param("sByteId"), c.Param("commentId"), req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DELETE /sBytes/:sByteId/comments/:commentId. Comment author only.
func (h *SoundByteHandler) DeleteComment(c *gin.Context) {
	callerID := c.GetString("user_id")

	err := h.soundBytes.DeleteComment(c.Request.Context(), callerID, c.Param("sByteId"), c.Param("commentId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// toResponse expands the author reference; the memo map dedupes lookups when
// rendering a full feed page.
func (h *SoundByteHandler) toResponse(ctx context.Context, p *domain.SoundByte, memo map[string]*dto.AuthorResponse) *dto.SoundByteResponse {
	author, ok := memo[p.Author]
	if !ok {
		author = &dto.AuthorResponse{ID: p.Author}
		if u, err := h.users.GetByID(ctx, p.Author); err == nil {
			author.Username = u.Username
		}
		if memo != nil {
			memo[p.Author] = author
		}
	}

	comments := p.Comments
	if comments == nil {
		comments = []domain.Comment{}
	}

	return &dto.SoundByteResponse{
		ID:            p.ID,
		Author:        author,
		Caption:       p.Caption,
		Tags:          p.Tags,
		Visibility:    p.Visibility,
		TrackID:       p.TrackID,
		Title:         p.Title,
		Artist:        p.Artist,
		Genre:         p.Genre,
		CoverArtURL:   p.CoverArtURL,
		SoundClipURL:  p.SoundClipURL,
		SourceURL:     p.SourceURL,
		AudioURL:      p.AudioURL,
		LikesCount:    p.LikesCount,
		CommentsCount: p.CommentsCount,
		Comments:      comments,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (h *SoundByteHandler) RegisterRoutes(router *gin.Engine) {
	auth := middleware.AuthMiddleware(h.jwtSecret)

	sBytes := router.Group("/sBytes")
	sBytes.Use(auth)
	{
		sBytes.GET("", h.List)
		sBytes.GET("/:sByteId", h.Get)
		sBytes.POST("", h.Create)
		sBytes.PUT("/:sByteId", h.Update)
		sBytes.DELETE("/:sByteId", h.Delete)

		sBytes.POST("/:sByteId/like", h.Like)
		sBytes.POST("/:sByteId/unlike", h.Unlike)

		sBytes.POST("/:sByteId/comments", h.AddComment)
		sBytes.PUT("/:sByteId/comments/:commentId", h.EditComment)
		sBytes.DELETE("/:sByteId/comments/:commentId", h.DeleteComment)
	}
}
