package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundbyteapp/soundbyte-service/middleware"
	"github.com/soundbyteapp/soundbyte-service/service"
)

type TrackHandler struct {
	tracks    service.TrackService
	jwtSecret string
}

func NewTrackHandler(tracks service.TrackService, jwtSecret string) *TrackHandler {
	return &TrackHandler{
		tracks:    tracks,
		jwtSecret: jwtSecret,
	}
}

// GET /tracks/:trackId
func (h *TrackHandler) Get(c *gin.Context) {
	track, err := h.tracks.GetByID(c.Request.Context(), c.Param("trackId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, track)
}

func (h *TrackHandler) RegisterRoutes(router *gin.Engine) {
	auth := middleware.AuthMiddleware(h.jwtSecret)

	router.GET("/tracks/:trackId", auth, h.Get)
}
