package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/soundbyteapp/soundbyte-service/clipstore"
	"github.com/soundbyteapp/soundbyte-service/logger"
	"github.com/soundbyteapp/soundbyte-service/middleware"
)

// ClipHandler serves sound clip upload and streaming when an HDFS namenode
// is configured; posts reference uploaded clips through the returned URL.
type ClipHandler struct {
	store       *clipstore.Store
	clipBaseURL string
	jwtSecret   string
}

func NewClipHandler(store *clipstore.Store, clipBaseURL, jwtSecret string) *ClipHandler {
	return &ClipHandler{
		store:       store,
		clipBaseURL: clipBaseURL,
		jwtSecret:   jwtSecret,
	}
}

// POST /clips. Multipart upload, field "file".
func (h *ClipHandler) Upload(c *gin.Context) {
	callerID := c.GetString("user_id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}
	defer f.Close()

	clipID := uuid.New().String()
	size, err := h.store.Put(clipID, f)
	if err != nil {
		logger.Error(logger.EventClipUpload, "Clip upload failed", logger.Fields(
			"user_id", callerID,
			"error", err.Error(),
		))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "clip storage unavailable"})
		return
	}

	logger.Info(logger.EventClipUpload, "Clip uploaded", logger.Fields(
		"user_id", callerID,
		"clip_id", clipID,
		"size", size,
	))
	c.JSON(http.StatusCreated, gin.H{
		"clip_id":      clipID,
		"soundClipUrl": fmt.Sprintf("%s/clips/%s", h.clipBaseURL, clipID),
		"size":         size,
	})
}

// GET /clips/:clipId. Public streaming read.
func (h *ClipHandler) Stream(c *gin.Context) {
	clipID := c.Param("clipId")

	if !h.store.Exists(clipID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "clip not found"})
		return
	}

	r, size, err := h.store.Get(clipID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "clip storage unavailable"})
		return
	}
	defer r.Close()

	c.DataFromReader(http.StatusOK, size, "audio/mpeg", r, nil)
}

func (h *ClipHandler) RegisterRoutes(router *gin.Engine) {
	auth := middleware.AuthMiddleware(h.jwtSecret)

	router.POST("/clips", auth, h.Upload)
	router.GET("/clips/:clipId", h.Stream)
}
