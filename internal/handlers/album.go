package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mediahost-backend/internal/logger"
	"github.com/yungbote/mediahost-backend/internal/requestdata"
	"github.com/yungbote/mediahost-backend/internal/services"
)

type AlbumHandler struct {
	log          *logger.Logger
	albumService services.AlbumService
}

func NewAlbumHandler(baseLog *logger.Logger, albumService services.AlbumService) *AlbumHandler {
	return &AlbumHandler{
		log:          baseLog.With("handler", "AlbumHandler"),
		albumService: albumService,
	}
}

// POST /api/albums
func (h *AlbumHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req struct {
		Name    string   `json:"name"`
		FileIDs []string `json:"file_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	fileIDs := make([]uuid.UUID, 0, len(req.FileIDs))
	for _, raw := range req.FileIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
			return
		}
		fileIDs = append(fileIDs, id)
	}

	album, err := h.albumService.CreateAlbum(c.Request.Context(), rd.UserID, req.Name, fileIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	RespondOK(c, gin.H{"id": album.ID})
}

// GET /api/albums/:id (public: albums are shareable by link)
func (h *AlbumHandler) Get(c *gin.Context) {
	albumID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid album id"})
		return
	}
	album, images, err := h.albumService.GetAlbum(c.Request.Context(), albumID)
	if err != nil {
		h.log.Error("Failed to load album", "album_id", albumID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load album"})
		return
	}
	if album == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "album not found"})
		return
	}
	RespondOK(c, gin.H{"album": album, "images": images})
}

// GET /api/albums
func (h *AlbumHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	albums, err := h.albumService.ListAlbums(c.Request.Context(), rd.UserID)
	if err != nil {
		h.log.Error("Failed to list albums", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list albums"})
		return
	}
	RespondOK(c, albums)
}

// DELETE /api/albums/:id
func (h *AlbumHandler) Delete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	albumID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid album id"})
		return
	}
	if err := h.albumService.DeleteAlbum(c.Request.Context(), rd.UserID, albumID); err != nil {
		switch {
		case strings.Contains(err.Error(), "not found"):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case strings.Contains(err.Error(), "not authorized"):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			h.log.Error("Failed to delete album", "album_id", albumID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete album"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
