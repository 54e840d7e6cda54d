package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mediahost-backend/internal/logger"
	"github.com/yungbote/mediahost-backend/internal/repos"
	"github.com/yungbote/mediahost-backend/internal/requestdata"
	"github.com/yungbote/mediahost-backend/internal/services"
)

type FileHandler struct {
	log         *logger.Logger
	fileService services.FileService
}

func NewFileHandler(baseLog *logger.Logger, fileService services.FileService) *FileHandler {
	return &FileHandler{
		log:         baseLog.With("handler", "FileHandler"),
		fileService: fileService,
	}
}

// POST /api/files/upload (session auth, multipart form field "file")
func (h *FileHandler) Upload(c *gin.Context) {
	h.handleUpload(c, false)
}

// POST /api/upload (API-key auth, multipart form field "file")
// Returns the raw retrieval URL, for scripted uploads.
func (h *FileHandler) TokenUpload(c *gin.Context) {
	h.handleUpload(c, true)
}

func (h *FileHandler) handleUpload(c *gin.Context, includeURL bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	src, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer src.Close()

	file, err := h.fileService.UploadFile(
		c.Request.Context(),
		rd.UserID,
		header.Filename,
		header.Header.Get("Content-Type"),
		src,
	)
	if err != nil {
		h.log.Error("Upload failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	resp := gin.H{"id": file.ID}
	if includeURL {
		ext := filepath.Ext(file.OriginalName)
		assetType := "file"
		if strings.HasPrefix(file.MimeType, "image/") {
			assetType = "images"
		}
		resp["url"] = fmt.Sprintf("/raw/%s/%s%s", assetType, file.ID, ext)
	}
	RespondOK(c, resp)
}

// GET /api/files?limit=&offset=&order_by=&order_dir=&type=
func (h *FileHandler) List(c *gin.Context) {
	var query struct {
		Limit    int    `form:"limit"`
		Offset   int    `form:"offset"`
		OrderBy  string `form:"order_by"`
		OrderDir string `form:"order_dir"`
		Type     string `form:"type"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}
	files, err := h.fileService.ListFiles(c.Request.Context(), repos.FileListOptions{
		Limit:      query.Limit,
		Offset:     query.Offset,
		OrderBy:    query.OrderBy,
		OrderDir:   query.OrderDir,
		MimePrefix: query.Type,
	})
	if err != nil {
		h.log.Error("Failed to list files", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list files"})
		return
	}
	RespondOK(c, files)
}

// GET /api/files/:id
func (h *FileHandler) Get(c *gin.Context) {
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}
	file, err := h.fileService.GetFile(c.Request.Context(), fileID)
	if err != nil {
		h.log.Error("Failed to load file", "file_id", fileID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load file"})
		return
	}
	if file == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}
	RespondOK(c, file)
}

// DELETE /api/files/:id
// Removes the original, its cached variants and the database record.
func (h *FileHandler) Delete(c *gin.Context) {
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}
	if err := h.fileService.DeleteFile(c.Request.Context(), fileID); err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		h.log.Error("Failed to delete file", "file_id", fileID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete file"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
