package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mediahost-backend/internal/logger"
	"github.com/yungbote/mediahost-backend/internal/media"
)

// RawHandler serves originals and on-demand image variants. This is the HTTP
// face of the media store: all validation, caching and transcoding decisions
// live there; the handler only maps errors to status codes and shapes the
// response.
type RawHandler struct {
	log   *logger.Logger
	store *media.Store
}

func NewRawHandler(baseLog *logger.Logger, store *media.Store) *RawHandler {
	return &RawHandler{
		log:   baseLog.With("handler", "RawHandler"),
		store: store,
	}
}

// GET /raw/:type/:file
// type "images" enables ?format=&quality=&width= transforms; any other type
// serves the stored bytes as-is, "file" with an attachment disposition.
func (h *RawHandler) GetRaw(c *gin.Context) {
	assetType := c.Param("type")
	filename := c.Param("file")

	res, err := h.store.Fetch(c.Request.Context(), media.FetchRequest{
		AssetType: assetType,
		Filename:  filename,
		Format:    c.Query("format"),
		Quality:   c.Query("quality"),
		Width:     c.Query("width"),
	})
	if err != nil {
		switch {
		case errors.Is(err, media.ErrInvalidIdentifier):
			RespondError(c, http.StatusBadRequest, "invalid_identifier", err)
		case errors.Is(err, media.ErrInvalidParameter):
			RespondError(c, http.StatusBadRequest, "invalid_parameter", err)
		case errors.Is(err, media.ErrUnsupportedFormat):
			RespondError(c, http.StatusUnsupportedMediaType, "unsupported_format", err)
		case errors.Is(err, media.ErrNotFound):
			RespondError(c, http.StatusNotFound, "not_found", err)
		case errors.Is(err, media.ErrDecode):
			h.log.Error("Failed to decode original", "filename", filename, "error", err)
			RespondError(c, http.StatusInternalServerError, "decode_failed", err)
		default:
			h.log.Error("Failed to serve raw file", "filename", filename, "error", err)
			RespondError(c, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}
	defer res.Reader.Close()

	if assetType == "file" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	c.DataFromReader(http.StatusOK, res.Size, res.ContentType, res.Reader, nil)
}
