package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mediahost-backend/internal/logger"
	"github.com/yungbote/mediahost-backend/internal/requestdata"
	"github.com/yungbote/mediahost-backend/internal/services"
)

type APIKeyHandler struct {
	log           *logger.Logger
	apiKeyService services.APIKeyService
}

func NewAPIKeyHandler(baseLog *logger.Logger, apiKeyService services.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{
		log:           baseLog.With("handler", "APIKeyHandler"),
		apiKeyService: apiKeyService,
	}
}

// POST /api/api-keys
// The raw key appears in this response only; afterwards just the hash exists.
func (h *APIKeyHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a key name is required"})
		return
	}
	key, rawKey, err := h.apiKeyService.CreateKey(c.Request.Context(), rd.UserID, req.Name)
	if err != nil {
		h.log.Error("Failed to create api key", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create api key"})
		return
	}
	RespondOK(c, gin.H{"id": key.ID, "name": key.Name, "key": rawKey})
}

// GET /api/api-keys
func (h *APIKeyHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	keys, err := h.apiKeyService.ListKeys(c.Request.Context(), rd.UserID)
	if err != nil {
		h.log.Error("Failed to list api keys", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list api keys"})
		return
	}
	RespondOK(c, keys)
}

// DELETE /api/api-keys/:id
func (h *APIKeyHandler) Delete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid key id"})
		return
	}
	if err := h.apiKeyService.DeleteKey(c.Request.Context(), rd.UserID, keyID); err != nil {
		h.log.Error("Failed to delete api key", "key_id", keyID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete api key"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
