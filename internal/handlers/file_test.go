package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mediahost-backend/internal/logger"
	"github.com/yungbote/mediahost-backend/internal/repos"
	"github.com/yungbote/mediahost-backend/internal/services"
	"github.com/yungbote/mediahost-backend/internal/types"
)

type stubFileService struct {
	deleteErr error
}

func (s *stubFileService) UploadFile(ctx context.Context, userID uuid.UUID, originalName, mimeType string, r io.Reader) (*types.File, error) {
	return nil, nil
}

func (s *stubFileService) GetFile(ctx context.Context, fileID uuid.UUID) (*types.File, error) {
	return nil, nil
}

func (s *stubFileService) ListFiles(ctx context.Context, opts repos.FileListOptions) ([]*types.File, error) {
	return nil, nil
}

func (s *stubFileService) DeleteFile(ctx context.Context, fileID uuid.UUID) error {
	return s.deleteErr
}

func TestDeleteStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}

	cases := []struct {
		name      string
		deleteErr error
		code      int
	}{
		{"deleted", nil, http.StatusOK},
		{"missing file", fmt.Errorf("failed to load file: %w", services.ErrFileNotFound), http.StatusNotFound},
		// The phrase "not found" in an unrelated error must not turn a
		// server failure into a 404.
		{"disk failure mentioning not found", errors.New("uploads dir not found"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			handler := NewFileHandler(log, &stubFileService{deleteErr: tc.deleteErr})
			router.DELETE("/api/files/:id", handler.Delete)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodDelete, "/api/files/"+uuid.New().String(), nil)
			router.ServeHTTP(w, req)

			if w.Code != tc.code {
				t.Fatalf("expected %d, got %d (%s)", tc.code, w.Code, w.Body.String())
			}
		})
	}
}
