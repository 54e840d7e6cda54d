package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mediahost-backend/internal/logger"
	"github.com/yungbote/mediahost-backend/internal/media"
	"github.com/yungbote/mediahost-backend/internal/repos"
	"github.com/yungbote/mediahost-backend/internal/types"
)

// ErrFileNotFound reports a file id with no matching record.
var ErrFileNotFound = errors.New("file not found")

type FileService interface {
	UploadFile(ctx context.Context, userID uuid.UUID, originalName, mimeType string, r io.Reader) (*types.File, error)
	GetFile(ctx context.Context, fileID uuid.UUID) (*types.File, error)
	ListFiles(ctx context.Context, opts repos.FileListOptions) ([]*types.File, error)
	DeleteFile(ctx context.Context, fileID uuid.UUID) error
}

type fileService struct {
	db        *gorm.DB
	log       *logger.Logger
	fileRepo  repos.FileRepo
	albumRepo repos.AlbumRepo
	store     *media.Store
}

func NewFileService(
	db *gorm.DB,
	baseLog *logger.Logger,
	fileRepo repos.FileRepo,
	albumRepo repos.AlbumRepo,
	store *media.Store,
) FileService {
	serviceLog := baseLog.With("service", "FileService")
	return &fileService{
		db:        db,
		log:       serviceLog,
		fileRepo:  fileRepo,
		albumRepo: albumRepo,
		store:     store,
	}
}

// UploadFile stores the bytes as <id><ext> in the media store and records
// the file in the database. The database row is only written after the bytes
// are durably on disk.
func (fs *fileService) UploadFile(ctx context.Context, userID uuid.UUID, originalName, mimeType string, r io.Reader) (*types.File, error) {
	if originalName == "" {
		originalName = "unknown"
	}
	id := uuid.New()
	ext := filepath.Ext(originalName)
	filename := id.String() + ext

	size, err := fs.store.SaveOriginal(filename, r)
	if err != nil {
		return nil, fmt.Errorf("failed to store uploaded file: %w", err)
	}

	file := types.File{
		ID:           id,
		OriginalName: originalName,
		MimeType:     mimeType,
		SizeBytes:    size,
		UploadedBy:   userID,
		UploadDate:   time.Now(),
	}
	if _, err := fs.fileRepo.Create(ctx, nil, []*types.File{&file}); err != nil {
		// The record failed; don't leave unreferenced bytes behind.
		if rmErr := fs.store.RemoveOriginal(filename); rmErr != nil {
			fs.log.Warn("Failed to clean up orphaned upload", "filename", filename, "error", rmErr)
		}
		return nil, fmt.Errorf("failed to record uploaded file: %w", err)
	}

	fs.log.Info("Stored uploaded file", "file_id", id, "original_name", originalName, "size_bytes", size)
	return &file, nil
}

func (fs *fileService) GetFile(ctx context.Context, fileID uuid.UUID) (*types.File, error) {
	return fs.fileRepo.GetByID(ctx, nil, fileID)
}

func (fs *fileService) ListFiles(ctx context.Context, opts repos.FileListOptions) ([]*types.File, error) {
	return fs.fileRepo.List(ctx, nil, opts)
}

// DeleteFile removes the original from disk, sweeps its cached variants,
// unlinks it from any albums, then deletes the database row. Disk cleanup
// failures are logged but do not block record deletion, matching the
// best-effort deletion contract: an orphaned variant is unreachable without
// the original's id and costs only disk space.
func (fs *fileService) DeleteFile(ctx context.Context, fileID uuid.UUID) error {
	file, err := fs.fileRepo.GetByID(ctx, nil, fileID)
	if err != nil {
		return fmt.Errorf("failed to load file: %w", err)
	}
	if file == nil {
		return ErrFileNotFound
	}

	ext := filepath.Ext(file.OriginalName)
	filename := file.ID.String() + ext

	if err := fs.store.RemoveOriginal(filename); err != nil {
		fs.log.Warn("Failed to delete file from disk", "filename", filename, "error", err)
	}
	if removed, err := fs.store.PurgeVariants(file.ID.String()); err != nil {
		fs.log.Warn("Failed to purge cached variants", "file_id", file.ID, "error", err)
	} else if removed > 0 {
		fs.log.Info("Purged cached variants", "file_id", file.ID, "removed", removed)
	}

	return fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := fs.albumRepo.DeleteFileLinks(ctx, tx, []uuid.UUID{file.ID}); err != nil {
			return fmt.Errorf("failed to unlink file from albums: %w", err)
		}
		if err := fs.fileRepo.DeleteByIDs(ctx, tx, []uuid.UUID{file.ID}); err != nil {
			return fmt.Errorf("failed to delete file record: %w", err)
		}
		return nil
	})
}
