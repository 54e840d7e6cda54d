package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mediahost-backend/internal/logger"
	"github.com/yungbote/mediahost-backend/internal/repos"
	"github.com/yungbote/mediahost-backend/internal/types"
)

// AlbumWithCount is the list-view shape: an album plus how many images it
// holds.
type AlbumWithCount struct {
	types.Album
	ImageCount int64 `json:"image_count"`
}

type AlbumService interface {
	CreateAlbum(ctx context.Context, userID uuid.UUID, name string, fileIDs []uuid.UUID) (*types.Album, error)
	GetAlbum(ctx context.Context, albumID uuid.UUID) (*types.Album, []*types.File, error)
	ListAlbums(ctx context.Context, userID uuid.UUID) ([]*AlbumWithCount, error)
	DeleteAlbum(ctx context.Context, userID, albumID uuid.UUID) error
}

type albumService struct {
	db        *gorm.DB
	log       *logger.Logger
	albumRepo repos.AlbumRepo
	fileRepo  repos.FileRepo
}

func NewAlbumService(db *gorm.DB, baseLog *logger.Logger, albumRepo repos.AlbumRepo, fileRepo repos.FileRepo) AlbumService {
	serviceLog := baseLog.With("service", "AlbumService")
	return &albumService{db: db, log: serviceLog, albumRepo: albumRepo, fileRepo: fileRepo}
}

func (s *albumService) CreateAlbum(ctx context.Context, userID uuid.UUID, name string, fileIDs []uuid.UUID) (*types.Album, error) {
	if len(fileIDs) == 0 {
		return nil, fmt.Errorf("an album needs at least one image")
	}

	files, err := s.fileRepo.GetByIDs(ctx, nil, fileIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load files: %w", err)
	}
	if len(files) != len(fileIDs) {
		return nil, fmt.Errorf("some files do not exist")
	}
	for _, f := range files {
		if !strings.HasPrefix(f.MimeType, "image/") {
			return nil, fmt.Errorf("all files must be images")
		}
	}

	album := types.Album{
		ID:        uuid.New(),
		Name:      name,
		CreatedBy: userID,
		CreatedAt: time.Now(),
	}
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, createErr := s.albumRepo.Create(ctx, tx, &album, fileIDs)
		return createErr
	}); err != nil {
		return nil, fmt.Errorf("failed to create album: %w", err)
	}
	return &album, nil
}

func (s *albumService) GetAlbum(ctx context.Context, albumID uuid.UUID) (*types.Album, []*types.File, error) {
	album, err := s.albumRepo.GetByID(ctx, nil, albumID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load album: %w", err)
	}
	if album == nil {
		return nil, nil, nil
	}
	images, err := s.albumRepo.GetImages(ctx, nil, albumID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load album images: %w", err)
	}
	return album, images, nil
}

func (s *albumService) ListAlbums(ctx context.Context, userID uuid.UUID) ([]*AlbumWithCount, error) {
	albums, err := s.albumRepo.ListByCreator(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	results := make([]*AlbumWithCount, 0, len(albums))
	for _, album := range albums {
		count, err := s.albumRepo.CountImages(ctx, nil, album.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count album images: %w", err)
		}
		results = append(results, &AlbumWithCount{Album: *album, ImageCount: count})
	}
	return results, nil
}

func (s *albumService) DeleteAlbum(ctx context.Context, userID, albumID uuid.UUID) error {
	album, err := s.albumRepo.GetByID(ctx, nil, albumID)
	if err != nil {
		return fmt.Errorf("failed to load album: %w", err)
	}
	if album == nil {
		return fmt.Errorf("album not found")
	}
	if album.CreatedBy != userID {
		return fmt.Errorf("not authorized to delete this album")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.albumRepo.DeleteByID(ctx, tx, albumID)
	})
}
