package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mediahost-backend/internal/logger"
	"github.com/yungbote/mediahost-backend/internal/types"
)

type AlbumRepo interface {
	Create(ctx context.Context, tx *gorm.DB, album *types.Album, fileIDs []uuid.UUID) (*types.Album, error)
	GetByID(ctx context.Context, tx *gorm.DB, albumID uuid.UUID) (*types.Album, error)
	GetImages(ctx context.Context, tx *gorm.DB, albumID uuid.UUID) ([]*types.File, error)
	ListByCreator(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Album, error)
	CountImages(ctx context.Context, tx *gorm.DB, albumID uuid.UUID) (int64, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, albumID uuid.UUID) error
	DeleteFileLinks(ctx context.Context, tx *gorm.DB, fileIDs []uuid.UUID) error
}

type albumRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAlbumRepo(db *gorm.DB, baseLog *logger.Logger) AlbumRepo {
	repoLog := baseLog.With("repo", "AlbumRepo")
	return &albumRepo{db: db, log: repoLog}
}

func (r *albumRepo) Create(ctx context.Context, tx *gorm.DB, album *types.Album, fileIDs []uuid.UUID) (*types.Album, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(album).Error; err != nil {
		return nil, err
	}
	links := make([]*types.AlbumImage, 0, len(fileIDs))
	for _, fileID := range fileIDs {
		links = append(links, &types.AlbumImage{AlbumID: album.ID, FileID: fileID})
	}
	if len(links) > 0 {
		if err := transaction.WithContext(ctx).Create(&links).Error; err != nil {
			return nil, err
		}
	}
	return album, nil
}

func (r *albumRepo) GetByID(ctx context.Context, tx *gorm.DB, albumID uuid.UUID) (*types.Album, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Album
	err := transaction.WithContext(ctx).
		Where("id = ?", albumID).
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *albumRepo) GetImages(ctx context.Context, tx *gorm.DB, albumID uuid.UUID) ([]*types.File, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.File
	if err := transaction.WithContext(ctx).
		Model(&types.File{}).
		Joins("JOIN album_image ON album_image.file_id = file.id").
		Where("album_image.album_id = ?", albumID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *albumRepo) ListByCreator(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Album, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Album
	if err := transaction.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("created_at desc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *albumRepo) CountImages(ctx context.Context, tx *gorm.DB, albumID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.AlbumImage{}).
		Where("album_id = ?", albumID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *albumRepo) DeleteByID(ctx context.Context, tx *gorm.DB, albumID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Where("album_id = ?", albumID).
		Delete(&types.AlbumImage{}).Error; err != nil {
		return err
	}
	return transaction.WithContext(ctx).
		Where("id = ?", albumID).
		Delete(&types.Album{}).Error
}

func (r *albumRepo) DeleteFileLinks(ctx context.Context, tx *gorm.DB, fileIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(fileIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("file_id IN ?", fileIDs).
		Delete(&types.AlbumImage{}).Error
}
