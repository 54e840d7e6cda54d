package repos

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mediahost-backend/internal/logger"
	"github.com/yungbote/mediahost-backend/internal/types"
)

// FileListOptions mirrors the list endpoint's query surface: pagination,
// ordering over a fixed column set, and an optional mime-type prefix filter
// (e.g. "image" matches image/png, image/webp, ...).
type FileListOptions struct {
	Limit      int
	Offset     int
	OrderBy    string
	OrderDir   string
	MimePrefix string
}

var fileOrderColumns = map[string]bool{
	"upload_date":   true,
	"original_name": true,
	"size_bytes":    true,
}

type FileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, files []*types.File) ([]*types.File, error)
	GetByID(ctx context.Context, tx *gorm.DB, fileID uuid.UUID) (*types.File, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, fileIDs []uuid.UUID) ([]*types.File, error)
	List(ctx context.Context, tx *gorm.DB, opts FileListOptions) ([]*types.File, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, fileIDs []uuid.UUID) error
}

type fileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFileRepo(db *gorm.DB, baseLog *logger.Logger) FileRepo {
	repoLog := baseLog.With("repo", "FileRepo")
	return &fileRepo{db: db, log: repoLog}
}

func (r *fileRepo) Create(ctx context.Context, tx *gorm.DB, files []*types.File) ([]*types.File, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(files) == 0 {
		return []*types.File{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *fileRepo) GetByID(ctx context.Context, tx *gorm.DB, fileID uuid.UUID) (*types.File, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.File
	err := transaction.WithContext(ctx).
		Where("id = ?", fileID).
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *fileRepo) GetByIDs(ctx context.Context, tx *gorm.DB, fileIDs []uuid.UUID) ([]*types.File, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.File
	if len(fileIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", fileIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *fileRepo) List(ctx context.Context, tx *gorm.DB, opts FileListOptions) ([]*types.File, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if opts.Limit <= 0 {
		opts.Limit = 40
	}
	if !fileOrderColumns[opts.OrderBy] {
		opts.OrderBy = "upload_date"
	}
	if opts.OrderDir != "asc" {
		opts.OrderDir = "desc"
	}

	query := transaction.WithContext(ctx).Model(&types.File{})
	if opts.MimePrefix != "" {
		query = query.Where("mime_type LIKE ?", opts.MimePrefix+"%")
	}

	var results []*types.File
	if err := query.
		Order(fmt.Sprintf("%s %s", opts.OrderBy, opts.OrderDir)).
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *fileRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, fileIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(fileIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", fileIDs).
		Delete(&types.File{}).Error
}
