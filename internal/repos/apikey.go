package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mediahost-backend/internal/logger"
	"github.com/yungbote/mediahost-backend/internal/types"
)

type APIKeyRepo interface {
	Create(ctx context.Context, tx *gorm.DB, keys []*types.APIKey) ([]*types.APIKey, error)
	GetByKeyHash(ctx context.Context, tx *gorm.DB, keyHash string) (*types.APIKey, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.APIKey, error)
	DeleteByIDForUser(ctx context.Context, tx *gorm.DB, keyID, userID uuid.UUID) error
}

type apiKeyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAPIKeyRepo(db *gorm.DB, baseLog *logger.Logger) APIKeyRepo {
	repoLog := baseLog.With("repo", "APIKeyRepo")
	return &apiKeyRepo{db: db, log: repoLog}
}

func (r *apiKeyRepo) Create(ctx context.Context, tx *gorm.DB, keys []*types.APIKey) ([]*types.APIKey, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(keys) == 0 {
		return []*types.APIKey{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *apiKeyRepo) GetByKeyHash(ctx context.Context, tx *gorm.DB, keyHash string) (*types.APIKey, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.APIKey
	err := transaction.WithContext(ctx).
		Where("key_hash = ?", keyHash).
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *apiKeyRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.APIKey, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.APIKey
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *apiKeyRepo) DeleteByIDForUser(ctx context.Context, tx *gorm.DB, keyID, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", keyID, userID).
		Delete(&types.APIKey{}).Error
}
