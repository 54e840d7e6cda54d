package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mediahost-backend/internal/logger"
	"github.com/yungbote/mediahost-backend/internal/repos"
	"github.com/yungbote/mediahost-backend/internal/types"
)

type APIKeyService interface {
	// CreateKey returns the record and the raw key. The raw key is shown to
	// the caller once; only its hash is stored.
	CreateKey(ctx context.Context, userID uuid.UUID, name string) (*types.APIKey, string, error)
	ListKeys(ctx context.Context, userID uuid.UUID) ([]*types.APIKey, error)
	DeleteKey(ctx context.Context, userID, keyID uuid.UUID) error
	// ResolveUser maps a presented raw key to its owning user, or nil when
	// the key is unknown.
	ResolveUser(ctx context.Context, rawKey string) (*types.User, error)
}

type apiKeyService struct {
	db         *gorm.DB
	log        *logger.Logger
	apiKeyRepo repos.APIKeyRepo
	userRepo   repos.UserRepo
}

func NewAPIKeyService(db *gorm.DB, baseLog *logger.Logger, apiKeyRepo repos.APIKeyRepo, userRepo repos.UserRepo) APIKeyService {
	serviceLog := baseLog.With("service", "APIKeyService")
	return &apiKeyService{db: db, log: serviceLog, apiKeyRepo: apiKeyRepo, userRepo: userRepo}
}

func hashAPIKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}

func (s *apiKeyService) CreateKey(ctx context.Context, userID uuid.UUID, name string) (*types.APIKey, string, error) {
	if name == "" {
		return nil, "", fmt.Errorf("a key name is required")
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", fmt.Errorf("failed to generate key material: %w", err)
	}
	rawKey := hex.EncodeToString(raw)

	key := types.APIKey{
		ID:        uuid.New(),
		Name:      name,
		KeyHash:   hashAPIKey(rawKey),
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if _, err := s.apiKeyRepo.Create(ctx, nil, []*types.APIKey{&key}); err != nil {
		return nil, "", fmt.Errorf("failed to create api key: %w", err)
	}
	return &key, rawKey, nil
}

func (s *apiKeyService) ListKeys(ctx context.Context, userID uuid.UUID) ([]*types.APIKey, error) {
	return s.apiKeyRepo.GetByUserID(ctx, nil, userID)
}

func (s *apiKeyService) DeleteKey(ctx context.Context, userID, keyID uuid.UUID) error {
	return s.apiKeyRepo.DeleteByIDForUser(ctx, nil, keyID, userID)
}

func (s *apiKeyService) ResolveUser(ctx context.Context, rawKey string) (*types.User, error) {
	if rawKey == "" {
		return nil, nil
	}
	key, err := s.apiKeyRepo.GetByKeyHash(ctx, nil, hashAPIKey(rawKey))
	if err != nil {
		return nil, fmt.Errorf("failed to look up api key: %w", err)
	}
	if key == nil {
		return nil, nil
	}
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{key.UserID})
	if err != nil {
		return nil, fmt.Errorf("failed to load key owner: %w", err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return users[0], nil
}
