package types

import (
	"time"

	"github.com/google/uuid"
)

// APIKey stores only the SHA-256 digest of the issued key. The raw key is
// returned to the caller exactly once at creation time.
type APIKey struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	KeyHash   string    `gorm:"uniqueIndex;not null;column:key_hash" json:"-"`
	UserID    uuid.UUID `gorm:"index;not null" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (APIKey) TableName() string {
	return "api_key"
}
