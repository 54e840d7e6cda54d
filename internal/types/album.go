package types

import (
	"time"

	"github.com/google/uuid"
)

type Album struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name" json:"name"`
	CreatedBy uuid.UUID `gorm:"index;column:created_by" json:"created_by"`
	Creator   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:CreatedBy;references:ID" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Album) TableName() string {
	return "album"
}
