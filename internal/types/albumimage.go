package types

import (
	"github.com/google/uuid"
)

type AlbumImage struct {
	AlbumID uuid.UUID `gorm:"type:uuid;primaryKey" json:"album_id"`
	Album   *Album    `gorm:"constraint:OnDelete:CASCADE;foreignKey:AlbumID;references:ID" json:"-"`
	FileID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"file_id"`
	File    *File     `gorm:"constraint:OnDelete:CASCADE;foreignKey:FileID;references:ID" json:"-"`
}

func (AlbumImage) TableName() string {
	return "album_image"
}
