package types

import (
	"time"

	"github.com/google/uuid"
)

// File is the database record for an uploaded original. The bytes live on
// disk as <id><ext> inside the uploads directory; derived image variants are
// cached next to it under the <id>_ prefix.
type File struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OriginalName string    `gorm:"column:original_name;not null" json:"original_name"`
	MimeType     string    `gorm:"column:mime_type;not null" json:"mime_type"`
	SizeBytes    int64     `gorm:"column:size_bytes;not null" json:"size_bytes"`
	UploadedBy   uuid.UUID `gorm:"index;column:uploaded_by" json:"uploaded_by"`
	Uploader     *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UploadedBy;references:ID" json:"-"`
	UploadDate   time.Time `gorm:"column:upload_date;not null" json:"upload_date"`
}

func (File) TableName() string {
	return "file"
}
