package models

import (
	"time"

	"github.com/lib/pq"
)

// Image is one uploaded photo. FileName and FileURL are set once by the
// upload pipeline and never change afterwards; LikeCount is adjusted only
// by the like toggle and must always equal the number of Like rows that
// reference the image.
type Image struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt   time.Time      `gorm:"index:idx_images_created_at,sort:desc" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	FileName    string         `gorm:"not null" json:"file_name"`
	FileURL     string         `gorm:"not null" json:"file_url"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	Category    string         `gorm:"type:varchar(100)" json:"category"`
	Description string         `gorm:"type:text" json:"description"`
	Size        int64          `json:"size"`
	Span        int            `json:"span"` // layout hint derived from aspect ratio at upload time
	LikeCount   int64          `gorm:"not null;default:0" json:"likes"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	User        User           `gorm:"foreignKey:UserID" json:"-"`
}
