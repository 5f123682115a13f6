package models

import (
	"time"
)

// Like records that a user liked an image. The composite unique index is
// the storage-level backstop against double likes from racing requests.
type Like struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ImageID   uint      `gorm:"not null;uniqueIndex:idx_likes_image_user" json:"image_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_image_user" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Image Image `gorm:"foreignKey:ImageID" json:"-"`
	User  User  `gorm:"foreignKey:UserID" json:"-"`
}
