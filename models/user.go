package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Name          string         `gorm:"not null" json:"name"`
	Email         string         `gorm:"unique;not null" json:"email"`
	Password      *string        `gorm:"type:varchar(255)" json:"-"` // nil for social logins
	Avatar        string         `gorm:"default:'default.jpg'" json:"avatar"`
	Role          string         `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsSocialLogin bool           `gorm:"default:false" json:"is_social_login"`
	Images        []Image        `gorm:"foreignKey:UserID" json:"-"`
	Likes         []Like         `gorm:"foreignKey:UserID" json:"-"`
}
