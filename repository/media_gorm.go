package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/self-lens/api-go/models"
	"github.com/self-lens/api-go/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormMediaStore struct {
	db *gorm.DB
}

func NewMediaStore(db *gorm.DB) *GormMediaStore {
	return &GormMediaStore{db: db}
}

func (s *GormMediaStore) CreateImage(ctx context.Context, image *models.Image) error {
	if err := s.db.WithContext(ctx).Create(image).Error; err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *GormMediaStore) GetImage(ctx context.Context, id uint) (*models.Image, error) {
	var image models.Image
	err := s.db.WithContext(ctx).First(&image, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("image %d: %w", id, utils.ErrNotFound)
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &image, nil
}

func (s *GormMediaStore) ListFeed(ctx context.Context, filter ImageFilter, viewerID uint, offset, limit int) ([]FeedImage, error) {
	var rows []FeedImage

	db := s.db.WithContext(ctx).Model(&models.Image{}).
		Joins("JOIN users ON users.id = images.user_id")
	db = applyFilter(db, filter)

	if viewerID != 0 {
		db = db.Select(`images.*,
			users.name AS uploader_name,
			users.avatar AS uploader_avatar,
			EXISTS(SELECT 1 FROM likes WHERE likes.image_id = images.id AND likes.user_id = ?) AS is_liked`,
			viewerID)
	} else {
		db = db.Select(`images.*,
			users.name AS uploader_name,
			users.avatar AS uploader_avatar,
			FALSE AS is_liked`)
	}

	// Newest first; id breaks created_at ties deterministically.
	err := db.Order("images.created_at DESC, images.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return rows, nil
}

func (s *GormMediaStore) CountImages(ctx context.Context, filter ImageFilter) (int64, error) {
	var total int64
	db := s.db.WithContext(ctx).Model(&models.Image{}).
		Joins("JOIN users ON users.id = images.user_id")
	if err := applyFilter(db, filter).Count(&total).Error; err != nil {
		return 0, storeErr(err)
	}
	return total, nil
}

// AddLike inserts the like row and bumps the counter in one transaction.
// The increment is issued only when the insert actually created a row, so
// a request that loses the insert race leaves the counter untouched.
func (s *GormMediaStore) AddLike(ctx context.Context, imageID, userID uint) (bool, error) {
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Like{ImageID: imageID, UserID: userID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true
		return tx.Model(&models.Image{}).Where("id = ?", imageID).
			UpdateColumn("like_count", gorm.Expr("like_count + ?", 1)).Error
	})
	if err != nil {
		return false, storeErr(err)
	}
	return created, nil
}

func (s *GormMediaStore) RemoveLike(ctx context.Context, imageID, userID uint) (bool, error) {
	removed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("image_id = ? AND user_id = ?", imageID, userID).
			Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Model(&models.Image{}).Where("id = ?", imageID).
			UpdateColumn("like_count", gorm.Expr("like_count - ?", 1)).Error
	})
	if err != nil {
		return false, storeErr(err)
	}
	return removed, nil
}

func applyFilter(db *gorm.DB, filter ImageFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		db = db.Where(`images.description ILIKE ?
			OR images.category ILIKE ?
			OR EXISTS(SELECT 1 FROM unnest(images.tags) AS tag WHERE tag ILIKE ?)`,
			pattern, pattern, pattern)
	}
	if filter.Category != "" {
		db = db.Where("images.category = ?", filter.Category)
	}
	return db
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", utils.ErrStoreUnavailable, err)
}
