package repository

import (
	"context"

	"github.com/self-lens/api-go/models"
)

// ImageFilter narrows the feed. Search is a case-insensitive substring
// match against description, category and tags; Category is an exact
// match. Both combine with AND, empty fields impose no restriction.
type ImageFilter struct {
	Search   string
	Category string
}

// FeedImage is an image row joined with its uploader's public identity
// and the viewer's like state.
type FeedImage struct {
	models.Image
	UploaderName   string `json:"uploader_name"`
	UploaderAvatar string `json:"uploader_avatar"`
	IsLiked        bool   `json:"is_liked"`
}

// MediaStore is the persistence surface for images and likes. The feed
// and like services depend on this interface so they can be exercised
// against a substitute store in tests.
//
// AddLike and RemoveLike must keep like_count in step with the like rows:
// the counter adjustment happens in the same transaction as the row
// mutation and only when the mutation actually changed something. AddLike
// reports created=false when the pair was already liked, including when a
// concurrent request won the insert race.
type MediaStore interface {
	CreateImage(ctx context.Context, image *models.Image) error
	GetImage(ctx context.Context, id uint) (*models.Image, error)
	ListFeed(ctx context.Context, filter ImageFilter, viewerID uint, offset, limit int) ([]FeedImage, error)
	CountImages(ctx context.Context, filter ImageFilter) (int64, error)
	AddLike(ctx context.Context, imageID, userID uint) (created bool, err error)
	RemoveLike(ctx context.Context, imageID, userID uint) (removed bool, err error)
}
