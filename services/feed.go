package services

import (
	"context"
	"fmt"
	"math"

	"github.com/self-lens/api-go/repository"
	"github.com/self-lens/api-go/utils"
)

const (
	DefaultPageSize = 5
	MaxPageSize     = 50
)

// FeedQuery selects one page of the image feed. ViewerID is zero for
// anonymous requests.
type FeedQuery struct {
	Page     int
	PageSize int
	Search   string
	Category string
	ViewerID uint
}

type FeedPage struct {
	Images      []repository.FeedImage `json:"images"`
	CurrentPage int                    `json:"currentPage"`
	TotalPages  int                    `json:"totalPages"`
	HasMore     bool                   `json:"hasMore"`
}

// FeedService builds the paginated, filtered, viewer-aware feed. It is
// read-only: it never mutates image, like or user state.
type FeedService struct {
	store repository.MediaStore
}

func NewFeedService(store repository.MediaStore) *FeedService {
	return &FeedService{store: store}
}

func (s *FeedService) GetFeed(ctx context.Context, q FeedQuery) (*FeedPage, error) {
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	if q.Page < 1 {
		return nil, fmt.Errorf("%w: page must be at least 1", utils.ErrValidation)
	}
	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		return nil, fmt.Errorf("%w: pageSize must be between 1 and %d", utils.ErrValidation, MaxPageSize)
	}

	filter := repository.ImageFilter{Search: q.Search, Category: q.Category}

	// The count and the page slice are two reads; a concurrent insert
	// between them can make totalPages stale by one, which is acceptable.
	total, err := s.store.CountImages(ctx, filter)
	if err != nil {
		return nil, err
	}

	offset := (q.Page - 1) * q.PageSize
	images, err := s.store.ListFeed(ctx, filter, q.ViewerID, offset, q.PageSize)
	if err != nil {
		return nil, err
	}
	if images == nil {
		images = []repository.FeedImage{}
	}

	// Anonymous viewers never see like state, whatever the store returned.
	if q.ViewerID == 0 {
		for i := range images {
			images[i].IsLiked = false
		}
	}

	return &FeedPage{
		Images:      images,
		CurrentPage: q.Page,
		TotalPages:  int(math.Ceil(float64(total) / float64(q.PageSize))),
		HasMore:     int64(q.Page*q.PageSize) < total,
	}, nil
}
