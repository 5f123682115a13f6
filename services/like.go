package services

import (
	"context"
	"errors"

	"github.com/self-lens/api-go/repository"
	"github.com/self-lens/api-go/utils"
)

// LikeService applies the like/unlike transition. The current state of a
// (image, user) pair is whatever the like row's existence says it is;
// the caller's view of the prior state is never trusted. Requesting a
// state the pair is already in is a no-op, not an error.
type LikeService struct {
	store repository.MediaStore
}

func NewLikeService(store repository.MediaStore) *LikeService {
	return &LikeService{store: store}
}

// Toggle moves the pair to the requested state. Returns ErrNotFound when
// the image does not exist. A uniqueness conflict from a lost race means
// the pair already is in the desired state and is absorbed as success.
func (s *LikeService) Toggle(ctx context.Context, imageID, userID uint, liked bool) error {
	if _, err := s.store.GetImage(ctx, imageID); err != nil {
		return err
	}

	if liked {
		_, err := s.store.AddLike(ctx, imageID, userID)
		if errors.Is(err, utils.ErrConflict) {
			return nil
		}
		return err
	}

	_, err := s.store.RemoveLike(ctx, imageID, userID)
	return err
}
