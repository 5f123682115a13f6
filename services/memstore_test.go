package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/self-lens/api-go/models"
	"github.com/self-lens/api-go/repository"
	"github.com/self-lens/api-go/utils"
)

type likeKey struct {
	ImageID uint
	UserID  uint
}

// memStore is an in-memory MediaStore used to exercise the services
// without a database. Likes and counters are mutated under one lock, so
// it honors the same atomicity contract as the real store.
type memStore struct {
	mu     sync.Mutex
	nextID uint
	images []*models.Image
	users  map[uint]*models.User
	likes  map[likeKey]struct{}

	failListFeed bool
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[uint]*models.User),
		likes: make(map[likeKey]struct{}),
	}
}

func (m *memStore) addUser(id uint, name, avatar string) {
	m.users[id] = &models.User{ID: id, Name: name, Avatar: avatar}
}

func (m *memStore) addImage(img models.Image) uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	img.ID = m.nextID
	m.images = append(m.images, &img)
	return img.ID
}

func (m *memStore) likeCount(imageID uint) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, img := range m.images {
		if img.ID == imageID {
			return img.LikeCount
		}
	}
	return -1
}

func (m *memStore) likeRows(imageID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for key := range m.likes {
		if key.ImageID == imageID {
			n++
		}
	}
	return n
}

func (m *memStore) CreateImage(_ context.Context, image *models.Image) error {
	image.ID = m.addImage(*image)
	return nil
}

func (m *memStore) GetImage(_ context.Context, id uint) (*models.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, img := range m.images {
		if img.ID == id {
			copied := *img
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("image %d: %w", id, utils.ErrNotFound)
}

func matchesFilter(img *models.Image, filter repository.ImageFilter) bool {
	if filter.Category != "" && img.Category != filter.Category {
		return false
	}
	if filter.Search == "" {
		return true
	}
	needle := strings.ToLower(filter.Search)
	if strings.Contains(strings.ToLower(img.Description), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(img.Category), needle) {
		return true
	}
	for _, tag := range img.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func (m *memStore) ListFeed(_ context.Context, filter repository.ImageFilter, viewerID uint, offset, limit int) ([]repository.FeedImage, error) {
	if m.failListFeed {
		return nil, fmt.Errorf("%w: connection refused", utils.ErrStoreUnavailable)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*models.Image
	for _, img := range m.images {
		if matchesFilter(img, filter) {
			matched = append(matched, img)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	var rows []repository.FeedImage
	for _, img := range matched[offset:end] {
		row := repository.FeedImage{Image: *img}
		if owner, ok := m.users[img.UserID]; ok {
			row.UploaderName = owner.Name
			row.UploaderAvatar = owner.Avatar
		}
		if viewerID != 0 {
			_, row.IsLiked = m.likes[likeKey{ImageID: img.ID, UserID: viewerID}]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (m *memStore) CountImages(_ context.Context, filter repository.ImageFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, img := range m.images {
		if matchesFilter(img, filter) {
			total++
		}
	}
	return total, nil
}

func (m *memStore) AddLike(_ context.Context, imageID, userID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := likeKey{ImageID: imageID, UserID: userID}
	if _, exists := m.likes[key]; exists {
		return false, nil
	}
	m.likes[key] = struct{}{}
	for _, img := range m.images {
		if img.ID == imageID {
			img.LikeCount++
		}
	}
	return true, nil
}

func (m *memStore) RemoveLike(_ context.Context, imageID, userID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := likeKey{ImageID: imageID, UserID: userID}
	if _, exists := m.likes[key]; !exists {
		return false, nil
	}
	delete(m.likes, key)
	for _, img := range m.images {
		if img.ID == imageID {
			img.LikeCount--
		}
	}
	return true, nil
}
