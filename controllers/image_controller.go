package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/self-lens/api-go/config"
	"github.com/self-lens/api-go/models"
	"github.com/self-lens/api-go/repository"
	"github.com/self-lens/api-go/services"
	"github.com/self-lens/api-go/utils"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
)

const (
	maxUploadFiles    = 3
	maxUploadFileSize = 10 << 20 // 10MB
	defaultSpan       = 20
)

type ImageController struct {
	Feed    *services.FeedService
	Likes   *services.LikeService
	Store   repository.MediaStore
	Storage config.FileStorage
	Logger  *zap.Logger
}

func NewImageController(store repository.MediaStore, storage config.FileStorage, logger *zap.Logger) *ImageController {
	return &ImageController{
		Feed:    services.NewFeedService(store),
		Likes:   services.NewLikeService(store),
		Store:   store,
		Storage: storage,
		Logger:  logger,
	}
}

type feedQueryInput struct {
	Page     int    `form:"page,default=1" binding:"min=1"`
	Limit    int    `form:"limit,default=5" binding:"min=1,max=50"`
	Search   string `form:"search"`
	Category string `form:"category"`
}

// GetImages serves the feed. Signed-in viewers get per-image like state,
// anonymous callers always see is_liked=false.
func (ic *ImageController) GetImages(c *gin.Context) {
	var input feedQueryInput
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, StandardResponse{Success: false, Message: err.Error()})
		return
	}

	var viewerID uint
	if user := utils.GetUser(c); user != nil {
		viewerID = user.UserID
	}

	page, err := ic.Feed.GetFeed(c.Request.Context(), services.FeedQuery{
		Page:     input.Page,
		PageSize: input.Limit,
		Search:   input.Search,
		Category: input.Category,
		ViewerID: viewerID,
	})
	if err != nil {
		ic.Logger.Error("failed to fetch feed", zap.Error(err))
		c.JSON(utils.StatusCode(err), StandardResponse{Success: false, Message: "Failed to fetch images"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "success", Data: page})
}

type likeUnlikeInput struct {
	IsLiked *bool `json:"is_liked" binding:"required"`
}

// LikeUnlike moves the (image, viewer) pair to the requested like state.
func (ic *ImageController) LikeUnlike(c *gin.Context) {
	imageID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, StandardResponse{Success: false, Message: "Invalid image id"})
		return
	}

	var input likeUnlikeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, StandardResponse{Success: false, Message: err.Error()})
		return
	}

	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, StandardResponse{Success: false, Message: "Authentication required"})
		return
	}

	err = ic.Likes.Toggle(c.Request.Context(), uint(imageID), user.UserID, *input.IsLiked)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			c.JSON(http.StatusNotFound, StandardResponse{Success: false, Message: "Image not found"})
			return
		}
		ic.Logger.Error("failed to toggle like",
			zap.Uint("image_id", uint(imageID)),
			zap.Uint("user_id", user.UserID),
			zap.Error(err))
		c.JSON(utils.StatusCode(err), StandardResponse{Success: false, Message: "Failed to update like"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Image like updated successfully"})
}

// uploadMeta is the per-file metadata clients send alongside the binary.
// The payload is a JSON array with one entry per uploaded file; anything
// else is rejected at the boundary.
type uploadMeta struct {
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

func parseUploadMetadata(raw string, fileCount int) ([]uploadMeta, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: metadata is required", utils.ErrValidation)
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	var meta []uploadMeta
	if err := dec.Decode(&meta); err != nil {
		return nil, fmt.Errorf("%w: malformed metadata: %v", utils.ErrValidation, err)
	}
	if len(meta) != fileCount {
		return nil, fmt.Errorf("%w: metadata entries (%d) do not match uploaded files (%d)",
			utils.ErrValidation, len(meta), fileCount)
	}
	return meta, nil
}

// Upload stores up to three image files and persists one Image record per
// file. Already-stored files are removed again if a later step fails.
func (ic *ImageController) Upload(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, StandardResponse{Success: false, Message: "Authentication required"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, StandardResponse{Success: false, Message: "Invalid multipart form"})
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusUnprocessableEntity, StandardResponse{Success: false, Message: "No images provided"})
		return
	}
	if len(files) > maxUploadFiles {
		c.JSON(http.StatusUnprocessableEntity, StandardResponse{Success: false, Message: fmt.Sprintf("Maximum %d files allowed", maxUploadFiles)})
		return
	}

	meta, err := parseUploadMetadata(c.PostForm("metadata"), len(files))
	if err != nil {
		c.JSON(utils.StatusCode(err), StandardResponse{Success: false, Message: err.Error()})
		return
	}
	category := c.PostForm("category")

	for _, file := range files {
		if file.Size > maxUploadFileSize {
			c.JSON(http.StatusUnprocessableEntity, StandardResponse{Success: false, Message: "File too large"})
			return
		}
		if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
			c.JSON(http.StatusUnprocessableEntity, StandardResponse{Success: false, Message: "Only image files are allowed"})
			return
		}
	}

	ctx := c.Request.Context()
	var storedKeys []string
	cleanup := func() {
		for _, key := range storedKeys {
			if err := ic.Storage.Remove(ctx, key); err != nil {
				ic.Logger.Warn("failed to remove stored file", zap.String("key", key), zap.Error(err))
			}
		}
	}

	for i, file := range files {
		span, err := ic.probeSpan(file)
		if err != nil {
			ic.Logger.Warn("failed to probe image dimensions",
				zap.String("file", file.Filename), zap.Error(err))
			span = defaultSpan
		}

		key := uuid.New().String() + filepath.Ext(file.Filename)
		fileURL, err := ic.storeFile(ctx, key, file)
		if err != nil {
			ic.Logger.Error("failed to store upload", zap.Error(err))
			cleanup()
			c.JSON(http.StatusInternalServerError, StandardResponse{Success: false, Message: "Something went wrong while uploading"})
			return
		}
		storedKeys = append(storedKeys, key)

		img := models.Image{
			FileName:    key,
			FileURL:     fileURL,
			Tags:        meta[i].Tags,
			Category:    category,
			Description: meta[i].Description,
			Size:        file.Size,
			Span:        span,
			UserID:      user.UserID,
		}
		if err := ic.Store.CreateImage(ctx, &img); err != nil {
			ic.Logger.Error("failed to persist image record", zap.Error(err))
			cleanup()
			c.JSON(http.StatusInternalServerError, StandardResponse{Success: false, Message: "Something went wrong while uploading"})
			return
		}
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Message: fmt.Sprintf("%d images uploaded successfully", len(files)),
	})
}

func (ic *ImageController) storeFile(ctx context.Context, key string, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return ic.Storage.Save(ctx, key, file.Header.Get("Content-Type"), src)
}

func (ic *ImageController) probeSpan(file *multipart.FileHeader) (int, error) {
	src, err := file.Open()
	if err != nil {
		return 0, err
	}
	defer src.Close()

	cfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return 0, err
	}
	return calculateSpan(cfg.Width, cfg.Height), nil
}

// calculateSpan derives the masonry layout hint from the aspect ratio:
// taller images get a larger span.
func calculateSpan(width, height int) int {
	if width <= 0 || height <= 0 {
		return defaultSpan
	}
	aspectRatio := float64(width) / float64(height)
	return int(math.Round(defaultSpan/aspectRatio)) - 5
}
