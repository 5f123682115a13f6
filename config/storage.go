package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// FileStorage is where the upload pipeline writes image binaries. Save
// returns the public URL the stored file is reachable under.
type FileStorage interface {
	Save(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
	Remove(ctx context.Context, key string) error
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
	Region          string
}

func GetR2Config() *R2Config {
	return &R2Config{
		AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
		AccessKeyID:     os.Getenv("CLOUDFLARE_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("CLOUDFLARE_SECRET_ACCESS_KEY"),
		BucketName:      os.Getenv("CLOUDFLARE_BUCKET_NAME"),
		PublicURL:       os.Getenv("CLOUDFLARE_PUBLIC_URL"),
		Region:          "auto",
	}
}

// NewFileStorage picks the backend from the environment: R2/S3 when
// Cloudflare credentials are configured, local disk otherwise.
func NewFileStorage() (FileStorage, error) {
	if cfg := GetR2Config(); cfg.AccountID != "" {
		return NewR2Storage(cfg), nil
	}
	return NewLocalStorage(os.Getenv("UPLOAD_DIR"))
}

// LocalStorage keeps files under BaseDir and serves them at PublicPath,
// matching the original disk layout of the service.
type LocalStorage struct {
	BaseDir    string
	PublicPath string
}

func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "public/uploads/images"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStorage{BaseDir: baseDir, PublicPath: "/uploads/images"}, nil
}

func (l *LocalStorage) Save(_ context.Context, key string, _ string, body io.Reader) (string, error) {
	dst, err := os.Create(filepath.Join(l.BaseDir, key))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, body); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return l.PublicPath + "/" + key, nil
}

func (l *LocalStorage) Remove(_ context.Context, key string) error {
	return os.Remove(filepath.Join(l.BaseDir, key))
}

type R2Storage struct {
	client *s3.Client
	cfg    *R2Config
}

func NewR2Storage(cfg *R2Config) *R2Storage {
	client := s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
		Region: cfg.Region,
	})
	return &R2Storage{client: client, cfg: cfg}
}

func (r *R2Storage) Save(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	objectKey := "images/" + key
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.cfg.BucketName),
		Key:         aws.String(objectKey),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s", r.cfg.PublicURL, objectKey), nil
}

func (r *R2Storage) Remove(ctx context.Context, key string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.cfg.BucketName),
		Key:    aws.String("images/" + key),
	})
	return err
}
