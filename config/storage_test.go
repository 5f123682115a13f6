package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(dir)
	require.NoError(t, err)

	url, err := storage.Save(context.Background(), "photo.jpg", "image/jpeg", strings.NewReader("binary-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/images/photo.jpg", url)

	data, err := os.ReadFile(filepath.Join(dir, "photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "binary-bytes", string(data))

	require.NoError(t, storage.Remove(context.Background(), "photo.jpg"))
	_, err = os.Stat(filepath.Join(dir, "photo.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewFileStoragePicksLocalWithoutCredentials(t *testing.T) {
	t.Setenv("CLOUDFLARE_ACCOUNT_ID", "")
	t.Setenv("UPLOAD_DIR", t.TempDir())

	storage, err := NewFileStorage()
	require.NoError(t, err)
	_, ok := storage.(*LocalStorage)
	assert.True(t, ok)
}
