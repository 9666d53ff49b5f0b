package storage

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreUploadAndRemove(t *testing.T) {
	root := t.TempDir()
	fs, err := NewFileStore(root, "/storage/")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, fs.Upload(ctx, "media", "2025/01/a.txt", strings.NewReader("hello")))

	b, err := os.ReadFile(filepath.Join(root, "media", "2025", "01", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
	assert.Equal(t, "/storage/media/2025/01/a.txt", fs.PublicURL("media", "2025/01/a.txt"))

	require.NoError(t, fs.Remove(ctx, "media", "2025/01/a.txt"))
	_, err = os.Stat(filepath.Join(root, "media", "2025", "01", "a.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), "")
	require.NoError(t, err)
	err = fs.Upload(context.Background(), "media", "../escape.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidKey)
	err = fs.Upload(context.Background(), "../media", "a.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestObjectKey(t *testing.T) {
	now := time.Date(2025, time.March, 4, 10, 0, 0, 0, time.UTC)
	key := ObjectKey("my photo (1).JPG", now)
	assert.Regexp(t, regexp.MustCompile(`^2025/03/\d+_[a-z0-9]{6}\.JPG$`), key)
	assert.True(t, strings.Contains(key, "/1741082400000_"))

	assert.True(t, strings.HasSuffix(ObjectKey("README", now), ".README"))
}
