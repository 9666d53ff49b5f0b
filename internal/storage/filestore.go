package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"backoffice/internal/utils"
)

// Store is the object storage used for media and generated previews.
type Store interface {
	Upload(ctx context.Context, bucket, key string, r io.Reader) error
	Remove(ctx context.Context, bucket, key string) error
	PublicURL(bucket, key string) string
}

// FileStore keeps objects under Root/<bucket>/<key> and serves them below BaseURL.
type FileStore struct {
	Root    string
	BaseURL string
}

var ErrInvalidKey = errors.New("invalid storage key")

func NewFileStore(root, baseURL string) (*FileStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("storage root is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *FileStore) objectPath(bucket, key string) (string, error) {
	clean := path.Clean("/" + key)
	if key == "" || clean == "/" || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	if bucket == "" || strings.ContainsAny(bucket, `/\.`) {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.Root, bucket, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func (s *FileStore) Upload(ctx context.Context, bucket, key string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.objectPath(bucket, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), p)
}

func (s *FileStore) Remove(ctx context.Context, bucket, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.objectPath(bucket, key)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

func (s *FileStore) PublicURL(bucket, key string) string {
	return s.BaseURL + "/" + bucket + "/" + strings.TrimPrefix(key, "/")
}

// Dir is the on-disk directory to mount under BaseURL.
func (s *FileStore) Dir() string {
	return s.Root
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = suffixAlphabet[rand.IntN(len(suffixAlphabet))]
	}
	return string(b)
}

// ObjectKey builds YYYY/MM/<unixmillis>_<rand6>.<ext> for an uploaded file name.
func ObjectKey(fileName string, now time.Time) string {
	name := utils.SanitizeFileName(fileName)
	ext := "bin"
	if i := strings.LastIndex(name, "."); i >= 0 && i < len(name)-1 {
		ext = name[i+1:]
	} else if i < 0 && name != "" {
		ext = name
	}
	return fmt.Sprintf("%04d/%02d/%d_%s.%s", now.Year(), int(now.Month()), now.UnixMilli(), randomSuffix(6), ext)
}
