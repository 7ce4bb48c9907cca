package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidRef = errors.New("invalid photo reference")

// PhotoStore keeps check-in and check-out photos as files under BaseDir.
// A reference is the bare file name.
type PhotoStore struct {
	BaseDir string
}

func NewPhotoStore(baseDir string) (*PhotoStore, error) {
	if baseDir == "" {
		baseDir = "."
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create photo dir %s: %w", baseDir, err)
	}
	return &PhotoStore{BaseDir: baseDir}, nil
}

func (s *PhotoStore) Save(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ref := uuid.NewString() + extension(data)
	path := filepath.Join(s.BaseDir, ref)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write photo %s: %w", path, err)
	}
	return ref, nil
}

func (s *PhotoStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	_ = ctx

	path, err := s.path(ref)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open photo %s: %w", path, err)
	}
	return file, nil
}

// Delete ignores references that are already gone.
func (s *PhotoStore) Delete(ctx context.Context, ref string) error {
	_ = ctx

	path, err := s.path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete photo %s: %w", path, err)
	}
	return nil
}

func (s *PhotoStore) path(ref string) (string, error) {
	if ref == "" || ref != filepath.Base(ref) || strings.HasPrefix(ref, ".") {
		return "", ErrInvalidRef
	}
	return filepath.Join(s.BaseDir, ref), nil
}

func extension(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".bin"
	}
}
