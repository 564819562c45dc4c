package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// recipeImageDir is the storage prefix for recipe images, relative to the
// media root.
const recipeImageDir = "uploads/recipe"

var ErrUnsupportedImageType = errors.New("unsupported image type")

// allowed extensions, keyed by the format name image.DecodeConfig reports.
var imageExtensions = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
}

// ImageStore persists uploaded recipe images on the local filesystem under a
// media root directory. Filenames are freshly generated UUIDs; the
// client-supplied name is never used as a storage key.
type ImageStore struct {
	root string
}

// NewImageStore creates an ImageStore rooted at the given directory.
func NewImageStore(root string) *ImageStore {
	return &ImageStore{root: root}
}

// Save writes the image data to a new file and returns its storage path
// relative to the media root, e.g. "uploads/recipe/<uuid>.jpg". format is the
// decoded image format name ("jpeg", "png", "gif").
func (s *ImageStore) Save(r io.Reader, format string) (string, error) {
	ext, ok := imageExtensions[format]
	if !ok {
		return "", ErrUnsupportedImageType
	}

	name := uuid.New().String() + ext
	relPath := filepath.ToSlash(filepath.Join(recipeImageDir, name))

	dir := filepath.Join(s.root, recipeImageDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating image directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}

	return relPath, f.Close()
}

// Remove deletes a stored image by its relative path. Missing files and empty
// paths are not errors; a recipe without an image has nothing to remove.
func (s *ImageStore) Remove(relPath string) error {
	if relPath == "" {
		return nil
	}

	// Reject anything trying to escape the media root.
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("invalid image path %q", relPath)
	}

	err := os.Remove(filepath.Join(s.root, clean))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
