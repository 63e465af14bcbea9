// Package upload stores candidate photos on local disk. Photo attachment is
// deliberately decoupled from candidate creation: a failed store is reported
// but never rolls back the candidate row.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var (
	ErrTooLarge    = errors.New("photo exceeds maximum size")
	ErrBadFileType = errors.New("unsupported photo file type")
)

// Store writes candidate photos beneath a base directory.
type Store struct {
	dir     string
	maxSize int64
}

// NewStore creates the upload directory if needed.
func NewStore(dir string, maxSizeMB int) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Store{dir: dir, maxSize: int64(maxSizeMB) * 1024 * 1024}, nil
}

// Save validates and writes an uploaded photo, returning the stored
// filename. Names are random so uploads cannot collide or be guessed.
func (s *Store) Save(file *multipart.FileHeader) (string, error) {
	if file.Size > s.maxSize {
		return "", ErrTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", ErrBadFileType
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write photo: %w", err)
	}

	return name, nil
}

// Remove deletes a stored photo. Missing files are not an error.
func (s *Store) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// URL returns the public path for a stored photo, or empty when none.
func (s *Store) URL(name *string) string {
	if name == nil || *name == "" {
		return ""
	}
	return "/uploads/" + filepath.Base(*name)
}
