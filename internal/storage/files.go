package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

var ErrFileTooLarge = errors.New("attachment exceeds the size limit")

const maxAttachmentSize = 20 << 20 // 20 MiB

// Store writes uploaded attachments under a media directory and
// addresses them by relative path. Serving the files back is left to a
// static file server in front of the API.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the media root, the base that relative attachment paths
// resolve against.
func (s *Store) Dir() string { return s.dir }

// Save persists the uploaded file under a fresh name and returns the
// path relative to the media directory. The original extension is kept
// so static serving can set a sensible content type.
func (s *Store) Save(file *multipart.FileHeader, subdir string) (string, error) {
	if file.Size > maxAttachmentSize {
		return "", ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := uuid.New().String() + filepath.Ext(file.Filename)
	rel := filepath.Join(subdir, name)

	if err := os.MkdirAll(filepath.Join(s.dir, subdir), 0o755); err != nil {
		return "", fmt.Errorf("failed to create attachment dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(s.dir, rel))
	if err != nil {
		return "", fmt.Errorf("failed to create attachment file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write attachment: %w", err)
	}

	return rel, nil
}

// Remove deletes a previously saved attachment. A missing file is not
// an error; the record pointing at it is already gone.
func (s *Store) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, rel))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
