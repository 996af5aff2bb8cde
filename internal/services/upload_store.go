package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	_ UploadStore = (*FilesystemUploadStore)(nil)

	// ErrObjectTooLarge is returned by Save when the body exceeds maxBytes.
	// Nothing is written under the target name in that case.
	ErrObjectTooLarge = errors.New("upload store: object exceeds size limit")
)

// UploadStore abstracts where uploaded files are kept.
type UploadStore interface {
	// Save writes r under name, replacing any existing object with that name.
	// A positive maxBytes caps the body; an oversize body fails with
	// ErrObjectTooLarge and leaves any existing object untouched.
	Save(ctx context.Context, name string, r io.Reader, maxBytes int64) (StoredFile, error)
	// Stat returns metadata for the stored object.
	Stat(ctx context.Context, name string) (StoredFile, error)
	// Delete removes the stored object. Missing objects are not an error.
	Delete(ctx context.Context, name string) error
}

// StoredFile captures size and timestamp metadata for a stored upload.
type StoredFile struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// FilesystemUploadStore keeps uploads as flat files under a root directory.
type FilesystemUploadStore struct {
	root string
}

// NewFilesystemUploadStore initialises a filesystem-backed store rooted at dir.
// The directory is created when missing.
func NewFilesystemUploadStore(dir string) (*FilesystemUploadStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("upload store: root directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload store: ensure root directory: %w", err)
	}
	return &FilesystemUploadStore{root: dir}, nil
}

// Root is the directory files are written to.
func (s *FilesystemUploadStore) Root() string {
	return s.root
}

// Save streams r into a temporary file and renames it into place, so readers
// never observe a partially written upload.
func (s *FilesystemUploadStore) Save(ctx context.Context, name string, r io.Reader, maxBytes int64) (StoredFile, error) {
	if s == nil {
		return StoredFile{}, errors.New("upload store: store not initialised")
	}
	fullPath, err := s.path(name)
	if err != nil {
		return StoredFile{}, err
	}
	// The directory may have been removed since start up.
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return StoredFile{}, fmt.Errorf("upload store: ensure root directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return StoredFile{}, fmt.Errorf("upload store: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	var src io.Reader = contextReader{ctx: ctx, r: r}
	if maxBytes > 0 {
		// One byte past the cap is enough to tell an oversize body apart.
		src = io.LimitReader(src, maxBytes+1)
	}
	written, err := io.Copy(tmp, src)
	if err != nil {
		cleanup()
		return StoredFile{}, err
	}
	if maxBytes > 0 && written > maxBytes {
		cleanup()
		return StoredFile{Name: name, Size: written}, ErrObjectTooLarge
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return StoredFile{}, fmt.Errorf("upload store: close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return StoredFile{}, fmt.Errorf("upload store: chmod: %w", err)
	}
	if err := os.Rename(tmpName, fullPath); err != nil {
		_ = os.Remove(tmpName)
		return StoredFile{}, fmt.Errorf("upload store: move into place: %w", err)
	}

	return StoredFile{Name: name, Size: written, ModTime: time.Now()}, nil
}

// Stat returns file metadata for the stored upload.
func (s *FilesystemUploadStore) Stat(_ context.Context, name string) (StoredFile, error) {
	if s == nil {
		return StoredFile{}, errors.New("upload store: store not initialised")
	}
	fullPath, err := s.path(name)
	if err != nil {
		return StoredFile{}, err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		return StoredFile{}, fmt.Errorf("upload store: stat file: %w", err)
	}
	return StoredFile{Name: name, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// Delete removes the stored upload.
func (s *FilesystemUploadStore) Delete(_ context.Context, name string) error {
	if s == nil {
		return errors.New("upload store: store not initialised")
	}
	fullPath, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("upload store: delete file: %w", err)
	}
	return nil
}

// path resolves a flat object name inside the root.
func (s *FilesystemUploadStore) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("upload store: invalid name %q", name)
	}
	return filepath.Join(s.root, name), nil
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if c.ctx != nil {
		if err := c.ctx.Err(); err != nil {
			return 0, err
		}
	}
	return c.r.Read(p)
}
