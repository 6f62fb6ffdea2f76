package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/manan0901/Vibecoder-sub002/internal/domain"
	"github.com/manan0901/Vibecoder-sub002/internal/ports"
)

// LocalFileStore serves project archives from a directory on disk. Keys are
// relative paths; anything escaping the root is rejected before touching the
// filesystem.
type LocalFileStore struct {
	root string
}

func NewLocalFileStore(root string) *LocalFileStore {
	return &LocalFileStore{root: filepath.Clean(root)}
}

func (s *LocalFileStore) resolve(key string) (string, error) {
	cleaned := filepath.Clean("/" + key)
	full := filepath.Join(s.root, cleaned)
	if !strings.HasPrefix(full, s.root+string(os.PathSeparator)) && full != s.root {
		return "", domain.ErrInvalidInput
	}
	return full, nil
}

func (s *LocalFileStore) Stat(_ context.Context, key string) (ports.FileInfo, error) {
	full, err := s.resolve(key)
	if err != nil {
		return ports.FileInfo{}, err
	}
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ports.FileInfo{}, domain.ErrNotFound
		}
		return ports.FileInfo{}, err
	}
	return fileInfoFor(key, full, info), nil
}

func (s *LocalFileStore) Open(_ context.Context, key string) (io.ReadCloser, ports.FileInfo, error) {
	full, err := s.resolve(key)
	if err != nil {
		return nil, ports.FileInfo{}, err
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ports.FileInfo{}, domain.ErrNotFound
		}
		return nil, ports.FileInfo{}, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, ports.FileInfo{}, err
	}
	return f, fileInfoFor(key, full, info), nil
}

func fileInfoFor(key, full string, info fs.FileInfo) ports.FileInfo {
	mimeType := mime.TypeByExtension(filepath.Ext(full))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return ports.FileInfo{
		Key:      key,
		Name:     filepath.Base(full),
		Size:     info.Size(),
		MimeType: mimeType,
	}
}
