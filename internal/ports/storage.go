package ports

import (
	"context"
	"io"
)

type FileInfo struct {
	Key      string
	Name     string
	Size     int64
	MimeType string
}

// FileStore abstracts where project archives live. Open returns a streaming
// reader; callers own closing it.
type FileStore interface {
	Stat(ctx context.Context, key string) (FileInfo, error)
	Open(ctx context.Context, key string) (io.ReadCloser, FileInfo, error)
}
