package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalUploader stores files on the local filesystem (typically /tmp) for short-lived processing.
type LocalUploader struct {
	BaseDir   string
	URLPrefix string
}

// NewLocalUploader constructs an uploader that writes to the provided directory.
// If baseDir is empty, os.TempDir() is used.
func NewLocalUploader(baseDir, urlPrefix string) (*LocalUploader, error) {
	dir := baseDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create local media dir: %w", err)
	}
	return &LocalUploader{BaseDir: dir, URLPrefix: urlPrefix}, nil
}

// Upload writes the incoming content to a file named by a fresh key.
func (l *LocalUploader) Upload(_ context.Context, input UploadInput) (UploadResult, error) {
	if input.Body == nil {
		return UploadResult{}, fmt.Errorf("upload body is required")
	}

	key := newKey(input.Filename, input.ContentType)
	path := filepath.Join(l.BaseDir, key)
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return UploadResult{}, fmt.Errorf("create media file: %w", err)
	}
	defer file.Close()

	n, err := io.Copy(file, input.Body)
	if err != nil {
		os.Remove(path)
		return UploadResult{}, fmt.Errorf("write media file: %w", err)
	}

	return UploadResult{
		Key:         key,
		URL:         l.URLPrefix + key,
		ContentType: input.ContentType,
		Size:        n,
	}, nil
}

// Open reads a previously uploaded file.
func (l *LocalUploader) Open(_ context.Context, key string) (Object, error) {
	if !validKey(key) {
		return Object{}, ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(l.BaseDir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return Object{}, ErrNotFound
	}
	if err != nil {
		return Object{}, fmt.Errorf("read media file: %w", err)
	}
	ct := contentTypeFor(key)
	if !strings.HasPrefix(ct, "image/") {
		ct = DetectImageType(data, "")
	}
	return Object{Key: key, ContentType: ct, Data: data}, nil
}
