package media

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound indicates that no object is stored under the requested key.
var ErrNotFound = errors.New("media object not found")

// MaxImageBytes bounds a single stored image.
const MaxImageBytes = 7 * 1024 * 1024

// UploadInput wraps the payload required for persisting a file.
type UploadInput struct {
	Filename    string
	ContentType string
	Body        io.Reader
	Size        int64
}

// UploadResult captures the canonical object key and its accessible URL.
type UploadResult struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

// Object is a stored file read back by key.
type Object struct {
	Key         string
	ContentType string
	Data        []byte
}

// Uploader hides the backing implementation for storing files.
type Uploader interface {
	Upload(ctx context.Context, input UploadInput) (UploadResult, error)
}

// Opener reads stored files back.
type Opener interface {
	Open(ctx context.Context, key string) (Object, error)
}

// Store is implemented by every backend the studio can serve media from.
type Store interface {
	Uploader
	Opener
}

// DetectImageType returns the MIME type of an image payload, preferring the
// provided type when it names an image.
func DetectImageType(data []byte, provided string) string {
	ct := strings.TrimSpace(provided)
	if ct == "" || !strings.HasPrefix(ct, "image/") {
		ct = http.DetectContentType(data)
	}
	if !strings.HasPrefix(ct, "image/") {
		return "image/jpeg"
	}
	return ct
}

func newKey(filename, contentType string) string {
	return uuid.NewString() + extension(filename, contentType)
}

func extension(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != "" && len(ext) <= 10 {
		return ext
	}
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

func contentTypeFor(key string) string {
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// validKey rejects keys that could escape the store's namespace.
func validKey(key string) bool {
	return key != "" && key != "." && key != ".." && !strings.ContainsAny(key, `/\`)
}
