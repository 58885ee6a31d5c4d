package media

import (
	"bytes"
	"context"
	"fmt"
	"io"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryStore keeps the most recent objects in process memory. Once full,
// the least recently used object is evicted.
type MemoryStore struct {
	cache     *lru.Cache[string, Object]
	urlPrefix string
	maxBytes  int64
}

// NewMemoryStore constructs a store holding at most maxItems objects of at
// most maxBytes each.
func NewMemoryStore(maxItems int, maxBytes int64, urlPrefix string) (*MemoryStore, error) {
	if maxItems <= 0 {
		maxItems = 64
	}
	if maxBytes <= 0 {
		maxBytes = MaxImageBytes
	}
	cache, err := lru.New[string, Object](maxItems)
	if err != nil {
		return nil, fmt.Errorf("media: create cache: %w", err)
	}
	return &MemoryStore{cache: cache, urlPrefix: urlPrefix, maxBytes: maxBytes}, nil
}

// Upload buffers the body and stores it under a fresh key.
func (m *MemoryStore) Upload(_ context.Context, input UploadInput) (UploadResult, error) {
	if input.Body == nil {
		return UploadResult{}, fmt.Errorf("upload body is required")
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(input.Body, m.maxBytes+1))
	if err != nil {
		return UploadResult{}, fmt.Errorf("media: read body: %w", err)
	}
	if n > m.maxBytes {
		return UploadResult{}, fmt.Errorf("media: object exceeds %d bytes", m.maxBytes)
	}

	ct := input.ContentType
	if ct == "" {
		ct = DetectImageType(buf.Bytes(), "")
	}
	key := newKey(input.Filename, ct)
	m.cache.Add(key, Object{Key: key, ContentType: ct, Data: buf.Bytes()})

	return UploadResult{
		Key:         key,
		URL:         m.urlPrefix + key,
		ContentType: ct,
		Size:        n,
	}, nil
}

// Open returns the stored object for key.
func (m *MemoryStore) Open(_ context.Context, key string) (Object, error) {
	obj, ok := m.cache.Get(key)
	if !ok {
		return Object{}, ErrNotFound
	}
	return obj, nil
}

// Len reports the number of stored objects.
func (m *MemoryStore) Len() int {
	return m.cache.Len()
}
