package media

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestMemoryStoreRoundTrip(t *testing.T) {
	store, err := NewMemoryStore(4, 1024, "/media/")
	require.NoError(t, err)

	res, err := store.Upload(context.Background(), UploadInput{
		Filename:    "room.PNG",
		ContentType: "image/png",
		Body:        strings.NewReader(string(pngHeader)),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(res.Key, ".png"))
	assert.Equal(t, "/media/"+res.Key, res.URL)
	assert.EqualValues(t, len(pngHeader), res.Size)

	obj, err := store.Open(context.Background(), res.Key)
	require.NoError(t, err)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, pngHeader, obj.Data)
}

func TestMemoryStoreEvictsOldest(t *testing.T) {
	store, err := NewMemoryStore(2, 0, "/media/")
	require.NoError(t, err)

	var keys []string
	for i := 0; i < 3; i++ {
		res, err := store.Upload(context.Background(), UploadInput{ContentType: "image/png", Body: strings.NewReader("x")})
		require.NoError(t, err)
		keys = append(keys, res.Key)
	}

	assert.Equal(t, 2, store.Len())
	_, err = store.Open(context.Background(), keys[0])
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Open(context.Background(), keys[2])
	assert.NoError(t, err)
}

func TestMemoryStoreRejectsOversizedBody(t *testing.T) {
	store, err := NewMemoryStore(2, 4, "/media/")
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), UploadInput{Body: strings.NewReader("too large")})
	require.Error(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreDetectsContentType(t *testing.T) {
	store, err := NewMemoryStore(2, 0, "")
	require.NoError(t, err)

	res, err := store.Upload(context.Background(), UploadInput{Body: strings.NewReader(string(pngHeader))})
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.ContentType)
	assert.True(t, strings.HasSuffix(res.Key, ".png"))
}

func TestLocalUploaderRoundTrip(t *testing.T) {
	up, err := NewLocalUploader(t.TempDir(), "/media/")
	require.NoError(t, err)

	res, err := up.Upload(context.Background(), UploadInput{
		Filename:    "before.jpg",
		ContentType: "image/jpeg",
		Body:        strings.NewReader("jpeg-bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "/media/"+res.Key, res.URL)

	obj, err := up.Open(context.Background(), res.Key)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", obj.ContentType)
	assert.Equal(t, "jpeg-bytes", string(obj.Data))
}

func TestLocalUploaderOpenRejectsTraversal(t *testing.T) {
	up, err := NewLocalUploader(t.TempDir(), "/media/")
	require.NoError(t, err)

	for _, key := range []string{"", "..", "../etc/passwd", `a\b`, "missing.png"} {
		_, err := up.Open(context.Background(), key)
		assert.ErrorIs(t, err, ErrNotFound, key)
	}
}

func TestDetectImageType(t *testing.T) {
	assert.Equal(t, "image/webp", DetectImageType(nil, "image/webp"))
	assert.Equal(t, "image/png", DetectImageType(pngHeader, "application/octet-stream"))
	assert.Equal(t, "image/jpeg", DetectImageType([]byte("plain text"), ""))
}
