package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *BlobStore {
	t.Helper()
	store, err := NewBlobStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestBlobStore_SaveImage(t *testing.T) {
	store := newTestStore(t)

	content := []byte("fake-jpeg-bytes")
	ref, err := store.Save(KindImage, "sunset.jpg", "image/jpeg", int64(len(content)), bytes.NewReader(content))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref, "images/"), "ref should be namespaced by kind: %s", ref)
	assert.True(t, strings.HasSuffix(ref, ".jpg"))

	data, err := os.ReadFile(filepath.Join(store.Root(), filepath.FromSlash(ref)))
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestBlobStore_RejectsDisallowedContentType(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(KindImage, "notes.txt", "text/plain", 4, strings.NewReader("text"))
	assert.Error(t, err)

	_, err = store.Save(KindVideo, "clip.gif", "image/gif", 4, strings.NewReader("gif!"))
	assert.Error(t, err)

	// Video types are fine for the video kind
	_, err = store.Save(KindVideo, "clip.mp4", "video/mp4", 4, strings.NewReader("mp4!"))
	assert.NoError(t, err)
}

func TestBlobStore_RejectsOversizedDeclaredSize(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(KindImage, "huge.png", "image/png", MaxBlobSize+1, strings.NewReader("x"))
	assert.Error(t, err)
}

func TestBlobStore_UniqueReferences(t *testing.T) {
	store := newTestStore(t)

	refs := make(map[string]struct{})
	for i := 0; i < 5; i++ {
		ref, err := store.Save(KindAvatar, "me.png", "image/png", 4, strings.NewReader("data"))
		require.NoError(t, err)
		refs[ref] = struct{}{}
	}
	assert.Len(t, refs, 5, "every save should mint a fresh reference")
}

func TestBlobStore_Remove(t *testing.T) {
	store := newTestStore(t)

	ref, err := store.Save(KindImage, "a.png", "image/png", 4, strings.NewReader("data"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(ref))
	_, statErr := os.Stat(filepath.Join(store.Root(), filepath.FromSlash(ref)))
	assert.True(t, os.IsNotExist(statErr))

	// Removing twice is not an error
	assert.NoError(t, store.Remove(ref))

	// Path traversal is rejected
	assert.Error(t, store.Remove("../secrets"))
}

func TestAllowedContentType(t *testing.T) {
	assert.True(t, AllowedContentType(KindImage, "image/webp"))
	assert.True(t, AllowedContentType(KindImage, "image/jpeg; charset=binary"))
	assert.True(t, AllowedContentType(KindVideo, "video/quicktime"))
	assert.False(t, AllowedContentType(KindImage, "video/mp4"))
	assert.False(t, AllowedContentType(KindVideo, "application/octet-stream"))
	assert.False(t, AllowedContentType("documents", "application/pdf"))
}
