// Package storage provides the on-disk blob store for uploaded media.
package storage

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"wayfare/internal/models"

	"github.com/google/uuid"
)

// Blob kinds. Each kind maps to a subdirectory of the upload root and to a
// content-type allow-list.
const (
	KindImage  = "images"
	KindVideo  = "videos"
	KindAvatar = "avatars"
)

// MaxBlobSize is the per-file upload limit.
const MaxBlobSize = 10 << 20 // 10 MB

var imageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

var videoTypes = map[string]struct{}{
	"video/mp4":       {},
	"video/webm":      {},
	"video/quicktime": {},
}

// AllowedContentType reports whether contentType is acceptable for the kind.
func AllowedContentType(kind, contentType string) bool {
	ct, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch kind {
	case KindImage, KindAvatar:
		_, ok := imageTypes[ct]
		return ok
	case KindVideo:
		_, ok := videoTypes[ct]
		return ok
	}
	return false
}

// BlobStore saves uploaded files under a root directory and hands back opaque
// references of the form "<kind>/<uuid><ext>". References are stored verbatim
// on travels; the store never inspects file contents.
type BlobStore struct {
	root string
}

// NewBlobStore creates the upload root (and kind subdirectories) if needed.
func NewBlobStore(root string) (*BlobStore, error) {
	for _, kind := range []string{KindImage, KindVideo, KindAvatar} {
		if err := os.MkdirAll(filepath.Join(root, kind), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory: %w", err)
		}
	}
	return &BlobStore{root: root}, nil
}

// Root returns the upload root directory.
func (b *BlobStore) Root() string {
	return b.root
}

// Save validates the declared content type and size, writes the blob to disk
// under a fresh UUID name, and returns its reference.
func (b *BlobStore) Save(kind, filename, contentType string, size int64, r io.Reader) (string, error) {
	if kind != KindImage && kind != KindVideo && kind != KindAvatar {
		return "", models.NewValidationError("Unknown upload kind")
	}
	if !AllowedContentType(kind, contentType) {
		return "", models.NewValidationError(fmt.Sprintf("Unsupported file type %q", contentType))
	}
	if size > MaxBlobSize {
		return "", models.NewValidationError("File exceeds the 10MB upload limit")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.NewString() + ext
	dst := filepath.Join(b.root, kind, name)

	out, err := os.Create(dst)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	defer func() { _ = out.Close() }()

	// Enforce the limit on actual bytes, not just the declared size
	written, err := io.Copy(out, io.LimitReader(r, MaxBlobSize+1))
	if err != nil {
		_ = os.Remove(dst)
		return "", models.NewInternalError(err)
	}
	if written > MaxBlobSize {
		_ = os.Remove(dst)
		return "", models.NewValidationError("File exceeds the 10MB upload limit")
	}

	return path.Join(kind, name), nil
}

// Remove deletes a stored blob by its reference. Missing blobs are not an
// error; deletion is best-effort cleanup.
func (b *BlobStore) Remove(ref string) error {
	clean := path.Clean(ref)
	if clean != ref || strings.HasPrefix(clean, "..") || path.IsAbs(clean) {
		return models.NewValidationError("Invalid blob reference")
	}
	err := os.Remove(filepath.Join(b.root, filepath.FromSlash(clean)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
