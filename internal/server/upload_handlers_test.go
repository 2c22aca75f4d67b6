package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"wayfare/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeStoredBlobs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "images", "ref.jpg"), []byte("jpeg-bytes"), 0o644))

	srv := newTestServer(new(MockTravelRepository))
	srv.config = &config.Config{UploadDir: dir}

	app := fiber.New()
	srv.SetupRoutes(app)

	t.Run("uploaded reference resolves", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/uploads/images/ref.jpg", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "jpeg-bytes", string(body))
	})

	t.Run("unknown reference is 404", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/uploads/images/missing.jpg", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("no directory traversal", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/uploads/../go.mod", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.NotEqual(t, http.StatusOK, resp.StatusCode)
	})
}
