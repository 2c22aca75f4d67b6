package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"wayfare/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
		wantOffset   int
	}{
		{"defaults", "", 1, 10, 0},
		{"explicit", "?page=3&pageSize=20", 3, 20, 40},
		{"negative page clamps", "?page=-1", 1, 10, 0},
		{"zero pageSize clamps", "?pageSize=0", 1, 10, 0},
		{"oversized pageSize clamps", "?pageSize=500", 1, 100, 0},
		{"garbage falls back", "?page=abc&pageSize=xyz", 1, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			var got Pagination
			app.Get("/", func(c *fiber.Ctx) error {
				got = parsePagination(c)
				return c.SendStatus(http.StatusOK)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil))
			require.NoError(t, err)
			_ = resp.Body.Close()

			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantPageSize, got.PageSize)
			assert.Equal(t, tt.wantOffset, got.Offset())
		})
	}
}

func TestPaginationPages(t *testing.T) {
	p := Pagination{Page: 1, PageSize: 10}
	assert.Equal(t, 1, p.Pages(0))
	assert.Equal(t, 1, p.Pages(10))
	assert.Equal(t, 2, p.Pages(11))
	assert.Equal(t, 5, p.Pages(41))
}

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", models.NewValidationError("bad"), http.StatusBadRequest},
		{"unauthorized", models.NewUnauthorizedError("no"), http.StatusUnauthorized},
		{"forbidden", models.NewForbiddenError("no"), http.StatusForbidden},
		{"not found", models.NewNotFoundError("Travel", 1), http.StatusNotFound},
		{"conflict", models.NewConflictError("locked"), http.StatusConflict},
		{"internal", models.NewInternalError(assert.AnError), http.StatusInternalServerError},
		{"plain error", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapServiceError(tt.err))
		})
	}
}

func TestNewTravelPage_NilSlice(t *testing.T) {
	page := newTravelPage(nil, 0, Pagination{Page: 1, PageSize: 10})
	assert.NotNil(t, page.Travels, "empty page must serialize as [], not null")
	assert.Equal(t, 0, page.Count)
	assert.Equal(t, 1, page.Pages)
}
