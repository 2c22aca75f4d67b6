package server

import (
	"errors"

	"wayfare/internal/models"
	"wayfare/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Pagination holds parsed page/pageSize query parameters.
type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) Limit() int  { return p.PageSize }
func (p Pagination) Offset() int { return (p.Page - 1) * p.PageSize }

// Pages returns the number of pages for a given total count.
func (p Pagination) Pages(total int64) int {
	pages := int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
	if pages < 1 {
		pages = 1
	}
	return pages
}

// parsePagination extracts page and pageSize query parameters.
func parsePagination(c *fiber.Ctx) Pagination {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	pageSize := c.QueryInt("pageSize", defaultPageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return Pagination{Page: page, PageSize: pageSize}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// viewer builds the authorization principal from auth middleware locals.
// Anonymous requests yield the zero Viewer.
func (s *Server) viewer(c *fiber.Ctx) service.Viewer {
	userID, _ := c.Locals("userID").(uint)
	role, _ := c.Locals("userRole").(string)
	return service.Viewer{ID: userID, Role: role}
}

// mapServiceError translates an AppError code into an HTTP status code.
// Services never choose HTTP statuses themselves.
func mapServiceError(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case models.CodeValidation:
		return fiber.StatusBadRequest
	case models.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case models.CodeForbidden:
		return fiber.StatusForbidden
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// travelPage is the standard paginated list response shape.
type travelPage struct {
	Travels []*models.Travel `json:"travels"`
	Count   int              `json:"count"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Pages   int              `json:"pages"`
}

func newTravelPage(travels []*models.Travel, total int64, p Pagination) travelPage {
	if travels == nil {
		travels = []*models.Travel{}
	}
	return travelPage{
		Travels: travels,
		Count:   len(travels),
		Total:   total,
		Page:    p.Page,
		Pages:   p.Pages(total),
	}
}
