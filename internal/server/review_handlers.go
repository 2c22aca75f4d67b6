package server

import (
	"wayfare/internal/middleware"
	"wayfare/internal/models"
	"wayfare/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAdminTravels handles GET /api/travels/admin, the moderation queue.
// Accepts an optional status filter; no filter lists every status.
func (s *Server) GetAdminTravels(c *fiber.Ctx) error {
	p := parsePagination(c)

	travels, total, err := s.travelService.ListAdmin(c.UserContext(), service.ListAdminTravelsInput{
		Viewer: s.viewer(c),
		Status: c.Query("status"),
		Limit:  p.Limit(),
		Offset: p.Offset(),
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(newTravelPage(travels, total, p))
}

// ReviewTravel handles POST /api/travels/:id/review
func (s *Server) ReviewTravel(c *fiber.Ctx) error {
	travelID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Decision     string `json:"decision"`
		RejectReason string `json:"rejectReason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	travel, svcErr := s.travelService.Review(c.UserContext(), service.ReviewTravelInput{
		Viewer:       s.viewer(c),
		TravelID:     travelID,
		Decision:     req.Decision,
		RejectReason: req.RejectReason,
	})
	if svcErr != nil {
		return models.RespondWithError(c, mapServiceError(svcErr), svcErr)
	}

	middleware.ReviewDecisions.WithLabelValues(travel.Status).Inc()
	return c.JSON(travel)
}
