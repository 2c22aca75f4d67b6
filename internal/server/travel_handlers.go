package server

import (
	"wayfare/internal/models"
	"wayfare/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateTravel handles POST /api/travels
func (s *Server) CreateTravel(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Images  []string `json:"images"`
		Video   string   `json:"video"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	travel, err := s.travelService.Create(c.UserContext(), service.CreateTravelInput{
		AuthorID: userID,
		Title:    req.Title,
		Content:  req.Content,
		Images:   req.Images,
		Video:    req.Video,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(travel)
}

// GetTravel handles GET /api/travels/:id
func (s *Server) GetTravel(c *fiber.Ctx) error {
	travelID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	travel, svcErr := s.travelService.Get(c.UserContext(), s.viewer(c), travelID)
	if svcErr != nil {
		return models.RespondWithError(c, mapServiceError(svcErr), svcErr)
	}
	return c.JSON(travel)
}

// GetTravels handles GET /api/travels (the public feed). Only approved
// diaries are returned no matter what the query asks for.
func (s *Server) GetTravels(c *fiber.Ctx) error {
	p := parsePagination(c)

	travels, total, err := s.travelService.ListPublic(c.UserContext(), service.ListPublicTravelsInput{
		Keyword: c.Query("keyword"),
		Limit:   p.Limit(),
		Offset:  p.Offset(),
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(newTravelPage(travels, total, p))
}

// GetMyTravels handles GET /api/travels/my
func (s *Server) GetMyTravels(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	p := parsePagination(c)

	travels, total, err := s.travelService.ListMine(c.UserContext(), service.ListMyTravelsInput{
		AuthorID: userID,
		Status:   c.Query("status"),
		Limit:    p.Limit(),
		Offset:   p.Offset(),
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(newTravelPage(travels, total, p))
}

// UpdateTravel handles PUT /api/travels/:id. Absent fields are retained;
// any successful edit resubmits the diary for review.
func (s *Server) UpdateTravel(c *fiber.Ctx) error {
	travelID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title   *string  `json:"title"`
		Content *string  `json:"content"`
		Images  []string `json:"images"`
		Video   *string  `json:"video"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	travel, svcErr := s.travelService.Update(c.UserContext(), service.UpdateTravelInput{
		Viewer:   s.viewer(c),
		TravelID: travelID,
		Title:    req.Title,
		Content:  req.Content,
		Images:   req.Images,
		Video:    req.Video,
	})
	if svcErr != nil {
		return models.RespondWithError(c, mapServiceError(svcErr), svcErr)
	}
	return c.JSON(travel)
}

// DeleteTravel handles DELETE /api/travels/:id
func (s *Server) DeleteTravel(c *fiber.Ctx) error {
	travelID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.travelService.Delete(c.UserContext(), service.DeleteTravelInput{
		Viewer:   s.viewer(c),
		TravelID: travelID,
	}); svcErr != nil {
		return models.RespondWithError(c, mapServiceError(svcErr), svcErr)
	}
	return c.JSON(fiber.Map{"message": "Travel deleted"})
}
