package server

import (
	"mime/multipart"

	"wayfare/internal/models"
	"wayfare/internal/service"
	"wayfare/internal/storage"

	"github.com/gofiber/fiber/v2"
)

const maxImagesPerUpload = 9

// UploadImages handles POST /api/uploads/images. Accepts up to nine files in
// the "images" multipart field and returns their blob references in order.
func (s *Server) UploadImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid multipart form"))
	}

	files := form.File["images"]
	if len(files) == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No files uploaded"))
	}
	if len(files) > maxImagesPerUpload {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("At most 9 images are allowed"))
	}

	refs := make([]string, 0, len(files))
	for _, file := range files {
		ref, saveErr := s.saveUpload(storage.KindImage, file)
		if saveErr != nil {
			return models.RespondWithError(c, mapServiceError(saveErr), saveErr)
		}
		refs = append(refs, ref)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"images": refs})
}

// UploadVideo handles POST /api/uploads/video. A single file in the "video"
// multipart field.
func (s *Server) UploadVideo(c *fiber.Ctx) error {
	file, err := c.FormFile("video")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	ref, saveErr := s.saveUpload(storage.KindVideo, file)
	if saveErr != nil {
		return models.RespondWithError(c, mapServiceError(saveErr), saveErr)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"video": ref})
}

// UploadAvatar handles POST /api/uploads/avatar. Saves the image and points
// the caller's profile at it in one step.
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	file, err := c.FormFile("avatar")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	ref, saveErr := s.saveUpload(storage.KindAvatar, file)
	if saveErr != nil {
		return models.RespondWithError(c, mapServiceError(saveErr), saveErr)
	}

	user, svcErr := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID: userID,
		Avatar: ref,
	})
	if svcErr != nil {
		return models.RespondWithError(c, mapServiceError(svcErr), svcErr)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"avatar": ref,
		"user":   user,
	})
}

func (s *Server) saveUpload(kind string, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", models.NewValidationError("Unable to read uploaded file")
	}
	defer func() { _ = src.Close() }()

	return s.blobStore.Save(kind, file.Filename, file.Header.Get("Content-Type"), file.Size, src)
}
