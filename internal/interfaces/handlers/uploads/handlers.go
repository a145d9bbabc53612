package uploads

import (
	uploadsvc "github.com/MobileCoderzTechnologies/roomz-backend/internal/application/uploads"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/apperr"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const (
	MsgUploaded = "Images uploaded successfully"
	MsgRemoved  = "Images removed successfully"
)

// Handlers bundles upload handlers with the service.
type Handlers struct {
	Service *uploadsvc.Service
}

type removeRequest struct {
	Keys []string `json:"keys"`
}

// UploadImages POST /user/hosting/upload-images (multipart "images", repeated).
func (h *Handlers) UploadImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return response.FromError(c, apperr.Field("images", "is required"))
	}
	files := append(form.File["images"], form.File["images[]"]...)
	in := make([]uploadsvc.Upload, 0, len(files))
	for _, fh := range files {
		in = append(in, uploadsvc.FromMultipart(fh))
	}
	stored, err := h.Service.UploadImages(c.UserContext(), in)
	if err != nil {
		if apperr.Is(err, apperr.KindUpstream) {
			log.Error().Err(err).Int("files", len(in)).Msg("upload: store listing images")
		}
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, MsgUploaded, stored)
}

// RemoveImages POST /user/hosting/remove-images
func (h *Handlers) RemoveImages(c *fiber.Ctx) error {
	var req removeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.InvalidBody(c)
	}
	res, err := h.Service.RemoveImages(c.UserContext(), req.Keys)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, MsgRemoved, res)
}
