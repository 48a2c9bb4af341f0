package handlers

import (
	"errors"

	"splitbuy/internal/services/media"
	"splitbuy/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type MediaHandler struct {
	mediaService *media.Service
}

func NewMediaHandler(mediaService *media.Service) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// ResolveImage scrapes a page for its representative image URL.
func (h *MediaHandler) ResolveImage(c *fiber.Ctx) error {
	pageURL := c.Query("url")
	if pageURL == "" {
		return utils.BadRequest(c, "Missing url parameter")
	}

	imageURL, err := h.mediaService.ResolveImage(c.Context(), pageURL)
	if err != nil {
		switch {
		case errors.Is(err, media.ErrInvalidURL):
			return utils.BadRequest(c, "Invalid url")
		case errors.Is(err, media.ErrNoImageFound):
			return utils.NotFound(c, "No image found")
		}
		return utils.InternalError(c, "Failed to resolve image")
	}

	return utils.Success(c, fiber.Map{"image_url": imageURL})
}

// Thumbnail fetches an image and returns a PNG thumbnail.
func (h *MediaHandler) Thumbnail(c *fiber.Ctx) error {
	imageURL := c.Query("url")
	if imageURL == "" {
		return utils.BadRequest(c, "Missing url parameter")
	}
	size := c.QueryInt("size", 0)

	data, err := h.mediaService.Thumbnail(c.Context(), imageURL, size)
	if err != nil {
		switch {
		case errors.Is(err, media.ErrInvalidURL):
			return utils.BadRequest(c, "Invalid url")
		case errors.Is(err, media.ErrUnsupported), errors.Is(err, media.ErrImageTooLarge):
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "Failed to build thumbnail")
	}

	c.Set("Content-Type", "image/png")
	return c.Send(data)
}
