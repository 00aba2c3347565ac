package handlers

import (
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"bazar/pkg/media"
)

// MediaHandler serves stored product images.
type MediaHandler struct {
	store *media.Store
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(store *media.Store) *MediaHandler {
	return &MediaHandler{store: store}
}

// RegisterRoutes registers the media routes with the Fiber app.
func (h *MediaHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/media/:file", h.HandleGet)
}

// HandleGet streams a stored asset. The stream is closed by the server
// once the response is sent.
func (h *MediaHandler) HandleGet(c *fiber.Ctx) error {
	name := c.Params("file")
	file, err := h.store.Open(name)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Resource not found",
		})
	}
	if ext := strings.TrimPrefix(filepath.Ext(name), "."); ext != "" {
		c.Type(ext)
	}
	return c.SendStream(file)
}
