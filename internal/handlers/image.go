package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/postforge-backend/internal/actions"
	"github.com/yungbote/postforge-backend/internal/pkg/logger"
	"github.com/yungbote/postforge-backend/internal/services"
)

type ImageHandler struct {
	log    *logger.Logger
	images services.ImageService
}

func NewImageHandler(baseLog *logger.Logger, images services.ImageService) *ImageHandler {
	return &ImageHandler{
		log:    baseLog.With("handler", "ImageHandler"),
		images: images,
	}
}

func imageID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("imageId"))
	if err != nil || id == uuid.Nil {
		RespondError(c, http.StatusBadRequest, "invalid_image_id", err)
		return uuid.Nil, false
	}
	return id, true
}

// GET /api/projects/:id/images
func (h *ImageHandler) List(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	rows, err := h.images.ListByProject(c.Request.Context(), id)
	if err != nil {
		RespondSentinel(c, "list_images_failed", err)
		return
	}
	RespondOK(c, gin.H{"images": rows})
}

// GET /api/projects/:id/images/:imageId
func (h *ImageHandler) Get(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	imgID, ok := imageID(c)
	if !ok {
		return
	}
	img, err := h.images.Get(c.Request.Context(), id, imgID)
	if err != nil {
		RespondSentinel(c, "get_image_failed", err)
		return
	}
	c.Data(http.StatusOK, "image/png", img.ImageData)
}

// POST /api/projects/:id/images
func (h *ImageHandler) Generate(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var req struct {
		Prompt      string `json:"prompt"`
		AspectRatio string `json:"aspect_ratio"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Prompt == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	img, err := h.images.GenerateImage(c.Request.Context(), id, actions.GenerateImage{
		Prompt:      req.Prompt,
		AspectRatio: req.AspectRatio,
	})
	if err != nil {
		RespondSentinel(c, "generate_image_failed", err)
		return
	}
	RespondOK(c, gin.H{"image": img})
}

// POST /api/projects/:id/images/:imageId/refine
func (h *ImageHandler) Refine(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	imgID, ok := imageID(c)
	if !ok {
		return
	}
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Prompt == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	img, err := h.images.RefineImage(c.Request.Context(), id, actions.RefineImage{
		ImageID:          imgID,
		RefinementPrompt: req.Prompt,
	})
	if err != nil {
		RespondSentinel(c, "refine_image_failed", err)
		return
	}
	RespondOK(c, gin.H{"image": img})
}

// POST /api/projects/:id/images/:imageId/upscale
func (h *ImageHandler) Upscale(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	imgID, ok := imageID(c)
	if !ok {
		return
	}
	img, err := h.images.Upscale(c.Request.Context(), id, imgID)
	if err != nil {
		RespondSentinel(c, "upscale_image_failed", err)
		return
	}
	RespondOK(c, gin.H{"image": img})
}
