package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/postforge-backend/internal/carousel"
	"github.com/yungbote/postforge-backend/internal/pkg/logger"
	"github.com/yungbote/postforge-backend/internal/services"
	"github.com/yungbote/postforge-backend/internal/types"
)

// maxImportBytes caps one template upload.
const maxImportBytes = 64 << 20

type CarouselHandler struct {
	log       *logger.Logger
	carousels services.CarouselService
}

func NewCarouselHandler(baseLog *logger.Logger, carousels services.CarouselService) *CarouselHandler {
	return &CarouselHandler{
		log:       baseLog.With("handler", "CarouselHandler"),
		carousels: carousels,
	}
}

func importKindFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return carousel.ImportKindPDF
	case ".zip":
		return carousel.ImportKindZIP
	case ".png", ".jpg", ".jpeg", ".gif":
		return carousel.ImportKindImage
	default:
		return ""
	}
}

// POST /api/projects/:id/carousel/template  (multipart form, field "files")
func (h *CarouselHandler) ImportTemplate(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_upload", err)
		return
	}
	uploads := form.File["files"]
	if len(uploads) == 0 {
		RespondError(c, http.StatusBadRequest, "no_files", nil)
		return
	}

	var files []carousel.ImportFile
	var total int64
	for _, upload := range uploads {
		total += upload.Size
		if total > maxImportBytes {
			RespondError(c, http.StatusRequestEntityTooLarge, "upload_too_large", nil)
			return
		}
		f, err := upload.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			continue
		}
		files = append(files, carousel.ImportFile{
			Name: upload.Filename,
			Kind: importKindFor(upload.Filename),
			Data: data,
		})
	}

	template, err := h.carousels.ImportTemplate(c.Request.Context(), id, c.PostForm("name"), files)
	if err != nil {
		RespondSentinel(c, "import_template_failed", err)
		return
	}
	RespondOK(c, gin.H{"template": template})
}

// PUT /api/projects/:id/carousel/template/slides/:slideId/zones
func (h *CarouselHandler) UpdateZones(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	slideID, err := uuid.Parse(c.Param("slideId"))
	if err != nil || slideID == uuid.Nil {
		RespondError(c, http.StatusBadRequest, "invalid_slide_id", err)
		return
	}
	var req struct {
		Zones []types.TextZone `json:"zones"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	kept, err := h.carousels.UpdateSlideZones(c.Request.Context(), id, slideID, req.Zones)
	if err != nil {
		RespondSentinel(c, "update_zones_failed", err)
		return
	}
	RespondOK(c, gin.H{"zones": kept})
}

// POST /api/projects/:id/carousel/generate
func (h *CarouselHandler) Generate(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	view, err := h.carousels.GenerateSlides(c.Request.Context(), id)
	if err != nil {
		RespondSentinel(c, "generate_slides_failed", err)
		return
	}
	RespondOK(c, view)
}

// GET /api/projects/:id/carousel
func (h *CarouselHandler) Get(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	view, err := h.carousels.Get(c.Request.Context(), id)
	if err != nil {
		RespondSentinel(c, "get_carousel_failed", err)
		return
	}
	RespondOK(c, view)
}

// PUT /api/projects/:id/carousel/slides/:index
func (h *CarouselHandler) EditSlide(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	index, ok := indexParam(c)
	if !ok {
		return
	}
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := h.carousels.EditSlide(c.Request.Context(), id, index, req.Field, req.Value)
	if err != nil {
		RespondSentinel(c, "edit_slide_failed", err)
		return
	}
	RespondOK(c, view)
}

// GET /api/projects/:id/carousel/export
func (h *CarouselHandler) Export(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	archive, err := h.carousels.ExportZIP(c.Request.Context(), id)
	if err != nil {
		RespondSentinel(c, "export_carousel_failed", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="carousel.zip"`)
	c.Data(http.StatusOK, "application/zip", archive)
}
