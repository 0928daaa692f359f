package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/postforge-backend/internal/content"
	"github.com/yungbote/postforge-backend/internal/pkg/logger"
	"github.com/yungbote/postforge-backend/internal/services"
)

type ContentHandler struct {
	log        *logger.Logger
	contentSvc services.ContentService
}

func NewContentHandler(baseLog *logger.Logger, contentSvc services.ContentService) *ContentHandler {
	return &ContentHandler{
		log:        baseLog.With("handler", "ContentHandler"),
		contentSvc: contentSvc,
	}
}

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		RespondError(c, http.StatusBadRequest, "invalid_index", err)
		return 0, false
	}
	return index, true
}

func contentType(c *gin.Context) (content.Type, bool) {
	t, ok := content.ParseType(c.Param("type"))
	if !ok {
		RespondError(c, http.StatusBadRequest, "invalid_content_type", nil)
		return "", false
	}
	return t, true
}

// POST /api/projects/:id/content/:type/generate
func (h *ContentHandler) Generate(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	t, ok := contentType(c)
	if !ok {
		return
	}
	output, err := h.contentSvc.GenerateSection(c.Request.Context(), id, t)
	if err != nil {
		RespondSentinel(c, "generate_failed", err)
		return
	}
	RespondOK(c, gin.H{"output": output})
}

// POST /api/projects/:id/content/:type/regenerate
func (h *ContentHandler) Regenerate(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	t, ok := contentType(c)
	if !ok {
		return
	}
	output, err := h.contentSvc.RegenerateSection(c.Request.Context(), id, t)
	if err != nil {
		RespondSentinel(c, "regenerate_failed", err)
		return
	}
	RespondOK(c, gin.H{"output": output})
}

// POST /api/projects/:id/content/:type/more
func (h *ContentHandler) AddMore(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	t, ok := contentType(c)
	if !ok {
		return
	}
	output, err := h.contentSvc.AddMore(c.Request.Context(), id, t)
	if err != nil {
		RespondSentinel(c, "add_more_failed", err)
		return
	}
	RespondOK(c, gin.H{"output": output})
}

// POST /api/projects/:id/content/:type/reset
func (h *ContentHandler) Reset(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	t, ok := contentType(c)
	if !ok {
		return
	}
	output, err := h.contentSvc.ResetSection(c.Request.Context(), id, t)
	if err != nil {
		RespondSentinel(c, "reset_failed", err)
		return
	}
	RespondOK(c, gin.H{"output": output})
}

// PUT /api/projects/:id/content/:type/items/:index
func (h *ContentHandler) Edit(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	t, ok := contentType(c)
	if !ok {
		return
	}
	index, ok := indexParam(c)
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	output, err := h.contentSvc.EditItem(c.Request.Context(), id, t, index, req.Content)
	if err != nil {
		RespondSentinel(c, "edit_failed", err)
		return
	}
	RespondOK(c, gin.H{"output": output})
}

// DELETE /api/projects/:id/content/:type/items/:index
func (h *ContentHandler) Remove(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	t, ok := contentType(c)
	if !ok {
		return
	}
	index, ok := indexParam(c)
	if !ok {
		return
	}
	output, err := h.contentSvc.RemoveItem(c.Request.Context(), id, t, index)
	if err != nil {
		RespondSentinel(c, "remove_failed", err)
		return
	}
	RespondOK(c, gin.H{"output": output})
}

// PUT /api/projects/:id/content/:type/selection
func (h *ContentHandler) Select(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	t, ok := contentType(c)
	if !ok {
		return
	}
	var req struct {
		Index *int `json:"index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Index == nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	output, err := h.contentSvc.Select(c.Request.Context(), id, t, *req.Index)
	if err != nil {
		RespondSentinel(c, "select_failed", err)
		return
	}
	RespondOK(c, gin.H{"output": output})
}

// POST /api/projects/:id/content/:type/items/:index/revert
func (h *ContentHandler) Revert(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	t, ok := contentType(c)
	if !ok {
		return
	}
	index, ok := indexParam(c)
	if !ok {
		return
	}
	output, err := h.contentSvc.Revert(c.Request.Context(), id, t, index)
	if err != nil {
		RespondSentinel(c, "revert_failed", err)
		return
	}
	RespondOK(c, gin.H{"output": output})
}

// GET /api/projects/:id/versions
func (h *ContentHandler) History(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	versions, err := h.contentSvc.History(c.Request.Context(), id, c.Query("content_type"))
	if err != nil {
		RespondSentinel(c, "history_failed", err)
		return
	}
	RespondOK(c, gin.H{"versions": versions})
}
