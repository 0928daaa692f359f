package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/postforge-backend/internal/pkg/logger"
	"github.com/yungbote/postforge-backend/internal/services"
)

type ProjectHandler struct {
	log      *logger.Logger
	projects services.ProjectService
}

func NewProjectHandler(baseLog *logger.Logger, projects services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		log:      baseLog.With("handler", "ProjectHandler"),
		projects: projects,
	}
}

func projectID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return uuid.Nil, false
	}
	return id, true
}

// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Platform string `json:"platform"`
		Topic    string `json:"topic"`
		Audience string `json:"audience"`
		Tone     string `json:"tone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := h.projects.Create(c.Request.Context(), req.Name, req.Platform, req.Topic, req.Audience, req.Tone)
	if err != nil {
		RespondSentinel(c, "create_project_failed", err)
		return
	}
	RespondOK(c, view)
}

// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	var req struct {
		Limit int `form:"limit"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rows, err := h.projects.List(c.Request.Context(), req.Limit)
	if err != nil {
		RespondSentinel(c, "list_projects_failed", err)
		return
	}
	RespondOK(c, gin.H{"projects": rows})
}

// GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	view, err := h.projects.Get(c.Request.Context(), id)
	if err != nil {
		RespondSentinel(c, "get_project_failed", err)
		return
	}
	RespondOK(c, view)
}

// PATCH /api/projects/:id
func (h *ProjectHandler) UpdateSetup(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var req struct {
		Topic    *string `json:"topic"`
		Audience *string `json:"audience"`
		Tone     *string `json:"tone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	project, err := h.projects.UpdateSetup(c.Request.Context(), id, req.Topic, req.Audience, req.Tone)
	if err != nil {
		RespondSentinel(c, "update_project_failed", err)
		return
	}
	RespondOK(c, project)
}

// POST /api/projects/:id/step/next
func (h *ProjectHandler) NextStep(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	project, err := h.projects.AdvanceStep(c.Request.Context(), id)
	if err != nil {
		RespondSentinel(c, "advance_step_failed", err)
		return
	}
	RespondOK(c, project)
}

// POST /api/projects/:id/step/previous
func (h *ProjectHandler) PreviousStep(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	project, err := h.projects.PreviousStep(c.Request.Context(), id)
	if err != nil {
		RespondSentinel(c, "previous_step_failed", err)
		return
	}
	RespondOK(c, project)
}

// PUT /api/projects/:id/step
func (h *ProjectHandler) GoToStep(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var req struct {
		Step string `json:"step"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	project, err := h.projects.GoToStep(c.Request.Context(), id, req.Step)
	if err != nil {
		RespondSentinel(c, "go_to_step_failed", err)
		return
	}
	RespondOK(c, project)
}

// PUT /api/projects/:id/status
func (h *ProjectHandler) UpdateStatus(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	project, err := h.projects.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		RespondSentinel(c, "update_status_failed", err)
		return
	}
	RespondOK(c, project)
}

// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	if err := h.projects.Delete(c.Request.Context(), id); err != nil {
		RespondSentinel(c, "delete_project_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
