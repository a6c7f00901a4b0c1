package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kaipinbao/kaipinbao-backend/internal/prd"
	"github.com/kaipinbao/kaipinbao-backend/internal/services"
)

type ProjectHandler struct {
	projects services.ProjectService
}

func NewProjectHandler(projects services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	project, err := h.projects.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "project_create_failed", err)
		return
	}
	RespondOK(c, gin.H{"project": project})
}

// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context(), 0)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "project_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"projects": projects})
}

// GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return
	}
	project, err := h.projects.GetByID(c.Request.Context(), projectID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "project_not_found", err)
		return
	}
	RespondOK(c, gin.H{"project": project})
}

// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return
	}
	if err := h.projects.Delete(c.Request.Context(), projectID); err != nil {
		RespondError(c, http.StatusInternalServerError, "project_delete_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

type advanceStageRequest struct {
	Stage int `json:"stage"`
}

// POST /api/projects/:id/stage
func (h *ProjectHandler) AdvanceStage(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return
	}
	var req advanceStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.projects.AdvanceStage(c.Request.Context(), projectID, req.Stage); err != nil {
		RespondError(c, http.StatusBadRequest, "stage_advance_failed", err)
		return
	}
	RespondOK(c, gin.H{"stage": req.Stage})
}

// GET /api/projects/:id/messages
func (h *ProjectHandler) ListMessages(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return
	}
	messages, err := h.projects.ListMessages(c.Request.Context(), projectID, 0)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "messages_load_failed", err)
		return
	}
	RespondOK(c, gin.H{"messages": messages})
}

// GET /api/projects/:id/prd
func (h *ProjectHandler) GetPrd(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return
	}
	data, ready, err := h.projects.GetDocument(c.Request.Context(), projectID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "prd_load_failed", err)
		return
	}
	RespondOK(c, gin.H{"prd": data, "ready": ready})
}

// PATCH /api/projects/:id/prd
//
// Manual field edits go through the same merge as extracted turns, so
// the completion predicate is re-evaluated on every edit.
func (h *ProjectHandler) PatchPrd(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return
	}
	var patch prd.Data
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	merged, ready, err := h.projects.ApplyManualEdit(c.Request.Context(), projectID, &patch)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "prd_update_failed", err)
		return
	}
	RespondOK(c, gin.H{"prd": merged, "ready": ready})
}

type addCompetitorRequest struct {
	URL string `json:"url"`
}

// POST /api/projects/:id/competitors
func (h *ProjectHandler) AddCompetitor(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return
	}
	var req addCompetitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	product, err := h.projects.AddCompetitor(c.Request.Context(), projectID, req.URL)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "competitor_create_failed", err)
		return
	}
	RespondOK(c, gin.H{"product": product})
}

// GET /api/projects/:id/competitors
func (h *ProjectHandler) ListCompetitors(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return
	}
	products, err := h.projects.ListCompetitors(c.Request.Context(), projectID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "competitors_load_failed", err)
		return
	}
	RespondOK(c, gin.H{"products": products})
}

// GET /api/competitors/:id/reviews
func (h *ProjectHandler) ListCompetitorReviews(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_product_id", err)
		return
	}
	reviews, err := h.projects.ListCompetitorReviews(c.Request.Context(), productID, 0)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "reviews_load_failed", err)
		return
	}
	RespondOK(c, gin.H{"reviews": reviews})
}
