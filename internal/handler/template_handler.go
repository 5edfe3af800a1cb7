package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inklog/internal/template"
)

// TemplateHandler serves post-template CRUD for the editor.
type TemplateHandler struct {
	templates *template.Service
}

// NewTemplateHandler returns a TemplateHandler over the given service.
func NewTemplateHandler(templates *template.Service) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// ListTemplates returns all templates ordered by name.
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	templates, err := h.templates.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load templates")
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// GetTemplate returns one template by slug.
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	found, err := h.templates.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, template.ErrTemplateNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load template")
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": found})
}

// SaveTemplate upserts a template under its name-derived slug.
func (h *TemplateHandler) SaveTemplate(c *gin.Context) {
	var payload struct {
		Name string `json:"name"`
		Body string `json:"body"`
	}
	if !bindJSON(c, &payload, "invalid template payload") {
		return
	}

	saved, err := h.templates.Save(c.Request.Context(), payload.Name, payload.Body)
	if err != nil {
		if errors.Is(err, template.ErrNameRequired) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to save template")
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": saved})
}

// DeleteTemplate removes a template by slug.
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	if err := h.templates.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		if errors.Is(err, template.ErrTemplateNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete template")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
