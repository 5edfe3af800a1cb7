package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inklog/internal/idea"
)

// IdeaHandler serves the blog-idea backlog CRUD.
type IdeaHandler struct {
	ideas *idea.Service
}

// NewIdeaHandler returns an IdeaHandler over the given service.
func NewIdeaHandler(ideas *idea.Service) *IdeaHandler {
	return &IdeaHandler{ideas: ideas}
}

type ideaPayload struct {
	Title string `json:"title"`
	Note  string `json:"note"`
	Done  bool   `json:"done"`
}

// ListIdeas returns all backlog entries, newest first.
func (h *IdeaHandler) ListIdeas(c *gin.Context) {
	ideas, err := h.ideas.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load ideas")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ideas": ideas})
}

// CreateIdea adds a backlog entry.
func (h *IdeaHandler) CreateIdea(c *gin.Context) {
	var payload ideaPayload
	if !bindJSON(c, &payload, "invalid idea payload") {
		return
	}

	created, err := h.ideas.Create(c.Request.Context(), payload.Title, payload.Note)
	if err != nil {
		if errors.Is(err, idea.ErrTitleRequired) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to create idea")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"idea": created})
}

// UpdateIdea rewrites a backlog entry.
func (h *IdeaHandler) UpdateIdea(c *gin.Context) {
	var payload ideaPayload
	if !bindJSON(c, &payload, "invalid idea payload") {
		return
	}

	updated, err := h.ideas.Update(c.Request.Context(), c.Param("id"), payload.Title, payload.Note, payload.Done)
	if err != nil {
		switch {
		case errors.Is(err, idea.ErrIdeaNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, idea.ErrTitleRequired):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "failed to update idea")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"idea": updated})
}

// DeleteIdea removes a backlog entry.
func (h *IdeaHandler) DeleteIdea(c *gin.Context) {
	if err := h.ideas.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, idea.ErrIdeaNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete idea")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
