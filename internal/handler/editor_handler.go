package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inklog/internal/post"
)

// EditorHandler serves the authenticated write surface plus the admin read
// views, which see drafts and future-dated posts.
type EditorHandler struct {
	posts  *post.Store
	editor *post.Editor
}

// NewEditorHandler returns an EditorHandler over the given store and editor.
func NewEditorHandler(posts *post.Store, editor *post.Editor) *EditorHandler {
	return &EditorHandler{posts: posts, editor: editor}
}

// SavePost handles the editor save call: create, same-slug update, or
// rename, decided by previousSlug against the resolved slug.
func (h *EditorHandler) SavePost(c *gin.Context) {
	var input post.SaveInput
	if !bindJSON(c, &input, "invalid post payload") {
		return
	}

	slug, err := h.editor.Save(c.Request.Context(), input)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, post.ErrEmptySlug):
			status = http.StatusBadRequest
		case errors.Is(err, post.ErrSlugTaken):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "slug": slug})
}

// ListPosts returns every live post for the admin list, drafts included.
func (h *EditorHandler) ListPosts(c *gin.Context) {
	scope := scopeFrom(c, h.posts)
	all, err := scope.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load posts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": all, "total": len(all)})
}

// GetPost returns one live post for the admin detail view, ready or not.
func (h *EditorHandler) GetPost(c *gin.Context) {
	scope := scopeFrom(c, h.posts)
	found, err := scope.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load post")
		return
	}
	if found == nil {
		respondError(c, http.StatusNotFound, "post not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": found})
}

// DeletePost removes a post. mode=hard drops the document; anything else
// soft-deletes it in place. Both disappear from every read path.
func (h *EditorHandler) DeletePost(c *gin.Context) {
	slug := c.Param("slug")
	soft := c.Query("mode") != "hard"

	if err := h.editor.Delete(c.Request.Context(), slug, soft); err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
