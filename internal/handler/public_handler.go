package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inklog/internal/post"
)

// PublicHandler serves the public read surface. Every endpoint filters
// through the publication-readiness predicate before anything is exposed.
type PublicHandler struct {
	posts *post.Store
}

// NewPublicHandler returns a PublicHandler over the given store.
func NewPublicHandler(posts *post.Store) *PublicHandler {
	return &PublicHandler{posts: posts}
}

// ListPosts returns publication-ready posts, newest first, paginated.
func (h *PublicHandler) ListPosts(c *gin.Context) {
	scope := scopeFrom(c, h.posts)
	all, err := scope.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load posts")
		return
	}

	ready := post.FilterPublicationReady(all, time.Now())
	page := parsePositiveQuery(c, "page", 1)
	perPage := parsePositiveQuery(c, "per_page", 10)

	total := len(ready)
	totalPages := 1
	if total > 0 {
		totalPages = (total + perPage - 1) / perPage
	}

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":      ready[start:end],
		"total":      total,
		"totalPages": totalPages,
		"page":       page,
		"perPage":    perPage,
	})
}

// GetPost returns one publication-ready post by slug. Drafts, future-dated
// and deleted posts all read as missing.
func (h *PublicHandler) GetPost(c *gin.Context) {
	slug := c.Param("slug")
	scope := scopeFrom(c, h.posts)

	found, err := scope.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load post")
		return
	}
	if found == nil || !post.IsPublicationReady(*found, time.Now()) {
		respondError(c, http.StatusNotFound, "post not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": found})
}

// ListTags returns the tag frequency map over publication-ready posts.
func (h *PublicHandler) ListTags(c *gin.Context) {
	scope := scopeFrom(c, h.posts)
	tags, err := scope.GetAllTags(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load tags")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// Search filters the publication-ready set by keyword, tag, and date range.
func (h *PublicHandler) Search(c *gin.Context) {
	scope := scopeFrom(c, h.posts)
	all, err := scope.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load posts")
		return
	}

	ready := post.FilterPublicationReady(all, time.Now())

	keyword := strings.ToLower(strings.TrimSpace(c.Query("q")))
	tag := strings.TrimSpace(c.Query("tag"))
	from, hasFrom := parseDateQuery(c.Query("from"))
	to, hasTo := parseDateQuery(c.Query("to"))
	if hasTo {
		// A bare date means "through the end of that day".
		if to.Hour() == 0 && to.Minute() == 0 && to.Second() == 0 {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
	}

	matches := make([]post.Post, 0, len(ready))
	for _, p := range ready {
		if keyword != "" && !matchesKeyword(p, keyword) {
			continue
		}
		if tag != "" && !hasTag(p, tag) {
			continue
		}
		if hasFrom && p.Date.Before(from) {
			continue
		}
		if hasTo && p.Date.After(to) {
			continue
		}
		matches = append(matches, p)
	}

	c.JSON(http.StatusOK, gin.H{"posts": matches, "total": len(matches)})
}

func matchesKeyword(p post.Post, keyword string) bool {
	return strings.Contains(strings.ToLower(p.Title), keyword) ||
		strings.Contains(strings.ToLower(p.Summary), keyword) ||
		strings.Contains(strings.ToLower(p.Content), keyword)
}

func hasTag(p post.Post, tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(strings.TrimSpace(t), tag) {
			return true
		}
	}
	return false
}
