package post

import (
	"strings"
	"time"
)

// Collection is the docstore collection holding post documents.
const Collection = "posts"

// Post status values. Legacy documents may omit Status entirely and carry
// the boolean Draft flag instead.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
	StatusDeleted   = "deleted"
)

// Post is the persisted record for a single blog post. The slug doubles as
// the document key and the URL path segment.
type Post struct {
	Slug      string     `json:"slug"`
	Title     string     `json:"title"`
	Date      time.Time  `json:"date"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	Summary   string     `json:"summary,omitempty"`
	Content   string     `json:"content"`
	Status    string     `json:"status,omitempty"`
	Draft     *bool      `json:"draft,omitempty"`
	Layout    string     `json:"layout,omitempty"`
	Images    []string   `json:"images,omitempty"`
	Authors   []string   `json:"authors,omitempty"`
	Lastmod   *time.Time `json:"lastmod,omitempty"`
}

// Deleted reports whether the post was soft-deleted.
func (p *Post) Deleted() bool {
	return p.Status == StatusDeleted
}

// effectiveDraft normalizes the two status representations into one flag.
// When Status is present it wins; otherwise the legacy Draft boolean applies,
// with an absent flag meaning "not a draft".
func (p *Post) effectiveDraft() bool {
	if p.Status != "" {
		return p.Status != StatusPublished
	}
	return p.Draft != nil && *p.Draft
}

// IsPublicationReady reports whether a post may be shown on any public read
// path as of now: not deleted, not a draft, and carrying a publish date that
// has already passed.
func IsPublicationReady(p Post, now time.Time) bool {
	if p.Deleted() {
		return false
	}
	if p.effectiveDraft() {
		return false
	}
	if p.Date.IsZero() || p.Date.After(now) {
		return false
	}
	return true
}

// FilterPublicationReady returns the subset of posts that pass
// IsPublicationReady, preserving order.
func FilterPublicationReady(posts []Post, now time.Time) []Post {
	ready := make([]Post, 0, len(posts))
	for _, p := range posts {
		if IsPublicationReady(p, now) {
			ready = append(ready, p)
		}
	}
	return ready
}

// CountTags aggregates tag frequency across publication-ready posts. Tag
// text is trimmed before counting; tags that trim to nothing are dropped.
func CountTags(posts []Post, now time.Time) map[string]int {
	counts := make(map[string]int)
	for _, p := range posts {
		if !IsPublicationReady(p, now) {
			continue
		}
		for _, tag := range p.Tags {
			trimmed := strings.TrimSpace(tag)
			if trimmed == "" {
				continue
			}
			counts[trimmed]++
		}
	}
	return counts
}
