package post

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inklog/internal/docstore"
	"github.com/rs/zerolog"
)

var (
	// ErrEmptySlug means the title produced no slug and no explicit slug
	// was given; nothing was written.
	ErrEmptySlug = errors.New("post slug is empty")
	// ErrSlugTaken means another live post already occupies the target slug.
	ErrSlugTaken = errors.New("post slug is already taken")
	// ErrPostNotFound means no live post carries the requested slug.
	ErrPostNotFound = errors.New("post not found")
)

// Revalidator refreshes cached read views for the given paths after a write.
type Revalidator interface {
	Invalidate(paths ...string)
}

// Meta carries the editable metadata of a post submitted by the editor.
type Meta struct {
	Title     string     `json:"title"`
	Slug      string     `json:"slug,omitempty"`
	Date      time.Time  `json:"date"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	Summary   string     `json:"summary,omitempty"`
	Status    string     `json:"status,omitempty"`
	Draft     *bool      `json:"draft,omitempty"`
	Layout    string     `json:"layout,omitempty"`
	Images    []string   `json:"images,omitempty"`
	Authors   []string   `json:"authors,omitempty"`
}

// SaveInput is one editor save request. An empty PreviousSlug signals a new
// post; otherwise it names the pre-edit identity of an existing one.
type SaveInput struct {
	Content      string `json:"content"`
	Meta         Meta   `json:"metadata"`
	PreviousSlug string `json:"previousSlug,omitempty"`
}

// Editor is the single write path for posts. It resolves the target slug,
// classifies the save as create, same-slug update, or rename, and applies
// renames as one atomic delete+create so no orphan document survives at the
// old slug.
type Editor struct {
	docs docstore.Conn
	rev  Revalidator
	log  zerolog.Logger
}

// NewEditor returns an Editor writing through docs and revalidating rev.
func NewEditor(docs docstore.Conn, rev Revalidator, log zerolog.Logger) *Editor {
	return &Editor{docs: docs, rev: rev, log: log}
}

// Save persists one post and returns its resolved slug.
//
// Create and rename run inside a backend transaction that also rejects slug
// collisions; a failure anywhere rolls the whole unit back, leaving the
// pre-save state intact. Same-slug saves overwrite in place and never issue
// a delete.
func (e *Editor) Save(ctx context.Context, input SaveInput) (string, error) {
	newSlug := strings.TrimSpace(input.Meta.Slug)
	if newSlug == "" {
		newSlug = Slugify(input.Meta.Title)
	}
	if newSlug == "" {
		return "", ErrEmptySlug
	}

	record := buildRecord(newSlug, input)
	previous := strings.TrimSpace(input.PreviousSlug)

	switch {
	case previous == newSlug && previous != "":
		// Content-only edit: overwrite the document where it lives.
		if err := savePost(ctx, e.docs, newSlug, record); err != nil {
			return "", err
		}

	case previous == "":
		err := e.docs.Transaction(ctx, func(tx docstore.Conn) error {
			if err := ensureSlugFree(ctx, tx, newSlug); err != nil {
				return err
			}
			return savePost(ctx, tx, newSlug, record)
		})
		if err != nil {
			return "", err
		}

	default:
		// Rename: the delete and the create are one unit of visibility.
		err := e.docs.Transaction(ctx, func(tx docstore.Conn) error {
			if err := ensureSlugFree(ctx, tx, newSlug); err != nil {
				return err
			}
			if err := tx.Delete(ctx, Collection, previous); err != nil {
				return fmt.Errorf("delete post %q: %w", previous, err)
			}
			return savePost(ctx, tx, newSlug, record)
		})
		if err != nil {
			return "", err
		}
	}

	paths := []string{"/blog/" + newSlug, "/blog", "/tags", "/search"}
	if previous != "" && previous != newSlug {
		paths = append(paths, "/blog/"+previous)
	}
	e.rev.Invalidate(paths...)

	e.log.Info().
		Str("slug", newSlug).
		Str("previous_slug", previous).
		Msg("post saved")
	return newSlug, nil
}

// Delete removes the post carrying slug. A soft delete marks the document
// deleted in place; a hard delete removes it. Both hide the post from every
// read path and refresh the same cached views a rename would.
func (e *Editor) Delete(ctx context.Context, slug string, soft bool) error {
	err := e.docs.Transaction(ctx, func(tx docstore.Conn) error {
		key, record, err := findLive(ctx, tx, slug)
		if err != nil {
			return err
		}
		if record == nil {
			return ErrPostNotFound
		}
		if soft {
			record.Status = StatusDeleted
			return savePost(ctx, tx, key, *record)
		}
		if err := tx.Delete(ctx, Collection, key); err != nil {
			return fmt.Errorf("delete post %q: %w", key, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.rev.Invalidate("/blog/"+slug, "/blog", "/tags", "/search")

	e.log.Info().
		Str("slug", slug).
		Bool("soft", soft).
		Msg("post deleted")
	return nil
}

func buildRecord(slug string, input SaveInput) Post {
	meta := input.Meta
	now := time.Now()
	return Post{
		Slug:      slug,
		Title:     strings.TrimSpace(meta.Title),
		Date:      meta.Date,
		CreatedAt: meta.CreatedAt,
		Tags:      meta.Tags,
		Summary:   strings.TrimSpace(meta.Summary),
		Content:   input.Content,
		Status:    meta.Status,
		Draft:     meta.Draft,
		Layout:    meta.Layout,
		Images:    meta.Images,
		Authors:   meta.Authors,
		Lastmod:   &now,
	}
}

// ensureSlugFree rejects writes onto a slug occupied by a live post. Like the
// read paths it matches the record's slug field, not just the storage key, so
// an occupant under a drifted key still blocks. A soft-deleted occupant does
// not: its slot may be reused.
func ensureSlugFree(ctx context.Context, docs docstore.Conn, slug string) error {
	records, err := docs.List(ctx, Collection)
	if err != nil {
		return fmt.Errorf("check slug %q: %w", slug, err)
	}
	for _, record := range records {
		var occupant Post
		if err := json.Unmarshal(record.Data, &occupant); err != nil {
			return fmt.Errorf("decode post %q: %w", record.Key, err)
		}
		if occupant.Deleted() {
			continue
		}
		if occupant.Slug == slug || record.Key == slug {
			return ErrSlugTaken
		}
	}
	return nil
}

// findLive locates a non-deleted post by its slug field, returning the
// storage key alongside the record so callers act on the actual document
// even when the key drifted.
func findLive(ctx context.Context, docs docstore.Conn, slug string) (string, *Post, error) {
	records, err := docs.List(ctx, Collection)
	if err != nil {
		return "", nil, fmt.Errorf("list posts: %w", err)
	}
	for _, record := range records {
		var p Post
		if err := json.Unmarshal(record.Data, &p); err != nil {
			return "", nil, fmt.Errorf("decode post %q: %w", record.Key, err)
		}
		if p.Deleted() || p.Slug != slug {
			continue
		}
		return record.Key, &p, nil
	}
	return "", nil, nil
}
