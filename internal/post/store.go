package post

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/inklog/internal/docstore"
)

// Store provides slug-keyed access to post documents. Soft-deleted posts are
// invisible through every read method; backend failures propagate to the
// caller, a lookup miss does not.
type Store struct {
	docs docstore.Conn
}

// NewStore returns a Store reading and writing through docs.
func NewStore(docs docstore.Conn) *Store {
	return &Store{docs: docs}
}

// GetAll returns every live post ordered by date descending. Ties fall back
// to createdAt descending, then slug, so the order is stable.
func (s *Store) GetAll(ctx context.Context) ([]Post, error) {
	records, err := s.docs.List(ctx, Collection)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts := make([]Post, 0, len(records))
	for _, record := range records {
		var p Post
		if err := json.Unmarshal(record.Data, &p); err != nil {
			return nil, fmt.Errorf("decode post %q: %w", record.Key, err)
		}
		if p.Deleted() {
			continue
		}
		posts = append(posts, p)
	}

	sortPosts(posts)
	return posts, nil
}

// GetBySlug returns the post whose slug field matches, or nil when no live
// post carries it. Matching is on the stored record's slug, not the storage
// key, so records whose key drifted from an older sanitization rule stay
// reachable.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	posts, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].Slug == slug {
			return &posts[i], nil
		}
	}
	return nil, nil
}

// GetAllTags aggregates tag frequency across publication-ready posts,
// reusing a single GetAll query.
func (s *Store) GetAllTags(ctx context.Context) (map[string]int, error) {
	posts, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return CountTags(posts, time.Now()), nil
}

// Save creates or overwrites the document at slug.
func (s *Store) Save(ctx context.Context, slug string, p Post) error {
	return savePost(ctx, s.docs, slug, p)
}

// Delete removes the document at slug. Deleting a missing slug is a no-op.
func (s *Store) Delete(ctx context.Context, slug string) error {
	return s.docs.Delete(ctx, Collection, slug)
}

func savePost(ctx context.Context, docs docstore.Conn, slug string, p Post) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode post %q: %w", slug, err)
	}
	if err := docs.Set(ctx, Collection, slug, data); err != nil {
		return fmt.Errorf("write post %q: %w", slug, err)
	}
	return nil
}

func sortPosts(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Date.After(posts[j].Date)
		}
		ci, cj := createdAtOf(posts[i]), createdAtOf(posts[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return posts[i].Slug < posts[j].Slug
	})
}

func createdAtOf(p Post) time.Time {
	if p.CreatedAt != nil {
		return *p.CreatedAt
	}
	return time.Time{}
}
