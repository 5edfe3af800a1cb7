package post

import (
	"context"
	"sync"
	"time"
)

// ReadScope memoizes post reads for one logical read sequence, typically a
// single request. The first GetAll hits the backend; every later call,
// direct or via GetBySlug/GetAllTags, reuses the snapshot. A scope must be
// created per request and discarded with it: it never refreshes, and writes
// do not update it.
type ReadScope struct {
	store *Store

	mu     sync.Mutex
	posts  []Post
	loaded bool
}

// NewReadScope returns an empty scope over store.
func NewReadScope(store *Store) *ReadScope {
	return &ReadScope{store: store}
}

// GetAll returns the scope's snapshot, loading it on first use.
func (rs *ReadScope) GetAll(ctx context.Context) ([]Post, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.loaded {
		posts, err := rs.store.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		rs.posts = posts
		rs.loaded = true
	}
	return rs.posts, nil
}

// GetBySlug resolves a slug against the snapshot.
func (rs *ReadScope) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	posts, err := rs.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].Slug == slug {
			p := posts[i]
			return &p, nil
		}
	}
	return nil, nil
}

// GetAllTags aggregates tag frequency over the snapshot without issuing a
// second backend query.
func (rs *ReadScope) GetAllTags(ctx context.Context) (map[string]int, error) {
	posts, err := rs.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return CountTags(posts, time.Now()), nil
}
