// Package template stores reusable post scaffolds the editor can start new
// posts from. Templates are keyed by the slugified name.
package template

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/inklog/internal/docstore"
	"github.com/inklog/internal/post"
)

// Collection is the docstore collection holding template documents.
const Collection = "templates"

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrNameRequired     = errors.New("template name is required")
)

// Template is one reusable post scaffold.
type Template struct {
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Body      string    `json:"body"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Service provides template CRUD over the document store.
type Service struct {
	docs docstore.Conn
}

// NewService returns a Service backed by docs.
func NewService(docs docstore.Conn) *Service {
	return &Service{docs: docs}
}

// List returns all templates ordered by name.
func (s *Service) List(ctx context.Context) ([]Template, error) {
	records, err := s.docs.List(ctx, Collection)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	templates := make([]Template, 0, len(records))
	for _, record := range records {
		var t Template
		if err := json.Unmarshal(record.Data, &t); err != nil {
			return nil, fmt.Errorf("decode template %q: %w", record.Key, err)
		}
		templates = append(templates, t)
	}

	sort.SliceStable(templates, func(a, b int) bool {
		return templates[a].Name < templates[b].Name
	})
	return templates, nil
}

// Get returns one template by slug.
func (s *Service) Get(ctx context.Context, slug string) (*Template, error) {
	data, err := s.docs.Get(ctx, Collection, slug)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("get template %q: %w", slug, err)
	}

	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode template %q: %w", slug, err)
	}
	return &t, nil
}

// Save upserts a template under the slug derived from its name.
func (s *Service) Save(ctx context.Context, name, body string) (*Template, error) {
	name = strings.TrimSpace(name)
	slug := post.Slugify(name)
	if slug == "" {
		return nil, ErrNameRequired
	}

	t := Template{
		Slug:      slug,
		Name:      name,
		Body:      body,
		UpdatedAt: time.Now(),
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode template %q: %w", slug, err)
	}
	if err := s.docs.Set(ctx, Collection, slug, data); err != nil {
		return nil, fmt.Errorf("write template %q: %w", slug, err)
	}
	return &t, nil
}

// Delete removes a template by slug.
func (s *Service) Delete(ctx context.Context, slug string) error {
	if _, err := s.Get(ctx, slug); err != nil {
		return err
	}
	return s.docs.Delete(ctx, Collection, slug)
}
