// Package idea keeps the blog-idea backlog: short notes the author may turn
// into posts later. Plain document CRUD, no publication rules.
package idea

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inklog/internal/docstore"
)

// Collection is the docstore collection holding idea documents.
const Collection = "ideas"

var (
	ErrIdeaNotFound  = errors.New("idea not found")
	ErrTitleRequired = errors.New("idea title is required")
)

// Idea is one backlog entry.
type Idea struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Note      string    `json:"note,omitempty"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Service provides idea CRUD over the document store.
type Service struct {
	docs docstore.Conn
}

// NewService returns a Service backed by docs.
func NewService(docs docstore.Conn) *Service {
	return &Service{docs: docs}
}

// List returns all ideas, newest first.
func (s *Service) List(ctx context.Context) ([]Idea, error) {
	records, err := s.docs.List(ctx, Collection)
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}

	ideas := make([]Idea, 0, len(records))
	for _, record := range records {
		var i Idea
		if err := json.Unmarshal(record.Data, &i); err != nil {
			return nil, fmt.Errorf("decode idea %q: %w", record.Key, err)
		}
		ideas = append(ideas, i)
	}

	sort.SliceStable(ideas, func(a, b int) bool {
		return ideas[a].CreatedAt.After(ideas[b].CreatedAt)
	})
	return ideas, nil
}

// Create stores a new idea and returns it.
func (s *Service) Create(ctx context.Context, title, note string) (*Idea, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	now := time.Now()
	idea := Idea{
		ID:        uuid.NewString(),
		Title:     title,
		Note:      strings.TrimSpace(note),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.save(ctx, idea); err != nil {
		return nil, err
	}
	return &idea, nil
}

// Update rewrites an existing idea's title, note, and done flag.
func (s *Service) Update(ctx context.Context, id, title, note string, done bool) (*Idea, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Title = title
	existing.Note = strings.TrimSpace(note)
	existing.Done = done
	existing.UpdatedAt = time.Now()
	if err := s.save(ctx, *existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Get returns one idea by id.
func (s *Service) Get(ctx context.Context, id string) (*Idea, error) {
	data, err := s.docs.Get(ctx, Collection, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, fmt.Errorf("get idea %q: %w", id, err)
	}

	var idea Idea
	if err := json.Unmarshal(data, &idea); err != nil {
		return nil, fmt.Errorf("decode idea %q: %w", id, err)
	}
	return &idea, nil
}

// Delete removes an idea by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.docs.Delete(ctx, Collection, id)
}

func (s *Service) save(ctx context.Context, idea Idea) error {
	data, err := json.Marshal(idea)
	if err != nil {
		return fmt.Errorf("encode idea %q: %w", idea.ID, err)
	}
	if err := s.docs.Set(ctx, Collection, idea.ID, data); err != nil {
		return fmt.Errorf("write idea %q: %w", idea.ID, err)
	}
	return nil
}
