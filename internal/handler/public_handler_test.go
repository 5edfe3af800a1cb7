package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/inklog/internal/post"
)

func TestListPostsHidesUnreadyPosts(t *testing.T) {
	app := setupTestApp(t)

	app.seedPost(t, publishedInput("Visible Post"))

	draft := publishedInput("Hidden Draft")
	draft.Meta.Status = post.StatusDraft
	app.seedPost(t, draft)

	future := publishedInput("Scheduled Post")
	future.Meta.Date = time.Now().Add(time.Hour)
	app.seedPost(t, future)

	doomed := publishedInput("Deleted Post")
	slug := app.seedPost(t, doomed)
	if err := app.editor.Delete(context.Background(), slug, true); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	w := app.do(t, http.MethodGet, "/api/blog", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	payload := decodeBody(t, w)
	posts, ok := payload["posts"].([]interface{})
	if !ok || len(posts) != 1 {
		t.Fatalf("expected exactly the visible post, got %v", payload["posts"])
	}
	first := posts[0].(map[string]interface{})
	if first["slug"] != "visible-post" {
		t.Fatalf("expected visible-post, got %v", first["slug"])
	}
}

func TestGetPostDetail(t *testing.T) {
	app := setupTestApp(t)

	app.seedPost(t, publishedInput("Hello World!"))

	draft := publishedInput("Secret Draft")
	draft.Meta.Status = post.StatusDraft
	app.seedPost(t, draft)

	if w := app.do(t, http.MethodGet, "/api/blog/hello-world", nil, nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for a ready post, got %d", w.Code)
	}
	if w := app.do(t, http.MethodGet, "/api/blog/secret-draft", nil, nil); w.Code != http.StatusNotFound {
		t.Fatalf("drafts must read as missing, got %d", w.Code)
	}
	if w := app.do(t, http.MethodGet, "/api/blog/absent", nil, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a miss, got %d", w.Code)
	}
}

func TestListTagsCountsReadyPostsOnly(t *testing.T) {
	app := setupTestApp(t)

	app.seedPost(t, publishedInput("First", "go", " web "))
	app.seedPost(t, publishedInput("Second", "go"))

	draft := publishedInput("Draft", "go")
	draft.Meta.Status = post.StatusDraft
	app.seedPost(t, draft)

	w := app.do(t, http.MethodGet, "/api/tags", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	payload := decodeBody(t, w)
	tags, ok := payload["tags"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected tag map, got %v", payload["tags"])
	}
	if tags["go"] != float64(2) {
		t.Fatalf("expected go count 2, got %v", tags["go"])
	}
	if tags["web"] != float64(1) {
		t.Fatalf("expected trimmed web count 1, got %v", tags["web"])
	}
}

func TestSearchFilters(t *testing.T) {
	app := setupTestApp(t)

	app.seedPost(t, publishedInput("Go Concurrency Patterns", "go"))
	app.seedPost(t, publishedInput("Gardening Notes", "hobby"))

	w := app.do(t, http.MethodGet, "/api/search?q=concurrency", nil, nil)
	payload := decodeBody(t, w)
	if payload["total"] != float64(1) {
		t.Fatalf("keyword search expected 1 hit, got %v", payload["total"])
	}

	w = app.do(t, http.MethodGet, "/api/search?tag=hobby", nil, nil)
	payload = decodeBody(t, w)
	if payload["total"] != float64(1) {
		t.Fatalf("tag search expected 1 hit, got %v", payload["total"])
	}

	w = app.do(t, http.MethodGet, "/api/search?q=concurrency&tag=hobby", nil, nil)
	payload = decodeBody(t, w)
	if payload["total"] != float64(0) {
		t.Fatalf("combined filters expected 0 hits, got %v", payload["total"])
	}
}

func TestViewCacheServesAndInvalidates(t *testing.T) {
	app := setupTestApp(t)
	app.seedPost(t, publishedInput("First Post"))

	if w := app.do(t, http.MethodGet, "/api/blog", nil, nil); w.Header().Get("X-View-Cache") == "hit" {
		t.Fatalf("first read must miss the cache")
	}
	if w := app.do(t, http.MethodGet, "/api/blog", nil, nil); w.Header().Get("X-View-Cache") != "hit" {
		t.Fatalf("second read should be served from the cache")
	}

	// A save invalidates the listing, so the next read is fresh and sees
	// the new post without waiting for any expiry.
	app.seedPost(t, publishedInput("Second Post"))

	w := app.do(t, http.MethodGet, "/api/blog", nil, nil)
	if w.Header().Get("X-View-Cache") == "hit" {
		t.Fatalf("read after save must bypass the stale entry")
	}
	payload := decodeBody(t, w)
	if payload["total"] != float64(2) {
		t.Fatalf("expected fresh listing with 2 posts, got %v", payload["total"])
	}
}
