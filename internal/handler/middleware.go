package handler

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inklog/internal/post"
	"github.com/inklog/internal/view"
)

const scopeKey = "inklog/readScope"

// WithReadScope creates one post.ReadScope per request so every read in the
// request shares a single backend query. The scope dies with the request.
func WithReadScope(store *post.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(scopeKey, post.NewReadScope(store))
		c.Next()
	}
}

func scopeFrom(c *gin.Context, store *post.Store) *post.ReadScope {
	if value, ok := c.Get(scopeKey); ok {
		if scope, ok := value.(*post.ReadScope); ok {
			return scope
		}
	}
	return post.NewReadScope(store)
}

// CacheViews serves public GET responses from the view cache and stores
// fresh 200 responses back into it. Cache keys drop the /api prefix so they
// line up with the paths the write side invalidates.
func CacheViews(views *view.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cacheKey(c)
		if entry, ok := views.Get(key); ok {
			c.Header("X-View-Cache", "hit")
			c.Data(entry.Status, entry.ContentType, entry.Body)
			c.Abort()
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Next()

		if recorder.Status() == http.StatusOK {
			views.Put(key, view.Entry{
				Status:      recorder.Status(),
				ContentType: recorder.Header().Get("Content-Type"),
				Body:        recorder.body.Bytes(),
			})
		}
	}
}

func cacheKey(c *gin.Context) string {
	key := strings.TrimPrefix(c.Request.URL.Path, "/api")
	if raw := c.Request.URL.RawQuery; raw != "" {
		key += "?" + raw
	}
	return key
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (r *bodyRecorder) Write(data []byte) (int, error) {
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}

func (r *bodyRecorder) WriteString(data string) (int, error) {
	r.body.WriteString(data)
	return r.ResponseWriter.WriteString(data)
}
