package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inklog/internal/config"
	"github.com/inklog/internal/docstore"
	"github.com/inklog/internal/idea"
	"github.com/inklog/internal/post"
	"github.com/inklog/internal/router"
	"github.com/inklog/internal/template"
	"github.com/inklog/internal/view"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ginOnce sync.Once

const testEditorToken = "test-editor-token"

type testApp struct {
	engine *gin.Engine
	editor *post.Editor
	views  *view.Cache
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()

	ginOnce.Do(func() {
		gin.SetMode(gin.TestMode)
	})

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	backend, err := docstore.OpenDB(gdb, time.Second)
	if err != nil {
		t.Fatalf("failed to init docstore: %v", err)
	}

	views := view.NewCache(0)
	posts := post.NewStore(backend)
	editor := post.NewEditor(backend, views, zerolog.Nop())

	engine := router.Setup(router.Deps{
		Config: config.AppConfig{
			SessionSecret: "test-secret",
			EditorToken:   testEditorToken,
			GinMode:       gin.TestMode,
		},
		Logger:    zerolog.Nop(),
		Posts:     posts,
		Editor:    editor,
		Ideas:     idea.NewService(backend),
		Templates: template.NewService(backend),
		Views:     views,
	})

	return &testApp{engine: engine, editor: editor, views: views}
}

func (app *testApp) do(t *testing.T, method, target string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	app.engine.ServeHTTP(w, req)
	return w
}

// login creates an editor session and returns its cookies.
func (app *testApp) login(t *testing.T) []*http.Cookie {
	t.Helper()

	w := app.do(t, http.MethodPost, "/api/session", gin.H{"token": testEditorToken}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", w.Code, w.Body.String())
	}
	return w.Result().Cookies()
}

// seedPost writes a post directly through the editor write path.
func (app *testApp) seedPost(t *testing.T, p post.SaveInput) string {
	t.Helper()

	slug, err := app.editor.Save(context.Background(), p)
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return slug
}

func publishedInput(title string, tags ...string) post.SaveInput {
	return post.SaveInput{
		Content: "# " + title,
		Meta: post.Meta{
			Title:  title,
			Date:   time.Now().Add(-time.Hour),
			Tags:   tags,
			Status: post.StatusPublished,
		},
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return payload
}
