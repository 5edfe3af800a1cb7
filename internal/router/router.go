package router

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/inklog/internal/config"
	"github.com/inklog/internal/handler"
	"github.com/inklog/internal/idea"
	"github.com/inklog/internal/post"
	"github.com/inklog/internal/template"
	"github.com/inklog/internal/view"
	"github.com/rs/zerolog"
)

// Deps carries everything the router wires together.
type Deps struct {
	Config    config.AppConfig
	Logger    zerolog.Logger
	Posts     *post.Store
	Editor    *post.Editor
	Ideas     *idea.Service
	Templates *template.Service
	Views     *view.Cache
}

// Setup configures the Gin engine and all routes.
func Setup(deps Deps) *gin.Engine {
	if deps.Config.GinMode != "" {
		gin.SetMode(deps.Config.GinMode)
	}

	r := gin.New()
	r.Use(RequestID())
	r.Use(RequestLogger(deps.Logger))
	r.Use(gin.Recovery())

	sessionStore := cookie.NewStore([]byte(deps.Config.SessionSecret))
	// The store's default options mark cookies Secure with SameSite=None,
	// which browsers refuse over plain HTTP. Secure follows the scheme the
	// site is actually served on.
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   strings.HasPrefix(deps.Config.SiteBaseURL, "https://"),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("inklog_session", sessionStore))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	auth := handler.NewAuthHandler(deps.Config.EditorToken)
	public := handler.NewPublicHandler(deps.Posts)
	editor := handler.NewEditorHandler(deps.Posts, deps.Editor)
	ideas := handler.NewIdeaHandler(deps.Ideas)
	templates := handler.NewTemplateHandler(deps.Templates)

	api := r.Group("/api")
	api.Use(handler.WithReadScope(deps.Posts))
	{
		api.POST("/session", auth.CreateSession)
		api.DELETE("/session", auth.DestroySession)

		// Public read surface, served through the view cache.
		site := api.Group("")
		site.Use(handler.CacheViews(deps.Views))
		{
			site.GET("/blog", public.ListPosts)
			site.GET("/blog/:slug", public.GetPost)
			site.GET("/tags", public.ListTags)
			site.GET("/search", public.Search)
		}

		// Editor surface behind the session guard.
		admin := api.Group("")
		admin.Use(handler.EditorRequired())
		{
			admin.GET("/posts", editor.ListPosts)
			admin.GET("/posts/:slug", editor.GetPost)
			admin.POST("/posts", editor.SavePost)
			admin.DELETE("/posts/:slug", editor.DeletePost)

			admin.GET("/ideas", ideas.ListIdeas)
			admin.POST("/ideas", ideas.CreateIdea)
			admin.PUT("/ideas/:id", ideas.UpdateIdea)
			admin.DELETE("/ideas/:id", ideas.DeleteIdea)

			admin.GET("/templates", templates.ListTemplates)
			admin.GET("/templates/:slug", templates.GetTemplate)
			admin.POST("/templates", templates.SaveTemplate)
			admin.DELETE("/templates/:slug", templates.DeleteTemplate)
		}
	}

	return r
}
