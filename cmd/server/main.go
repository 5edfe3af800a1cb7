package main

import (
	"github.com/inklog/internal/config"
	"github.com/inklog/internal/docstore"
	"github.com/inklog/internal/idea"
	"github.com/inklog/internal/logging"
	"github.com/inklog/internal/post"
	"github.com/inklog/internal/router"
	"github.com/inklog/internal/template"
	"github.com/inklog/internal/view"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env just means the environment is already set.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	store, err := docstore.Open(cfg.DatabasePath, cfg.DocstoreTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open document store")
	}
	defer store.Close()

	views := view.NewCache(cfg.ViewCacheTTL)
	posts := post.NewStore(store)
	editor := post.NewEditor(store, views, log)

	r := router.Setup(router.Deps{
		Config:    cfg,
		Logger:    log,
		Posts:     posts,
		Editor:    editor,
		Ideas:     idea.NewService(store),
		Templates: template.NewService(store),
		Views:     views,
	})

	log.Info().Str("addr", cfg.ListenAddr).Msg("starting server")
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
