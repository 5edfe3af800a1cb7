// Seeds the document store with sample posts and backlog ideas for local
// development.
package main

import (
	"context"
	"time"

	"github.com/inklog/internal/config"
	"github.com/inklog/internal/docstore"
	"github.com/inklog/internal/idea"
	"github.com/inklog/internal/logging"
	"github.com/inklog/internal/post"
	"github.com/inklog/internal/view"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	store, err := docstore.Open(cfg.DatabasePath, cfg.DocstoreTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open document store")
	}
	defer store.Close()

	editor := post.NewEditor(store, view.NewCache(0), log)
	ideas := idea.NewService(store)
	ctx := context.Background()

	samples := []post.SaveInput{
		{
			Content: "# Hello World\n\nFirst post on the new engine.",
			Meta: post.Meta{
				Title:   "Hello World",
				Date:    time.Now().AddDate(0, 0, -14),
				Tags:    []string{"meta", "blog"},
				Summary: "First post on the new engine.",
				Status:  post.StatusPublished,
			},
		},
		{
			Content: "# 블로그를 직접 만든 이유\n\n직접 만들면 고장도 직접 고친다.",
			Meta: post.Meta{
				Title:   "블로그를 직접 만든 이유",
				Date:    time.Now().AddDate(0, 0, -7),
				Tags:    []string{"blog", "회고"},
				Summary: "만들게 된 계기 정리.",
				Status:  post.StatusPublished,
			},
		},
		{
			Content: "# Renames without orphans\n\nNotes on slug swaps.",
			Meta: post.Meta{
				Title:   "Renames Without Orphans",
				Date:    time.Now().AddDate(0, 0, 3),
				Tags:    []string{"go", "persistence"},
				Summary: "Why a title edit is a transaction.",
				Status:  post.StatusPublished,
			},
		},
		{
			Content: "# Draft: tag pages\n\nStill collecting thoughts.",
			Meta: post.Meta{
				Title:  "Draft: Tag Pages",
				Date:   time.Now(),
				Tags:   []string{"meta"},
				Status: post.StatusDraft,
			},
		},
	}

	for _, sample := range samples {
		slug, err := editor.Save(ctx, sample)
		if err != nil {
			log.Fatal().Err(err).Str("title", sample.Meta.Title).Msg("failed to seed post")
		}
		log.Info().Str("slug", slug).Msg("seeded post")
	}

	backlog := []struct{ title, note string }{
		{"Write about the read-scope cache", "one backend query per render"},
		{"Search page improvements", "date range picker"},
	}
	for _, entry := range backlog {
		if _, err := ideas.Create(ctx, entry.title, entry.note); err != nil {
			log.Fatal().Err(err).Str("title", entry.title).Msg("failed to seed idea")
		}
		log.Info().Str("title", entry.title).Msg("seeded idea")
	}
}
