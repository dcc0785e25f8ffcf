package fetcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/0x0BSoD/rss2epub/internal/model"
)

type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]model.Item, error)
}

type Resolver interface {
	Resolve(ctx context.Context, item model.Item) (string, error)
}

type ChapterSink interface {
	AddChapter(title, body string) (model.Chapter, error)
}

// Fetcher walks sources in order and turns every titled item into a chapter.
// Sources and items are processed one at a time; the first error stops the walk.
type Fetcher struct {
	sources  []Source
	resolver Resolver
	book     ChapterSink
	log      *slog.Logger
}

func New(
	sources []Source,
	resolver Resolver,
	book ChapterSink,
	log *slog.Logger,
) *Fetcher {
	return &Fetcher{
		sources:  sources,
		resolver: resolver,
		book:     book,
		log:      log,
	}
}

func (f *Fetcher) Fetch(ctx context.Context) error {
	for _, src := range f.sources {
		items, err := src.Fetch(ctx)
		if err != nil {
			return fmt.Errorf("fetch feed %s: %w", src.Name(), err)
		}

		f.log.InfoContext(ctx, "feed fetched", "feed", src.Name(), "items", len(items))

		if err := f.processItems(ctx, src, items); err != nil {
			return err
		}
	}

	return nil
}

func (f *Fetcher) processItems(ctx context.Context, src Source, items []model.Item) error {
	titled := lo.Filter(items, func(item model.Item, _ int) bool {
		return item.Title != ""
	})
	if skipped := len(items) - len(titled); skipped > 0 {
		f.log.DebugContext(ctx, "skipping untitled items", "feed", src.Name(), "count", skipped)
	}

	for _, item := range titled {
		body, err := f.resolver.Resolve(ctx, item)
		if err != nil {
			f.log.ErrorContext(ctx, "failed to resolve item",
				"feed", item.FeedURL,
				"title", item.Title,
				"link", item.Link,
				"err", err)

			return fmt.Errorf("resolve %q from %s: %w", item.Title, item.FeedURL, err)
		}

		chapter, err := f.book.AddChapter(item.Title, body)
		if err != nil {
			return err
		}

		f.log.DebugContext(ctx, "chapter added", "feed", item.FeedURL, "chapter", chapter.Filename)
	}

	return nil
}
