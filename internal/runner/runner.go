// Package runner orchestrates one curation batch: scrape every source,
// standardize, deduplicate, summarize, then hand the digest to its sinks.
package runner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ryosukesatoh/tech-curator/internal/article"
	"github.com/ryosukesatoh/tech-curator/internal/logger"
	"github.com/ryosukesatoh/tech-curator/internal/scraper"
	"github.com/ryosukesatoh/tech-curator/internal/storage"
	"github.com/ryosukesatoh/tech-curator/internal/summarizer"
)

// Runner owns the pipeline components for the lifetime of the process.
type Runner struct {
	limit      int
	scrapers   []scraper.Scraper
	summarizer *summarizer.Summarizer
	markdown   *storage.MarkdownStorage
	email      *storage.EmailDigest
	recipients []string
	log        *logger.Logger
}

func New(
	limit int,
	scrapers []scraper.Scraper,
	s *summarizer.Summarizer,
	markdown *storage.MarkdownStorage,
	email *storage.EmailDigest,
	recipients []string,
	log *logger.Logger,
) *Runner {
	return &Runner{
		limit:      limit,
		scrapers:   scrapers,
		summarizer: s,
		markdown:   markdown,
		email:      email,
		recipients: recipients,
		log:        log,
	}
}

// Run executes the full pipeline once. Source and summarization failures
// degrade to partial output; only a failure to persist the digest is an
// error, because then the run produced nothing.
func (r *Runner) Run(ctx context.Context) error {
	log := r.log.With("run_id", uuid.NewString())
	log.Info("starting curation run", "sources", len(r.scrapers), "articles_per_source", r.limit)

	// Sources are independent; one failing must not abort the run.
	var standardized []article.Article
	for _, s := range r.scrapers {
		items, err := s.Scrape(ctx, r.limit)
		if err != nil {
			log.Error("source failed, continuing with remaining sources", "source", s.Name(), "error", err)
			continue
		}
		log.Info("scraped source", "source", s.Name(), "items", len(items))

		for _, item := range items {
			standardized = append(standardized, article.Standardize(item, s.Name()))
		}
	}

	unique := article.FilterDuplicates(standardized)
	log.Info("filtered duplicates", "before", len(standardized), "after", len(unique))

	entries := r.summarizer.SummarizeArticles(ctx, unique)

	path, err := r.markdown.SaveDigest(entries, "")
	if err != nil {
		return fmt.Errorf("runner: failed to save digest: %w", err)
	}
	if path != "" {
		log.Info("digest written", "path", path)
	}

	if r.email != nil && len(r.recipients) > 0 {
		if err := r.email.SendDigest(r.recipients, entries); err != nil {
			log.Error("failed to send email digest", "error", err)
		}
	}

	log.Info("curation run complete", "entries", len(entries))
	return nil
}
