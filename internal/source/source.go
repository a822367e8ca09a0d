// Package source aggregates the three chapter sources behind one API:
// the first-party backend for community uploads, the metadata API for
// external comics, and the scraping providers as a fallback chapter search.
// Routing is by ID shape: first-party IDs match ^c[a-z0-9]+$ and never
// contain hyphens, external records are UUIDs.
package source

import (
	"context"
	"strings"

	"github.com/wepcomic/wepcomic-term/internal/api/anilist"
	"github.com/wepcomic/wepcomic-term/internal/api/backend"
	"github.com/wepcomic/wepcomic-term/internal/api/consumet"
	"github.com/wepcomic/wepcomic-term/internal/api/mangadex"
	"github.com/wepcomic/wepcomic-term/internal/logger"
	"github.com/wepcomic/wepcomic-term/internal/models"
)

// Providers tried for the cross-provider chapter search, by origin language.
// Korean and Chinese works live on the scanlation-focused hosts.
var (
	asianProviders   = []string{"asurascans", "reaperscans", "flamecomics", "manganato"}
	defaultProviders = []string{"mangakakalot", "comick", "mangasee", "mangahere"}
)

// Aggregator routes reads to the right upstream and implements the
// cross-source fallbacks.
type Aggregator struct {
	backend  *backend.Client
	metadata *mangadex.Client
	scrapers *consumet.Client
	anilist  *anilist.Client
	logger   *logger.Logger
}

// NewAggregator wires the upstream clients together. anilistClient may be nil
// to disable the statistics fallback.
func NewAggregator(b *backend.Client, m *mangadex.Client, s *consumet.Client, a *anilist.Client, log *logger.Logger) *Aggregator {
	zl := log.Logger.With().Str("component", "source_aggregator").Logger()
	return &Aggregator{
		backend:  b,
		metadata: m,
		scrapers: s,
		anilist:  a,
		logger:   &logger.Logger{Logger: zl},
	}
}

// ResolveComic returns the detail view for an ID from whichever source owns
// it. Detail reads are page-critical, so errors propagate.
func (a *Aggregator) ResolveComic(ctx context.Context, id, language string, showNSFW bool) (*models.Comic, error) {
	if models.IsLocalID(id) {
		return a.backend.GetUploaded(ctx, id)
	}
	return a.metadata.GetComicByID(ctx, id, language, showNSFW)
}

// Statistics returns community metrics for a comic, best effort. Community
// uploads have none; external lookups fall back to AniList when the metadata
// API reports nothing, and any failure degrades to zero values.
func (a *Aggregator) Statistics(ctx context.Context, comic *models.Comic) models.Statistics {
	if comic.IsLocal() {
		return models.Statistics{}
	}

	stats, err := a.metadata.GetStatistics(ctx, comic.ID)
	if err != nil {
		a.logger.Debug("Statistics lookup failed", map[string]interface{}{
			"comic_id": comic.ID,
			"error":    err.Error(),
		})
		stats = models.Statistics{}
	}
	if stats.Rating != 0 || stats.Follows != 0 {
		return stats
	}

	if a.anilist == nil {
		return stats
	}
	fallback, err := a.anilist.SearchStatistics(ctx, comic.Title)
	if err != nil {
		return stats
	}
	return fallback
}

// ResolvePages returns a chapter's page image URLs from the source the
// chapter was recorded with. Page reads are page-critical, so errors
// propagate.
func (a *Aggregator) ResolvePages(ctx context.Context, comicID string, chapter models.Chapter) ([]string, error) {
	switch source := chapter.SourceOrDefault(); source {
	case models.SourceLocal:
		return a.backend.GetChapterPages(ctx, comicID, chapter.ID)
	case models.SourceMangaDex:
		return a.metadata.GetChapterPages(ctx, chapter.ID)
	default:
		return a.scrapers.Pages(ctx, string(source), chapter.ID)
	}
}

// bestSearchTitle picks the variant most likely to match scraping-provider
// catalogs: the romanized Japanese title, then English, then whatever the
// primary title map holds.
func bestSearchTitle(titlesRaw []map[string]string) string {
	for _, variant := range titlesRaw {
		if v := variant["ja-ro"]; v != "" {
			return v
		}
	}
	for _, variant := range titlesRaw {
		if v := variant["en"]; v != "" {
			return v
		}
	}
	if len(titlesRaw) > 0 {
		for _, v := range titlesRaw[0] {
			if v != "" {
				return v
			}
		}
	}
	return ""
}

// subtitle separators stripped before searching providers.
var titleSeparators = []string{" ~ ", " - ", ":", " ("}

// cleanTitle cuts the title at the first subtitle separator.
func cleanTitle(title string) string {
	cut := len(title)
	for _, sep := range titleSeparators {
		if idx := strings.Index(title, sep); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return strings.TrimSpace(title[:cut])
}

func providersFor(origin string) []string {
	if origin == "ko" || origin == "zh" {
		return asianProviders
	}
	return defaultProviders
}

// FindChaptersFromAnySource searches the scraping providers for an alternate
// chapter list when the metadata feed came up empty. Providers are tried in
// origin-dependent order and the first result with a non-empty chapter list
// wins; individual provider failures are swallowed. Returns an empty list
// when every provider is exhausted.
func (a *Aggregator) FindChaptersFromAnySource(ctx context.Context, titlesRaw []map[string]string, origin string) []models.Chapter {
	title := bestSearchTitle(titlesRaw)
	if title == "" {
		return nil
	}
	cleaned := cleanTitle(title)

	for _, provider := range providersFor(origin) {
		if ctx.Err() != nil {
			return nil
		}

		results, err := a.scrapers.Search(ctx, provider, cleaned)
		if err != nil {
			a.logger.Debug("Provider search failed", map[string]interface{}{
				"provider": provider,
				"title":    cleaned,
				"error":    err.Error(),
			})
			continue
		}

		for _, result := range results {
			if result.ID == "" {
				continue
			}
			chapters, err := a.scrapers.Chapters(ctx, provider, result.ID)
			if err != nil {
				continue
			}
			if len(chapters) > 0 {
				a.logger.Info("Found alternate chapter source", map[string]interface{}{
					"provider": provider,
					"title":    cleaned,
					"chapters": len(chapters),
				})
				return chapters
			}
		}
	}
	return nil
}
