// Package mangadex talks to the metadata API. Most calls go through the
// first-party backend's proxy; the overflow chapter-feed pages and the
// popularity listing hit the upstream API directly, matching how the
// endpoints are rate limited.
package mangadex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/wepcomic/wepcomic-term/internal/cache"
	"github.com/wepcomic/wepcomic-term/internal/logger"
	"github.com/wepcomic/wepcomic-term/internal/models"
)

const (
	// feedPageLimit is the metadata API's maximum chapter-feed page size.
	feedPageLimit = 500
	// idBatchSize is the maximum number of ids per listing request.
	idBatchSize = 100

	tagCacheTTL   = time.Hour
	statsCacheTTL = 10 * time.Minute
)

// Client is a client for the metadata API.
type Client struct {
	proxyURL  string
	directURL string
	client    *http.Client
	logger    *logger.Logger

	tagCache   cache.Cache[string, []models.Tag]
	statsCache cache.Cache[string, models.Statistics]
}

// NewClient creates a metadata API client. proxyURL is the first-party
// backend's proxy prefix, directURL the upstream API base.
func NewClient(proxyURL, directURL string, log *logger.Logger) *Client {
	zl := log.Logger.With().Str("component", "mangadex_client").Logger()
	componentLog := &logger.Logger{Logger: zl}

	return &Client{
		proxyURL:  proxyURL,
		directURL: directURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:     componentLog,
		tagCache:   cache.NewMemoryCache[string, []models.Tag](componentLog),
		statsCache: cache.NewMemoryCache[string, models.Statistics](componentLog),
	}
}

// get performs a GET against base+path with the given query and decodes the
// JSON response into out.
func (c *Client) get(ctx context.Context, base, path string, query url.Values, out interface{}) error {
	u := base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	log := c.logger.Logger.With().Str("endpoint", path).Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create request")
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Request failed")
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read response body")
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error().
			Int("status", resp.StatusCode).
			Str("response", string(body)).
			Msg("Unexpected status code")
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		log.Error().Err(err).Msg("Failed to decode response")
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func contentRatingParams(q url.Values, showNSFW bool) {
	q.Add("contentRating[]", "safe")
	q.Add("contentRating[]", "suggestive")
	if showNSFW {
		q.Add("contentRating[]", "erotica")
		q.Add("contentRating[]", "pornographic")
	}
}

func languageParams(q url.Values, language string) {
	if language != "all" && language != "" {
		q.Add("translatedLanguage[]", language)
	}
}

func includeParams(q url.Values) {
	q.Add("includes[]", "cover_art")
	q.Add("includes[]", "author")
}

// GetAllComics returns one catalog page, ordered by relevance when searching
// and by latest upload otherwise. The second return reports whether more
// pages exist.
func (c *Client) GetAllComics(ctx context.Context, limit, offset int, search string, showNSFW bool, language string) ([]models.Comic, bool, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	includeParams(q)
	languageParams(q, language)
	contentRatingParams(q, showNSFW)
	if search != "" {
		q.Set("title", search)
		q.Set("order[relevance]", "desc")
	} else {
		q.Set("order[latestUploadedChapter]", "desc")
	}

	var resp mangaListResponse
	if err := c.get(ctx, c.proxyURL, "/manga", q, &resp); err != nil {
		return nil, false, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	hasMore := offset+len(resp.Data) < resp.Total
	return mapComics(resp.Data), hasMore, nil
}

// GetComicByID returns the comic detail with its full chapter list filtered
// to the given content language. Feeds larger than one page are completed
// with concurrent overflow requests against the upstream API.
func (c *Client) GetComicByID(ctx context.Context, id, language string, showNSFW bool) (*models.Comic, error) {
	detailQ := url.Values{}
	includeParams(detailQ)

	var detail mangaResponse
	if err := c.get(ctx, c.proxyURL, "/manga/"+id, detailQ, &detail); err != nil {
		return nil, fmt.Errorf("failed to fetch comic %s: %w", id, err)
	}
	comic := mapComic(detail.Data)

	feedQ := url.Values{}
	feedQ.Set("order[chapter]", "desc")
	feedQ.Set("limit", strconv.Itoa(feedPageLimit))
	feedQ.Set("offset", "0")
	contentRatingParams(feedQ, showNSFW)

	var first chapterFeedResponse
	if err := c.get(ctx, c.proxyURL, "/manga/"+id+"/feed", feedQ, &first); err != nil {
		return nil, fmt.Errorf("failed to fetch chapter feed for %s: %w", id, err)
	}

	feed := first.Data
	if first.Total > feedPageLimit {
		overflow, err := c.fetchFeedOverflow(ctx, id, first.Total, showNSFW)
		if err != nil {
			return nil, err
		}
		feed = append(feed, overflow...)
	}

	comic.Chapters = mapChapterFeed(feed, language)
	return &comic, nil
}

// fetchFeedOverflow fetches feed pages beyond the first concurrently and
// returns them concatenated in page order.
func (c *Client) fetchFeedOverflow(ctx context.Context, id string, total int, showNSFW bool) ([]chapterData, error) {
	remaining := (total - feedPageLimit + feedPageLimit - 1) / feedPageLimit

	pages := make([][]chapterData, remaining)
	errs := make([]error, remaining)
	var wg sync.WaitGroup
	for i := 0; i < remaining; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q := url.Values{}
			q.Set("order[chapter]", "desc")
			q.Set("limit", strconv.Itoa(feedPageLimit))
			q.Set("offset", strconv.Itoa((i+1)*feedPageLimit))
			contentRatingParams(q, showNSFW)

			var resp chapterFeedResponse
			if err := c.get(ctx, c.directURL, "/manga/"+id+"/feed", q, &resp); err != nil {
				errs[i] = err
				return
			}
			pages[i] = resp.Data
		}(i)
	}
	wg.Wait()

	var feed []chapterData
	for i := 0; i < remaining; i++ {
		if errs[i] != nil {
			return nil, fmt.Errorf("failed to fetch chapter feed page %d for %s: %w", i+1, id, errs[i])
		}
		feed = append(feed, pages[i]...)
	}
	return feed, nil
}

// GetStatistics returns the community metrics for a comic.
func (c *Client) GetStatistics(ctx context.Context, mangaID string) (models.Statistics, error) {
	if stats, ok := c.statsCache.Get(mangaID); ok {
		return stats, nil
	}

	q := url.Values{}
	q.Add("manga[]", mangaID)

	var resp statisticsResponse
	if err := c.get(ctx, c.proxyURL, "/statistics/manga", q, &resp); err != nil {
		return models.Statistics{}, fmt.Errorf("failed to fetch statistics for %s: %w", mangaID, err)
	}

	raw, ok := resp.Statistics[mangaID]
	if !ok {
		return models.Statistics{}, nil
	}
	stats := models.Statistics{
		Rating:  math.Round(raw.Rating.Average*100) / 100,
		Follows: raw.Follows,
	}
	c.statsCache.Set(mangaID, stats, statsCacheTTL)
	return stats, nil
}

// GetChapterPages resolves a chapter's page image URLs through the at-home
// server, using the data-saver renditions.
func (c *Client) GetChapterPages(ctx context.Context, chapterID string) ([]string, error) {
	var resp atHomeResponse
	if err := c.get(ctx, c.proxyURL, "/at-home/server/"+chapterID, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to resolve pages for chapter %s: %w", chapterID, err)
	}

	pages := make([]string, 0, len(resp.Chapter.DataSaver))
	for _, file := range resp.Chapter.DataSaver {
		pages = append(pages, resp.BaseURL+"/data-saver/"+resp.Chapter.Hash+"/"+file)
	}
	return pages, nil
}

// GetComicsByIDs looks comics up in concurrent batches of at most 100 ids and
// returns the results concatenated in batch order.
func (c *Client) GetComicsByIDs(ctx context.Context, ids []string) ([]models.Comic, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var batches [][]string
	for start := 0; start < len(ids); start += idBatchSize {
		end := start + idBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}

	results := make([][]models.Comic, len(batches))
	errs := make([]error, len(batches))
	var wg sync.WaitGroup
	for i, batch := range batches {
		wg.Add(1)
		go func(i int, batch []string) {
			defer wg.Done()
			q := url.Values{}
			q.Set("limit", strconv.Itoa(len(batch)))
			includeParams(q)
			for _, id := range batch {
				q.Add("ids[]", id)
			}

			var resp mangaListResponse
			if err := c.get(ctx, c.proxyURL, "/manga", q, &resp); err != nil {
				errs[i] = err
				return
			}
			results[i] = mapComics(resp.Data)
		}(i, batch)
	}
	wg.Wait()

	var comics []models.Comic
	for i := range batches {
		if errs[i] != nil {
			return nil, fmt.Errorf("failed to fetch comics batch %d: %w", i+1, errs[i])
		}
		comics = append(comics, results[i]...)
	}
	return comics, nil
}

// GetRecentlyUpdated returns the comics with the most recently readable
// chapters: the latest-chapters feed is reduced to unique manga ids in feed
// order, then resolved with a batch lookup.
func (c *Client) GetRecentlyUpdated(ctx context.Context, limit int, showNSFW bool, language string) ([]models.Comic, error) {
	q := url.Values{}
	q.Set("limit", "100")
	q.Set("order[readableAt]", "desc")
	q.Add("includes[]", "manga")
	languageParams(q, language)
	contentRatingParams(q, showNSFW)

	var resp chapterFeedResponse
	if err := c.get(ctx, c.proxyURL, "/chapter", q, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch latest chapters: %w", err)
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, ch := range resp.Data {
		for _, rel := range ch.Relationships {
			if rel.Type != "manga" {
				continue
			}
			if _, dup := seen[rel.ID]; dup {
				continue
			}
			seen[rel.ID] = struct{}{}
			ids = append(ids, rel.ID)
		}
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return c.GetComicsByIDs(ctx, ids)
}

// GetNewlyAdded returns the most recently created comics.
func (c *Client) GetNewlyAdded(ctx context.Context, limit int, showNSFW bool) ([]models.Comic, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("order[createdAt]", "desc")
	includeParams(q)
	contentRatingParams(q, showNSFW)

	var resp mangaListResponse
	if err := c.get(ctx, c.proxyURL, "/manga", q, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch newly added comics: %w", err)
	}
	return mapComics(resp.Data), nil
}

// GetPopular returns one page of comics ordered by follower count.
func (c *Client) GetPopular(ctx context.Context, limit, offset int, showNSFW bool, language string) ([]models.Comic, bool, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("order[followedCount]", "desc")
	includeParams(q)
	languageParams(q, language)
	contentRatingParams(q, showNSFW)

	var resp mangaListResponse
	if err := c.get(ctx, c.directURL, "/manga", q, &resp); err != nil {
		return nil, false, fmt.Errorf("failed to fetch popular comics: %w", err)
	}
	hasMore := offset+len(resp.Data) < resp.Total
	return mapComics(resp.Data), hasMore, nil
}

// GetComicsByTag returns one page of comics carrying the given tag.
func (c *Client) GetComicsByTag(ctx context.Context, tagID string, limit, offset int, showNSFW bool, language string) ([]models.Comic, bool, error) {
	q := url.Values{}
	q.Add("includedTags[]", tagID)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("order[relevance]", "desc")
	includeParams(q)
	languageParams(q, language)
	contentRatingParams(q, showNSFW)

	var resp mangaListResponse
	if err := c.get(ctx, c.proxyURL, "/newly-added", q, &resp); err != nil {
		return nil, false, fmt.Errorf("failed to fetch comics for tag %s: %w", tagID, err)
	}
	hasMore := offset+len(resp.Data) < resp.Total
	return mapComics(resp.Data), hasMore, nil
}

// GetTags returns the genre tags.
func (c *Client) GetTags(ctx context.Context) ([]models.Tag, error) {
	const cacheKey = "genres"
	if tags, ok := c.tagCache.Get(cacheKey); ok {
		return tags, nil
	}

	var resp tagListResponse
	if err := c.get(ctx, c.proxyURL, "/manga/tag", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch tags: %w", err)
	}

	var tags []models.Tag
	for _, t := range resp.Data {
		if t.Attributes.Group != "genre" {
			continue
		}
		name := preferredValue(t.Attributes.Name)
		if name == "" {
			continue
		}
		tags = append(tags, models.Tag{ID: t.ID, Name: name})
	}
	c.tagCache.Set(cacheKey, tags, tagCacheTTL)
	return tags, nil
}
