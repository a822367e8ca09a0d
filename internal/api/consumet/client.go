// Package consumet talks to the Consumet-style scraping providers used as a
// fallback chapter source. These hosts throttle hard, so every request goes
// through a shared rate limiter with dynamic backoff.
package consumet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/wepcomic/wepcomic-term/internal/logger"
	"github.com/wepcomic/wepcomic-term/internal/models"
	"github.com/wepcomic/wepcomic-term/internal/util"
)

// Client is a client for a Consumet-style manga API.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *logger.Logger
	limiter *util.RateLimiter
}

// NewClient creates a scraping-provider client.
func NewClient(baseURL string, log *logger.Logger) *Client {
	zl := log.Logger.With().Str("component", "consumet_client").Logger()

	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:  &logger.Logger{Logger: zl},
		limiter: util.NewRateLimiter(util.DefaultRate, util.DefaultBurst),
	}
}

// SearchResult is one hit of a provider search.
type SearchResult struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

type infoResponse struct {
	Chapters []struct {
		ID            string `json:"id"`
		ChapterNumber string `json:"chapterNumber"`
		Title         string `json:"title"`
	} `json:"chapters"`
}

type readPage struct {
	Img  string `json:"img"`
	Page int    `json:"page"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait cancelled: %w", err)
	}

	u := c.baseURL + path
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

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		wait := c.limiter.OnRateLimit(retryAfter)
		log.Warn().Dur("wait", wait).Msg("Provider rate limited")
		return fmt.Errorf("provider rate limited, retry after %s", wait)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read response body")
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error().
			Int("status", resp.StatusCode).
			Msg("Unexpected status code")
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		log.Error().Err(err).Msg("Failed to decode response")
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// Search queries a provider's catalog by title.
func (c *Client) Search(ctx context.Context, provider, title string) ([]SearchResult, error) {
	q := url.Values{}
	q.Set("keyw", title)

	var resp searchResponse
	if err := c.get(ctx, "/"+provider, q, &resp); err != nil {
		return nil, fmt.Errorf("search on %s failed: %w", provider, err)
	}
	return resp.Results, nil
}

// Chapters returns the chapter list of one provider result, newest first.
// Chapters without a parseable number sort to the bottom with number 0 and a
// generated title.
func (c *Client) Chapters(ctx context.Context, provider, resultID string) ([]models.Chapter, error) {
	q := url.Values{}
	q.Set("id", resultID)

	var resp infoResponse
	if err := c.get(ctx, "/"+provider+"/info", q, &resp); err != nil {
		return nil, fmt.Errorf("info on %s failed: %w", provider, err)
	}

	chapters := make([]models.Chapter, 0, len(resp.Chapters))
	for _, ch := range resp.Chapters {
		number, _ := strconv.ParseFloat(ch.ChapterNumber, 64)
		title := ch.Title
		if title == "" {
			title = "Capítulo " + ch.ChapterNumber
		}
		chapters = append(chapters, models.Chapter{
			ID:     ch.ID,
			Number: number,
			Title:  title,
			Source: models.ChapterSource(provider),
		})
	}
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].Number > chapters[j].Number
	})
	return chapters, nil
}

// Pages returns a chapter's page image URLs in page order.
func (c *Client) Pages(ctx context.Context, provider, chapterID string) ([]string, error) {
	q := url.Values{}
	q.Set("chapterId", chapterID)

	var resp []readPage
	if err := c.get(ctx, "/"+provider+"/read", q, &resp); err != nil {
		return nil, fmt.Errorf("read on %s failed: %w", provider, err)
	}

	pages := make([]string, 0, len(resp))
	for _, p := range resp {
		pages = append(pages, p.Img)
	}
	return pages, nil
}
