package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/wepcomic/wepcomic-term/internal/models"
)

// uploadedManga is the wire shape of a community upload.
type uploadedManga struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Author   string            `json:"author"`
	Synopsis string            `json:"synopsis"`
	CoverURL string            `json:"coverUrl"`
	Chapters []uploadedChapter `json:"chapters"`
}

type uploadedChapter struct {
	ID            string  `json:"id"`
	ChapterNumber float64 `json:"chapterNumber"`
	Title         string  `json:"title"`
	Language      string  `json:"language"`
}

func (m *uploadedManga) toComic() models.Comic {
	comic := models.Comic{
		ID:                   m.ID,
		Title:                m.Title,
		Author:               m.Author,
		Synopsis:             m.Synopsis,
		CoverURL:             m.CoverURL,
		HasAvailableChapters: len(m.Chapters) > 0,
	}
	if comic.Title == "" {
		comic.Title = models.PlaceholderTitle
	}
	if comic.Author == "" {
		comic.Author = models.PlaceholderAuthor
	}
	if comic.Synopsis == "" {
		comic.Synopsis = models.PlaceholderSynopsis
	}
	if comic.CoverURL == "" {
		comic.CoverURL = models.PlaceholderCoverURL
	}

	chapters := make([]models.Chapter, 0, len(m.Chapters))
	for _, ch := range m.Chapters {
		title := ch.Title
		if title == "" {
			title = "Capítulo " + strconv.FormatFloat(ch.ChapterNumber, 'f', -1, 64)
		}
		chapters = append(chapters, models.Chapter{
			ID:       ch.ID,
			Number:   ch.ChapterNumber,
			Title:    title,
			Source:   models.SourceLocal,
			Language: ch.Language,
		})
	}
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].Number > chapters[j].Number
	})
	comic.Chapters = chapters
	return comic
}

// ListUploaded returns one page of community uploads, optionally filtered by
// title.
func (c *Client) ListUploaded(ctx context.Context, page, limit int, title string, showNSFW bool) ([]models.Comic, *models.Pagination, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("showNsfw", strconv.FormatBool(showNSFW))
	if title != "" {
		q.Set("title", title)
	}

	var resp models.PagedResult[uploadedManga]
	if err := c.do(ctx, http.MethodGet, "/mangas", q, nil, &resp); err != nil {
		return nil, nil, fmt.Errorf("failed to list community uploads: %w", err)
	}

	comics := make([]models.Comic, 0, len(resp.Data))
	for i := range resp.Data {
		comics = append(comics, resp.Data[i].toComic())
	}
	return comics, resp.Pagination, nil
}

// GetUploaded returns one community upload with its chapters. Unapproved
// content may be gated, so the session token is attached when present.
func (c *Client) GetUploaded(ctx context.Context, id string) (*models.Comic, error) {
	var resp uploadedManga
	if err := c.do(ctx, http.MethodGet, "/mangas/"+id, nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch community upload %s: %w", id, err)
	}
	comic := resp.toComic()
	return &comic, nil
}

// GetUploadedByIDs looks community uploads up by id, preserving nothing about
// order; callers re-order as needed.
func (c *Client) GetUploadedByIDs(ctx context.Context, ids []string) ([]models.Comic, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := url.Values{}
	for _, id := range ids {
		q.Add("ids[]", id)
	}

	var resp []uploadedManga
	if err := c.do(ctx, http.MethodGet, "/mangas", q, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch community uploads by id: %w", err)
	}

	comics := make([]models.Comic, 0, len(resp))
	for i := range resp {
		comics = append(comics, resp[i].toComic())
	}
	return comics, nil
}

// GetChapterPages returns a community chapter's page image URLs. The backend
// answers with either a bare URL array or an envelope of page objects; both
// shapes are accepted, anything else yields an empty list.
func (c *Client) GetChapterPages(ctx context.Context, mangaID, chapterID string) ([]string, error) {
	var raw json.RawMessage
	path := "/mangas/" + mangaID + "/chapters/" + chapterID + "/pages"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch pages for chapter %s: %w", chapterID, err)
	}

	var urls []string
	if err := json.Unmarshal(raw, &urls); err == nil {
		return urls, nil
	}

	var envelope struct {
		Data []struct {
			ImageURL string `json:"imageUrl"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Data != nil {
		urls = make([]string, 0, len(envelope.Data))
		for _, page := range envelope.Data {
			urls = append(urls, page.ImageURL)
		}
		return urls, nil
	}

	c.logger.Warn("Unrecognized chapter pages payload shape", map[string]interface{}{
		"chapter_id": chapterID,
	})
	return []string{}, nil
}
