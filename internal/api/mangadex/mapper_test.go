package mangadex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wepcomic/wepcomic-term/internal/models"
)

func TestMapComic(t *testing.T) {
	data := mangaData{
		ID: "a1b2c3d4-e5f6-7890-abcd-ef1234567890",
		Attributes: mangaAttrs{
			Title:            map[string]string{"en": "Solo Hunter", "ja": "ソロハンター"},
			AltTitles:        []map[string]string{{"ja-ro": "Soro Hantaa"}},
			Description:      map[string]string{"en": "A hunter hunts alone."},
			OriginalLanguage: "ko",
			LastChapter:      "110",
		},
		Relationships: []relationship{
			{Type: "cover_art", Attributes: relationAttrs{FileName: "cover.jpg"}},
			{Type: "author", Attributes: relationAttrs{Name: "Chu-Gong"}},
		},
	}

	comic := mapComic(data)
	assert.Equal(t, "Solo Hunter", comic.Title)
	assert.Equal(t, "Chu-Gong", comic.Author)
	assert.Equal(t, "A hunter hunts alone.", comic.Synopsis)
	assert.Equal(t, "https://uploads.mangadex.org/covers/a1b2c3d4-e5f6-7890-abcd-ef1234567890/cover.jpg", comic.CoverURL)
	assert.Equal(t, "ko", comic.Origin)
	assert.True(t, comic.HasAvailableChapters)
	assert.Contains(t, comic.AltTitles, "Soro Hantaa")
	assert.Contains(t, comic.AltTitles, "ソロハンター")
	require.Len(t, comic.AllTitlesRaw, 2)
}

func TestMapComicFallbacks(t *testing.T) {
	comic := mapComic(mangaData{ID: "x"})
	assert.Equal(t, models.PlaceholderTitle, comic.Title)
	assert.Equal(t, models.PlaceholderAuthor, comic.Author)
	assert.Equal(t, models.PlaceholderSynopsis, comic.Synopsis)
	assert.Equal(t, models.PlaceholderCoverURL, comic.CoverURL)
	assert.Equal(t, "ja", comic.Origin)
	assert.False(t, comic.HasAvailableChapters)
}

func TestMapComicNonEnglishTitle(t *testing.T) {
	comic := mapComic(mangaData{
		ID: "x",
		Attributes: mangaAttrs{
			Title: map[string]string{"ja": "タイトル"},
		},
	})
	assert.Equal(t, "タイトル", comic.Title)
}

func newFeedChapter(id, number, lang, title string) chapterData {
	return chapterData{
		ID: id,
		Attributes: chapterAttrs{
			Chapter:            number,
			Title:              title,
			TranslatedLanguage: lang,
		},
	}
}

func TestMapChapterFeedLanguageFilter(t *testing.T) {
	feed := []chapterData{
		newFeedChapter("a", "1", "es", ""),
		newFeedChapter("b", "2", "es-la", ""),
		newFeedChapter("c", "3", "en", ""),
		newFeedChapter("d", "4", "ES", ""),
		newFeedChapter("e", "5", "", ""),
	}

	tests := []struct {
		name     string
		language string
		wantIDs  []string
	}{
		{"prefix match is case-insensitive", "es", []string{"d", "b", "a"}},
		{"all passes everything", "all", []string{"e", "d", "c", "b", "a"}},
		{"english only", "en", []string{"c"}},
		{"no language never matches a filter", "fr", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chapters := mapChapterFeed(feed, tt.language)
			ids := make([]string, 0, len(chapters))
			for _, ch := range chapters {
				ids = append(ids, ch.ID)
			}
			if tt.wantIDs == nil {
				assert.Empty(t, ids)
			} else {
				assert.Equal(t, tt.wantIDs, ids)
			}
		})
	}
}

func TestMapChapterFeedDefaultsAndSort(t *testing.T) {
	feed := []chapterData{
		newFeedChapter("a", "10.5", "es", ""),
		newFeedChapter("b", "2", "es", "El regreso"),
		newFeedChapter("c", "100", "es", ""),
	}

	chapters := mapChapterFeed(feed, "es")
	require.Len(t, chapters, 3)

	// Strictly descending by number.
	assert.Equal(t, []string{"c", "a", "b"}, []string{chapters[0].ID, chapters[1].ID, chapters[2].ID})

	// Missing titles fall back to the raw chapter string.
	assert.Equal(t, "Capítulo 100", chapters[0].Title)
	assert.Equal(t, "Capítulo 10.5", chapters[1].Title)
	assert.Equal(t, "El regreso", chapters[2].Title)

	for _, ch := range chapters {
		assert.Equal(t, models.SourceMangaDex, ch.Source)
	}
}
