package mangadex

import (
	"sort"
	"strconv"
	"strings"

	"github.com/wepcomic/wepcomic-term/internal/models"
)

const coverBaseURL = "https://uploads.mangadex.org/covers"

// preferredValue returns the "en" entry of a localized-string map, falling
// back to the lexically first entry so the choice is deterministic.
func preferredValue(m map[string]string) string {
	if v, ok := m["en"]; ok && v != "" {
		return v
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if m[k] != "" {
			return m[k]
		}
	}
	return ""
}

// mapComic normalizes one metadata record into the internal read model.
func mapComic(data mangaData) models.Comic {
	coverURL := models.PlaceholderCoverURL
	author := models.PlaceholderAuthor
	for _, rel := range data.Relationships {
		switch rel.Type {
		case "cover_art":
			if rel.Attributes.FileName != "" {
				coverURL = coverBaseURL + "/" + data.ID + "/" + rel.Attributes.FileName
			}
		case "author":
			if rel.Attributes.Name != "" {
				author = rel.Attributes.Name
			}
		}
	}

	title := preferredValue(data.Attributes.Title)
	if title == "" {
		title = models.PlaceholderTitle
	}
	synopsis := preferredValue(data.Attributes.Description)
	if synopsis == "" {
		synopsis = models.PlaceholderSynopsis
	}

	origin := data.Attributes.OriginalLanguage
	if origin == "" {
		origin = "ja"
	}

	// Flatten every title variant into a de-duplicated list, keeping the raw
	// localized maps around for cross-provider title search.
	seen := make(map[string]struct{})
	var altTitles []string
	addVariant := func(v string) {
		if v == "" {
			return
		}
		if _, dup := seen[v]; dup {
			return
		}
		seen[v] = struct{}{}
		altTitles = append(altTitles, v)
	}
	for _, k := range sortedKeys(data.Attributes.Title) {
		addVariant(data.Attributes.Title[k])
	}
	for _, alt := range data.Attributes.AltTitles {
		for _, k := range sortedKeys(alt) {
			addVariant(alt[k])
		}
	}

	allTitlesRaw := make([]map[string]string, 0, len(data.Attributes.AltTitles)+1)
	allTitlesRaw = append(allTitlesRaw, data.Attributes.Title)
	allTitlesRaw = append(allTitlesRaw, data.Attributes.AltTitles...)

	return models.Comic{
		ID:                   data.ID,
		Title:                title,
		Author:               author,
		Synopsis:             synopsis,
		CoverURL:             coverURL,
		HasAvailableChapters: data.Attributes.LastChapter != "",
		Origin:               origin,
		AltTitles:            altTitles,
		AllTitlesRaw:         allTitlesRaw,
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func mapComics(data []mangaData) []models.Comic {
	comics := make([]models.Comic, 0, len(data))
	for _, d := range data {
		comics = append(comics, mapComic(d))
	}
	return comics
}

// mapChapterFeed filters a chapter feed by content language and normalizes it
// into chapters sorted newest first. "all" admits every language; otherwise a
// chapter passes when its translated language starts with the requested one,
// case-insensitively ("es" matches "es" and "es-la").
func mapChapterFeed(feed []chapterData, language string) []models.Chapter {
	chapters := make([]models.Chapter, 0, len(feed))
	want := strings.ToLower(language)
	for _, ch := range feed {
		if want != "all" {
			translated := strings.ToLower(ch.Attributes.TranslatedLanguage)
			if translated == "" || !strings.HasPrefix(translated, want) {
				continue
			}
		}
		number, _ := strconv.ParseFloat(ch.Attributes.Chapter, 64)
		title := ch.Attributes.Title
		if title == "" {
			title = "Capítulo " + ch.Attributes.Chapter
		}
		chapters = append(chapters, models.Chapter{
			ID:       ch.ID,
			Number:   number,
			Title:    title,
			Source:   models.SourceMangaDex,
			Language: ch.Attributes.TranslatedLanguage,
		})
	}
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].Number > chapters[j].Number
	})
	return chapters
}
