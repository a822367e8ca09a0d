// Package models holds the internal representations shared by every data
// source: community uploads, the metadata API and the scraping providers all
// normalize into Comic and Chapter.
package models

import (
	"regexp"
	"strings"
)

// Placeholder values used when an upstream payload is missing display fields.
const (
	PlaceholderTitle    = "Untitled"
	PlaceholderAuthor   = "Unknown Author"
	PlaceholderSynopsis = "No synopsis available."
	PlaceholderCoverURL = "https://via.placeholder.com/400x600.png?text=No+Cover"
)

// ChapterSource identifies which provider a chapter's pages come from.
type ChapterSource string

const (
	// SourceLocal marks chapters hosted by the first-party backend.
	SourceLocal ChapterSource = "local"
	// SourceMangaDex marks chapters served by the metadata API.
	SourceMangaDex ChapterSource = "mangadex"
)

// localIDPattern matches identifiers minted by the first-party backend:
// short alphanumeric starting with 'c', never hyphenated. External metadata
// records use UUIDs and always contain hyphens.
var localIDPattern = regexp.MustCompile(`^c[a-z0-9]+$`)

// IsLocalID reports whether id denotes a first-party record.
func IsLocalID(id string) bool {
	return !strings.Contains(id, "-") && localIDPattern.MatchString(id)
}

// Comic is the aggregate read model for a work, regardless of origin.
// It is immutable for the duration of a view; Chapters may be replaced
// wholesale when an alternate provider's chapter set is swapped in.
type Comic struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Synopsis string `json:"synopsis"`
	CoverURL string `json:"coverUrl"`

	// Chapters is populated only when the caller asked for chapter data.
	Chapters []Chapter `json:"chapters,omitempty"`

	// HasAvailableChapters is a hint from the metadata API's lastChapter field.
	HasAvailableChapters bool `json:"hasAvailableChapters"`

	// External-only fields, used to drive cross-provider chapter search.
	Origin       string              `json:"origin,omitempty"`
	AltTitles    []string            `json:"altTitles,omitempty"`
	AllTitlesRaw []map[string]string `json:"allTitlesRaw,omitempty"`
}

// IsLocal reports whether the comic is a first-party upload.
func (c *Comic) IsLocal() bool {
	return IsLocalID(c.ID)
}

// Chapter is one readable unit of a comic. Number is a float because
// fractional chapters ("10.5") exist in the wild.
type Chapter struct {
	ID       string        `json:"id"`
	Number   float64       `json:"number"`
	Title    string        `json:"title,omitempty"`
	Source   ChapterSource `json:"source,omitempty"`
	Language string        `json:"language,omitempty"`
}

// SourceOrDefault returns the chapter's recorded source, defaulting to the
// metadata API when none was recorded.
func (ch *Chapter) SourceOrDefault() ChapterSource {
	if ch.Source == "" {
		return SourceMangaDex
	}
	return ch.Source
}

// Statistics are the community metrics attached to an external comic.
type Statistics struct {
	Rating  float64 `json:"rating"`
	Follows int     `json:"follows"`
}

// Tag is a genre tag from the metadata API.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Page is one page image of a community-uploaded chapter.
type Page struct {
	ID         string `json:"id"`
	PageNumber int    `json:"pageNumber"`
	ImageURL   string `json:"imageUrl"`
}
