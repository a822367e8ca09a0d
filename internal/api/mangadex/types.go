package mangadex

// Raw wire types for the metadata API. Payloads are decoded into these at the
// boundary and mapped to internal models immediately; nothing outside this
// package sees them.

type mangaListResponse struct {
	Data  []mangaData `json:"data"`
	Total int         `json:"total"`
}

type mangaResponse struct {
	Data mangaData `json:"data"`
}

type mangaData struct {
	ID            string         `json:"id"`
	Attributes    mangaAttrs     `json:"attributes"`
	Relationships []relationship `json:"relationships"`
}

type mangaAttrs struct {
	Title            map[string]string   `json:"title"`
	AltTitles        []map[string]string `json:"altTitles"`
	Description      map[string]string   `json:"description"`
	OriginalLanguage string              `json:"originalLanguage"`
	LastChapter      string              `json:"lastChapter"`
}

type relationship struct {
	ID         string        `json:"id"`
	Type       string        `json:"type"`
	Attributes relationAttrs `json:"attributes"`
}

type relationAttrs struct {
	// cover_art relationships carry FileName, author relationships Name.
	FileName string `json:"fileName"`
	Name     string `json:"name"`
}

type chapterFeedResponse struct {
	Data  []chapterData `json:"data"`
	Total int           `json:"total"`
}

type chapterData struct {
	ID            string         `json:"id"`
	Attributes    chapterAttrs   `json:"attributes"`
	Relationships []relationship `json:"relationships"`
}

type chapterAttrs struct {
	Chapter            string `json:"chapter"`
	Title              string `json:"title"`
	TranslatedLanguage string `json:"translatedLanguage"`
}

type atHomeResponse struct {
	BaseURL string `json:"baseUrl"`
	Chapter struct {
		Hash      string   `json:"hash"`
		Data      []string `json:"data"`
		DataSaver []string `json:"dataSaver"`
	} `json:"chapter"`
}

type statisticsResponse struct {
	Statistics map[string]struct {
		Rating struct {
			Average float64 `json:"average"`
		} `json:"rating"`
		Follows int `json:"follows"`
	} `json:"statistics"`
}

type tagListResponse struct {
	Data []tagData `json:"data"`
}

type tagData struct {
	ID         string `json:"id"`
	Attributes struct {
		Name  map[string]string `json:"name"`
		Group string            `json:"group"`
	} `json:"attributes"`
}
