// Package reader is the Bubble Tea chapter reading session. The session is
// rebuilt wholesale whenever the (comic, chapter) pair changes; display mode,
// fullscreen and the chapter panel are orthogonal UI state on top of it.
package reader

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wepcomic/wepcomic-term/internal/database"
	"github.com/wepcomic/wepcomic-term/internal/logger"
	"github.com/wepcomic/wepcomic-term/internal/models"
	"github.com/wepcomic/wepcomic-term/internal/source"
)

// loadErrorMessage is the fixed message shown when a chapter cannot be
// loaded, matching the web client's wording.
const loadErrorMessage = "No se pudo cargar este capítulo."

// scrollFraction of the viewport height moved by one scroll key press.
const scrollFraction = 0.85

// loadTimeout bounds one chapter load, including the cross-provider
// fallbacks behind it.
const loadTimeout = 60 * time.Second

// DisplayMode controls how page blocks are sized in the viewport.
type DisplayMode string

const (
	// FitWidth sizes pages from the viewport width and the page aspect
	// ratio; pages are usually taller than the screen.
	FitWidth DisplayMode = "fitWidth"
	// FitHeight sizes every page to exactly one viewport height.
	FitHeight DisplayMode = "fitHeight"
)

// ParseDisplayMode returns the mode for a stored preference value,
// defaulting to FitWidth.
func ParseDisplayMode(value string) DisplayMode {
	if value == string(FitHeight) {
		return FitHeight
	}
	return FitWidth
}

type sessionState int

const (
	stateLoading sessionState = iota
	stateReady
)

type chapterLoadedMsg struct {
	comic   *models.Comic
	chapter models.Chapter
	pages   []string
}

type loadFailedMsg struct {
	err error
}

// Model is the reading session.
type Model struct {
	sources *source.Aggregator
	db      *database.Database
	logger  *logger.Logger

	comicID  string
	language string
	showNSFW bool

	// Session identity; changing it rebuilds everything below.
	chapterID     string
	chapterSource models.ChapterSource

	state   sessionState
	failed  bool
	comic   *models.Comic
	chapter models.Chapter
	pages   []string

	displayMode DisplayMode
	fullscreen  bool
	panelOpen   bool

	viewport    viewport.Model
	sized       bool
	pageStarts  []int
	pageHeights []int
	currentPage int

	width  int
	height int
}

// New creates a reading session for one chapter. chapterSource carries the
// source recorded on the chapter the user navigated from; empty means the
// metadata API.
func New(sources *source.Aggregator, db *database.Database, log *logger.Logger, comicID, chapterID string, chapterSource models.ChapterSource, language string, showNSFW bool) Model {
	zl := log.Logger.With().Str("component", "reader").Logger()

	displayMode := FitWidth
	if db != nil {
		displayMode = ParseDisplayMode(db.GetPreference(database.PrefDisplayMode, string(FitWidth)))
	}

	return Model{
		sources:       sources,
		db:            db,
		logger:        &logger.Logger{Logger: zl},
		comicID:       comicID,
		chapterID:     chapterID,
		chapterSource: chapterSource,
		language:      language,
		showNSFW:      showNSFW,
		state:         stateLoading,
		displayMode:   displayMode,
		currentPage:   1,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.loadChapter()
}

// loadChapter fetches the comic detail and the chapter's pages for the
// current session identity.
func (m Model) loadChapter() tea.Cmd {
	comicID := m.comicID
	chapterID := m.chapterID
	chapterSource := m.chapterSource
	language := m.language
	showNSFW := m.showNSFW
	sources := m.sources

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		comic, err := sources.ResolveComic(ctx, comicID, language, showNSFW)
		if err != nil {
			return loadFailedMsg{err: err}
		}

		chapter := models.Chapter{ID: chapterID, Source: chapterSource}
		for _, ch := range comic.Chapters {
			if ch.ID == chapterID {
				chapter = ch
				if chapterSource != "" {
					chapter.Source = chapterSource
				}
				break
			}
		}

		pages, err := sources.ResolvePages(ctx, comicID, chapter)
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return chapterLoadedMsg{comic: comic, chapter: chapter, pages: pages}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.sized {
			m.viewport = viewport.New(msg.Width-m.panelWidth(), msg.Height-m.headerHeight())
			m.sized = true
		} else {
			m.viewport.Width = msg.Width - m.panelWidth()
			m.viewport.Height = msg.Height - m.headerHeight()
		}
		m.rebuildContent()
		m.recomputeCurrentPage()
		return m, nil

	case chapterLoadedMsg:
		m.state = stateReady
		m.failed = false
		m.comic = msg.comic
		m.chapter = msg.chapter
		m.pages = msg.pages
		m.currentPage = 1
		if m.sized {
			m.rebuildContent()
			m.viewport.SetYOffset(0)
			m.recomputeCurrentPage()
		}
		return m, nil

	case loadFailedMsg:
		m.logger.Error("Chapter load failed", map[string]interface{}{
			"comic_id":   m.comicID,
			"chapter_id": m.chapterID,
			"error":      msg.err.Error(),
		})
		m.state = stateReady
		m.failed = true
		m.pages = nil
		if m.sized {
			m.rebuildContent()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.sized {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.recomputeCurrentPage()
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// An open chapter panel captures the keyboard: Esc closes it, every
	// other key is suppressed.
	if m.panelOpen {
		if msg.String() == "esc" {
			m.panelOpen = false
			m.resize()
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		if m.fullscreen {
			m.fullscreen = false
			m.resize()
			return m, tea.ExitAltScreen
		}
		return m, tea.Quit

	case "ctrl+left":
		return m.switchChapter(-1)

	case "ctrl+right":
		return m.switchChapter(+1)

	case "down", " ":
		m.viewport.SetYOffset(m.viewport.YOffset + m.scrollStep())
		m.recomputeCurrentPage()
		return m, nil

	case "up":
		m.viewport.SetYOffset(m.viewport.YOffset - m.scrollStep())
		m.recomputeCurrentPage()
		return m, nil

	case "d":
		if m.displayMode == FitWidth {
			m.displayMode = FitHeight
		} else {
			m.displayMode = FitWidth
		}
		if m.db != nil {
			if err := m.db.SetPreference(database.PrefDisplayMode, string(m.displayMode)); err != nil {
				m.logger.Warn("Failed to persist display mode", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
		if m.sized {
			m.rebuildContent()
			m.recomputeCurrentPage()
		}
		return m, nil

	case "f":
		m.fullscreen = !m.fullscreen
		m.resize()
		if m.fullscreen {
			return m, tea.EnterAltScreen
		}
		return m, tea.ExitAltScreen

	case "l":
		m.panelOpen = true
		m.resize()
		return m, nil

	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// switchChapter moves to the neighbor at index+delta in the comic's chapter
// array. The array is sorted newest first, so -1 is the previous entry in
// reading order as the web client defines it. Out-of-range moves are no-ops.
func (m Model) switchChapter(delta int) (tea.Model, tea.Cmd) {
	if m.comic == nil {
		return m, nil
	}
	idx := -1
	for i, ch := range m.comic.Chapters {
		if ch.ID == m.chapterID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return m, nil
	}
	target := idx + delta
	if target < 0 || target >= len(m.comic.Chapters) {
		return m, nil
	}

	next := m.comic.Chapters[target]
	m.chapterID = next.ID
	m.chapterSource = next.SourceOrDefault()
	m.state = stateLoading
	m.failed = false
	m.pages = nil
	m.currentPage = 1
	return m, m.loadChapter()
}

func (m Model) scrollStep() int {
	step := int(float64(m.viewport.Height) * scrollFraction)
	if step < 1 {
		step = 1
	}
	return step
}

// headerHeight is the number of lines reserved above the viewport. The
// header collapses in fullscreen.
func (m Model) headerHeight() int {
	if m.fullscreen {
		return 0
	}
	return 2
}

// panelWidth is the number of columns taken by the chapter panel when open.
func (m Model) panelWidth() int {
	if !m.panelOpen {
		return 0
	}
	w := 34
	if max := m.width / 3; max > 0 && w > max {
		w = max
	}
	return w
}

// resize recomputes the viewport dimensions after a chrome change.
func (m *Model) resize() {
	if !m.sized {
		return
	}
	m.viewport.Width = m.width - m.panelWidth()
	m.viewport.Height = m.height - m.headerHeight()
	m.rebuildContent()
	m.recomputeCurrentPage()
}
