package reader

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wepcomic/wepcomic-term/internal/logger"
	"github.com/wepcomic/wepcomic-term/internal/models"
)

func sizedModel(t *testing.T, pages []string) Model {
	t.Helper()
	m := New(nil, nil, logger.Get(), "comic-1", "ch-2", "", "es", false)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	updated, _ = m.Update(chapterLoadedMsg{
		comic: &models.Comic{
			ID:    "comic-1",
			Title: "Obra",
			Chapters: []models.Chapter{
				{ID: "ch-3", Number: 3, Title: "Tercero"},
				{ID: "ch-2", Number: 2, Title: "Segundo"},
				{ID: "ch-1", Number: 1, Title: "Primero"},
			},
		},
		chapter: models.Chapter{ID: "ch-2", Number: 2, Title: "Segundo"},
		pages:   pages,
	})
	return updated.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+left":
		return tea.KeyMsg{Type: tea.KeyCtrlLeft}
	case "ctrl+right":
		return tea.KeyMsg{Type: tea.KeyCtrlRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestParseDisplayMode(t *testing.T) {
	assert.Equal(t, FitHeight, ParseDisplayMode("fitHeight"))
	assert.Equal(t, FitWidth, ParseDisplayMode("fitWidth"))
	assert.Equal(t, FitWidth, ParseDisplayMode(""))
	assert.Equal(t, FitWidth, ParseDisplayMode("garbage"))
}

func TestScrollStepIs85PercentOfViewport(t *testing.T) {
	m := sizedModel(t, []string{"https://cdn/p1.jpg"})
	// 24 rows minus the 2-line header leaves a 22-row viewport.
	assert.Equal(t, 22, m.viewport.Height)
	assert.Equal(t, 18, m.scrollStep())
}

func TestScrollMovesViewportAndTracksPage(t *testing.T) {
	pages := []string{"https://cdn/p1.jpg", "https://cdn/p2.jpg", "https://cdn/p3.jpg"}
	m := sizedModel(t, pages)
	assert.Equal(t, 1, m.currentPage)

	for i := 0; i < 6; i++ {
		updated, _ := m.Update(keyMsg("down"))
		m = updated.(Model)
	}
	assert.Greater(t, m.viewport.YOffset, 0)
	assert.Greater(t, m.currentPage, 1)

	for i := 0; i < 10; i++ {
		updated, _ := m.Update(keyMsg("up"))
		m = updated.(Model)
	}
	assert.Equal(t, 0, m.viewport.YOffset)
	assert.Equal(t, 1, m.currentPage)
}

func TestLoadFailureShowsFixedMessage(t *testing.T) {
	m := New(nil, nil, logger.Get(), "comic-1", "ch-1", "", "es", false)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	updated, _ = m.Update(loadFailedMsg{err: assert.AnError})
	m = updated.(Model)
	assert.True(t, m.failed)
	assert.Equal(t, stateReady, m.state)
	assert.Contains(t, m.viewport.View(), loadErrorMessage)
}

func TestEscQuitsUnlessFullscreen(t *testing.T) {
	m := sizedModel(t, []string{"https://cdn/p1.jpg"})

	_, cmd := m.Update(keyMsg("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	// In fullscreen, Esc only leaves fullscreen.
	updated, _ := m.Update(keyMsg("f"))
	m = updated.(Model)
	assert.True(t, m.fullscreen)
	assert.Equal(t, 24, m.viewport.Height)

	updated, cmd = m.Update(keyMsg("esc"))
	m = updated.(Model)
	assert.False(t, m.fullscreen)
	assert.Equal(t, 22, m.viewport.Height)
	require.NotNil(t, cmd)
	assert.NotEqual(t, tea.Quit(), cmd())
}

func TestOpenPanelCapturesKeyboard(t *testing.T) {
	m := sizedModel(t, []string{"https://cdn/p1.jpg"})

	updated, _ := m.Update(keyMsg("l"))
	m = updated.(Model)
	assert.True(t, m.panelOpen)
	assert.Less(t, m.viewport.Width, 80)

	// Every key except Esc is suppressed while the panel is open.
	before := m.viewport.YOffset
	updated, cmd := m.Update(keyMsg("down"))
	m = updated.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, before, m.viewport.YOffset)

	_, cmd = m.Update(keyMsg("q"))
	assert.Nil(t, cmd)

	updated, _ = m.Update(keyMsg("esc"))
	m = updated.(Model)
	assert.False(t, m.panelOpen)
	assert.Equal(t, 80, m.viewport.Width)
}

func TestDisplayModeToggle(t *testing.T) {
	m := sizedModel(t, []string{"https://cdn/p1.jpg"})
	assert.Equal(t, FitWidth, m.displayMode)

	updated, _ := m.Update(keyMsg("d"))
	m = updated.(Model)
	assert.Equal(t, FitHeight, m.displayMode)

	updated, _ = m.Update(keyMsg("d"))
	m = updated.(Model)
	assert.Equal(t, FitWidth, m.displayMode)
}

func TestSwitchChapterNeighbors(t *testing.T) {
	m := sizedModel(t, []string{"https://cdn/p1.jpg"})

	// ctrl+right moves down the newest-first list, toward older chapters.
	updated, cmd := m.Update(keyMsg("ctrl+right"))
	next := updated.(Model)
	assert.Equal(t, "ch-1", next.chapterID)
	assert.Equal(t, stateLoading, next.state)
	assert.NotNil(t, cmd)

	updated, cmd = m.Update(keyMsg("ctrl+left"))
	prev := updated.(Model)
	assert.Equal(t, "ch-3", prev.chapterID)
	assert.NotNil(t, cmd)
}

func TestSwitchChapterOutOfRangeIsNoOp(t *testing.T) {
	m := sizedModel(t, []string{"https://cdn/p1.jpg"})

	// Walk to the oldest chapter, then try to go past it.
	updated, _ := m.Update(keyMsg("ctrl+right"))
	m = updated.(Model)
	require.Equal(t, "ch-1", m.chapterID)
	m.state = stateReady

	updated, cmd := m.Update(keyMsg("ctrl+right"))
	m = updated.(Model)
	assert.Equal(t, "ch-1", m.chapterID)
	assert.Equal(t, stateReady, m.state)
	assert.Nil(t, cmd)
}
