package reader

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// pageAspect approximates a comic page's height from its width in terminal
// cells, where a cell is roughly twice as tall as it is wide.
const pageAspect = 0.7

var (
	pageStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Align(lipgloss.Center, lipgloss.Center)

	pageLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Align(lipgloss.Center)
)

// pageBlockHeight returns the inner height of one page block for the current
// display mode.
func (m *Model) pageBlockHeight() int {
	switch m.displayMode {
	case FitHeight:
		// One page fills the viewport exactly, borders included.
		h := m.viewport.Height - 2
		if h < 3 {
			h = 3
		}
		return h
	default:
		h := int(float64(m.viewport.Width) * pageAspect)
		if h < 3 {
			h = 3
		}
		return h
	}
}

// rebuildContent renders the page blocks into the viewport and records each
// block's start line and height for page tracking.
func (m *Model) rebuildContent() {
	if !m.sized {
		return
	}

	if m.failed {
		m.pageStarts = nil
		m.pageHeights = nil
		m.viewport.SetContent(m.centeredMessage(loadErrorMessage))
		return
	}
	if m.state == stateLoading {
		m.pageStarts = nil
		m.pageHeights = nil
		m.viewport.SetContent(m.centeredMessage("Cargando..."))
		return
	}
	if len(m.pages) == 0 {
		m.pageStarts = nil
		m.pageHeights = nil
		m.viewport.SetContent(m.centeredMessage("Este capítulo no tiene páginas."))
		return
	}

	innerHeight := m.pageBlockHeight()
	blockWidth := m.viewport.Width - 2
	if blockWidth < 10 {
		blockWidth = 10
	}

	var b strings.Builder
	m.pageStarts = make([]int, 0, len(m.pages))
	m.pageHeights = make([]int, 0, len(m.pages))
	line := 0
	for i, pageURL := range m.pages {
		label := pageLabelStyle.Render(fmt.Sprintf("Página %d", i+1))
		body := label + "\n" + truncateURL(pageURL, blockWidth-4)
		block := pageStyle.
			Width(blockWidth).
			Height(innerHeight).
			Render(body)

		blockLines := lipgloss.Height(block)
		m.pageStarts = append(m.pageStarts, line)
		m.pageHeights = append(m.pageHeights, blockLines)
		line += blockLines

		b.WriteString(block)
		if i < len(m.pages)-1 {
			b.WriteString("\n")
		}
	}
	m.viewport.SetContent(b.String())
}

func (m *Model) centeredMessage(message string) string {
	return lipgloss.Place(
		m.viewport.Width, m.viewport.Height,
		lipgloss.Center, lipgloss.Center,
		errorStyle.Render(message),
	)
}

func truncateURL(u string, max int) string {
	if max <= 3 {
		return ""
	}
	if len(u) <= max {
		return u
	}
	return u[:max-3] + "..."
}

// recomputeCurrentPage sets the page indicator to the page with the greatest
// visible height in the viewport, first in order winning ties.
func (m *Model) recomputeCurrentPage() {
	if len(m.pageStarts) == 0 {
		m.currentPage = 1
		return
	}

	top := m.viewport.YOffset
	bottom := top + m.viewport.Height

	best := 0
	bestVisible := 0
	for i := range m.pageStarts {
		start := m.pageStarts[i]
		end := start + m.pageHeights[i]

		visibleTop := start
		if top > visibleTop {
			visibleTop = top
		}
		visibleBottom := end
		if bottom < visibleBottom {
			visibleBottom = bottom
		}
		visible := visibleBottom - visibleTop
		if visible > bestVisible {
			bestVisible = visible
			best = i
		}
	}
	m.currentPage = best + 1
}
