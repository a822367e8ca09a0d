package reader

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/wepcomic/wepcomic-term/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	headerMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	currentChapterStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212"))
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.sized {
		return "Cargando..."
	}

	body := m.viewport.View()
	if m.panelOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.panelView())
	}

	if m.fullscreen {
		return body
	}
	return m.headerView() + "\n" + body
}

func (m Model) headerView() string {
	title := ""
	if m.comic != nil {
		title = m.comic.Title
	}

	chapterTitle := "Visor de Capítulos"
	if m.chapter.Title != "" {
		chapterTitle = m.chapter.Title
	} else if m.chapter.Number != 0 {
		chapterTitle = fmt.Sprintf("Capítulo %g", m.chapter.Number)
	}

	pageIndicator := ""
	if len(m.pages) > 0 {
		pageIndicator = fmt.Sprintf("Página %d / %d", m.currentPage, len(m.pages))
	}

	mode := "ancho"
	if m.displayMode == FitHeight {
		mode = "alto"
	}

	left := headerStyle.Render(title)
	center := headerMetaStyle.Render(chapterTitle)
	right := headerMetaStyle.Render(strings.TrimSpace(pageIndicator + "  [" + mode + "]"))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(center) - lipgloss.Width(right) - 2
	if gap < 2 {
		return left + " " + center + " " + right
	}
	half := gap / 2
	return left + strings.Repeat(" ", half) + center + strings.Repeat(" ", gap-half) + right
}

// panelView renders the chapter list with the current chapter highlighted.
// The panel is read-only; Esc closes it.
func (m Model) panelView() string {
	width := m.panelWidth() - 3
	if width < 10 {
		width = 10
	}

	var lines []string
	lines = append(lines, panelTitleStyle.Render("Capítulos"))
	if m.comic == nil || len(m.comic.Chapters) == 0 {
		lines = append(lines, headerMetaStyle.Render("Sin capítulos."))
	} else {
		height := m.viewport.Height - 2
		lines = append(lines, m.chapterLines(width, height)...)
	}

	return panelStyle.
		Width(m.panelWidth() - 1).
		Height(m.viewport.Height).
		Render(strings.Join(lines, "\n"))
}

// chapterLines renders a window of the chapter list centered on the current
// chapter so it stays visible in long lists.
func (m Model) chapterLines(width, height int) []string {
	chapters := m.comic.Chapters
	current := 0
	for i, ch := range chapters {
		if ch.ID == m.chapterID {
			current = i
			break
		}
	}

	start := 0
	if len(chapters) > height {
		start = current - height/2
		if start < 0 {
			start = 0
		}
		if start+height > len(chapters) {
			start = len(chapters) - height
		}
	}
	end := start + height
	if end > len(chapters) {
		end = len(chapters)
	}

	lines := make([]string, 0, end-start)
	for _, ch := range chapters[start:end] {
		label := truncateLabel(chapterLabel(ch), width)
		if ch.ID == m.chapterID {
			lines = append(lines, currentChapterStyle.Render("> "+label))
		} else {
			lines = append(lines, "  "+label)
		}
	}
	return lines
}

func chapterLabel(ch models.Chapter) string {
	if ch.Title != "" {
		return ch.Title
	}
	return fmt.Sprintf("Capítulo %g", ch.Number)
}

func truncateLabel(label string, max int) string {
	runes := []rune(label)
	if len(runes) <= max {
		return label
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
