package reader

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wepcomic/wepcomic-term/internal/database"
	"github.com/wepcomic/wepcomic-term/internal/logger"
	"github.com/wepcomic/wepcomic-term/internal/models"
	"github.com/wepcomic/wepcomic-term/internal/source"
)

// Run opens the reading session and blocks until the user leaves it.
func Run(sources *source.Aggregator, db *database.Database, log *logger.Logger, comicID, chapterID string, chapterSource models.ChapterSource, language string, showNSFW bool) error {
	model := New(sources, db, log, comicID, chapterID, chapterSource, language, showNSFW)
	program := tea.NewProgram(model, tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("reader session failed: %w", err)
	}
	return nil
}
