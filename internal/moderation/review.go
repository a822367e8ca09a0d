// Package moderation implements the reviewer workflow: queue browsing and a
// per-work review session guarded by the backend's advisory lock.
package moderation

import (
	"context"
	"errors"
	"fmt"

	"github.com/wepcomic/wepcomic-term/internal/api/backend"
	"github.com/wepcomic/wepcomic-term/internal/logger"
	"github.com/wepcomic/wepcomic-term/internal/models"
)

// ErrActionsBlocked is returned when a mutation is attempted while another
// moderator holds the review lock.
var ErrActionsBlocked = errors.New("review actions are blocked while another moderator holds the lock")

// ConflictKey identifies a group of pending chapters competing for the same
// slot: same chapter number, same language.
type ConflictKey struct {
	Number   float64
	Language string
}

// ReviewSession is one moderator's pass over a single work. Entering the
// session acquires the advisory lock when the work still needs a decision;
// losing the lock race blocks every action but keeps the session readable.
type ReviewSession struct {
	client  *backend.Client
	logger  *logger.Logger
	mangaID string

	manga        *models.MangaForReview
	lockHeld     bool
	blocked      bool
	blockMessage string
}

// NewReviewSession creates a session for the given work. Call Start before
// using it and Close when leaving.
func NewReviewSession(client *backend.Client, mangaID string, log *logger.Logger) *ReviewSession {
	zl := log.Logger.With().Str("component", "review_session").Str("manga_id", mangaID).Logger()
	return &ReviewSession{
		client:  client,
		logger:  &logger.Logger{Logger: zl},
		mangaID: mangaID,
	}
}

// Start fetches the review payload and acquires the advisory lock when the
// work still needs a decision and is not archived. A lock conflict does not
// fail the session: it flips it into blocked read-only mode instead.
func (s *ReviewSession) Start(ctx context.Context) error {
	manga, err := s.client.GetMangaForReview(ctx, s.mangaID)
	if err != nil {
		return fmt.Errorf("failed to open review session: %w", err)
	}
	s.manga = manga

	if manga.Status == models.StatusArchived || !manga.NeedsReview() {
		return nil
	}

	if err := s.client.LockManga(ctx, s.mangaID); err != nil {
		var conflict *backend.LockConflictError
		if errors.As(err, &conflict) {
			s.blocked = true
			s.blockMessage = conflict.Message
			s.logger.Info("Review lock held by another moderator", map[string]interface{}{
				"message": conflict.Message,
			})
			return nil
		}
		return fmt.Errorf("failed to acquire review lock: %w", err)
	}
	s.lockHeld = true
	return nil
}

// Close releases the advisory lock when this session holds it. A session that
// was blocked by a conflict never unlocks: the lock belongs to someone else.
func (s *ReviewSession) Close(ctx context.Context) {
	if !s.lockHeld {
		return
	}
	if err := s.client.UnlockManga(ctx, s.mangaID); err != nil {
		s.logger.Warn("Failed to release review lock", map[string]interface{}{
			"error": err.Error(),
		})
	}
	s.lockHeld = false
}

// Manga returns the current review payload.
func (s *ReviewSession) Manga() *models.MangaForReview {
	return s.manga
}

// Blocked reports whether another moderator holds the lock, and the server's
// message when so.
func (s *ReviewSession) Blocked() (bool, string) {
	return s.blocked, s.blockMessage
}

// Conflicts groups the pending chapters by (number, language) and returns the
// groups with more than one member. Any conflict disables bulk actions.
func (s *ReviewSession) Conflicts() map[ConflictKey][]string {
	if s.manga == nil {
		return nil
	}
	groups := make(map[ConflictKey][]string)
	for _, ch := range s.manga.Chapters {
		if ch.Status != models.StatusPending {
			continue
		}
		key := ConflictKey{Number: ch.ChapterNumber, Language: ch.Language}
		groups[key] = append(groups[key], ch.ID)
	}
	conflicts := make(map[ConflictKey][]string)
	for key, ids := range groups {
		if len(ids) > 1 {
			conflicts[key] = ids
		}
	}
	return conflicts
}

// HasConflicts reports whether any pending chapters compete for a slot.
func (s *ReviewSession) HasConflicts() bool {
	return len(s.Conflicts()) > 0
}

// refresh re-fetches the review payload after a mutation; there is no
// optimistic state in the review flow.
func (s *ReviewSession) refresh(ctx context.Context) error {
	manga, err := s.client.GetMangaForReview(ctx, s.mangaID)
	if err != nil {
		return fmt.Errorf("failed to refresh review state: %w", err)
	}
	s.manga = manga
	return nil
}

func (s *ReviewSession) act(ctx context.Context, action func(context.Context) error) error {
	if s.blocked {
		return ErrActionsBlocked
	}
	if err := action(ctx); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// ApproveManga approves the work and its pending chapters. Disabled while a
// conflict exists.
func (s *ReviewSession) ApproveManga(ctx context.Context) error {
	if s.HasConflicts() {
		return fmt.Errorf("cannot bulk-approve while chapter conflicts exist")
	}
	return s.act(ctx, func(ctx context.Context) error {
		return s.client.ApproveManga(ctx, s.mangaID)
	})
}

// RejectManga rejects the work with a justification. Disabled while a
// conflict exists.
func (s *ReviewSession) RejectManga(ctx context.Context, reason string) error {
	if s.HasConflicts() {
		return fmt.Errorf("cannot bulk-reject while chapter conflicts exist")
	}
	return s.act(ctx, func(ctx context.Context) error {
		return s.client.RejectManga(ctx, s.mangaID, reason)
	})
}

// ApproveChapter approves one pending chapter.
func (s *ReviewSession) ApproveChapter(ctx context.Context, chapterID string) error {
	return s.act(ctx, func(ctx context.Context) error {
		return s.client.ApproveChapter(ctx, chapterID)
	})
}

// RejectChapter rejects one pending chapter with a justification.
func (s *ReviewSession) RejectChapter(ctx context.Context, chapterID, reason string) error {
	return s.act(ctx, func(ctx context.Context) error {
		return s.client.RejectChapter(ctx, chapterID, reason)
	})
}

// DeleteManga permanently removes the work. The caller gates this on the
// ADMIN role before offering it.
func (s *ReviewSession) DeleteManga(ctx context.Context) error {
	if s.blocked {
		return ErrActionsBlocked
	}
	return s.client.DeleteManga(ctx, s.mangaID)
}

// DeleteChapter permanently removes one chapter. The caller gates this on the
// ADMIN role before offering it.
func (s *ReviewSession) DeleteChapter(ctx context.Context, chapterID string) error {
	return s.act(ctx, func(ctx context.Context) error {
		return s.client.DeleteChapter(ctx, chapterID)
	})
}

// ArchiveManga soft-deletes the work. Archived works stay reachable through
// the archived queue and can be restored later.
func (s *ReviewSession) ArchiveManga(ctx context.Context) error {
	return s.act(ctx, func(ctx context.Context) error {
		return s.client.ArchiveManga(ctx, s.mangaID)
	})
}

// RestoreManga brings an archived work back to the catalog.
func (s *ReviewSession) RestoreManga(ctx context.Context) error {
	return s.act(ctx, func(ctx context.Context) error {
		return s.client.RestoreManga(ctx, s.mangaID)
	})
}
