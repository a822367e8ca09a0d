package moderation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wepcomic/wepcomic-term/internal/api/backend"
	"github.com/wepcomic/wepcomic-term/internal/logger"
	"github.com/wepcomic/wepcomic-term/internal/models"
)

// reviewServer serves the review payload and records every lock-related call.
type reviewServer struct {
	mu           sync.Mutex
	manga        models.MangaForReview
	lockConflict bool
	calls        []string
}

func (s *reviewServer) record(call string) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
}

func (s *reviewServer) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *reviewServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/admin/review/manga/c1" && r.Method == http.MethodGet:
			s.record("fetch")
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(s.manga)
		case r.URL.Path == "/admin/review/manga/c1/lock":
			s.record("lock")
			if s.lockConflict {
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte(`{"message":"Lo tiene mod2"}`))
			}
		case r.URL.Path == "/admin/review/manga/c1/unlock":
			s.record("unlock")
		case r.URL.Path == "/admin/manga/c1/approve":
			s.record("approve")
		case r.URL.Path == "/admin/manga/c1/reject":
			s.record("reject")
		case r.URL.Path == "/admin/chapter/ch-1/approve":
			s.record("approve-chapter")
		case r.URL.Path == "/admin/chapter/ch-1" && r.Method == http.MethodDelete:
			s.record("delete-chapter")
		case r.URL.Path == "/community/mangas/c1" && r.Method == http.MethodDelete:
			s.record("archive")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newTestSession(t *testing.T, srv *reviewServer) *ReviewSession {
	t.Helper()
	server := httptest.NewServer(srv.handler())
	t.Cleanup(server.Close)
	client := backend.NewClient(server.URL, backend.StaticToken("tok"), logger.Get())
	return NewReviewSession(client, "c1", logger.Get())
}

func pendingManga() models.MangaForReview {
	return models.MangaForReview{
		ID:     "c1",
		Title:  "Obra",
		Status: models.StatusPending,
		Chapters: []models.ChapterForReview{
			{ID: "ch-1", ChapterNumber: 1, Language: "es", Status: models.StatusPending},
		},
	}
}

func TestStartAcquiresAndCloseReleasesLock(t *testing.T) {
	srv := &reviewServer{manga: pendingManga()}
	session := newTestSession(t, srv)
	ctx := context.Background()

	require.NoError(t, session.Start(ctx))
	blocked, _ := session.Blocked()
	assert.False(t, blocked)

	session.Close(ctx)
	assert.Equal(t, []string{"fetch", "lock", "unlock"}, srv.recorded())

	// A second Close is a no-op.
	session.Close(ctx)
	assert.Equal(t, []string{"fetch", "lock", "unlock"}, srv.recorded())
}

func TestStartSkipsLockWhenNothingPending(t *testing.T) {
	manga := pendingManga()
	manga.Status = models.StatusApproved
	manga.Chapters[0].Status = models.StatusApproved
	srv := &reviewServer{manga: manga}
	session := newTestSession(t, srv)
	ctx := context.Background()

	require.NoError(t, session.Start(ctx))
	session.Close(ctx)
	assert.Equal(t, []string{"fetch"}, srv.recorded())
}

func TestStartSkipsLockWhenArchived(t *testing.T) {
	manga := pendingManga()
	manga.Status = models.StatusArchived
	srv := &reviewServer{manga: manga}
	session := newTestSession(t, srv)

	require.NoError(t, session.Start(context.Background()))
	assert.Equal(t, []string{"fetch"}, srv.recorded())
}

func TestLockConflictBlocksWithoutUnlocking(t *testing.T) {
	srv := &reviewServer{manga: pendingManga(), lockConflict: true}
	session := newTestSession(t, srv)
	ctx := context.Background()

	require.NoError(t, session.Start(ctx))
	blocked, message := session.Blocked()
	assert.True(t, blocked)
	assert.Equal(t, "Lo tiene mod2", message)

	// Every action refuses while blocked.
	assert.ErrorIs(t, session.RejectManga(ctx, "motivo"), ErrActionsBlocked)
	assert.ErrorIs(t, session.ApproveChapter(ctx, "ch-1"), ErrActionsBlocked)
	assert.ErrorIs(t, session.DeleteManga(ctx), ErrActionsBlocked)

	// The lock belongs to someone else, so closing never unlocks.
	session.Close(ctx)
	assert.Equal(t, []string{"fetch", "lock"}, srv.recorded())
}

func TestConflictsGroupByNumberAndLanguage(t *testing.T) {
	manga := pendingManga()
	manga.Chapters = []models.ChapterForReview{
		{ID: "ch-1", ChapterNumber: 1, Language: "es", Status: models.StatusPending},
		{ID: "ch-2", ChapterNumber: 1, Language: "es", Status: models.StatusPending},
		{ID: "ch-3", ChapterNumber: 1, Language: "en", Status: models.StatusPending},
		{ID: "ch-4", ChapterNumber: 2, Language: "es", Status: models.StatusPending},
		// Already decided chapters never conflict.
		{ID: "ch-5", ChapterNumber: 1, Language: "es", Status: models.StatusApproved},
	}
	srv := &reviewServer{manga: manga}
	session := newTestSession(t, srv)
	require.NoError(t, session.Start(context.Background()))

	conflicts := session.Conflicts()
	require.Len(t, conflicts, 1)
	assert.ElementsMatch(t, []string{"ch-1", "ch-2"}, conflicts[ConflictKey{Number: 1, Language: "es"}])
	assert.True(t, session.HasConflicts())
}

func TestApproveMangaBlockedByConflicts(t *testing.T) {
	manga := pendingManga()
	manga.Chapters = []models.ChapterForReview{
		{ID: "ch-1", ChapterNumber: 1, Language: "es", Status: models.StatusPending},
		{ID: "ch-2", ChapterNumber: 1, Language: "es", Status: models.StatusPending},
	}
	srv := &reviewServer{manga: manga}
	session := newTestSession(t, srv)
	ctx := context.Background()
	require.NoError(t, session.Start(ctx))

	err := session.ApproveManga(ctx)
	require.Error(t, err)
	assert.NotContains(t, srv.recorded(), "approve")
}

func TestRejectMangaBlockedByConflicts(t *testing.T) {
	manga := pendingManga()
	manga.Chapters = []models.ChapterForReview{
		{ID: "ch-1", ChapterNumber: 1, Language: "es", Status: models.StatusPending},
		{ID: "ch-2", ChapterNumber: 1, Language: "es", Status: models.StatusPending},
	}
	srv := &reviewServer{manga: manga}
	session := newTestSession(t, srv)
	ctx := context.Background()
	require.NoError(t, session.Start(ctx))

	err := session.RejectManga(ctx, "motivo")
	require.Error(t, err)
	assert.NotContains(t, srv.recorded(), "reject")
}

func TestArchiveAndDeleteChapterRefetch(t *testing.T) {
	srv := &reviewServer{manga: pendingManga()}
	session := newTestSession(t, srv)
	ctx := context.Background()
	require.NoError(t, session.Start(ctx))

	require.NoError(t, session.DeleteChapter(ctx, "ch-1"))
	require.NoError(t, session.ArchiveManga(ctx))
	assert.Equal(t, []string{"fetch", "lock", "delete-chapter", "fetch", "archive", "fetch"}, srv.recorded())
}

func TestActionsRefetchAfterMutation(t *testing.T) {
	srv := &reviewServer{manga: pendingManga()}
	session := newTestSession(t, srv)
	ctx := context.Background()
	require.NoError(t, session.Start(ctx))

	require.NoError(t, session.ApproveChapter(ctx, "ch-1"))
	assert.Equal(t, []string{"fetch", "lock", "approve-chapter", "fetch"}, srv.recorded())
}
