// Package favorites is the dual-mode favorites store: server-backed for an
// authenticated session, sqlite-backed for an anonymous one. The active store
// is re-derived whenever the identity changes; the anonymous set is
// deliberately not merged into the account on login.
package favorites

import (
	"context"
	"fmt"
	"sync"

	"github.com/wepcomic/wepcomic-term/internal/api/backend"
	"github.com/wepcomic/wepcomic-term/internal/database"
	"github.com/wepcomic/wepcomic-term/internal/logger"
	"github.com/wepcomic/wepcomic-term/internal/models"
	"github.com/wepcomic/wepcomic-term/internal/session"
)

// Store persists the favorite set for one identity mode.
type Store interface {
	// FavoriteIDs returns the favorite comic IDs in insertion order.
	FavoriteIDs(ctx context.Context) ([]string, error)
	// Add marks a comic as favorite.
	Add(ctx context.Context, comicID string) error
	// Remove unmarks a favorite.
	Remove(ctx context.Context, comicID string) error
}

// serverStore keeps favorites on the backend account.
type serverStore struct {
	client *backend.Client
}

func (s *serverStore) FavoriteIDs(ctx context.Context) ([]string, error) {
	return s.client.FavoriteIDs(ctx)
}

func (s *serverStore) Add(ctx context.Context, comicID string) error {
	return s.client.AddFavorite(ctx, comicID)
}

func (s *serverStore) Remove(ctx context.Context, comicID string) error {
	return s.client.RemoveFavorite(ctx, comicID)
}

// localStore keeps favorites in the local database for anonymous sessions.
type localStore struct {
	db *database.Database
}

func (s *localStore) FavoriteIDs(ctx context.Context) ([]string, error) {
	return s.db.LocalFavoriteIDs()
}

func (s *localStore) Add(ctx context.Context, comicID string) error {
	return s.db.AddLocalFavorite(comicID)
}

func (s *localStore) Remove(ctx context.Context, comicID string) error {
	return s.db.RemoveLocalFavorite(comicID)
}

// StoreFor selects the store matching the session's identity.
func StoreFor(sess *session.Manager, client *backend.Client, db *database.Database) Store {
	if sess.IsAuthenticated() {
		return &serverStore{client: client}
	}
	return &localStore{db: db}
}

// Manager holds the loaded favorite set and applies mutations optimistically:
// the in-memory set changes first and is rolled back when the store rejects
// the mutation.
type Manager struct {
	store  Store
	logger *logger.Logger

	mu  sync.Mutex
	ids []string
}

// NewManager creates a favorites manager over the given store.
func NewManager(store Store, log *logger.Logger) *Manager {
	zl := log.Logger.With().Str("component", "favorites").Logger()
	return &Manager{
		store:  store,
		logger: &logger.Logger{Logger: zl},
	}
}

// Load fetches the favorite set from the store.
func (m *Manager) Load(ctx context.Context) error {
	ids, err := m.store.FavoriteIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}
	m.mu.Lock()
	m.ids = ids
	m.mu.Unlock()
	return nil
}

// IDs returns the favorite comic IDs in insertion order.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.ids))
	copy(out, m.ids)
	return out
}

// IsFavorite reports whether a comic is in the loaded set.
func (m *Manager) IsFavorite(comicID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.ids {
		if id == comicID {
			return true
		}
	}
	return false
}

// Add favorites a comic. The set is updated immediately and rolled back if
// the store rejects the mutation.
func (m *Manager) Add(ctx context.Context, comicID string) error {
	m.mu.Lock()
	for _, id := range m.ids {
		if id == comicID {
			m.mu.Unlock()
			return nil
		}
	}
	m.ids = append(m.ids, comicID)
	m.mu.Unlock()

	if err := m.store.Add(ctx, comicID); err != nil {
		m.rollbackRemove(comicID)
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// Remove unfavorites a comic, with the same optimistic semantics as Add.
func (m *Manager) Remove(ctx context.Context, comicID string) error {
	m.mu.Lock()
	idx := -1
	for i, id := range m.ids {
		if id == comicID {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.mu.Unlock()
		return nil
	}
	m.ids = append(m.ids[:idx], m.ids[idx+1:]...)
	m.mu.Unlock()

	if err := m.store.Remove(ctx, comicID); err != nil {
		m.rollbackInsert(comicID, idx)
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (m *Manager) rollbackRemove(comicID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, id := range m.ids {
		if id == comicID {
			m.ids = append(m.ids[:i], m.ids[i+1:]...)
			break
		}
	}
	m.logger.Warn("Favorite mutation rolled back", map[string]interface{}{
		"comic_id": comicID,
	})
}

func (m *Manager) rollbackInsert(comicID string, idx int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if idx > len(m.ids) {
		idx = len(m.ids)
	}
	m.ids = append(m.ids[:idx], append([]string{comicID}, m.ids[idx:]...)...)
	m.logger.Warn("Favorite mutation rolled back", map[string]interface{}{
		"comic_id": comicID,
	})
}

// ComicResolver resolves a set of comic IDs into comics, preserving order.
type ComicResolver interface {
	ComicsByIDs(ctx context.Context, ids []string) ([]models.Comic, error)
}

// Comics resolves the favorite set into comics ordered like the stored IDs.
func (m *Manager) Comics(ctx context.Context, resolver ComicResolver) ([]models.Comic, error) {
	return resolver.ComicsByIDs(ctx, m.IDs())
}
