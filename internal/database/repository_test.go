package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wepcomic/wepcomic-term/internal/logger"
	"github.com/wepcomic/wepcomic-term/internal/models"
)

func testDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "wepcomic.db"), logger.Get())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLocalFavoritesInsertionOrder(t *testing.T) {
	db := testDatabase(t)

	require.NoError(t, db.AddLocalFavorite("c3"))
	require.NoError(t, db.AddLocalFavorite("c1"))
	require.NoError(t, db.AddLocalFavorite("c2"))

	ids, err := db.LocalFavoriteIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"c3", "c1", "c2"}, ids)
}

func TestAddLocalFavoriteIdempotent(t *testing.T) {
	db := testDatabase(t)

	require.NoError(t, db.AddLocalFavorite("c1"))
	require.NoError(t, db.AddLocalFavorite("c1"))

	ids, err := db.LocalFavoriteIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, ids)
}

func TestRemoveLocalFavorite(t *testing.T) {
	db := testDatabase(t)

	require.NoError(t, db.AddLocalFavorite("c1"))
	require.NoError(t, db.AddLocalFavorite("c2"))
	require.NoError(t, db.RemoveLocalFavorite("c1"))
	// Removing an absent ID is a no-op.
	require.NoError(t, db.RemoveLocalFavorite("c9"))

	ids, err := db.LocalFavoriteIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"c2"}, ids)
}

func TestIdentityLifecycle(t *testing.T) {
	db := testDatabase(t)

	// Anonymous until an identity is saved.
	user, err := db.LoadIdentity()
	require.NoError(t, err)
	assert.Nil(t, user)

	saved := &models.User{
		ID:        "u1",
		Username:  "ana",
		Email:     "ana@example.org",
		Token:     "jwt-abc",
		Role:      models.RoleModerator,
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.SaveIdentity(saved))

	user, err = db.LoadIdentity()
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "ana", user.Username)
	assert.Equal(t, models.RoleModerator, user.Role)
	assert.Equal(t, "jwt-abc", user.Token)

	// Saving again replaces rather than accumulates.
	saved.Username = "ana2"
	require.NoError(t, db.SaveIdentity(saved))
	user, err = db.LoadIdentity()
	require.NoError(t, err)
	assert.Equal(t, "ana2", user.Username)

	require.NoError(t, db.ClearIdentity())
	user, err = db.LoadIdentity()
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestPreferenceUpsert(t *testing.T) {
	db := testDatabase(t)

	assert.Equal(t, "fitWidth", db.GetPreference(PrefDisplayMode, "fitWidth"))

	require.NoError(t, db.SetPreference(PrefDisplayMode, "fitHeight"))
	assert.Equal(t, "fitHeight", db.GetPreference(PrefDisplayMode, "fitWidth"))

	require.NoError(t, db.SetPreference(PrefDisplayMode, "fitWidth"))
	assert.Equal(t, "fitWidth", db.GetPreference(PrefDisplayMode, "fitHeight"))
}
