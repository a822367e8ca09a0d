package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wepcomic/wepcomic-term/internal/models"
)

// --- Anonymous favorites ---

// LocalFavoriteIDs returns all locally stored favorite comic IDs in the
// order they were added.
func (d *Database) LocalFavoriteIDs() ([]string, error) {
	var favorites []LocalFavorite
	if err := d.db.Order("id asc").Find(&favorites).Error; err != nil {
		return nil, fmt.Errorf("failed to list local favorites: %w", err)
	}
	ids := make([]string, 0, len(favorites))
	for _, f := range favorites {
		ids = append(ids, f.ComicID)
	}
	return ids, nil
}

// AddLocalFavorite stores a favorite comic ID. Adding an existing ID is a
// no-op.
func (d *Database) AddLocalFavorite(comicID string) error {
	fav := LocalFavorite{ComicID: comicID, CreatedAt: time.Now()}
	err := d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error
	if err != nil {
		return fmt.Errorf("failed to add local favorite: %w", err)
	}
	return nil
}

// RemoveLocalFavorite deletes a favorite comic ID if present.
func (d *Database) RemoveLocalFavorite(comicID string) error {
	err := d.db.Where("comic_id = ?", comicID).Delete(&LocalFavorite{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove local favorite: %w", err)
	}
	return nil
}

// --- Identity snapshot ---

// SaveIdentity replaces the stored identity snapshot with the given user.
func (d *Database) SaveIdentity(user *models.User) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&Identity{}).Error; err != nil {
			return fmt.Errorf("failed to clear identity: %w", err)
		}
		ident := Identity{
			UserID:    user.ID,
			Username:  user.Username,
			Email:     user.Email,
			Token:     user.Token,
			Role:      string(user.Role),
			CreatedAt: user.CreatedAt,
		}
		if err := tx.Create(&ident).Error; err != nil {
			return fmt.Errorf("failed to save identity: %w", err)
		}
		return nil
	})
}

// LoadIdentity returns the stored identity, or nil when the session is
// anonymous.
func (d *Database) LoadIdentity() (*models.User, error) {
	var ident Identity
	err := d.db.First(&ident).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load identity: %w", err)
	}
	return &models.User{
		ID:        ident.UserID,
		Username:  ident.Username,
		Email:     ident.Email,
		Token:     ident.Token,
		Role:      models.Role(ident.Role),
		CreatedAt: ident.CreatedAt,
	}, nil
}

// ClearIdentity removes the stored identity snapshot.
func (d *Database) ClearIdentity() error {
	if err := d.db.Where("1 = 1").Delete(&Identity{}).Error; err != nil {
		return fmt.Errorf("failed to clear identity: %w", err)
	}
	return nil
}

// --- Preferences ---

// GetPreference returns the stored value for key, or fallback when unset.
func (d *Database) GetPreference(key, fallback string) string {
	var pref Preference
	err := d.db.First(&pref, "key = ?", key).Error
	if err != nil {
		return fallback
	}
	return pref.Value
}

// SetPreference stores a preference value, overwriting any previous one.
func (d *Database) SetPreference(key, value string) error {
	pref := Preference{Key: key, Value: value, UpdatedAt: time.Now()}
	err := d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&pref).Error
	if err != nil {
		return fmt.Errorf("failed to set preference %s: %w", key, err)
	}
	return nil
}
