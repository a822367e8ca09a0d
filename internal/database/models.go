package database

import "time"

// LocalFavorite is one favorited comic ID for the anonymous session.
// Insertion order is preserved so the favorites view keeps the order the
// user added them in.
type LocalFavorite struct {
	ID        uint   `gorm:"primaryKey"`
	ComicID   string `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}

// Identity is the persisted authenticated-identity snapshot. At most one row
// exists; login replaces it and logout deletes it.
type Identity struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"not null"`
	Username  string `gorm:"not null"`
	Email     string
	Token     string `gorm:"not null"`
	Role      string `gorm:"not null;default:USER"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Preference is one persisted key/value preference (NSFW visibility,
// content language, reader display mode).
type Preference struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

// Preference keys.
const (
	PrefShowNSFW    = "show_nsfw"
	PrefLanguage    = "language"
	PrefDisplayMode = "reader_display_mode"
)
