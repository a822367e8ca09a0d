package models

import "time"

// Role is the backend-assigned authorization role.
type Role string

const (
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

// User is the authenticated identity snapshot returned by the backend on
// login and persisted locally between runs.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// CanModerate reports whether the user may enter the moderation views.
func (u *User) CanModerate() bool {
	return u != nil && (u.Role == RoleAdmin || u.Role == RoleModerator)
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Notification is a backend notification for the authenticated user.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment is a user comment attached to a community work.
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}
