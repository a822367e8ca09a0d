package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wepcomic/wepcomic-term/internal/models"
)

type commentRequest struct {
	Text string `json:"text"`
}

// Comments returns the comments attached to a community work.
func (c *Client) Comments(ctx context.Context, mangaID string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := c.do(ctx, http.MethodGet, "/mangas/"+mangaID+"/comments", nil, nil, &comments); err != nil {
		return nil, fmt.Errorf("failed to fetch comments for %s: %w", mangaID, err)
	}
	return comments, nil
}

// PostComment attaches a comment to a community work.
func (c *Client) PostComment(ctx context.Context, mangaID, text string) (*models.Comment, error) {
	var comment models.Comment
	if err := c.do(ctx, http.MethodPost, "/mangas/"+mangaID+"/comments", nil, commentRequest{Text: text}, &comment); err != nil {
		return nil, fmt.Errorf("failed to post comment on %s: %w", mangaID, err)
	}
	return &comment, nil
}

// DeleteComment removes one of the user's comments.
func (c *Client) DeleteComment(ctx context.Context, mangaID, commentID string) error {
	err := c.do(ctx, http.MethodDelete, "/mangas/"+mangaID+"/comments/"+commentID, nil, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to delete comment %s: %w", commentID, err)
	}
	return nil
}

// Notifications returns the authenticated user's notifications, newest first.
func (c *Client) Notifications(ctx context.Context) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := c.do(ctx, http.MethodGet, "/notifications/", nil, nil, &notifications); err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	return notifications, nil
}

// MarkNotificationsRead marks every notification as read.
func (c *Client) MarkNotificationsRead(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/notifications/read", nil, struct{}{}, nil)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// Profile is a public user profile.
type Profile struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
	Bio       string `json:"bio"`
}

// GetProfile returns a public profile by username.
func (c *Client) GetProfile(ctx context.Context, username string) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, "/users/profile/"+username, nil, nil, &profile); err != nil {
		return nil, fmt.Errorf("failed to fetch profile %s: %w", username, err)
	}
	return &profile, nil
}

func offsetQuery(limit, offset int) url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	return q
}

// ProfileFavorites returns one page of a user's favorite comic IDs.
func (c *Client) ProfileFavorites(ctx context.Context, username string, limit, offset int) (*models.PagedResult[string], error) {
	var resp models.PagedResult[string]
	path := "/users/profile/" + username + "/favorites"
	if err := c.do(ctx, http.MethodGet, path, offsetQuery(limit, offset), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch favorites of %s: %w", username, err)
	}
	return &resp, nil
}

// ProfileCreations returns one page of the works a user uploaded.
func (c *Client) ProfileCreations(ctx context.Context, username string, limit, offset int) (*models.PagedResult[models.Comic], error) {
	var resp models.PagedResult[models.Comic]
	path := "/users/profile/" + username + "/creations"
	if err := c.do(ctx, http.MethodGet, path, offsetQuery(limit, offset), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch creations of %s: %w", username, err)
	}
	return &resp, nil
}

// ProfileContributions returns one page of the works a user contributed
// chapters or edits to.
func (c *Client) ProfileContributions(ctx context.Context, username string, limit, offset int) (*models.PagedResult[models.Comic], error) {
	var resp models.PagedResult[models.Comic]
	path := "/users/profile/" + username + "/contributions"
	if err := c.do(ctx, http.MethodGet, path, offsetQuery(limit, offset), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch contributions of %s: %w", username, err)
	}
	return &resp, nil
}
