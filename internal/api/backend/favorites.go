package backend

import (
	"context"
	"fmt"
	"net/http"
)

type favoriteRequest struct {
	ComicID string `json:"comicId"`
}

// FavoriteIDs returns the authenticated user's favorite comic IDs.
func (c *Client) FavoriteIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := c.do(ctx, http.MethodGet, "/favorites/", nil, nil, &ids); err != nil {
		return nil, fmt.Errorf("failed to fetch favorites: %w", err)
	}
	return ids, nil
}

// AddFavorite marks a comic as favorite for the authenticated user.
func (c *Client) AddFavorite(ctx context.Context, comicID string) error {
	err := c.do(ctx, http.MethodPost, "/favorites/", nil, favoriteRequest{ComicID: comicID}, nil)
	if err != nil {
		return fmt.Errorf("failed to add favorite %s: %w", comicID, err)
	}
	return nil
}

// RemoveFavorite unmarks a favorite for the authenticated user.
func (c *Client) RemoveFavorite(ctx context.Context, comicID string) error {
	err := c.do(ctx, http.MethodDelete, "/favorites/"+comicID, nil, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to remove favorite %s: %w", comicID, err)
	}
	return nil
}
