// Package anilist enriches external comics with community metrics from the
// AniList GraphQL API. It is only consulted when the metadata API's
// statistics endpoint yields nothing, so every error degrades to zero values
// at the call site.
package anilist

import (
	"context"
	"fmt"
	"net/http"
	"time"

	graphql "github.com/hasura/go-graphql-client"

	"github.com/wepcomic/wepcomic-term/internal/logger"
	"github.com/wepcomic/wepcomic-term/internal/models"
)

const defaultEndpoint = "https://graphql.anilist.co"

// Client queries AniList for manga metrics.
type Client struct {
	gql    *graphql.Client
	logger *logger.Logger
}

// NewClient creates an AniList client. endpoint defaults to the public API
// when empty.
func NewClient(endpoint string, log *logger.Logger) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	zl := log.Logger.With().Str("component", "anilist_client").Logger()

	httpClient := &http.Client{Timeout: 15 * time.Second}
	return &Client{
		gql:    graphql.NewClient(endpoint, httpClient),
		logger: &logger.Logger{Logger: zl},
	}
}

// SearchStatistics looks a manga up by title and returns its score and
// popularity mapped onto the same scale as the metadata API (rating 0-10).
func (c *Client) SearchStatistics(ctx context.Context, title string) (models.Statistics, error) {
	var query struct {
		Media struct {
			AverageScore int `graphql:"averageScore"`
			Popularity   int `graphql:"popularity"`
		} `graphql:"Media(search: $search, type: MANGA)"`
	}
	variables := map[string]interface{}{
		"search": title,
	}

	if err := c.gql.Query(ctx, &query, variables); err != nil {
		c.logger.Debug("AniList lookup failed", map[string]interface{}{
			"title": title,
			"error": err.Error(),
		})
		return models.Statistics{}, fmt.Errorf("anilist lookup for %q failed: %w", title, err)
	}

	return models.Statistics{
		Rating:  float64(query.Media.AverageScore) / 10,
		Follows: query.Media.Popularity,
	}, nil
}
