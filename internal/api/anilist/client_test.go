package anilist

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wepcomic/wepcomic-term/internal/logger"
)

func TestSearchStatisticsScalesScore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"Media":{"averageScore":85,"popularity":1234}}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, logger.Get())
	stats, err := client.SearchStatistics(context.Background(), "Solo Hunter")
	require.NoError(t, err)

	// AniList scores run 0-100; they map onto the metadata API's 0-10 scale.
	assert.Equal(t, 8.5, stats.Rating)
	assert.Equal(t, 1234, stats.Follows)
}

func TestSearchStatisticsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, logger.Get())
	_, err := client.SearchStatistics(context.Background(), "Solo Hunter")
	assert.Error(t, err)
}
