package source

import (
	"context"
	"sync"

	"github.com/wepcomic/wepcomic-term/internal/models"
)

// Explore returns one catalog page from the metadata API. Catalog browsing is
// page-critical, so errors propagate to the caller.
func (a *Aggregator) Explore(ctx context.Context, limit, offset int, search string, showNSFW bool, language string) ([]models.Comic, bool, error) {
	return a.metadata.GetAllComics(ctx, limit, offset, search, showNSFW, language)
}

// CommunityUploads returns one page of community uploads.
func (a *Aggregator) CommunityUploads(ctx context.Context, page, limit int, title string, showNSFW bool) ([]models.Comic, *models.Pagination, error) {
	return a.backend.ListUploaded(ctx, page, limit, title, showNSFW)
}

// degrade logs a listing failure and returns an empty result so aggregate
// views keep rendering.
func (a *Aggregator) degrade(operation string, err error) []models.Comic {
	a.logger.Warn("Listing degraded to empty", map[string]interface{}{
		"operation": operation,
		"error":     err.Error(),
	})
	return nil
}

// RecentlyUpdated returns the comics with the newest readable chapters,
// degrading to empty on failure.
func (a *Aggregator) RecentlyUpdated(ctx context.Context, limit int, showNSFW bool, language string) []models.Comic {
	comics, err := a.metadata.GetRecentlyUpdated(ctx, limit, showNSFW, language)
	if err != nil {
		return a.degrade("recently_updated", err)
	}
	return comics
}

// NewlyAdded returns the most recently created comics, degrading to empty on
// failure.
func (a *Aggregator) NewlyAdded(ctx context.Context, limit int, showNSFW bool) []models.Comic {
	comics, err := a.metadata.GetNewlyAdded(ctx, limit, showNSFW)
	if err != nil {
		return a.degrade("newly_added", err)
	}
	return comics
}

// Popular returns one page of comics by follower count, degrading to empty on
// failure.
func (a *Aggregator) Popular(ctx context.Context, limit, offset int, showNSFW bool, language string) ([]models.Comic, bool) {
	comics, hasMore, err := a.metadata.GetPopular(ctx, limit, offset, showNSFW, language)
	if err != nil {
		return a.degrade("popular", err), false
	}
	return comics, hasMore
}

// ComicsByTag returns one page of comics carrying a tag, degrading to empty
// on failure.
func (a *Aggregator) ComicsByTag(ctx context.Context, tagID string, limit, offset int, showNSFW bool, language string) ([]models.Comic, bool) {
	comics, hasMore, err := a.metadata.GetComicsByTag(ctx, tagID, limit, offset, showNSFW, language)
	if err != nil {
		return a.degrade("comics_by_tag", err), false
	}
	return comics, hasMore
}

// Tags returns the genre tags, degrading to empty on failure.
func (a *Aggregator) Tags(ctx context.Context) []models.Tag {
	tags, err := a.metadata.GetTags(ctx)
	if err != nil {
		a.logger.Warn("Tag listing degraded to empty", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return tags
}

// ComicsByIDs resolves a mixed set of comic IDs, splitting first-party and
// external IDs to their owning sources and fetching both concurrently. The
// result preserves the order of ids.
func (a *Aggregator) ComicsByIDs(ctx context.Context, ids []string) ([]models.Comic, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var localIDs, externalIDs []string
	for _, id := range ids {
		if models.IsLocalID(id) {
			localIDs = append(localIDs, id)
		} else {
			externalIDs = append(externalIDs, id)
		}
	}

	var (
		wg          sync.WaitGroup
		local       []models.Comic
		external    []models.Comic
		localErr    error
		externalErr error
	)
	if len(localIDs) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local, localErr = a.backend.GetUploadedByIDs(ctx, localIDs)
		}()
	}
	if len(externalIDs) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			external, externalErr = a.metadata.GetComicsByIDs(ctx, externalIDs)
		}()
	}
	wg.Wait()

	if localErr != nil {
		return nil, localErr
	}
	if externalErr != nil {
		return nil, externalErr
	}

	// Re-order to the requested ID order.
	byID := make(map[string]models.Comic, len(local)+len(external))
	for _, c := range local {
		byID[c.ID] = c
	}
	for _, c := range external {
		byID[c.ID] = c
	}
	ordered := make([]models.Comic, 0, len(byID))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}
