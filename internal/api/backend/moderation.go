package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wepcomic/wepcomic-term/internal/models"
)

// LockConflictError reports that another moderator already holds the review
// lock. Message is the server-provided explanation shown to the user.
type LockConflictError struct {
	Message string
}

func (e *LockConflictError) Error() string {
	return fmt.Sprintf("review locked: %s", e.Message)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (c *Client) queuePage(ctx context.Context, path string, page int) (*models.PagedResult[models.QueueEntry], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))

	var resp models.PagedResult[models.QueueEntry]
	if err := c.do(ctx, http.MethodGet, path, q, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch moderation queue %s: %w", path, err)
	}
	return &resp, nil
}

// NewSubmissions returns one page of never-reviewed community submissions.
func (c *Client) NewSubmissions(ctx context.Context, page int) (*models.PagedResult[models.QueueEntry], error) {
	return c.queuePage(ctx, "/admin/new-submissions", page)
}

// PendingEdits returns one page of previously approved works with pending
// chapter or metadata changes.
func (c *Client) PendingEdits(ctx context.Context, page int) (*models.PagedResult[models.QueueEntry], error) {
	return c.queuePage(ctx, "/admin/pending-edits", page)
}

// ArchivedMangas returns one page of archived works.
func (c *Client) ArchivedMangas(ctx context.Context, page int) (*models.PagedResult[models.QueueEntry], error) {
	return c.queuePage(ctx, "/admin/archived-mangas", page)
}

// PendingProposals returns the pending metadata edit proposals.
func (c *Client) PendingProposals(ctx context.Context) ([]models.Proposal, error) {
	var proposals []models.Proposal
	if err := c.do(ctx, http.MethodGet, "/admin/pending-proposals", nil, nil, &proposals); err != nil {
		return nil, fmt.Errorf("failed to fetch pending proposals: %w", err)
	}
	return proposals, nil
}

// GetMangaForReview returns the full review payload for one work.
func (c *Client) GetMangaForReview(ctx context.Context, mangaID string) (*models.MangaForReview, error) {
	var manga models.MangaForReview
	if err := c.do(ctx, http.MethodGet, "/admin/review/manga/"+mangaID, nil, nil, &manga); err != nil {
		return nil, fmt.Errorf("failed to fetch manga %s for review: %w", mangaID, err)
	}
	return &manga, nil
}

// LockManga acquires the advisory review lock for a work. When another
// moderator holds it the backend answers 409 and a LockConflictError carrying
// the server's message is returned.
func (c *Client) LockManga(ctx context.Context, mangaID string) error {
	err := c.do(ctx, http.MethodPost, "/admin/review/manga/"+mangaID+"/lock", nil, struct{}{}, nil)
	if err == nil {
		return nil
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusConflict {
		message := "Este manga está siendo revisado por otro moderador."
		var body struct {
			Message string `json:"message"`
		}
		if jsonErr := json.Unmarshal([]byte(statusErr.Body), &body); jsonErr == nil && body.Message != "" {
			message = body.Message
		}
		return &LockConflictError{Message: message}
	}
	return fmt.Errorf("failed to lock manga %s: %w", mangaID, err)
}

// UnlockManga releases the advisory review lock.
func (c *Client) UnlockManga(ctx context.Context, mangaID string) error {
	err := c.do(ctx, http.MethodPost, "/admin/review/manga/"+mangaID+"/unlock", nil, struct{}{}, nil)
	if err != nil {
		return fmt.Errorf("failed to unlock manga %s: %w", mangaID, err)
	}
	return nil
}

// ApproveManga approves a work together with its pending chapters.
func (c *Client) ApproveManga(ctx context.Context, mangaID string) error {
	err := c.do(ctx, http.MethodPost, "/admin/manga/"+mangaID+"/approve", nil, struct{}{}, nil)
	if err != nil {
		return fmt.Errorf("failed to approve manga %s: %w", mangaID, err)
	}
	return nil
}

// RejectManga rejects a work with a justification.
func (c *Client) RejectManga(ctx context.Context, mangaID, reason string) error {
	err := c.do(ctx, http.MethodPost, "/admin/manga/"+mangaID+"/reject", nil, rejectRequest{Reason: reason}, nil)
	if err != nil {
		return fmt.Errorf("failed to reject manga %s: %w", mangaID, err)
	}
	return nil
}

// ApproveChapter approves one pending chapter.
func (c *Client) ApproveChapter(ctx context.Context, chapterID string) error {
	err := c.do(ctx, http.MethodPost, "/admin/chapter/"+chapterID+"/approve", nil, struct{}{}, nil)
	if err != nil {
		return fmt.Errorf("failed to approve chapter %s: %w", chapterID, err)
	}
	return nil
}

// RejectChapter rejects one pending chapter with a justification.
func (c *Client) RejectChapter(ctx context.Context, chapterID, reason string) error {
	err := c.do(ctx, http.MethodPost, "/admin/chapter/"+chapterID+"/reject", nil, rejectRequest{Reason: reason}, nil)
	if err != nil {
		return fmt.Errorf("failed to reject chapter %s: %w", chapterID, err)
	}
	return nil
}

// DeleteManga permanently removes a work. ADMIN only.
func (c *Client) DeleteManga(ctx context.Context, mangaID string) error {
	err := c.do(ctx, http.MethodDelete, "/admin/manga/"+mangaID, nil, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to delete manga %s: %w", mangaID, err)
	}
	return nil
}

// DeleteChapter permanently removes one chapter. ADMIN only.
func (c *Client) DeleteChapter(ctx context.Context, chapterID string) error {
	err := c.do(ctx, http.MethodDelete, "/admin/chapter/"+chapterID, nil, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to delete chapter %s: %w", chapterID, err)
	}
	return nil
}

// RestoreManga moves an archived work back to the public catalog.
func (c *Client) RestoreManga(ctx context.Context, mangaID string) error {
	err := c.do(ctx, http.MethodPost, "/admin/manga/"+mangaID+"/restore", nil, struct{}{}, nil)
	if err != nil {
		return fmt.Errorf("failed to restore manga %s: %w", mangaID, err)
	}
	return nil
}

// ApproveProposal applies a pending metadata edit proposal.
func (c *Client) ApproveProposal(ctx context.Context, proposalID string) error {
	err := c.do(ctx, http.MethodPost, "/admin/proposals/"+proposalID+"/approve", nil, struct{}{}, nil)
	if err != nil {
		return fmt.Errorf("failed to approve proposal %s: %w", proposalID, err)
	}
	return nil
}

// RejectProposal discards a pending metadata edit proposal.
func (c *Client) RejectProposal(ctx context.Context, proposalID, reason string) error {
	err := c.do(ctx, http.MethodPost, "/admin/proposals/"+proposalID+"/reject", nil, rejectRequest{Reason: reason}, nil)
	if err != nil {
		return fmt.Errorf("failed to reject proposal %s: %w", proposalID, err)
	}
	return nil
}

// ArchiveManga archives a community work (soft delete, reversible through
// RestoreManga).
func (c *Client) ArchiveManga(ctx context.Context, mangaID string) error {
	err := c.do(ctx, http.MethodDelete, "/community/mangas/"+mangaID, nil, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to archive manga %s: %w", mangaID, err)
	}
	return nil
}
