package models

// ReviewStatus is the moderation lifecycle state of a submission or chapter.
type ReviewStatus string

const (
	StatusPending  ReviewStatus = "PENDING"
	StatusApproved ReviewStatus = "APPROVED"
	StatusRejected ReviewStatus = "REJECTED"
	StatusArchived ReviewStatus = "ARCHIVED"
)

// ChapterForReview is a community-uploaded chapter as seen by a reviewer.
type ChapterForReview struct {
	ID            string       `json:"id"`
	ChapterNumber float64      `json:"chapterNumber"`
	Title         string       `json:"title"`
	Status        ReviewStatus `json:"status"`
	Justification string       `json:"justification"`
	Language      string       `json:"language"`
	Pages         []Page       `json:"pages"`
}

// MangaForReview is a community submission together with everything a
// reviewer needs to decide on it.
type MangaForReview struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Author       string             `json:"author"`
	Synopsis     string             `json:"synopsis"`
	CoverURL     string             `json:"coverUrl"`
	Status       ReviewStatus       `json:"status"`
	Uploader     Contributor        `json:"uploader"`
	LastEditedBy *Contributor       `json:"lastEditedBy"`
	Chapters     []ChapterForReview `json:"chapters"`
}

// NeedsReview reports whether the submission still has a pending decision:
// either the work itself or any of its chapters is PENDING.
func (m *MangaForReview) NeedsReview() bool {
	if m.Status == StatusPending {
		return true
	}
	for _, ch := range m.Chapters {
		if ch.Status == StatusPending {
			return true
		}
	}
	return false
}

// Contributor is the minimal user reference embedded in review payloads.
type Contributor struct {
	Username string `json:"username"`
}

// QueueEntry is one item of a moderation queue listing.
type QueueEntry struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	CoverURL string       `json:"coverUrl"`
	Uploader Contributor  `json:"uploader"`
	EditedBy *Contributor `json:"lastEditedBy"`
}

// Proposal is a pending metadata edit proposal.
type Proposal struct {
	ID       string      `json:"id"`
	MangaID  string      `json:"mangaId"`
	Title    string      `json:"title"`
	Proposer Contributor `json:"proposer"`
}
