package models

// Pagination is the page-counted envelope variant used by the moderation and
// community listing endpoints.
type Pagination struct {
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	Total      int `json:"total"`
}

// Meta is the cursorless envelope variant used by the profile endpoints.
type Meta struct {
	HasMore bool `json:"hasMore"`
}

// PagedResult is a listing plus whichever envelope the endpoint speaks.
// The backend is inconsistent about which one it returns, so callers check
// Pagination first and fall back to Meta.
type PagedResult[T any] struct {
	Data       []T         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Meta       *Meta       `json:"meta,omitempty"`
}

// HasMore reports whether another page exists under either envelope shape.
func (r *PagedResult[T]) HasMore() bool {
	if r.Pagination != nil {
		return r.Pagination.Page < r.Pagination.TotalPages
	}
	if r.Meta != nil {
		return r.Meta.HasMore
	}
	return false
}
