package models

import "time"

// URL represents a shortened URL and its associated metadata.
type URL struct {
	// ID is the unique identifier for the shortened URL record.
	ID int64
	// ShortCode is the short code or key associated with the original URL.
	ShortCode string
	// OriginalURL is the original, full-length URL that the short code points to.
	OriginalURL string
	// Title is an optional display label for the URL. It is never validated.
	Title string
	// ClickCount tracks the number of successful redirects for the short code.
	ClickCount int64
	// IsActive reports whether the short code still serves redirects.
	// The transition to false is one-way.
	IsActive bool
	// ExpiresAt is the moment after which redirects stop being served.
	// A nil value means the URL never expires.
	ExpiresAt *time.Time
	// CreatedAt is the timestamp indicating when the shortened URL was created.
	CreatedAt time.Time
	// UpdatedAt is the timestamp indicating when the shortened URL was last updated.
	UpdatedAt time.Time
}

// IsExpired reports whether the URL is past its expiration moment at the given time.
// URLs without an expiration never expire.
func (u *URL) IsExpired(now time.Time) bool {
	return u.ExpiresAt != nil && now.After(*u.ExpiresAt)
}

// CreateURLParams carries the fields needed to persist a new shortened URL.
type CreateURLParams struct {
	ShortCode   string
	OriginalURL string
	Title       string
	ExpiresAt   *time.Time
}

// BatchResult aggregates the outcome of a bulk shorten operation.
// Failures never abort the batch; each one is recorded as a message
// referencing the offending URL.
type BatchResult struct {
	URLs         []*URL
	TotalCreated int
	Errors       []string
}
