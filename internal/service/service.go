// Package service contains the URL shortening business logic: code
// allocation, expiration policy and redirect resolution.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/vadimbarashkov/shortly/internal/database"
	"github.com/vadimbarashkov/shortly/internal/models"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// shortCodeAlphabet is the 62-character alphabet used for generated
// short codes. gonanoid draws from crypto/rand, so codes are not
// guessable from previously issued ones.
const shortCodeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// maxRetries bounds the collision retry loop for generated codes.
const maxRetries = 5

var (
	// ErrInvalidURL is returned when the original URL is not a well-formed absolute URL.
	ErrInvalidURL = errors.New("invalid url format")
	// ErrAliasTaken is returned when the requested custom alias is already in use.
	ErrAliasTaken = errors.New("custom alias already exists")
	// ErrURLGone is returned when a short code exists but no longer serves
	// redirects, either because it was deactivated or because it expired.
	ErrURLGone = errors.New("url is gone")
	// ErrInvalidExpiration is returned when the requested expiration window is not positive.
	ErrInvalidExpiration = errors.New("expiration days must be positive")
	// ErrCodeSpaceExhausted is returned when generated codes keep colliding
	// after the maximum number of attempts.
	ErrCodeSpaceExhausted = errors.New("maximum retries exceeded for generating short code")
)

// URLRepository defines the interface for working with URLs at the business logic layer.
type URLRepository interface {
	// Create inserts a new shortened URL into the repository.
	// Returns database.ErrShortCodeExists if the short code is already taken.
	Create(ctx context.Context, params models.CreateURLParams) (*models.URL, error)

	// GetByShortCode retrieves a URL by its short code without touching counters.
	// Returns database.ErrURLNotFound if no record matches.
	GetByShortCode(ctx context.Context, shortCode string) (*models.URL, error)

	// IncrementClickCount atomically increments the click counter for the short code.
	IncrementClickCount(ctx context.Context, shortCode string) error

	// Deactivate permanently disables the short code.
	Deactivate(ctx context.Context, shortCode string) error
}

// IsWellFormedURL reports whether raw is an absolute http or https URL
// with a non-empty host.
func IsWellFormedURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	return strings.TrimSpace(u.Host) != ""
}

// ShortenParams carries the input for a single shorten operation.
// CustomAlias, Title and ExpiresInDays are optional; a zero ExpiresInDays
// means the URL never expires.
type ShortenParams struct {
	OriginalURL   string
	CustomAlias   string
	Title         string
	ExpiresInDays int64
}

// URLService provides methods to manage URL shortening operations.
// The service uses a URLRepository interface to interact with the underlying database.
type URLService struct {
	repo            URLRepository
	shortCodeLength int
}

// NewURLService creates a new instance of URLService with the provided repository and short code length.
func NewURLService(repo URLRepository, shortCodeLength int) *URLService {
	return &URLService{
		repo:            repo,
		shortCodeLength: shortCodeLength,
	}
}

// ShortenURL validates the original URL, allocates a short code and stores
// the new record. A supplied custom alias is used as-is and fails with
// ErrAliasTaken if another record owns it. Otherwise codes are generated
// randomly, retrying on collision up to maxRetries before giving up with
// ErrCodeSpaceExhausted.
func (s *URLService) ShortenURL(ctx context.Context, params ShortenParams) (*models.URL, error) {
	const op = "service.URLService.ShortenURL"

	if !IsWellFormedURL(params.OriginalURL) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidURL)
	}

	expiresAt, err := expirationTime(params.ExpiresInDays)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	createParams := models.CreateURLParams{
		OriginalURL: params.OriginalURL,
		Title:       params.Title,
		ExpiresAt:   expiresAt,
	}

	if params.CustomAlias != "" {
		createParams.ShortCode = params.CustomAlias

		url, err := s.repo.Create(ctx, createParams)
		if err != nil {
			if errors.Is(err, database.ErrShortCodeExists) {
				return nil, fmt.Errorf("%s: %w", op, ErrAliasTaken)
			}

			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		return url, nil
	}

	for i := 0; i < maxRetries; i++ {
		shortCode, err := gonanoid.Generate(shortCodeAlphabet, s.shortCodeLength)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate short code: %w", op, err)
		}

		createParams.ShortCode = shortCode

		url, err := s.repo.Create(ctx, createParams)
		if err != nil {
			if errors.Is(err, database.ErrShortCodeExists) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		return url, nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrCodeSpaceExhausted)
}

// ShortenBatch shortens each URL independently with generated codes and a
// shared expiration window. A failing entry is recorded as an error
// message referencing the offending URL and never aborts the rest of the
// batch.
func (s *URLService) ShortenBatch(ctx context.Context, urls []string, expiresInDays int64) *models.BatchResult {
	result := &models.BatchResult{}

	for _, originalURL := range urls {
		url, err := s.ShortenURL(ctx, ShortenParams{
			OriginalURL:   originalURL,
			ExpiresInDays: expiresInDays,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidURL):
				result.Errors = append(result.Errors, fmt.Sprintf("invalid url format: %s", originalURL))
			case errors.Is(err, ErrInvalidExpiration):
				result.Errors = append(result.Errors, fmt.Sprintf("invalid expiration for url: %s", originalURL))
			default:
				result.Errors = append(result.Errors, fmt.Sprintf("failed to process url: %s", originalURL))
			}

			continue
		}

		result.URLs = append(result.URLs, url)
	}

	result.TotalCreated = len(result.URLs)

	return result
}

// ResolveShortCode returns the URL record to redirect to for the given
// short code. Records that were deactivated or whose expiration moment
// has passed resolve to ErrURLGone; unknown codes surface
// database.ErrURLNotFound. The click counter is incremented before the
// record is returned, so a served redirect is never over-counted.
func (s *URLService) ResolveShortCode(ctx context.Context, shortCode string) (*models.URL, error) {
	const op = "service.URLService.ResolveShortCode"

	url, err := s.repo.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve short code: %w", op, err)
	}

	if !url.IsActive {
		return nil, fmt.Errorf("%s: %w", op, ErrURLGone)
	}

	if url.IsExpired(time.Now().UTC()) {
		return nil, fmt.Errorf("%s: %w", op, ErrURLGone)
	}

	if err := s.repo.IncrementClickCount(ctx, shortCode); err != nil {
		return nil, fmt.Errorf("%s: failed to count click: %w", op, err)
	}

	url.ClickCount++

	return url, nil
}

// GetURLStats retrieves the statistics snapshot for the short code
// without incrementing counters. Expired and deactivated URLs remain
// readable here.
func (s *URLService) GetURLStats(ctx context.Context, shortCode string) (*models.URL, error) {
	const op = "service.URLService.GetURLStats"

	url, err := s.repo.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get url stats: %w", op, err)
	}

	return url, nil
}

// DeactivateURL permanently disables the short code. It returns an error
// if the short code doesn't exist or the deactivation fails.
func (s *URLService) DeactivateURL(ctx context.Context, shortCode string) error {
	const op = "service.URLService.DeactivateURL"

	err := s.repo.Deactivate(ctx, shortCode)
	if err != nil {
		return fmt.Errorf("%s: failed to deactivate url: %w", op, err)
	}

	return nil
}

// expirationTime converts an expiration window in days into an absolute
// timestamp. Zero means no expiration; negative windows are rejected.
func expirationTime(days int64) (*time.Time, error) {
	if days < 0 {
		return nil, ErrInvalidExpiration
	}

	if days == 0 {
		return nil, nil
	}

	expiresAt := time.Now().UTC().AddDate(0, 0, int(days))

	return &expiresAt, nil
}
