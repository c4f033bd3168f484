package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/shortly/internal/database"
	"github.com/vadimbarashkov/shortly/internal/models"
)

type urlRecord struct {
	ID          int64          `db:"id"`
	ShortCode   string         `db:"short_code"`
	OriginalURL string         `db:"original_url"`
	Title       sql.NullString `db:"title"`
	ClickCount  int64          `db:"click_count"`
	IsActive    bool           `db:"is_active"`
	ExpiresAt   *time.Time     `db:"expires_at"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r *urlRecord) ToURL() *models.URL {
	return &models.URL{
		ID:          r.ID,
		ShortCode:   r.ShortCode,
		OriginalURL: r.OriginalURL,
		Title:       r.Title.String,
		ClickCount:  r.ClickCount,
		IsActive:    r.IsActive,
		ExpiresAt:   r.ExpiresAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type URLRepository struct {
	db *sqlx.DB
}

func NewURLRepository(db *sqlx.DB) *URLRepository {
	return &URLRepository{
		db: db,
	}
}

// Create persists a new URL record. The INSERT relies on the UNIQUE
// constraint on short_code, so a conflicting code surfaces as
// database.ErrShortCodeExists without a separate existence check.
func (r *URLRepository) Create(ctx context.Context, params models.CreateURLParams) (*models.URL, error) {
	const op = "database.postgres.URLRepository.Create"

	rec := new(urlRecord)
	query := `INSERT INTO urls(short_code, original_url, title, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING *`

	title := sql.NullString{String: params.Title, Valid: params.Title != ""}

	err := r.db.GetContext(ctx, rec, query, params.ShortCode, params.OriginalURL, title, params.ExpiresAt)
	if err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrShortCodeExists)
		}

		return nil, fmt.Errorf("%s: failed to create url record: %w", op, err)
	}

	return rec.ToURL(), nil
}

// GetByShortCode retrieves a URL record by its short code. The match is
// exact and case-sensitive.
func (r *URLRepository) GetByShortCode(ctx context.Context, shortCode string) (*models.URL, error) {
	const op = "database.postgres.URLRepository.GetByShortCode"

	rec := new(urlRecord)
	query := `SELECT * FROM urls WHERE short_code = $1`

	err := r.db.GetContext(ctx, rec, query, shortCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get url record: %w", op, err)
	}

	return rec.ToURL(), nil
}

// IncrementClickCount bumps click_count by one in a single UPDATE, so
// concurrent increments for the same code never lose updates.
func (r *URLRepository) IncrementClickCount(ctx context.Context, shortCode string) error {
	const op = "database.postgres.URLRepository.IncrementClickCount"

	query := `UPDATE urls
		SET click_count = click_count + 1, updated_at = now()
		WHERE short_code = $1`

	res, err := r.db.ExecContext(ctx, query, shortCode)
	if err != nil {
		return fmt.Errorf("%s: failed to increment click count: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get number of affected rows: %w", op, err)
	}

	if rowsAffected != 1 {
		return fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
	}

	return nil
}

// Deactivate permanently disables the short code. There is no
// reactivation path.
func (r *URLRepository) Deactivate(ctx context.Context, shortCode string) error {
	const op = "database.postgres.URLRepository.Deactivate"

	query := `UPDATE urls
		SET is_active = FALSE, updated_at = now()
		WHERE short_code = $1`

	res, err := r.db.ExecContext(ctx, query, shortCode)
	if err != nil {
		return fmt.Errorf("%s: failed to deactivate url record: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get number of affected rows: %w", op, err)
	}

	if rowsAffected != 1 {
		return fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
	}

	return nil
}
