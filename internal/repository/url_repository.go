// Package repository handles data persistence.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/snaplink/snaplink/internal/database"
	"github.com/snaplink/snaplink/internal/models"
)

// ErrShortCodeTaken is returned by Create when the short_code uniqueness
// constraint rejects the insert. Two concurrent allocations can pick the same
// candidate before either insert lands; the constraint arbitrates, and the
// caller retries with a fresh code. This error never reaches API clients.
var ErrShortCodeTaken = errors.New("short code already taken")

// URLRepository defines the interface for URL persistence operations.
type URLRepository interface {
	// Create stores a new URL and returns the created entity.
	// Returns ErrShortCodeTaken if the short code lost an insert race.
	Create(ctx context.Context, create *models.URLCreate) (*models.URL, error)

	// GetByShortCode retrieves a URL by its short code. Implementations may
	// serve this from a cache, so the click counter can be stale or zero.
	GetByShortCode(ctx context.Context, shortCode string) (*models.URL, error)

	// GetStats retrieves a URL by short code with its live click counter.
	// Never served from a cache.
	GetStats(ctx context.Context, shortCode string) (*models.URL, error)

	// GetByID retrieves a URL by its ID.
	GetByID(ctx context.Context, id int64) (*models.URL, error)

	// GetByIDForUser retrieves a URL by ID scoped to an owner. An existing
	// URL owned by someone else is reported as not found.
	GetByIDForUser(ctx context.Context, id, userID int64) (*models.URL, error)

	// List returns URLs in insertion order with offset/limit pagination.
	List(ctx context.Context, offset, limit int) ([]*models.URL, error)

	// ListByUser returns a user's URLs in insertion order.
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*models.URL, error)

	// UpdateDestination changes the destination of an owned URL. The short
	// code and owner are immutable.
	UpdateDestination(ctx context.Context, id, userID int64, originalURL string) (*models.URL, error)

	// Delete removes a URL by ID.
	Delete(ctx context.Context, id int64) error

	// DeleteForUser removes a URL by ID scoped to an owner.
	DeleteForUser(ctx context.Context, id, userID int64) error

	// IncrementClicks atomically increments the legacy click counter.
	IncrementClicks(ctx context.Context, shortCode string) error

	// Exists checks if a short code already exists.
	Exists(ctx context.Context, shortCode string) (bool, error)

	// HealthCheck verifies the repository is healthy.
	HealthCheck(ctx context.Context) error
}

const urlColumns = `id, original_url, short_code, clicks, created_at, user_id`

// PostgresURLRepository implements URLRepository using PostgreSQL.
type PostgresURLRepository struct {
	pool *database.Pool
}

// NewPostgresURLRepository creates a new PostgreSQL-backed URL repository.
func NewPostgresURLRepository(pool *database.Pool) *PostgresURLRepository {
	return &PostgresURLRepository{pool: pool}
}

// Create stores a new URL.
func (r *PostgresURLRepository) Create(ctx context.Context, create *models.URLCreate) (*models.URL, error) {
	if err := create.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO urls (original_url, short_code, user_id)
		VALUES ($1, $2, $3)
		RETURNING ` + urlColumns

	url, err := scanURL(r.pool.QueryRow(ctx, query, create.OriginalURL, create.ShortCode, create.UserID))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrShortCodeTaken
		}
		return nil, fmt.Errorf("failed to create URL: %w", err)
	}

	return url, nil
}

// GetByShortCode retrieves a URL by its short code.
func (r *PostgresURLRepository) GetByShortCode(ctx context.Context, shortCode string) (*models.URL, error) {
	query := `SELECT ` + urlColumns + ` FROM urls WHERE short_code = $1`

	url, err := scanURL(r.pool.QueryRow(ctx, query, shortCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrURLNotFound
		}
		return nil, fmt.Errorf("failed to get URL: %w", err)
	}

	return url, nil
}

// GetStats retrieves a URL with its live click counter. For the Postgres
// repository every read is live, so this is the same query as GetByShortCode.
func (r *PostgresURLRepository) GetStats(ctx context.Context, shortCode string) (*models.URL, error) {
	return r.GetByShortCode(ctx, shortCode)
}

// GetByID retrieves a URL by its ID.
func (r *PostgresURLRepository) GetByID(ctx context.Context, id int64) (*models.URL, error) {
	query := `SELECT ` + urlColumns + ` FROM urls WHERE id = $1`

	url, err := scanURL(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrURLNotFound
		}
		return nil, fmt.Errorf("failed to get URL: %w", err)
	}

	return url, nil
}

// GetByIDForUser retrieves a URL by ID scoped to an owner.
func (r *PostgresURLRepository) GetByIDForUser(ctx context.Context, id, userID int64) (*models.URL, error) {
	query := `SELECT ` + urlColumns + ` FROM urls WHERE id = $1 AND user_id = $2`

	url, err := scanURL(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrURLNotFound
		}
		return nil, fmt.Errorf("failed to get URL: %w", err)
	}

	return url, nil
}

// List returns URLs in insertion order with offset/limit pagination.
func (r *PostgresURLRepository) List(ctx context.Context, offset, limit int) ([]*models.URL, error) {
	query := `SELECT ` + urlColumns + ` FROM urls ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list URLs: %w", err)
	}
	defer rows.Close()

	return collectURLs(rows)
}

// ListByUser returns a user's URLs in insertion order.
func (r *PostgresURLRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*models.URL, error) {
	query := `SELECT ` + urlColumns + ` FROM urls WHERE user_id = $1 ORDER BY id LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list URLs: %w", err)
	}
	defer rows.Close()

	return collectURLs(rows)
}

// UpdateDestination changes the destination of an owned URL.
func (r *PostgresURLRepository) UpdateDestination(ctx context.Context, id, userID int64, originalURL string) (*models.URL, error) {
	query := `
		UPDATE urls SET original_url = $3
		WHERE id = $1 AND user_id = $2
		RETURNING ` + urlColumns

	url, err := scanURL(r.pool.QueryRow(ctx, query, id, userID, originalURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrURLNotFound
		}
		return nil, fmt.Errorf("failed to update URL: %w", err)
	}

	return url, nil
}

// Delete removes a URL by ID.
func (r *PostgresURLRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM urls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete URL: %w", err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrURLNotFound
	}
	return nil
}

// DeleteForUser removes a URL by ID scoped to an owner.
func (r *PostgresURLRepository) DeleteForUser(ctx context.Context, id, userID int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM urls WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete URL: %w", err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrURLNotFound
	}
	return nil
}

// IncrementClicks atomically increments the legacy click counter.
// The increment happens DB-side so concurrent redirects never lose updates.
func (r *PostgresURLRepository) IncrementClicks(ctx context.Context, shortCode string) error {
	query := `UPDATE urls SET clicks = clicks + 1 WHERE short_code = $1`

	result, err := r.pool.Exec(ctx, query, shortCode)
	if err != nil {
		return fmt.Errorf("failed to increment clicks: %w", err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrURLNotFound
	}
	return nil
}

// Exists checks if a short code already exists.
func (r *PostgresURLRepository) Exists(ctx context.Context, shortCode string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM urls WHERE short_code = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, shortCode).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}

	return exists, nil
}

// HealthCheck verifies the database connection is healthy.
func (r *PostgresURLRepository) HealthCheck(ctx context.Context) error {
	return r.pool.HealthCheck(ctx)
}

// scanURL scans a single URL row.
func scanURL(row pgx.Row) (*models.URL, error) {
	var url models.URL
	err := row.Scan(
		&url.ID,
		&url.OriginalURL,
		&url.ShortCode,
		&url.Clicks,
		&url.CreatedAt,
		&url.UserID,
	)
	if err != nil {
		return nil, err
	}
	return &url, nil
}

// collectURLs scans all URL rows.
func collectURLs(rows pgx.Rows) ([]*models.URL, error) {
	var urls []*models.URL
	for rows.Next() {
		url, err := scanURL(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan URL: %w", err)
		}
		urls = append(urls, url)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate URLs: %w", err)
	}
	return urls, nil
}

// uniqueViolationCode is the PostgreSQL error code for unique constraint violations.
const uniqueViolationCode = "23505"

// isUniqueViolation checks if the error is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// constraintName returns the violated constraint name, if any.
func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
