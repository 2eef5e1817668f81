package repository

import (
	"context"

	"github.com/snaplink/snaplink/internal/cache"
	"github.com/snaplink/snaplink/internal/models"
)

// CachedURLRepository wraps a URLRepository with a Redis lookaside cache on
// the short-code path. Cache failures never fail the request; the database
// remains the source of truth.
type CachedURLRepository struct {
	repo  URLRepository
	cache cache.URLCacher
}

// Ensure CachedURLRepository implements URLRepository
var _ URLRepository = (*CachedURLRepository)(nil)

// NewCachedURLRepository creates a new cached URL repository.
func NewCachedURLRepository(repo URLRepository, urlCache cache.URLCacher) *CachedURLRepository {
	return &CachedURLRepository{
		repo:  repo,
		cache: urlCache,
	}
}

// Create stores a new URL in the database and warms the cache.
func (c *CachedURLRepository) Create(ctx context.Context, create *models.URLCreate) (*models.URL, error) {
	url, err := c.repo.Create(ctx, create)
	if err != nil {
		return nil, err
	}

	_ = c.cacheURL(ctx, url)

	return url, nil
}

// GetByShortCode retrieves a URL, checking cache first then falling back to
// the database.
func (c *CachedURLRepository) GetByShortCode(ctx context.Context, shortCode string) (*models.URL, error) {
	cached, err := c.cache.Get(ctx, shortCode)
	if err == nil {
		return cachedToURL(cached), nil
	}

	url, err := c.repo.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}

	_ = c.cacheURL(ctx, url)

	return url, nil
}

// GetStats retrieves a URL with its live click counter. Cache entries do not
// carry the counter, so this always goes to the database.
func (c *CachedURLRepository) GetStats(ctx context.Context, shortCode string) (*models.URL, error) {
	return c.repo.GetStats(ctx, shortCode)
}

// GetByID retrieves a URL by ID from the database. Lookups by ID are
// management operations and not cached.
func (c *CachedURLRepository) GetByID(ctx context.Context, id int64) (*models.URL, error) {
	return c.repo.GetByID(ctx, id)
}

// GetByIDForUser retrieves a URL by ID scoped to its owner.
func (c *CachedURLRepository) GetByIDForUser(ctx context.Context, id, userID int64) (*models.URL, error) {
	return c.repo.GetByIDForUser(ctx, id, userID)
}

// List returns URLs ordered by ID.
func (c *CachedURLRepository) List(ctx context.Context, offset, limit int) ([]*models.URL, error) {
	return c.repo.List(ctx, offset, limit)
}

// ListByUser returns a user's URLs ordered by ID.
func (c *CachedURLRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*models.URL, error) {
	return c.repo.ListByUser(ctx, userID, offset, limit)
}

// UpdateDestination changes a URL's destination and invalidates the stale
// cache entry so the next redirect sees the new target.
func (c *CachedURLRepository) UpdateDestination(ctx context.Context, id, userID int64, originalURL string) (*models.URL, error) {
	url, err := c.repo.UpdateDestination(ctx, id, userID, originalURL)
	if err != nil {
		return nil, err
	}

	_ = c.cache.Delete(ctx, url.ShortCode)

	return url, nil
}

// Delete removes a URL from the database and evicts its cache entry.
func (c *CachedURLRepository) Delete(ctx context.Context, id int64) error {
	url, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := c.repo.Delete(ctx, id); err != nil {
		return err
	}

	_ = c.cache.Delete(ctx, url.ShortCode)

	return nil
}

// DeleteForUser removes an owned URL and evicts its cache entry.
func (c *CachedURLRepository) DeleteForUser(ctx context.Context, id, userID int64) error {
	url, err := c.repo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := c.repo.DeleteForUser(ctx, id, userID); err != nil {
		return err
	}

	_ = c.cache.Delete(ctx, url.ShortCode)

	return nil
}

// IncrementClicks increments the click counter in the database. Counters
// change on every redirect and are not cached.
func (c *CachedURLRepository) IncrementClicks(ctx context.Context, shortCode string) error {
	return c.repo.IncrementClicks(ctx, shortCode)
}

// Exists checks if a short code is taken, checking cache first.
func (c *CachedURLRepository) Exists(ctx context.Context, shortCode string) (bool, error) {
	if _, err := c.cache.Get(ctx, shortCode); err == nil {
		return true, nil
	}
	return c.repo.Exists(ctx, shortCode)
}

// HealthCheck checks both cache and database health.
func (c *CachedURLRepository) HealthCheck(ctx context.Context) error {
	if err := c.cache.Ping(ctx); err != nil {
		return err
	}
	return c.repo.HealthCheck(ctx)
}

func (c *CachedURLRepository) cacheURL(ctx context.Context, url *models.URL) error {
	return c.cache.Set(ctx, &cache.CachedURL{
		ID:          url.ID,
		ShortCode:   url.ShortCode,
		OriginalURL: url.OriginalURL,
		CreatedAt:   url.CreatedAt,
		UserID:      url.UserID,
	})
}

// cachedToURL converts a cache entry back to the model. The click counter is
// not cached; readers that need it use GetStats.
func cachedToURL(cached *cache.CachedURL) *models.URL {
	return &models.URL{
		ID:          cached.ID,
		ShortCode:   cached.ShortCode,
		OriginalURL: cached.OriginalURL,
		CreatedAt:   cached.CreatedAt,
		UserID:      cached.UserID,
	}
}
