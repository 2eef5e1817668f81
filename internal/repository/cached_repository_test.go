package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/snaplink/snaplink/internal/cache"
	"github.com/snaplink/snaplink/internal/models"
)

// fakeURLCacher is an in-memory URLCacher.
type fakeURLCacher struct {
	entries map[string]*cache.CachedURL
	pingErr error
}

func newFakeURLCacher() *fakeURLCacher {
	return &fakeURLCacher{entries: make(map[string]*cache.CachedURL)}
}

func (f *fakeURLCacher) Get(ctx context.Context, shortCode string) (*cache.CachedURL, error) {
	if entry, ok := f.entries[shortCode]; ok {
		return entry, nil
	}
	return nil, cache.ErrCacheMiss
}

func (f *fakeURLCacher) Set(ctx context.Context, url *cache.CachedURL) error {
	f.entries[url.ShortCode] = url
	return nil
}

func (f *fakeURLCacher) Delete(ctx context.Context, shortCode string) error {
	delete(f.entries, shortCode)
	return nil
}

func (f *fakeURLCacher) Ping(ctx context.Context) error {
	return f.pingErr
}

// mockURLRepo is a mock implementation of URLRepository for wrapping.
type mockURLRepo struct {
	mock.Mock
}

func (m *mockURLRepo) Create(ctx context.Context, create *models.URLCreate) (*models.URL, error) {
	args := m.Called(ctx, create)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.URL), args.Error(1)
}

func (m *mockURLRepo) GetByShortCode(ctx context.Context, shortCode string) (*models.URL, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.URL), args.Error(1)
}

func (m *mockURLRepo) GetStats(ctx context.Context, shortCode string) (*models.URL, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.URL), args.Error(1)
}

func (m *mockURLRepo) GetByID(ctx context.Context, id int64) (*models.URL, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.URL), args.Error(1)
}

func (m *mockURLRepo) GetByIDForUser(ctx context.Context, id, userID int64) (*models.URL, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.URL), args.Error(1)
}

func (m *mockURLRepo) List(ctx context.Context, offset, limit int) ([]*models.URL, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.URL), args.Error(1)
}

func (m *mockURLRepo) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*models.URL, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.URL), args.Error(1)
}

func (m *mockURLRepo) UpdateDestination(ctx context.Context, id, userID int64, originalURL string) (*models.URL, error) {
	args := m.Called(ctx, id, userID, originalURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.URL), args.Error(1)
}

func (m *mockURLRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockURLRepo) DeleteForUser(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *mockURLRepo) IncrementClicks(ctx context.Context, shortCode string) error {
	args := m.Called(ctx, shortCode)
	return args.Error(0)
}

func (m *mockURLRepo) Exists(ctx context.Context, shortCode string) (bool, error) {
	args := m.Called(ctx, shortCode)
	return args.Bool(0), args.Error(1)
}

func (m *mockURLRepo) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestCachedURLRepository_GetByShortCode_CacheMiss(t *testing.T) {
	ctx := context.Background()

	repo := new(mockURLRepo)
	repo.On("GetByShortCode", ctx, "aB3xY9qZ").Return(&models.URL{
		ID:          1,
		ShortCode:   "aB3xY9qZ",
		OriginalURL: "https://example.com",
	}, nil).Once()

	cacher := newFakeURLCacher()
	cached := NewCachedURLRepository(repo, cacher)

	url, err := cached.GetByShortCode(ctx, "aB3xY9qZ")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", url.OriginalURL)

	// The miss populated the cache; the second lookup skips the database.
	_, err = cached.GetByShortCode(ctx, "aB3xY9qZ")
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "GetByShortCode", 1)
}

func TestCachedURLRepository_GetStats_SkipsCache(t *testing.T) {
	ctx := context.Background()

	repo := new(mockURLRepo)
	repo.On("GetStats", ctx, "aB3xY9qZ").Return(&models.URL{
		ID:          1,
		ShortCode:   "aB3xY9qZ",
		OriginalURL: "https://example.com",
		Clicks:      3,
	}, nil).Once()

	// Cache entries carry no click counter. A warmed entry must not shadow
	// the counter accumulated by redirects since the warm.
	cacher := newFakeURLCacher()
	cacher.entries["aB3xY9qZ"] = &cache.CachedURL{
		ID:          1,
		ShortCode:   "aB3xY9qZ",
		OriginalURL: "https://example.com",
	}

	cached := NewCachedURLRepository(repo, cacher)

	url, err := cached.GetStats(ctx, "aB3xY9qZ")
	require.NoError(t, err)
	assert.Equal(t, int64(3), url.Clicks)
	repo.AssertNotCalled(t, "GetByShortCode")
}

func TestCachedURLRepository_Create_WarmsCache(t *testing.T) {
	ctx := context.Background()
	userID := int64(7)

	repo := new(mockURLRepo)
	repo.On("Create", ctx, mock.Anything).Return(&models.URL{
		ID:          3,
		ShortCode:   "newCode1",
		OriginalURL: "https://example.com",
		UserID:      &userID,
	}, nil).Once()

	cacher := newFakeURLCacher()
	cached := NewCachedURLRepository(repo, cacher)

	_, err := cached.Create(ctx, &models.URLCreate{OriginalURL: "https://example.com", ShortCode: "newCode1"})
	require.NoError(t, err)

	url, err := cached.GetByShortCode(ctx, "newCode1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), url.ID)
	require.NotNil(t, url.UserID)
	assert.Equal(t, userID, *url.UserID)
	repo.AssertNotCalled(t, "GetByShortCode")
}

func TestCachedURLRepository_UpdateDestination_Invalidates(t *testing.T) {
	ctx := context.Background()

	repo := new(mockURLRepo)
	repo.On("UpdateDestination", ctx, int64(1), int64(7), "https://new.example.com").Return(&models.URL{
		ID:          1,
		ShortCode:   "aB3xY9qZ",
		OriginalURL: "https://new.example.com",
	}, nil).Once()
	repo.On("GetByShortCode", ctx, "aB3xY9qZ").Return(&models.URL{
		ID:          1,
		ShortCode:   "aB3xY9qZ",
		OriginalURL: "https://new.example.com",
	}, nil).Once()

	cacher := newFakeURLCacher()
	cacher.entries["aB3xY9qZ"] = &cache.CachedURL{
		ID:          1,
		ShortCode:   "aB3xY9qZ",
		OriginalURL: "https://stale.example.com",
	}

	cached := NewCachedURLRepository(repo, cacher)

	_, err := cached.UpdateDestination(ctx, 1, 7, "https://new.example.com")
	require.NoError(t, err)

	// The stale entry is gone; the next redirect sees the new target.
	url, err := cached.GetByShortCode(ctx, "aB3xY9qZ")
	require.NoError(t, err)
	assert.Equal(t, "https://new.example.com", url.OriginalURL)
}

func TestCachedURLRepository_DeleteForUser_Evicts(t *testing.T) {
	ctx := context.Background()

	repo := new(mockURLRepo)
	repo.On("GetByIDForUser", ctx, int64(1), int64(7)).Return(&models.URL{
		ID:        1,
		ShortCode: "aB3xY9qZ",
	}, nil).Once()
	repo.On("DeleteForUser", ctx, int64(1), int64(7)).Return(nil).Once()

	cacher := newFakeURLCacher()
	cacher.entries["aB3xY9qZ"] = &cache.CachedURL{ID: 1, ShortCode: "aB3xY9qZ"}

	cached := NewCachedURLRepository(repo, cacher)
	require.NoError(t, cached.DeleteForUser(ctx, 1, 7))
	assert.Empty(t, cacher.entries)
}

func TestCachedURLRepository_DeleteForUser_NotOwned(t *testing.T) {
	ctx := context.Background()

	repo := new(mockURLRepo)
	repo.On("GetByIDForUser", ctx, int64(1), int64(99)).Return(nil, models.ErrURLNotFound).Once()

	cached := NewCachedURLRepository(repo, newFakeURLCacher())
	err := cached.DeleteForUser(ctx, 1, 99)
	assert.ErrorIs(t, err, models.ErrURLNotFound)
	repo.AssertNotCalled(t, "DeleteForUser")
}

func TestCachedURLRepository_Exists_CacheHit(t *testing.T) {
	ctx := context.Background()

	repo := new(mockURLRepo)
	cacher := newFakeURLCacher()
	cacher.entries["aB3xY9qZ"] = &cache.CachedURL{ID: 1, ShortCode: "aB3xY9qZ"}

	cached := NewCachedURLRepository(repo, cacher)
	exists, err := cached.Exists(ctx, "aB3xY9qZ")
	require.NoError(t, err)
	assert.True(t, exists)
	repo.AssertNotCalled(t, "Exists")
}
