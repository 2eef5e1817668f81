package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/snaplink/snaplink/internal/models"
	"github.com/snaplink/snaplink/internal/repository"
	"github.com/snaplink/snaplink/internal/useragent"
)

// MockURLRepository is a mock implementation of repository.URLRepository.
type MockURLRepository struct {
	mock.Mock
}

func (m *MockURLRepository) Create(ctx context.Context, create *models.URLCreate) (*models.URL, error) {
	args := m.Called(ctx, create)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.URL), args.Error(1)
}

func (m *MockURLRepository) GetByShortCode(ctx context.Context, shortCode string) (*models.URL, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.URL), args.Error(1)
}

func (m *MockURLRepository) GetStats(ctx context.Context, shortCode string) (*models.URL, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.URL), args.Error(1)
}

func (m *MockURLRepository) GetByID(ctx context.Context, id int64) (*models.URL, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.URL), args.Error(1)
}

func (m *MockURLRepository) GetByIDForUser(ctx context.Context, id, userID int64) (*models.URL, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.URL), args.Error(1)
}

func (m *MockURLRepository) List(ctx context.Context, offset, limit int) ([]*models.URL, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.URL), args.Error(1)
}

func (m *MockURLRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*models.URL, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.URL), args.Error(1)
}

func (m *MockURLRepository) UpdateDestination(ctx context.Context, id, userID int64, originalURL string) (*models.URL, error) {
	args := m.Called(ctx, id, userID, originalURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.URL), args.Error(1)
}

func (m *MockURLRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockURLRepository) DeleteForUser(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockURLRepository) IncrementClicks(ctx context.Context, shortCode string) error {
	args := m.Called(ctx, shortCode)
	return args.Error(0)
}

func (m *MockURLRepository) Exists(ctx context.Context, shortCode string) (bool, error) {
	args := m.Called(ctx, shortCode)
	return args.Bool(0), args.Error(1)
}

func (m *MockURLRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockClickRepository is a mock implementation of repository.ClickRepository.
type MockClickRepository struct {
	mock.Mock
}

func (m *MockClickRepository) Create(ctx context.Context, create *models.ClickCreate) (*models.Click, error) {
	args := m.Called(ctx, create)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Click), args.Error(1)
}

func (m *MockClickRepository) ListByURL(ctx context.Context, urlID int64, limit, offset int) ([]*models.Click, error) {
	args := m.Called(ctx, urlID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Click), args.Error(1)
}

func (m *MockClickRepository) CountClicks(ctx context.Context, scope repository.ClickScope, since *time.Time) (int64, error) {
	args := m.Called(ctx, scope, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClickRepository) CountUniqueVisitors(ctx context.Context, scope repository.ClickScope, since time.Time) (int64, error) {
	args := m.Called(ctx, scope, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClickRepository) DeviceBreakdown(ctx context.Context, scope repository.ClickScope, since time.Time) (map[string]int64, error) {
	args := m.Called(ctx, scope, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockClickRepository) BrowserBreakdown(ctx context.Context, scope repository.ClickScope, since time.Time) (map[string]int64, error) {
	args := m.Called(ctx, scope, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockClickRepository) TopReferrers(ctx context.Context, urlID int64, since time.Time, limit int) (map[string]int64, error) {
	args := m.Called(ctx, urlID, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockClickRepository) DailyClicks(ctx context.Context, scope repository.ClickScope, since time.Time) (map[string]int64, error) {
	args := m.Called(ctx, scope, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockClickRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, create *models.UserCreate, passwordHash string) (*models.User, error) {
	args := m.Called(ctx, create, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockGenerator is a mock implementation of shortcode.Generator.
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// stubClassifier returns a fixed classification for every agent.
type stubClassifier struct {
	result useragent.Classification
}

func (s *stubClassifier) Classify(userAgent string) useragent.Classification {
	return s.result
}
