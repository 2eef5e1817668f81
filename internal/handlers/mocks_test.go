package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/snaplink/snaplink/internal/models"
	"github.com/snaplink/snaplink/internal/services"
)

// MockURLService is a mock implementation of services.URLService.
type MockURLService struct {
	mock.Mock
}

func (m *MockURLService) Create(ctx context.Context, req services.CreateURLRequest) (*services.CreateURLResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CreateURLResponse), args.Error(1)
}

func (m *MockURLService) Get(ctx context.Context, shortCode string) (*models.URL, error) {
	args := m.Called(ctx, shortCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.URL), args.Error(1)
}

func (m *MockURLService) GetForUser(ctx context.Context, id, userID int64) (*models.URL, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.URL), args.Error(1)
}

func (m *MockURLService) ListForUser(ctx context.Context, userID int64, offset, limit int) ([]*models.URL, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.URL), args.Error(1)
}

func (m *MockURLService) UpdateDestination(ctx context.Context, id, userID int64, originalURL string) (*models.URL, error) {
	args := m.Called(ctx, id, userID, originalURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.URL), args.Error(1)
}

func (m *MockURLService) DeleteForUser(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockURLService) ShortURL(shortCode string) string {
	args := m.Called(shortCode)
	return args.String(0)
}

// MockRedirectService is a mock implementation of services.RedirectService.
type MockRedirectService struct {
	mock.Mock
}

func (m *MockRedirectService) Redirect(ctx context.Context, shortCode string, click services.ClickContext) (*services.RedirectResult, error) {
	args := m.Called(ctx, shortCode, click)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.RedirectResult), args.Error(1)
}

// MockAnalyticsService is a mock implementation of services.AnalyticsService.
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) SummarizeURL(ctx context.Context, shortCode string, days int) (*models.AnalyticsSummary, error) {
	args := m.Called(ctx, shortCode, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnalyticsSummary), args.Error(1)
}

func (m *MockAnalyticsService) SummarizeUser(ctx context.Context, userID int64, days int) (*models.AnalyticsSummary, error) {
	args := m.Called(ctx, userID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnalyticsSummary), args.Error(1)
}

func (m *MockAnalyticsService) SummarizeGlobal(ctx context.Context, days int) (*models.AnalyticsSummary, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnalyticsSummary), args.Error(1)
}

func (m *MockAnalyticsService) CleanupOldClicks(ctx context.Context, daysToKeep int) (int64, error) {
	args := m.Called(ctx, daysToKeep)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserService is a mock implementation of services.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, create *models.UserCreate) (*services.AuthResult, error) {
	args := m.Called(ctx, create)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AuthResult), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, username, password string) (*services.AuthResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AuthResult), args.Error(1)
}

func (m *MockUserService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) DeleteAccount(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
