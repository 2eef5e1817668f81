package services

import (
	"context"
	"time"

	"github.com/snaplink/snaplink/internal/metrics"
	"github.com/snaplink/snaplink/internal/models"
	"github.com/snaplink/snaplink/internal/repository"
)

// topReferrerLimit caps the referrer ranking in a single-link summary.
const topReferrerLimit = 10

// AnalyticsService defines the interface for click analytics.
type AnalyticsService interface {
	// SummarizeURL aggregates one short link's clicks over a trailing
	// window of days.
	SummarizeURL(ctx context.Context, shortCode string, days int) (*models.AnalyticsSummary, error)

	// SummarizeUser aggregates clicks across all of a user's links.
	SummarizeUser(ctx context.Context, userID int64, days int) (*models.AnalyticsSummary, error)

	// SummarizeGlobal aggregates clicks across every link.
	SummarizeGlobal(ctx context.Context, days int) (*models.AnalyticsSummary, error)

	// CleanupOldClicks deletes click events older than daysToKeep days and
	// returns the exact number removed. Counters on urls are untouched.
	CleanupOldClicks(ctx context.Context, daysToKeep int) (int64, error)
}

// AnalyticsServiceImpl implements AnalyticsService.
type AnalyticsServiceImpl struct {
	urls   repository.URLRepository
	clicks repository.ClickRepository
}

// NewAnalyticsService creates a new AnalyticsService instance.
func NewAnalyticsService(urls repository.URLRepository, clicks repository.ClickRepository) *AnalyticsServiceImpl {
	return &AnalyticsServiceImpl{
		urls:   urls,
		clicks: clicks,
	}
}

// SummarizeURL aggregates one short link's clicks. This is the only scope
// that ranks referrers.
func (s *AnalyticsServiceImpl) SummarizeURL(ctx context.Context, shortCode string, days int) (*models.AnalyticsSummary, error) {
	url, err := s.urls.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}

	scope := repository.ScopeURL(url.ID)
	summary, since, err := s.summarize(ctx, scope, days)
	if err != nil {
		return nil, err
	}

	referrers, err := s.clicks.TopReferrers(ctx, url.ID, since, topReferrerLimit)
	if err != nil {
		return nil, err
	}
	summary.TopReferrers = referrers

	return summary, nil
}

// SummarizeUser aggregates clicks across all of a user's links. TopReferrers
// stays empty for this scope.
func (s *AnalyticsServiceImpl) SummarizeUser(ctx context.Context, userID int64, days int) (*models.AnalyticsSummary, error) {
	summary, _, err := s.summarize(ctx, repository.ScopeUser(userID), days)
	return summary, err
}

// SummarizeGlobal aggregates clicks across every link. TopReferrers stays
// empty for this scope.
func (s *AnalyticsServiceImpl) SummarizeGlobal(ctx context.Context, days int) (*models.AnalyticsSummary, error) {
	summary, _, err := s.summarize(ctx, repository.ScopeGlobal(), days)
	return summary, err
}

// summarize assembles the scope-independent parts of a summary. TotalClicks
// is all-time; everything else is bounded by the window starting at since.
func (s *AnalyticsServiceImpl) summarize(ctx context.Context, scope repository.ClickScope, days int) (*models.AnalyticsSummary, time.Time, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	summary := models.NewAnalyticsSummary(days)

	total, err := s.clicks.CountClicks(ctx, scope, nil)
	if err != nil {
		return nil, since, err
	}
	summary.TotalClicks = total

	inRange, err := s.clicks.CountClicks(ctx, scope, &since)
	if err != nil {
		return nil, since, err
	}
	summary.ClicksInRange = inRange

	visitors, err := s.clicks.CountUniqueVisitors(ctx, scope, since)
	if err != nil {
		return nil, since, err
	}
	summary.UniqueVisitors = visitors

	devices, err := s.clicks.DeviceBreakdown(ctx, scope, since)
	if err != nil {
		return nil, since, err
	}
	summary.DeviceBreakdown = devices

	browsers, err := s.clicks.BrowserBreakdown(ctx, scope, since)
	if err != nil {
		return nil, since, err
	}
	summary.BrowserBreakdown = browsers

	daily, err := s.clicks.DailyClicks(ctx, scope, since)
	if err != nil {
		return nil, since, err
	}
	summary.DailyClicks = daily

	return summary, since, nil
}

// CleanupOldClicks deletes click events past the retention horizon.
func (s *AnalyticsServiceImpl) CleanupOldClicks(ctx context.Context, daysToKeep int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -daysToKeep)
	deleted, err := s.clicks.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	metrics.RecordClicksDeleted(deleted)
	return deleted, nil
}
