package services

import (
	"context"

	"github.com/snaplink/snaplink/internal/metrics"
	"github.com/snaplink/snaplink/internal/models"
	"github.com/snaplink/snaplink/internal/repository"
	"github.com/snaplink/snaplink/internal/useragent"
)

// ClickContext carries the request attributes recorded with a redirect.
// Zero-value fields become NULL in storage.
type ClickContext struct {
	IPAddress string
	UserAgent string
	Referrer  string
}

// RedirectResult represents the result of a redirect lookup.
type RedirectResult struct {
	OriginalURL string
	ShortCode   string
}

// RedirectService defines the interface for resolving short links.
type RedirectService interface {
	Redirect(ctx context.Context, shortCode string, click ClickContext) (*RedirectResult, error)
}

// RedirectServiceImpl implements RedirectService.
type RedirectServiceImpl struct {
	urls       repository.URLRepository
	clicks     repository.ClickRepository
	classifier useragent.Classifier
}

// NewRedirectService creates a new RedirectService instance.
func NewRedirectService(urls repository.URLRepository, clicks repository.ClickRepository, classifier useragent.Classifier) *RedirectServiceImpl {
	return &RedirectServiceImpl{
		urls:       urls,
		clicks:     clicks,
		classifier: classifier,
	}
}

// Redirect resolves a short code and records the click. The event append and
// the counter bump both happen before the redirect is returned; a storage
// failure fails the request rather than dropping the write. The event is
// appended first so the counter never runs ahead of the click log.
func (s *RedirectServiceImpl) Redirect(ctx context.Context, shortCode string, click ClickContext) (*RedirectResult, error) {
	url, err := s.urls.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}

	if err := s.recordClick(ctx, url.ID, click); err != nil {
		return nil, err
	}

	if err := s.urls.IncrementClicks(ctx, shortCode); err != nil {
		return nil, err
	}

	metrics.RecordRedirect()

	return &RedirectResult{
		OriginalURL: url.OriginalURL,
		ShortCode:   url.ShortCode,
	}, nil
}

func (s *RedirectServiceImpl) recordClick(ctx context.Context, urlID int64, click ClickContext) error {
	create := &models.ClickCreate{
		URLID:     urlID,
		IPAddress: optional(click.IPAddress),
		UserAgent: optional(click.UserAgent),
		Referrer:  optional(click.Referrer),
	}

	if click.UserAgent != "" {
		c := s.classifier.Classify(click.UserAgent)
		create.DeviceType = c.DeviceType
		create.Browser = c.Browser
	}

	if _, err := s.clicks.Create(ctx, create); err != nil {
		return err
	}

	metrics.RecordClick()
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
