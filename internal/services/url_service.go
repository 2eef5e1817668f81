// Package services contains business logic.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/snaplink/snaplink/internal/metrics"
	"github.com/snaplink/snaplink/internal/models"
	"github.com/snaplink/snaplink/internal/repository"
	"github.com/snaplink/snaplink/internal/shortcode"
)

// insertRetries bounds how many times Create re-allocates after losing the
// check-then-insert race to a concurrent request.
const insertRetries = 3

// CreateURLRequest represents the input for creating a short URL.
type CreateURLRequest struct {
	OriginalURL string
	UserID      *int64
}

// CreateURLResponse represents the result of creating a short URL.
type CreateURLResponse struct {
	ID          int64
	ShortURL    string
	ShortCode   string
	OriginalURL string
	CreatedAt   time.Time
}

// URLService defines the interface for short link management.
type URLService interface {
	Create(ctx context.Context, req CreateURLRequest) (*CreateURLResponse, error)
	Get(ctx context.Context, shortCode string) (*models.URL, error)
	GetForUser(ctx context.Context, id, userID int64) (*models.URL, error)
	ListForUser(ctx context.Context, userID int64, offset, limit int) ([]*models.URL, error)
	UpdateDestination(ctx context.Context, id, userID int64, originalURL string) (*models.URL, error)
	DeleteForUser(ctx context.Context, id, userID int64) error
	ShortURL(shortCode string) string
}

// URLServiceImpl implements URLService.
type URLServiceImpl struct {
	repo      repository.URLRepository
	allocator *shortcode.Allocator
	baseURL   string
}

// NewURLService creates a new URLService instance.
func NewURLService(repo repository.URLRepository, allocator *shortcode.Allocator, baseURL string) *URLServiceImpl {
	return &URLServiceImpl{
		repo:      repo,
		allocator: allocator,
		baseURL:   baseURL,
	}
}

// Create allocates a short code and stores the mapping. When a concurrent
// request claims the same code between the availability check and the insert,
// the unique constraint rejects the insert and a fresh code is allocated.
// Callers never see that arbitration.
func (s *URLServiceImpl) Create(ctx context.Context, req CreateURLRequest) (*CreateURLResponse, error) {
	if err := models.ValidateDestination(req.OriginalURL); err != nil {
		return nil, err
	}

	urlCreate := &models.URLCreate{
		OriginalURL: req.OriginalURL,
		UserID:      req.UserID,
	}

	var url *models.URL
	for attempt := 0; attempt < insertRetries; attempt++ {
		code, err := s.allocator.Allocate(ctx)
		if err != nil {
			return nil, err
		}

		urlCreate.ShortCode = code
		url, err = s.repo.Create(ctx, urlCreate)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrShortCodeTaken) {
			metrics.RecordCollision()
			url = nil
			continue
		}
		return nil, err
	}
	if url == nil {
		return nil, shortcode.ErrAllocationExhausted
	}

	metrics.RecordURLCreated()

	return &CreateURLResponse{
		ID:          url.ID,
		ShortURL:    s.ShortURL(url.ShortCode),
		ShortCode:   url.ShortCode,
		OriginalURL: url.OriginalURL,
		CreatedAt:   url.CreatedAt,
	}, nil
}

// Get retrieves a URL by its short code. Stats responses expose the click
// counter, so the read bypasses any cache in front of the repository.
func (s *URLServiceImpl) Get(ctx context.Context, shortCode string) (*models.URL, error) {
	return s.repo.GetStats(ctx, shortCode)
}

// GetForUser retrieves a URL by ID, scoped to its owner. A URL owned by
// someone else is reported as not found.
func (s *URLServiceImpl) GetForUser(ctx context.Context, id, userID int64) (*models.URL, error) {
	return s.repo.GetByIDForUser(ctx, id, userID)
}

// ListForUser returns a user's URLs ordered by ID.
func (s *URLServiceImpl) ListForUser(ctx context.Context, userID int64, offset, limit int) ([]*models.URL, error) {
	return s.repo.ListByUser(ctx, userID, offset, limit)
}

// UpdateDestination changes where an owned short link points. The short code
// and click counter are untouched.
func (s *URLServiceImpl) UpdateDestination(ctx context.Context, id, userID int64, originalURL string) (*models.URL, error) {
	if err := models.ValidateDestination(originalURL); err != nil {
		return nil, err
	}
	return s.repo.UpdateDestination(ctx, id, userID, originalURL)
}

// DeleteForUser removes an owned short link and its click history.
func (s *URLServiceImpl) DeleteForUser(ctx context.Context, id, userID int64) error {
	return s.repo.DeleteForUser(ctx, id, userID)
}

// ShortURL renders the public short URL for a code.
func (s *URLServiceImpl) ShortURL(shortCode string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, shortCode)
}
