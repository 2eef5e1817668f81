// Package models contains domain entities and their validation rules.
package models

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// ShortCodeLength is the fixed length of every generated short code.
const ShortCodeLength = 8

// URL represents a shortened URL entity.
type URL struct {
	ID          int64     `json:"id"`
	ShortCode   string    `json:"short_code"`
	OriginalURL string    `json:"original_url"`
	Clicks      int64     `json:"clicks"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      *int64    `json:"user_id,omitempty"`
}

// URLCreate represents the data needed to persist a new URL.
type URLCreate struct {
	OriginalURL string
	ShortCode   string
	UserID      *int64
}

// Validation and lookup errors.
var (
	ErrEmptyURL       = errors.New("url cannot be empty")
	ErrInvalidURL     = errors.New("invalid url format")
	ErrEmptyShortCode = errors.New("short code cannot be empty")
	ErrURLNotFound    = errors.New("url not found")
)

// Validate validates the URLCreate data.
func (c *URLCreate) Validate() error {
	if c.ShortCode == "" {
		return ErrEmptyShortCode
	}
	return ValidateDestination(c.OriginalURL)
}

// ValidateDestination checks that a destination is a non-empty absolute
// http(s) URL.
func ValidateDestination(originalURL string) error {
	if strings.TrimSpace(originalURL) == "" {
		return ErrEmptyURL
	}
	if !isValidURL(originalURL) {
		return ErrInvalidURL
	}
	return nil
}

// isValidURL checks that the string parses as an absolute http(s) URL.
func isValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
