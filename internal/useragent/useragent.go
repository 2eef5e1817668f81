// Package useragent classifies raw User-Agent strings into a device type
// and a browser family for click analytics.
package useragent

import (
	"strings"

	ua "github.com/mileusna/useragent"

	"github.com/snaplink/snaplink/internal/models"
)

// Classification is the best-effort result of parsing a User-Agent string.
// Nil fields mean the attribute could not be determined; classification
// never fails, an unknown agent simply yields nil fields.
type Classification struct {
	DeviceType *string
	Browser    *string
}

// Classifier parses a raw User-Agent string. Implementations must treat
// unparseable input as an empty classification, not an error.
type Classifier interface {
	Classify(userAgent string) Classification
}

// Parser classifies agents using the mileusna/useragent parser.
type Parser struct{}

// NewParser creates the default Classifier.
func NewParser() *Parser {
	return &Parser{}
}

// Classify parses the User-Agent string. Device precedence is
// mobile, then tablet, then desktop; agents that match none of the
// three (bots, unknown clients) are left unclassified.
func (p *Parser) Classify(userAgent string) Classification {
	if strings.TrimSpace(userAgent) == "" {
		return Classification{}
	}

	parsed := ua.Parse(userAgent)

	var c Classification
	switch {
	case parsed.Mobile:
		c.DeviceType = strPtr(models.DeviceMobile)
	case parsed.Tablet:
		c.DeviceType = strPtr(models.DeviceTablet)
	case parsed.Desktop:
		c.DeviceType = strPtr(models.DeviceDesktop)
	}

	if parsed.Name != "" {
		c.Browser = strPtr(parsed.Name)
	}

	return c
}

func strPtr(s string) *string {
	return &s
}
