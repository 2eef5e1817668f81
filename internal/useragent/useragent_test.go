package useragent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snaplink/snaplink/internal/models"
)

const (
	uaChromeMac     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaFirefoxLinux  = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
	uaSafariIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1"
	uaSafariIPad    = "Mozilla/5.0 (iPad; CPU OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1"
	uaChromeAndroid = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"
)

func TestParser_Classify(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name        string
		userAgent   string
		wantDevice  string
		wantBrowser string
	}{
		{"desktop chrome", uaChromeMac, models.DeviceDesktop, "Chrome"},
		{"desktop firefox", uaFirefoxLinux, models.DeviceDesktop, "Firefox"},
		{"iphone safari", uaSafariIPhone, models.DeviceMobile, "Safari"},
		{"android chrome", uaChromeAndroid, models.DeviceMobile, "Chrome"},
		{"ipad safari", uaSafariIPad, models.DeviceTablet, "Safari"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := parser.Classify(tt.userAgent)

			require.NotNil(t, c.DeviceType)
			assert.Equal(t, tt.wantDevice, *c.DeviceType)
			require.NotNil(t, c.Browser)
			assert.Equal(t, tt.wantBrowser, *c.Browser)
		})
	}
}

func TestParser_ClassifyUnparseable(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name      string
		userAgent string
	}{
		{"empty", ""},
		{"whitespace", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := parser.Classify(tt.userAgent)
			assert.Nil(t, c.DeviceType)
			assert.Nil(t, c.Browser)
		})
	}
}

func TestParser_ClassifyBot(t *testing.T) {
	parser := NewParser()

	c := parser.Classify("Googlebot/2.1 (+http://www.google.com/bot.html)")
	assert.Nil(t, c.DeviceType, "bots should not be classified as a device")
}
