package models

import "time"

// Device type labels derived from the User-Agent string.
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
)

// Click represents one immutable redirect event.
// Country and City are reserved for a future geo lookup and are never
// populated by the recorder.
type Click struct {
	ID         int64     `json:"id"`
	URLID      int64     `json:"url_id"`
	ClickedAt  time.Time `json:"clicked_at"`
	IPAddress  *string   `json:"ip_address,omitempty"`
	UserAgent  *string   `json:"user_agent,omitempty"`
	Referrer   *string   `json:"referrer,omitempty"`
	Country    *string   `json:"country,omitempty"`
	City       *string   `json:"city,omitempty"`
	DeviceType *string   `json:"device_type,omitempty"`
	Browser    *string   `json:"browser,omitempty"`
}

// ClickCreate represents the data needed to record a click.
type ClickCreate struct {
	URLID      int64
	IPAddress  *string
	UserAgent  *string
	Referrer   *string
	DeviceType *string
	Browser    *string
}

// AnalyticsSummary is an aggregated view over click events.
// TotalClicks is an all-time count for the scope; every other field is
// bounded by the trailing window of DateRangeDays days.
type AnalyticsSummary struct {
	TotalClicks      int64            `json:"total_clicks"`
	ClicksInRange    int64            `json:"clicks_in_range"`
	UniqueVisitors   int64            `json:"unique_visitors"`
	DateRangeDays    int              `json:"date_range_days"`
	DeviceBreakdown  map[string]int64 `json:"device_breakdown"`
	BrowserBreakdown map[string]int64 `json:"browser_breakdown"`
	TopReferrers     map[string]int64 `json:"top_referrers"`
	DailyClicks      map[string]int64 `json:"daily_clicks"`
}

// NewAnalyticsSummary returns a summary with all maps initialized so a
// scope with zero events marshals to empty objects rather than null.
func NewAnalyticsSummary(days int) *AnalyticsSummary {
	return &AnalyticsSummary{
		DateRangeDays:    days,
		DeviceBreakdown:  make(map[string]int64),
		BrowserBreakdown: make(map[string]int64),
		TopReferrers:     make(map[string]int64),
		DailyClicks:      make(map[string]int64),
	}
}
