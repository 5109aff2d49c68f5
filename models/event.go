// api/models/event.go
package models

import "time"

// AnalyticsEvent is one immutable recorded user action. Events are
// append-only: written once at ingest, never updated, only bulk-cleared.
type AnalyticsEvent struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	EventType string    `json:"event_type"` // pageview, click, conversion, ...
	Timestamp time.Time `json:"timestamp"`  // assigned server-side, UTC

	// Page / interaction context
	PageURL    *string `json:"page_url,omitempty"`
	PageTitle  *string `json:"page_title,omitempty"`
	ButtonID   *string `json:"button_id,omitempty"`
	ButtonText *string `json:"button_text,omitempty"`

	// Client info, derived from the user-agent string at ingest
	UserAgent  *string `json:"user_agent,omitempty"`
	DeviceType *string `json:"device_type,omitempty"` // desktop, mobile, tablet
	Browser    *string `json:"browser,omitempty"`
	OS         *string `json:"os,omitempty"`

	// Location
	Country   *string `json:"country,omitempty"`
	City      *string `json:"city,omitempty"`
	IPAddress *string `json:"ip_address,omitempty"`

	// Traffic source
	Referrer      *string `json:"referrer,omitempty"`
	TrafficSource *string `json:"traffic_source,omitempty"` // direct, referral, search
	SourceDetail  *string `json:"source_detail,omitempty"`  // domain or search engine

	// Timing
	SessionDuration *int32 `json:"session_duration,omitempty"` // seconds, last pageview of a session only

	// Visitor type
	IsNewVisitor bool `json:"is_new_visitor"`
	IsReturning  bool `json:"is_returning"`

	// Conversion tracking
	ConversionType  *string  `json:"conversion_type,omitempty"` // registration, purchase, ...
	ConversionValue *float64 `json:"conversion_value,omitempty"`
}

// TrackRequest is the caller-suppliable subset of an event. Everything
// else (id, timestamp, classification, visitor type, IP) is assigned
// server-side and never trusted from the client.
type TrackRequest struct {
	SessionID       string   `json:"session_id" binding:"required"`
	EventType       string   `json:"event_type" binding:"required"`
	PageURL         *string  `json:"page_url"`
	PageTitle       *string  `json:"page_title"`
	ButtonID        *string  `json:"button_id"`
	ButtonText      *string  `json:"button_text"`
	UserAgent       *string  `json:"user_agent"`
	Referrer        *string  `json:"referrer"`
	SessionDuration *int32   `json:"session_duration"`
	ConversionType  *string  `json:"conversion_type"`
	ConversionValue *float64 `json:"conversion_value"`
}

// NamedCount is one entry of a top-countries / top-cities list.
type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SourceCount is one entry of the detailed traffic-sources list.
type SourceCount struct {
	Source  string  `json:"source"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// AnalyticsStats is the aggregate report over a time window. It is
// computed on demand and discarded after the response; every field is
// always present, zero-valued when the window holds no data.
type AnalyticsStats struct {
	// Overview
	PageViews          int     `json:"page_views"`
	UniqueSessions     int     `json:"unique_sessions"`
	ButtonClicks       int     `json:"button_clicks"`
	Conversions        int     `json:"conversions"`
	ConversionRate     float64 `json:"conversion_rate"`
	AvgSessionDuration int     `json:"avg_session_duration"` // seconds

	// Visitor types (pageview events only)
	NewVisitors              int     `json:"new_visitors"`
	ReturningVisitors        int     `json:"returning_visitors"`
	NewVisitorsPercent       float64 `json:"new_visitors_percent"`
	ReturningVisitorsPercent float64 `json:"returning_visitors_percent"`

	// Devices (all events)
	DesktopVisitors int     `json:"desktop_visitors"`
	MobileVisitors  int     `json:"mobile_visitors"`
	TabletVisitors  int     `json:"tablet_visitors"`
	DesktopPercent  float64 `json:"desktop_percent"`
	MobilePercent   float64 `json:"mobile_percent"`
	TabletPercent   float64 `json:"tablet_percent"`

	// Geography
	TopCountries []NamedCount `json:"top_countries"`
	TopCities    []NamedCount `json:"top_cities"`

	// Traffic sources
	DirectTraffic   int           `json:"direct_traffic"`
	ReferralTraffic int           `json:"referral_traffic"`
	SearchTraffic   int           `json:"search_traffic"`
	DirectPercent   float64       `json:"direct_percent"`
	ReferralPercent float64       `json:"referral_percent"`
	SearchPercent   float64       `json:"search_percent"`
	DetailedSources []SourceCount `json:"detailed_sources"`
}
