package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fomosite/api/models"
)

func ptr[T any](v T) *T { return &v }

func pageview(session string, isNew bool) models.AnalyticsEvent {
	return models.AnalyticsEvent{
		ID:           session + "-pv",
		SessionID:    session,
		EventType:    "pageview",
		Timestamp:    time.Now().UTC(),
		IsNewVisitor: isNew,
		IsReturning:  !isNew,
	}
}

func typed(session, eventType string) models.AnalyticsEvent {
	return models.AnalyticsEvent{
		ID:        session + "-" + eventType,
		SessionID: session,
		EventType: eventType,
		Timestamp: time.Now().UTC(),
	}
}

func TestSummarizeEmptyWindow(t *testing.T) {
	stats := Summarize(nil)

	assert.Zero(t, stats.PageViews)
	assert.Zero(t, stats.UniqueSessions)
	assert.Zero(t, stats.ButtonClicks)
	assert.Zero(t, stats.Conversions)
	assert.Zero(t, stats.ConversionRate)
	assert.Zero(t, stats.AvgSessionDuration)
	assert.Zero(t, stats.NewVisitorsPercent)
	assert.Zero(t, stats.DesktopPercent)
	assert.Zero(t, stats.DirectPercent)
	require.NotNil(t, stats.TopCountries)
	require.NotNil(t, stats.TopCities)
	require.NotNil(t, stats.DetailedSources)
	assert.Empty(t, stats.TopCountries)
	assert.Empty(t, stats.TopCities)
	assert.Empty(t, stats.DetailedSources)
}

func TestSummarizeConversionRate(t *testing.T) {
	var events []models.AnalyticsEvent
	for i := 0; i < 10; i++ {
		events = append(events, pageview(fmt.Sprintf("s%d", i), true))
	}
	for i := 0; i < 3; i++ {
		events = append(events, typed(fmt.Sprintf("s%d", i), "conversion"))
	}

	stats := Summarize(events)

	assert.Equal(t, 10, stats.UniqueSessions)
	assert.Equal(t, 10, stats.PageViews)
	assert.Equal(t, 3, stats.Conversions)
	assert.Equal(t, 30.0, stats.ConversionRate)
}

func TestSummarizeEventTypeCounts(t *testing.T) {
	events := []models.AnalyticsEvent{
		pageview("a", true),
		pageview("a", false),
		typed("a", "click"),
		typed("a", "click"),
		typed("a", "conversion"),
		typed("a", "scroll"), // unrecognized types still count toward sessions/devices
	}

	stats := Summarize(events)

	assert.Equal(t, 2, stats.PageViews)
	assert.Equal(t, 2, stats.ButtonClicks)
	assert.Equal(t, 1, stats.Conversions)
	assert.Equal(t, 1, stats.UniqueSessions)
}

func TestSummarizeVisitorSplitCountsPageviewsOnly(t *testing.T) {
	events := []models.AnalyticsEvent{
		pageview("a", true),
		pageview("b", true),
		pageview("c", true),
		pageview("d", false),
	}
	// Clicks carry visitor flags too but must not move the split.
	click := typed("d", "click")
	click.IsReturning = true
	events = append(events, click)

	stats := Summarize(events)

	assert.Equal(t, 3, stats.NewVisitors)
	assert.Equal(t, 1, stats.ReturningVisitors)
	assert.Equal(t, 75.0, stats.NewVisitorsPercent)
	assert.Equal(t, 25.0, stats.ReturningVisitorsPercent)
}

func TestSummarizeVisitorSplitZeroWhenNoPageviews(t *testing.T) {
	stats := Summarize([]models.AnalyticsEvent{typed("a", "click")})

	assert.Zero(t, stats.NewVisitors)
	assert.Zero(t, stats.ReturningVisitors)
	assert.Zero(t, stats.NewVisitorsPercent)
	assert.Zero(t, stats.ReturningVisitorsPercent)
}

func TestSummarizeDeviceSplitOverAllEvents(t *testing.T) {
	mk := func(session, eventType, device string) models.AnalyticsEvent {
		ev := typed(session, eventType)
		ev.DeviceType = ptr(device)
		return ev
	}
	events := []models.AnalyticsEvent{
		mk("a", "pageview", DeviceDesktop),
		mk("a", "click", DeviceDesktop),
		mk("b", "pageview", DeviceMobile),
		mk("c", "pageview", DeviceTablet),
		typed("d", "pageview"), // no device recorded, tallied as desktop
	}

	stats := Summarize(events)

	assert.Equal(t, 3, stats.DesktopVisitors)
	assert.Equal(t, 1, stats.MobileVisitors)
	assert.Equal(t, 1, stats.TabletVisitors)
	assert.Equal(t, 60.0, stats.DesktopPercent)
	assert.Equal(t, 20.0, stats.MobilePercent)
	assert.Equal(t, 20.0, stats.TabletPercent)

	sum := stats.DesktopPercent + stats.MobilePercent + stats.TabletPercent
	assert.InDelta(t, 100.0, sum, 0.03)
}

func TestSummarizeAvgSessionDuration(t *testing.T) {
	a := pageview("a", true)
	a.SessionDuration = ptr(int32(30))
	b := pageview("b", true)
	b.SessionDuration = ptr(int32(61))
	c := pageview("c", true) // no duration

	stats := Summarize([]models.AnalyticsEvent{a, b, c})
	assert.Equal(t, 45, stats.AvgSessionDuration) // integer mean, truncated

	stats = Summarize([]models.AnalyticsEvent{c})
	assert.Zero(t, stats.AvgSessionDuration)
}

func TestSummarizeGeographyTopTen(t *testing.T) {
	var events []models.AnalyticsEvent
	// 12 countries, country-0 seen 12 times, country-11 once.
	for i := 0; i < 12; i++ {
		for j := 0; j <= 12-i-1; j++ {
			ev := pageview(fmt.Sprintf("s%d-%d", i, j), true)
			ev.Country = ptr(fmt.Sprintf("country-%d", i))
			ev.City = ptr(fmt.Sprintf("city-%d", i))
			events = append(events, ev)
		}
	}
	// Unknown must never appear in the lists.
	unknown := pageview("u", true)
	unknown.Country = ptr("Unknown")
	unknown.City = ptr("Unknown")
	events = append(events, unknown)

	stats := Summarize(events)

	require.Len(t, stats.TopCountries, 10)
	require.Len(t, stats.TopCities, 10)
	assert.Equal(t, "country-0", stats.TopCountries[0].Name)
	assert.Equal(t, 12, stats.TopCountries[0].Count)
	for i := 1; i < len(stats.TopCountries); i++ {
		assert.GreaterOrEqual(t, stats.TopCountries[i-1].Count, stats.TopCountries[i].Count)
	}
	for _, entry := range stats.TopCountries {
		assert.NotEqual(t, "Unknown", entry.Name)
	}
}

func TestSummarizeTopListTiesKeepFirstSeenOrder(t *testing.T) {
	mk := func(session, country string) models.AnalyticsEvent {
		ev := pageview(session, true)
		ev.Country = ptr(country)
		return ev
	}
	events := []models.AnalyticsEvent{
		mk("a", "Sweden"),
		mk("b", "Germany"),
		mk("c", "Ireland"),
		mk("d", "Ireland"),
	}

	stats := Summarize(events)

	require.Len(t, stats.TopCountries, 3)
	assert.Equal(t, "Ireland", stats.TopCountries[0].Name)
	// Sweden and Germany both count 1; Sweden was seen first.
	assert.Equal(t, "Sweden", stats.TopCountries[1].Name)
	assert.Equal(t, "Germany", stats.TopCountries[2].Name)
}

func TestSummarizeTrafficSources(t *testing.T) {
	mk := func(session, source, detail string) models.AnalyticsEvent {
		ev := pageview(session, true)
		ev.TrafficSource = ptr(source)
		ev.SourceDetail = ptr(detail)
		return ev
	}
	events := []models.AnalyticsEvent{
		mk("a", SourceDirect, "Direct"),
		mk("b", SourceDirect, "Direct"),
		mk("c", SourceSearch, "Google"),
		mk("d", SourceReferral, "vercel.com"),
	}

	stats := Summarize(events)

	assert.Equal(t, 2, stats.DirectTraffic)
	assert.Equal(t, 1, stats.SearchTraffic)
	assert.Equal(t, 1, stats.ReferralTraffic)
	assert.Equal(t, 50.0, stats.DirectPercent)
	assert.Equal(t, 25.0, stats.SearchPercent)
	assert.Equal(t, 25.0, stats.ReferralPercent)

	require.Len(t, stats.DetailedSources, 3)
	assert.Equal(t, models.SourceCount{Source: "Direct", Count: 2, Percent: 50.0}, stats.DetailedSources[0])
}

func TestSummarizeIsDeterministic(t *testing.T) {
	var events []models.AnalyticsEvent
	for i := 0; i < 25; i++ {
		ev := pageview(fmt.Sprintf("s%d", i%7), i%3 == 0)
		ev.Country = ptr(fmt.Sprintf("country-%d", i%5))
		ev.TrafficSource = ptr(SourceReferral)
		ev.SourceDetail = ptr(fmt.Sprintf("site-%d.example", i%4))
		events = append(events, ev)
	}

	first := Summarize(events)
	second := Summarize(events)

	assert.Equal(t, first, second)
}
