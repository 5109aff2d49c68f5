// api/analytics/aggregate.go
package analytics

import (
	"math"
	"sort"

	"fomosite/api/models"
)

// tally counts occurrences of string keys while remembering the order
// keys were first seen, so descending-count sorts break ties stably.
type tally struct {
	counts map[string]int
	order  []string
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(key string) {
	if _, seen := t.counts[key]; !seen {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

func (t *tally) total() int {
	sum := 0
	for _, c := range t.counts {
		sum += c
	}
	return sum
}

// top returns up to n keys by descending count, ties in first-seen order.
func (t *tally) top(n int) []string {
	keys := make([]string, len(t.order))
	copy(keys, t.order)
	sort.SliceStable(keys, func(i, j int) bool {
		return t.counts[keys[i]] > t.counts[keys[j]]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

// Summarize computes the aggregate stats report from a single linear
// scan over the events of one time window. All tallies are local to the
// call; nothing is cached between invocations, so repeated calls over
// the same events produce identical reports.
//
// Denominators follow the dashboard's established numbers: the visitor
// type split is computed over pageview events only, while device and
// traffic splits are computed over all events.
func Summarize(events []models.AnalyticsEvent) models.AnalyticsStats {
	stats := models.AnalyticsStats{
		TopCountries:    []models.NamedCount{},
		TopCities:       []models.NamedCount{},
		DetailedSources: []models.SourceCount{},
	}
	if len(events) == 0 {
		return stats
	}

	sessions := make(map[string]struct{})
	countries := newTally()
	cities := newTally()
	devices := newTally()
	sources := newTally()
	details := newTally()

	var (
		newVisitors       int
		returningVisitors int
		durationSum       int
		durationCount     int
	)

	for _, ev := range events {
		if ev.SessionID != "" {
			sessions[ev.SessionID] = struct{}{}
		}

		switch ev.EventType {
		case "pageview":
			stats.PageViews++
			if ev.IsNewVisitor {
				newVisitors++
			}
			if ev.IsReturning {
				returningVisitors++
			}
		case "click":
			stats.ButtonClicks++
		case "conversion":
			stats.Conversions++
		}

		if ev.SessionDuration != nil {
			durationSum += int(*ev.SessionDuration)
			durationCount++
		}

		device := DeviceDesktop
		if ev.DeviceType != nil && *ev.DeviceType != "" {
			device = *ev.DeviceType
		}
		devices.add(device)

		if ev.Country != nil && *ev.Country != "Unknown" {
			countries.add(*ev.Country)
		}
		if ev.City != nil && *ev.City != "Unknown" {
			cities.add(*ev.City)
		}

		source := SourceDirect
		if ev.TrafficSource != nil && *ev.TrafficSource != "" {
			source = *ev.TrafficSource
		}
		detail := "Direct"
		if ev.SourceDetail != nil && *ev.SourceDetail != "" {
			detail = *ev.SourceDetail
		}
		sources.add(source)
		details.add(detail)
	}

	stats.UniqueSessions = len(sessions)

	if stats.UniqueSessions > 0 {
		stats.ConversionRate = round2(float64(stats.Conversions) / float64(stats.UniqueSessions) * 100)
	}

	if durationCount > 0 {
		stats.AvgSessionDuration = durationSum / durationCount
	}

	totalVisitors := newVisitors + returningVisitors
	if totalVisitors > 0 {
		stats.NewVisitors = newVisitors
		stats.ReturningVisitors = returningVisitors
		stats.NewVisitorsPercent = round2(float64(newVisitors) / float64(totalVisitors) * 100)
		stats.ReturningVisitorsPercent = round2(float64(returningVisitors) / float64(totalVisitors) * 100)
	}

	totalDevices := devices.total()
	if totalDevices > 0 {
		stats.DesktopVisitors = devices.counts[DeviceDesktop]
		stats.MobileVisitors = devices.counts[DeviceMobile]
		stats.TabletVisitors = devices.counts[DeviceTablet]
		stats.DesktopPercent = round2(float64(stats.DesktopVisitors) / float64(totalDevices) * 100)
		stats.MobilePercent = round2(float64(stats.MobileVisitors) / float64(totalDevices) * 100)
		stats.TabletPercent = round2(float64(stats.TabletVisitors) / float64(totalDevices) * 100)
	}

	for _, name := range countries.top(10) {
		stats.TopCountries = append(stats.TopCountries, models.NamedCount{Name: name, Count: countries.counts[name]})
	}
	for _, name := range cities.top(10) {
		stats.TopCities = append(stats.TopCities, models.NamedCount{Name: name, Count: cities.counts[name]})
	}

	totalTraffic := sources.total()
	if totalTraffic > 0 {
		stats.DirectTraffic = sources.counts[SourceDirect]
		stats.ReferralTraffic = sources.counts[SourceReferral]
		stats.SearchTraffic = sources.counts[SourceSearch]
		stats.DirectPercent = round2(float64(stats.DirectTraffic) / float64(totalTraffic) * 100)
		stats.ReferralPercent = round2(float64(stats.ReferralTraffic) / float64(totalTraffic) * 100)
		stats.SearchPercent = round2(float64(stats.SearchTraffic) / float64(totalTraffic) * 100)

		for _, source := range details.top(10) {
			count := details.counts[source]
			stats.DetailedSources = append(stats.DetailedSources, models.SourceCount{
				Source:  source,
				Count:   count,
				Percent: round2(float64(count) / float64(totalTraffic) * 100),
			})
		}
	}

	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
