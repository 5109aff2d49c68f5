// Seed tool: wipes the event log and fills it with realistic synthetic
// traffic for the last 30 days so development dashboards have data.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"fomosite/api/analytics"
	"fomosite/api/database"
	"fomosite/api/models"
	"fomosite/api/store"
)

type geoWeight struct {
	country string
	city    string
	weight  int
}

var countries = []geoWeight{
	{"Sweden", "Stockholm", 29},
	{"Germany", "Frankfurt am Main", 21},
	{"United States", "San Jose", 6},
	{"United States", "Ashburn", 5},
	{"Ireland", "Dublin", 3},
	{"Japan", "Tokyo", 1},
}

var pages = []string{"/", "/about", "/roadmap", "/team", "/projects", "/partners", "/faq"}

var buttons = [][2]string{
	{"login-btn", "Login"},
	{"signup-btn", "Sign Up"},
	{"launch-btn", "Launch Platform"},
	{"learn-more-btn", "Learn More"},
	{"contact-btn", "Contact Us"},
}

// Referrer mix; repeated empty entries weight toward direct traffic.
var referrers = []string{
	"https://vercel.com/dashboard",
	"https://spyhost.site/listing",
	"https://www.google.com/search?q=fomo+crypto",
	"",
	"",
	"",
}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:122.0) Gecko/20100101 Firefox/122.0",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (Linux; Android 13; SM-S908B) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	chClient, err := database.NewClickHouseDB()
	if err != nil {
		log.Fatalf("Failed to initialize ClickHouse database: %v", err)
	}
	defer chClient.Close()

	analyticsStore := store.NewAnalyticsStore(chClient)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := analyticsStore.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure analytics schema: %v", err)
	}

	cleared, err := analyticsStore.DeleteAllEvents(ctx)
	if err != nil {
		log.Fatalf("Failed to clear existing analytics data: %v", err)
	}
	log.Printf("Cleared %d existing events.", cleared)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	sessionCounter := 0
	total := 0
	for daysAgo := 0; daysAgo < 30; daysAgo++ {
		// More traffic in recent days.
		sessionsPerDay := 2 + rng.Intn(7)
		if daysAgo > 15 {
			sessionsPerDay = 1 + rng.Intn(4)
		}

		for i := 0; i < sessionsPerDay; i++ {
			geo := pickCountry(rng)
			// 90% new visitors, 10% returning.
			isNew := rng.Float64() < 0.9
			sessionID := fmt.Sprintf("session_%d", sessionCounter)
			sessionCounter++

			for _, ev := range generateSession(rng, sessionID, geo, isNew, daysAgo) {
				if err := analyticsStore.InsertEvent(ctx, ev); err != nil {
					log.Fatalf("Failed to insert seed event: %v", err)
				}
				total++
			}
		}
	}

	log.Printf("Seeding complete: %d events across %d sessions spanning 30 days.", total, sessionCounter)
}

func pickCountry(rng *rand.Rand) geoWeight {
	totalWeight := 0
	for _, c := range countries {
		totalWeight += c.weight
	}
	n := rng.Intn(totalWeight)
	for _, c := range countries {
		if n < c.weight {
			return c
		}
		n -= c.weight
	}
	return countries[0]
}

// generateSession builds one browsing session: 1-5 pageviews ten
// seconds apart, the last carrying the session duration, plus the
// occasional clicks and a rare registration conversion.
func generateSession(rng *rand.Rand, sessionID string, geo geoWeight, isNew bool, daysAgo int) []models.AnalyticsEvent {
	var events []models.AnalyticsEvent

	referrer := referrers[rng.Intn(len(referrers))]
	traffic := analytics.ClassifyReferrer(referrer)

	userAgent := userAgents[rng.Intn(len(userAgents))]
	client := analytics.ClassifyUserAgent(userAgent)

	baseTime := time.Now().UTC().
		AddDate(0, 0, -daysAgo).
		Add(-time.Duration(rng.Intn(24)) * time.Hour).
		Add(-time.Duration(rng.Intn(60)) * time.Minute)

	// 20 seconds to 5 minutes.
	sessionDuration := int32(20 + rng.Intn(281))

	base := func(id, eventType string, ts time.Time) models.AnalyticsEvent {
		ip := fmt.Sprintf("%d.%d.%d.%d", 1+rng.Intn(255), 1+rng.Intn(255), 1+rng.Intn(255), 1+rng.Intn(255))
		return models.AnalyticsEvent{
			ID:            id,
			SessionID:     sessionID,
			EventType:     eventType,
			Timestamp:     ts,
			UserAgent:     &userAgent,
			DeviceType:    &client.DeviceType,
			Browser:       &client.Browser,
			OS:            &client.OS,
			Country:       &geo.country,
			City:          &geo.city,
			IPAddress:     &ip,
			Referrer:      &referrer,
			TrafficSource: &traffic.Source,
			SourceDetail:  &traffic.Detail,
		}
	}

	numPageviews := 1 + rng.Intn(5)
	for i := 0; i < numPageviews; i++ {
		page := pages[rng.Intn(len(pages))]
		title := pageTitle(page)

		ev := base(fmt.Sprintf("%s-pv-%d", sessionID, i), "pageview", baseTime.Add(time.Duration(i*10)*time.Second))
		ev.PageURL = &page
		ev.PageTitle = &title
		ev.IsNewVisitor = isNew && i == 0
		ev.IsReturning = !isNew && i == 0
		if i == numPageviews-1 {
			ev.SessionDuration = &sessionDuration
		}
		events = append(events, ev)
	}

	// Some button clicks (30% of sessions).
	if rng.Float64() < 0.3 {
		numClicks := 1 + rng.Intn(3)
		for i := 0; i < numClicks; i++ {
			button := buttons[rng.Intn(len(buttons))]
			page := pages[rng.Intn(len(pages))]

			ev := base(fmt.Sprintf("%s-click-%d", sessionID, i), "click", baseTime.Add(time.Duration(5+rng.Intn(int(sessionDuration)-9))*time.Second))
			ev.ButtonID = &button[0]
			ev.ButtonText = &button[1]
			ev.PageURL = &page
			ev.IsReturning = !isNew
			events = append(events, ev)
		}
	}

	// A registration conversion (5% of sessions).
	if rng.Float64() < 0.05 {
		conversionType := "registration"
		page := "/signup"

		ev := base(sessionID+"-conversion", "conversion", baseTime.Add(time.Duration(30+rng.Intn(int(sessionDuration)))*time.Second))
		ev.ConversionType = &conversionType
		ev.PageURL = &page
		ev.IsReturning = !isNew
		events = append(events, ev)
	}

	return events
}

func pageTitle(page string) string {
	if page == "/" {
		return "FOMO - Home"
	}
	name := page[1:]
	return "FOMO - " + strings.ToUpper(name[:1]) + name[1:]
}
