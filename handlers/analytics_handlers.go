// api/handlers/analytics_handlers.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"fomosite/api/analytics"
	"fomosite/api/models"
	"fomosite/api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EventStore is the durable event log the handlers write to and read
// from. Satisfied by store.AnalyticsStore; tests substitute an
// in-memory fake.
type EventStore interface {
	InsertEvent(ctx context.Context, event models.AnalyticsEvent) error
	HasPageview(ctx context.Context, sessionID string) (bool, error)
	EventsBetween(ctx context.Context, start, end time.Time) ([]models.AnalyticsEvent, error)
	DeleteAllEvents(ctx context.Context) (uint64, error)
}

// Geolocator resolves an IP address to a country and city. The API
// itself ships no geolocation; when none is injected every event is
// stored with "Unknown" for both fields.
type Geolocator interface {
	Locate(ip string) (country, city string, ok bool)
}

type AnalyticsHandlers struct {
	Store EventStore
	Geo   Geolocator // optional
}

func NewAnalyticsHandlers(s EventStore, geo Geolocator) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		Store: s,
		Geo:   geo,
	}
}

// TrackEvent ingests one analytics event: validates the input, derives
// device/browser/OS and traffic source, checks for a prior pageview of
// the same session, and appends the finished event to the log.
func (h *AnalyticsHandlers) TrackEvent(c *gin.Context) {
	var req models.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("Error binding incoming analytics JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	userAgentStr := ""
	if req.UserAgent != nil && *req.UserAgent != "" {
		userAgentStr = *req.UserAgent
	} else {
		userAgentStr = c.GetHeader("User-Agent")
	}
	client := analytics.ClassifyUserAgent(userAgentStr)

	referrer := ""
	if req.Referrer != nil {
		referrer = *req.Referrer
	}
	traffic := analytics.ClassifyReferrer(referrer)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	// Prior pageview for this session makes it a returning visit. The
	// lookup and the insert below are deliberately not transactional.
	hasPrior, err := h.Store.HasPageview(ctx, req.SessionID)
	if err != nil {
		log.Printf("Error checking prior pageviews for session %s: %v", req.SessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record analytics event"})
		return
	}

	ipAddress := c.ClientIP()
	country, city := "Unknown", "Unknown"
	if h.Geo != nil {
		if co, ci, ok := h.Geo.Locate(ipAddress); ok {
			country, city = co, ci
		}
	}

	event := models.AnalyticsEvent{
		ID:              uuid.New().String(),
		SessionID:       req.SessionID,
		EventType:       req.EventType,
		Timestamp:       time.Now().UTC(),
		PageURL:         req.PageURL,
		PageTitle:       req.PageTitle,
		ButtonID:        req.ButtonID,
		ButtonText:      req.ButtonText,
		UserAgent:       &userAgentStr,
		DeviceType:      &client.DeviceType,
		Browser:         &client.Browser,
		OS:              &client.OS,
		Country:         &country,
		City:            &city,
		IPAddress:       &ipAddress,
		Referrer:        req.Referrer,
		TrafficSource:   &traffic.Source,
		SourceDetail:    &traffic.Detail,
		SessionDuration: req.SessionDuration,
		IsNewVisitor:    !hasPrior,
		IsReturning:     hasPrior,
		ConversionType:  req.ConversionType,
		ConversionValue: req.ConversionValue,
	}

	if err := h.Store.InsertEvent(ctx, event); err != nil {
		log.Printf("Error inserting analytics event: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record analytics event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "event_id": event.ID})
}

// GetStats returns the aggregate report for the trailing period. The
// whole window is read and folded in one pass; no state survives the
// call, so back-to-back requests over unchanged data return identical
// reports.
func (h *AnalyticsHandlers) GetStats(c *gin.Context) {
	days, err := utils.ParsePeriodDays(c.DefaultQuery("period", "30"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'period' parameter. Must be a positive integer number of days."})
		return
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	events, err := h.Store.EventsBetween(ctx, start, end)
	if err != nil {
		log.Printf("Error reading events for stats window (%d days): %v", days, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve analytics statistics"})
		return
	}

	c.JSON(http.StatusOK, analytics.Summarize(events))
}

// ClearEvents wipes the entire event log. Destructive and admin-gated;
// there is no undo.
func (h *AnalyticsHandlers) ClearEvents(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	deleted, err := h.Store.DeleteAllEvents(ctx)
	if err != nil {
		log.Printf("Error clearing analytics events: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear analytics data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "deleted_count": deleted})
}
