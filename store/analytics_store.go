// api/store/analytics_store.go
package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"fomosite/api/database"
	"fomosite/api/models"
)

type AnalyticsStore struct {
	DB *database.ClickHouseClient
}

func NewAnalyticsStore(chClient *database.ClickHouseClient) *AnalyticsStore {
	return &AnalyticsStore{
		DB: chClient,
	}
}

// Schema v1 of the event log. Events are immutable, so the table only
// ever sees inserts, range reads and the occasional TRUNCATE; any
// future field additions go through a new versioned DDL statement here.
const createEventsTableDDL = `
	CREATE TABLE IF NOT EXISTS analytics_events (
		id String,
		session_id String,
		event_type LowCardinality(String),
		timestamp DateTime('UTC'),
		page_url Nullable(String),
		page_title Nullable(String),
		button_id Nullable(String),
		button_text Nullable(String),
		user_agent Nullable(String),
		device_type Nullable(String),
		browser Nullable(String),
		os Nullable(String),
		country Nullable(String),
		city Nullable(String),
		ip_address Nullable(String),
		referrer Nullable(String),
		traffic_source Nullable(String),
		source_detail Nullable(String),
		session_duration Nullable(Int32),
		is_new_visitor Bool,
		is_returning Bool,
		conversion_type Nullable(String),
		conversion_value Nullable(Float64)
	) ENGINE = MergeTree()
	ORDER BY (timestamp, session_id)
`

// EnsureSchema creates the event table if it does not exist yet.
func (s *AnalyticsStore) EnsureSchema(ctx context.Context) error {
	if err := s.DB.Conn.Exec(ctx, createEventsTableDDL); err != nil {
		return fmt.Errorf("failed to ensure analytics_events table: %w", err)
	}
	return nil
}

// InsertEvent appends one fully-populated event to the log.
func (s *AnalyticsStore) InsertEvent(ctx context.Context, event models.AnalyticsEvent) error {
	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO analytics_events (
			id, session_id, event_type, timestamp, page_url, page_title, button_id, button_text,
			user_agent, device_type, browser, os, country, city, ip_address,
			referrer, traffic_source, source_detail, session_duration,
			is_new_visitor, is_returning, conversion_type, conversion_value
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare event insert: %w", err)
	}

	err = batch.Append(
		event.ID,
		event.SessionID,
		event.EventType,
		event.Timestamp,
		event.PageURL,
		event.PageTitle,
		event.ButtonID,
		event.ButtonText,
		event.UserAgent,
		event.DeviceType,
		event.Browser,
		event.OS,
		event.Country,
		event.City,
		event.IPAddress,
		event.Referrer,
		event.TrafficSource,
		event.SourceDetail,
		event.SessionDuration,
		event.IsNewVisitor,
		event.IsReturning,
		event.ConversionType,
		event.ConversionValue,
	)
	if err != nil {
		return fmt.Errorf("failed to append event %s to batch: %w", event.ID, err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to insert event %s: %w", event.ID, err)
	}
	return nil
}

// HasPageview reports whether any pageview event is already stored for
// the given session. Used at ingest for returning-visitor detection;
// the lookup-then-insert pair is not transactional and concurrent first
// pageviews of one session may both classify as new, which the
// analytics tolerate.
func (s *AnalyticsStore) HasPageview(ctx context.Context, sessionID string) (bool, error) {
	query := `
		SELECT count()
		FROM analytics_events
		WHERE session_id = ? AND event_type = 'pageview'
	`
	var count uint64
	if err := s.DB.Conn.QueryRow(ctx, query, sessionID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to query prior pageviews for session %s: %w", sessionID, err)
	}
	return count > 0, nil
}

// EventsBetween returns all events whose timestamp falls inside
// [start, end], both ends inclusive, in timestamp order.
func (s *AnalyticsStore) EventsBetween(ctx context.Context, start, end time.Time) ([]models.AnalyticsEvent, error) {
	query := `
		SELECT
			id, session_id, event_type, timestamp, page_url, page_title, button_id, button_text,
			user_agent, device_type, browser, os, country, city, ip_address,
			referrer, traffic_source, source_detail, session_duration,
			is_new_visitor, is_returning, conversion_type, conversion_value
		FROM analytics_events
		WHERE timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`
	rows, err := s.DB.Conn.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query events between %s and %s: %w", start, end, err)
	}
	defer rows.Close()

	var events []models.AnalyticsEvent
	for rows.Next() {
		var ev models.AnalyticsEvent
		err := rows.Scan(
			&ev.ID,
			&ev.SessionID,
			&ev.EventType,
			&ev.Timestamp,
			&ev.PageURL,
			&ev.PageTitle,
			&ev.ButtonID,
			&ev.ButtonText,
			&ev.UserAgent,
			&ev.DeviceType,
			&ev.Browser,
			&ev.OS,
			&ev.Country,
			&ev.City,
			&ev.IPAddress,
			&ev.Referrer,
			&ev.TrafficSource,
			&ev.SourceDetail,
			&ev.SessionDuration,
			&ev.IsNewVisitor,
			&ev.IsReturning,
			&ev.ConversionType,
			&ev.ConversionValue,
		)
		if err != nil {
			log.Printf("Error scanning event row: %v", err)
			continue
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during event window query: %w", err)
	}

	return events, nil
}

// DeleteAllEvents irreversibly clears the event log and returns the
// number of events removed. The count and the truncate are two separate
// statements; events ingested between them are deleted but not counted.
func (s *AnalyticsStore) DeleteAllEvents(ctx context.Context) (uint64, error) {
	var count uint64
	if err := s.DB.Conn.QueryRow(ctx, `SELECT count() FROM analytics_events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count events before clear: %w", err)
	}

	if err := s.DB.Conn.Exec(ctx, `TRUNCATE TABLE analytics_events`); err != nil {
		return 0, fmt.Errorf("failed to truncate analytics_events: %w", err)
	}

	log.Printf("Cleared analytics event log: %d events deleted.", count)
	return count, nil
}
