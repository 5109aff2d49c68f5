// api/analytics/classify.go
package analytics

import (
	"net/url"
	"strings"

	"github.com/mileusna/useragent"
)

// Device and traffic-source values stored on events.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"

	SourceDirect   = "direct"
	SourceReferral = "referral"
	SourceSearch   = "search"
)

// searchEngines are matched against the referrer in this order; the
// first engine whose name appears anywhere in the referrer wins.
var searchEngines = []string{"google", "bing", "yahoo", "duckduckgo", "yandex", "baidu"}

// ClientInfo is the device/browser/OS classification of a user-agent
// string. Fallback is true when nothing could be parsed and the default
// triple was substituted, so callers can tell "classified" from
// "defaulted" without comparing against the "Unknown" sentinel.
type ClientInfo struct {
	DeviceType string
	Browser    string
	OS         string
	Fallback   bool
}

// TrafficInfo is the traffic-source classification of a referrer.
type TrafficInfo struct {
	Source string // direct, referral or search
	Detail string // "Direct", the search engine name, or the referring domain
}

// ClassifyUserAgent extracts device type, browser and OS from a raw
// user-agent string. Parsing is best effort and never fails: an empty
// or unrecognizable string yields (desktop, Unknown, Unknown) with
// Fallback set.
func ClassifyUserAgent(uaString string) ClientInfo {
	if strings.TrimSpace(uaString) == "" {
		return ClientInfo{DeviceType: DeviceDesktop, Browser: "Unknown", OS: "Unknown", Fallback: true}
	}

	ua := useragent.Parse(uaString)
	if ua.Name == "" && ua.OS == "" && !ua.Mobile && !ua.Tablet {
		return ClientInfo{DeviceType: DeviceDesktop, Browser: "Unknown", OS: "Unknown", Fallback: true}
	}

	deviceType := DeviceDesktop
	switch {
	case ua.Mobile:
		deviceType = DeviceMobile
	case ua.Tablet:
		deviceType = DeviceTablet
	}

	browser := ua.Name
	if browser == "" {
		browser = "Unknown"
	}
	osName := ua.OS
	if osName == "" {
		osName = "Unknown"
	}

	return ClientInfo{DeviceType: deviceType, Browser: browser, OS: osName}
}

// ClassifyReferrer maps a referrer string to a traffic source. An empty
// referrer is direct traffic; a referrer mentioning a known search
// engine is search traffic attributed to that engine; anything else is
// referral traffic attributed to the referring domain, or to the raw
// referrer text when it has no parseable host.
func ClassifyReferrer(referrer string) TrafficInfo {
	if referrer == "" {
		return TrafficInfo{Source: SourceDirect, Detail: "Direct"}
	}

	lower := strings.ToLower(referrer)
	for _, engine := range searchEngines {
		if strings.Contains(lower, engine) {
			return TrafficInfo{Source: SourceSearch, Detail: titleCase(engine)}
		}
	}

	if u, err := url.Parse(referrer); err == nil && u.Host != "" {
		return TrafficInfo{Source: SourceReferral, Detail: u.Host}
	}
	return TrafficInfo{Source: SourceReferral, Detail: referrer}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
