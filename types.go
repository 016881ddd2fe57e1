package locationsharinglib

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Browser identifies a local browser cookie store to load session cookies from.
type Browser string

const (
	// BrowserChrome is Google Chrome.
	BrowserChrome Browser = "chrome"
	// BrowserChromium is Chromium.
	BrowserChromium Browser = "chromium"
	// BrowserEdge is Microsoft Edge.
	BrowserEdge Browser = "edge"
	// BrowserBrave is Brave Browser.
	BrowserBrave Browser = "brave"
	// BrowserFirefox is Mozilla Firefox.
	BrowserFirefox Browser = "firefox"
)

// Cookie is one record parsed from a Netscape-format cookie file or a browser
// cookie store. It is consumed once to build the HTTP client's cookie jar and
// not retained afterwards.
type Cookie struct {
	Domain            string
	IncludeSubdomains bool
	Path              string
	Secure            bool
	// Expires is unix seconds; 0 means a session cookie.
	Expires int64
	Name    string
	Value   string
}

// Person is the decoded location record of one shared account, or of the
// authenticated account itself. Pointer fields are nil when the upstream
// payload did not carry the value (or carried it in an unrecognized shape).
type Person struct {
	ID         string
	PictureURL string
	FullName   string
	Nickname   string

	Latitude  *float64
	Longitude *float64
	// Timestamp is milliseconds since the unix epoch.
	Timestamp    *int64
	Accuracy     *int64
	Address      *string
	CountryCode  *string
	Charging     *bool
	BatteryLevel *int64
}

// Coordinates returns the person's position, or ok=false when either
// coordinate is missing.
func (p Person) Coordinates() (lat, lon float64, ok bool) {
	if p.Latitude == nil || p.Longitude == nil {
		return 0, 0, false
	}
	return *p.Latitude, *p.Longitude, true
}

// When converts the millisecond timestamp to an absolute UTC time, or
// ok=false when the timestamp is missing.
func (p Person) When() (time.Time, bool) {
	if p.Timestamp == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*p.Timestamp).UTC(), true
}

func (p Person) String() string {
	name := p.FullName
	if name == "" {
		name = p.Nickname
	}
	if name == "" {
		name = p.ID
	}
	if lat, lon, ok := p.Coordinates(); ok {
		return fmt.Sprintf("%s (%.6f, %.6f)", name, lat, lon)
	}
	return fmt.Sprintf("%s (no position)", name)
}

// Options configures Service construction.
type Options struct {
	// CookiePath is a Netscape-format cookie file containing the session
	// cookies of the authenticating account. Exactly one of CookiePath or
	// Browser must be set.
	CookiePath string

	// Browser loads the session cookies directly from a local browser
	// profile instead of a cookie file.
	Browser Browser

	// Profile overrides browser profile selection. For Chromium-family
	// browsers: a profile name, profile directory, or explicit Cookies DB
	// path. For Firefox: a profile name/dir or explicit cookies.sqlite path.
	Profile string

	// Email identifies the authenticating account. It is only used to
	// synthesize the authenticated person record; it plays no role in
	// authentication itself.
	Email string

	// MaxRetries is the number of HTTP attempts per logical fetch.
	// Defaults to 3 when unset or below 1.
	MaxRetries int

	// DisableCache disables the 30-second response cache.
	DisableCache bool

	// HTTPClient overrides the HTTP client used for fetches. When set,
	// cookie loading still runs (the session cookie names are validated)
	// but the client's own jar is left alone. Intended for testing.
	HTTPClient HTTPDoer

	// Endpoint overrides the location-sharing URL. Intended for testing.
	Endpoint string

	// Logger receives fetch/retry/decode diagnostics. Defaults to a no-op
	// logger.
	Logger *zap.Logger

	// Timeout bounds OS helper calls (keychain/keyring) during browser
	// cookie loading. Defaults to 3s.
	Timeout time.Duration
}
