package locationsharinglib

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// loadBrowserCookies pulls the Google session cookies straight out of a local
// browser profile, as an alternative to exporting a cookie file by hand. Only
// the two recognized session cookie names on google.com hosts are read.
func loadBrowserCookies(ctx context.Context, b Browser, profile string, timeout time.Duration, logger *zap.Logger) ([]Cookie, error) {
	var (
		cookies  []Cookie
		warnings []string
		err      error
	)
	switch b {
	case BrowserFirefox:
		cookies, warnings, err = readFirefoxSessionCookies(ctx, profile)
	case BrowserChrome, BrowserChromium, BrowserEdge, BrowserBrave:
		cookies, warnings, err = readChromiumSessionCookies(ctx, b, profile, timeout)
	default:
		return nil, fmt.Errorf("%w: unsupported browser %q", ErrInvalidCookieFile, b)
	}

	for _, w := range warnings {
		logger.Warn("browser cookie source", zap.String("browser", string(b)), zap.String("warning", w))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCookieFile, b, err)
	}
	return freshCookies(cookies), nil
}

// freshCookies drops expired records. Session cookies (expiry 0) are kept.
func freshCookies(cookies []Cookie) []Cookie {
	now := time.Now().Unix()
	out := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		if c.Expires != 0 && c.Expires < now {
			continue
		}
		out = append(out, c)
	}
	return out
}
