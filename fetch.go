package locationsharinglib

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// HTTPDoer is the transport used for fetches. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

const locationSharingURL = "https://www.google.com/maps/rpc/locationsharing/read"

// The query string encodes map viewport/rendering parameters. The endpoint
// only answers in the expected shape when these are reproduced verbatim, so
// the raw string is kept as-is rather than built through url.Values (which
// would percent-encode the '!' separators).
const locationSharingQuery = "authuser=2&hl=en&gl=us&pb=" +
	"!1m7!8m6!1m3!1i14!2i8413!3i5385!2i6!3x4095" +
	"!2m3!1e0!2sm!3i407105169!3m7!2sen!5e1105!12m4" +
	"!1e68!2m2!1sset!2sRoadmap!4e1!5m4!1e4!8m2!1e0" +
	"!1e1!6m9!1e12!2i2!26m1!4b1!30m1!1f1.3953487873" +
	"077393!39b1!44e1!50e0!23i4111425"

const (
	backoffBase = 500 * time.Millisecond
	backoffCap  = 10 * time.Second
	// Response bodies carried on errors are truncated to this many bytes.
	errorBodyLimit = 500
)

// Statuses worth another attempt; anything else non-2xx fails immediately.
var transientStatuses = map[int]struct{}{
	http.StatusRequestTimeout:      {},
	http.StatusInternalServerError: {},
	http.StatusBadGateway:          {},
	http.StatusServiceUnavailable:  {},
	http.StatusGatewayTimeout:      {},
}

type fetcher struct {
	client     HTTPDoer
	url        string
	maxRetries int
	logger     *zap.Logger
}

// fetch performs one logical fetch: up to maxRetries GET attempts with capped
// exponential backoff in between, then parses the body into the top-level
// positional array. Caller cancellation aborts immediately with the context's
// error and is never counted as an attempt.
func (f *fetcher) fetch(ctx context.Context) ([]any, error) {
	var lastErr error
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		if attempt > 1 {
			if err := sleepBackoff(ctx, attempt-1); err != nil {
				return nil, err
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		root, retryable, err := f.attempt(ctx)
		if err == nil {
			return root, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
		f.logger.Warn("location fetch attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", f.maxRetries),
			zap.Error(err))
	}
	return nil, fmt.Errorf("%w: retries exhausted: %v", ErrMalformedData, lastErr)
}

// attempt issues a single GET. retryable reports whether the failure is
// transient (network error, timeout, or a status in transientStatuses).
func (f *fetcher) attempt(ctx context.Context) (root []any, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: building request: %v", ErrMalformedData, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		// Connection failures and client-side timeouts are transient;
		// caller cancellation is separated out by fetch.
		return nil, true, fmt.Errorf("%w: transport: %v", ErrMalformedData, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("%w: reading body: %v", ErrMalformedData, err)
	}

	if _, ok := transientStatuses[resp.StatusCode]; ok {
		return nil, true, fmt.Errorf("%w: status %d: %s", ErrMalformedData, resp.StatusCode, truncateBody(body))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("%w: status %d: %s", ErrMalformedData, resp.StatusCode, truncateBody(body))
	}

	root, err = parseResponse(body)
	if err != nil {
		return nil, false, err
	}
	return root, false, nil
}

// parseResponse strips the endpoint's anti-JSON-hijacking prefix and decodes
// the remainder. The prefix (normally ")]}'") is located by its closing
// single quote; when absent, the whole body is decoded as-is.
func parseResponse(body []byte) ([]any, error) {
	payload := string(body)
	if i := strings.IndexByte(payload, '\''); i >= 0 {
		payload = payload[i+1:]
	}

	var v any
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return nil, fmt.Errorf("%w: decoding payload: %v: %s", ErrMalformedData, err, truncateBody(body))
	}
	root, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is not an array: %s", ErrMalformedData, truncateBody(body))
	}
	return root, nil
}

// sleepBackoff waits min(10s, 500ms*2^(n-1) + jitter) after failed attempt n,
// or returns the context's error as soon as the caller cancels.
func sleepBackoff(ctx context.Context, failedAttempt int) error {
	d := backoffBase << (failedAttempt - 1)
	if d > backoffCap || d <= 0 {
		d = backoffCap
	}
	d += time.Duration(rand.Int63n(int64(250 * time.Millisecond)))
	if d > backoffCap {
		d = backoffCap
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func truncateBody(body []byte) string {
	if len(body) > errorBodyLimit {
		body = body[:errorBodyLimit]
	}
	return string(body)
}
