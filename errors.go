package locationsharinglib

import "errors"

// ErrInvalidCookieFile is returned when the cookie file is missing or
// unreadable. Fatal at construction.
var ErrInvalidCookieFile = errors.New("locationsharinglib: invalid cookie file")

// ErrInvalidCookies is returned when neither recognized session cookie is
// present, or when the initial fetch indicates the session is not
// authenticated. Fatal at construction.
var ErrInvalidCookies = errors.New("locationsharinglib: invalid session cookies")

// ErrMalformedData is returned when the endpoint's response is not the
// expected JSON-array shape, or when all retry attempts are exhausted.
// Cancellation is never folded into it: a caller-cancelled operation returns
// the context's error instead.
var ErrMalformedData = errors.New("locationsharinglib: malformed response data")
