package locationsharinglib

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Index 6 of the root array holds this literal when Google considers the
// session unauthenticated. Undocumented upstream; matched as an opaque
// observed value, best-effort only.
const unauthenticatedMarker = "GgA="

// perAttemptTimeout bounds a single HTTP attempt so no fetch hangs forever
// even without a caller deadline. Attempts cut off by it are retried.
const perAttemptTimeout = 30 * time.Second

const defaultMaxRetries = 3

// Service answers location queries for the people sharing their position
// with the configured account. Construction validates the session with one
// blocking fetch; a Service that constructed successfully is safe for
// concurrent use.
type Service struct {
	email  string
	logger *zap.Logger
	cache  *rootCache
}

// New builds a Service: loads cookies from the configured source, verifies
// the session cookies are present, performs one fetch and checks it reports
// an authenticated session. The validation fetch honors ctx and primes the
// cache.
func New(ctx context.Context, opts Options) (*Service, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 3 * time.Second
	}
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = locationSharingURL + "?" + locationSharingQuery
	}

	cookies, err := loadCookies(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := validateSessionCookies(cookies); err != nil {
		return nil, err
	}

	client := opts.HTTPClient
	if client == nil {
		client, err = newCookieClient(endpoint, cookies)
		if err != nil {
			return nil, err
		}
	}

	f := &fetcher{
		client:     client,
		url:        endpoint,
		maxRetries: opts.MaxRetries,
		logger:     opts.Logger,
	}
	s := &Service{
		email:  opts.Email,
		logger: opts.Logger,
		cache: &rootCache{
			fetch:    f.fetch,
			disabled: opts.DisableCache,
			now:      time.Now,
		},
	}

	root, err := s.cache.getOrFetch(ctx)
	if err != nil {
		return nil, err
	}
	if v, ok := dig(root, 6); ok {
		if marker, ok := stringVal(v); ok && marker == unauthenticatedMarker {
			return nil, fmt.Errorf("%w: session not authenticated", ErrInvalidCookies)
		}
	}
	return s, nil
}

func loadCookies(ctx context.Context, opts Options) ([]Cookie, error) {
	switch {
	case opts.CookiePath != "":
		return loadCookieFile(opts.CookiePath)
	case opts.Browser != "":
		return loadBrowserCookies(ctx, opts.Browser, opts.Profile, opts.Timeout, opts.Logger)
	default:
		return nil, fmt.Errorf("%w: no cookie source configured", ErrInvalidCookieFile)
	}
}

// newCookieClient builds an HTTP client whose jar carries the parsed cookies
// for the endpoint's host.
func newCookieClient(endpoint string, cookies []Cookie) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: endpoint %q: %v", ErrMalformedData, endpoint, err)
	}

	hc := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		cookie := &http.Cookie{
			Name:   c.Name,
			Value:  c.Value,
			Path:   c.Path,
			Domain: strings.TrimPrefix(c.Domain, "."),
			Secure: c.Secure,
		}
		if c.Expires > 0 {
			cookie.Expires = time.Unix(c.Expires, 0).UTC()
		}
		hc = append(hc, cookie)
	}
	jar.SetCookies(&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}, hc)

	return &http.Client{Jar: jar, Timeout: perAttemptTimeout}, nil
}

// GetSharedPeople returns everyone currently sharing their location with the
// account. Entries the endpoint reshaped beyond recognition decode to mostly
// empty Person values rather than aborting the batch.
func (s *Service) GetSharedPeople(ctx context.Context) ([]Person, error) {
	root, err := s.cache.getOrFetch(ctx)
	if err != nil {
		return nil, err
	}

	shared, ok := dig(root, 0)
	if !ok {
		return nil, nil
	}
	entries, ok := shared.([]any)
	if !ok {
		s.logger.Debug("shared-people slot is not an array")
		return nil, nil
	}

	out := make([]Person, 0, len(entries))
	for i, entry := range entries {
		p := decodePerson(entry)
		s.logger.Debug("decoded shared person", zap.Int("index", i), zap.String("id", p.ID))
		out = append(out, p)
	}
	return out, nil
}

// GetAuthenticatedPerson returns a synthesized record for the account itself,
// which the endpoint does not list among shared people. ok is false when the
// account email is unset or the fetch failed; errors are never propagated.
func (s *Service) GetAuthenticatedPerson(ctx context.Context) (Person, bool) {
	if s.email == "" {
		return Person{}, false
	}
	root, err := s.cache.getOrFetch(ctx)
	if err != nil {
		s.logger.Debug("authenticated person unavailable", zap.Error(err))
		return Person{}, false
	}
	return decodePerson(selfEntry(s.email, root)), true
}

// GetAllPeople returns the shared people followed by the authenticated
// person, when one could be synthesized.
func (s *Service) GetAllPeople(ctx context.Context) ([]Person, error) {
	people, err := s.GetSharedPeople(ctx)
	if err != nil {
		return nil, err
	}
	if self, ok := s.GetAuthenticatedPerson(ctx); ok {
		people = append(people, self)
	}
	return people, nil
}

// GetPersonByNickname returns the first person whose nickname matches
// (case-insensitive exact), or nil when nobody matches.
func (s *Service) GetPersonByNickname(ctx context.Context, nickname string) (*Person, error) {
	return s.findPerson(ctx, func(p Person) bool {
		return strings.EqualFold(p.Nickname, nickname)
	})
}

// GetPersonByFullName returns the first person whose full name matches
// (case-insensitive exact), or nil when nobody matches.
func (s *Service) GetPersonByFullName(ctx context.Context, name string) (*Person, error) {
	return s.findPerson(ctx, func(p Person) bool {
		return strings.EqualFold(p.FullName, name)
	})
}

// GetCoordinatesByNickname projects the matched person's position.
// ok is false when nobody matches or the person has no position.
func (s *Service) GetCoordinatesByNickname(ctx context.Context, nickname string) (lat, lon float64, ok bool, err error) {
	p, err := s.GetPersonByNickname(ctx, nickname)
	if err != nil || p == nil {
		return 0, 0, false, err
	}
	lat, lon, ok = p.Coordinates()
	return lat, lon, ok, nil
}

// GetCoordinatesByFullName projects the matched person's position.
func (s *Service) GetCoordinatesByFullName(ctx context.Context, name string) (lat, lon float64, ok bool, err error) {
	p, err := s.GetPersonByFullName(ctx, name)
	if err != nil || p == nil {
		return 0, 0, false, err
	}
	lat, lon, ok = p.Coordinates()
	return lat, lon, ok, nil
}

// GetLatitudeByNickname projects the matched person's latitude.
func (s *Service) GetLatitudeByNickname(ctx context.Context, nickname string) (float64, bool, error) {
	lat, _, ok, err := s.GetCoordinatesByNickname(ctx, nickname)
	return lat, ok, err
}

// GetLongitudeByNickname projects the matched person's longitude.
func (s *Service) GetLongitudeByNickname(ctx context.Context, nickname string) (float64, bool, error) {
	_, lon, ok, err := s.GetCoordinatesByNickname(ctx, nickname)
	return lon, ok, err
}

// GetLatitudeByFullName projects the matched person's latitude.
func (s *Service) GetLatitudeByFullName(ctx context.Context, name string) (float64, bool, error) {
	lat, _, ok, err := s.GetCoordinatesByFullName(ctx, name)
	return lat, ok, err
}

// GetLongitudeByFullName projects the matched person's longitude.
func (s *Service) GetLongitudeByFullName(ctx context.Context, name string) (float64, bool, error) {
	_, lon, ok, err := s.GetCoordinatesByFullName(ctx, name)
	return lon, ok, err
}

// GetTimestampByNickname projects the matched person's last position time.
func (s *Service) GetTimestampByNickname(ctx context.Context, nickname string) (time.Time, bool, error) {
	p, err := s.GetPersonByNickname(ctx, nickname)
	if err != nil || p == nil {
		return time.Time{}, false, err
	}
	t, ok := p.When()
	return t, ok, nil
}

// GetTimestampByFullName projects the matched person's last position time.
func (s *Service) GetTimestampByFullName(ctx context.Context, name string) (time.Time, bool, error) {
	p, err := s.GetPersonByFullName(ctx, name)
	if err != nil || p == nil {
		return time.Time{}, false, err
	}
	t, ok := p.When()
	return t, ok, nil
}

func (s *Service) findPerson(ctx context.Context, match func(Person) bool) (*Person, error) {
	people, err := s.GetAllPeople(ctx)
	if err != nil {
		return nil, err
	}
	for i := range people {
		if match(people[i]) {
			return &people[i], nil
		}
	}
	return nil, nil
}
