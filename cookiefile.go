package locationsharinglib

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// The endpoint accepts either of these session cookies; at least one must be
// present for requests to be authenticated.
var sessionCookieNames = []string{"__Secure-1PSID", "__Secure-3PSID"}

// loadCookieFile parses a Netscape-format cookie file: seven tab-separated
// columns `domain flag path secure expiry name value`, comment lines starting
// with '#'. Some exporters separate columns with spaces instead of tabs, so a
// whitespace re-split is tried before a line is given up on; lines still
// short of seven fields are skipped.
func loadCookieFile(path string) ([]Cookie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCookieFile, path, err)
	}
	defer func() { _ = f.Close() }()

	var out []Cookie
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 7 {
			fields = strings.Fields(line)
		}
		if len(fields) < 7 {
			continue
		}
		out = append(out, cookieFromFields(fields))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCookieFile, path, err)
	}
	return out, nil
}

func cookieFromFields(fields []string) Cookie {
	expiry, _ := strconv.ParseInt(strings.TrimSpace(fields[4]), 10, 64)
	return Cookie{
		Domain:            strings.TrimSpace(fields[0]),
		IncludeSubdomains: strings.EqualFold(strings.TrimSpace(fields[1]), "TRUE"),
		Path:              strings.TrimSpace(fields[2]),
		Secure:            strings.EqualFold(strings.TrimSpace(fields[3]), "TRUE"),
		Expires:           expiry,
		Name:              strings.TrimSpace(fields[5]),
		Value:             fields[6],
	}
}

// validateSessionCookies checks that at least one recognized session cookie
// is among the parsed records.
func validateSessionCookies(cookies []Cookie) error {
	for _, c := range cookies {
		for _, name := range sessionCookieNames {
			if c.Name == name {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: none of %v found", ErrInvalidCookies, sessionCookieNames)
}
