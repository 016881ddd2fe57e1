package locationsharinglib

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// chromiumVendor carries the per-browser identifiers needed to locate and
// decrypt a Chromium-family cookie store.
type chromiumVendor struct {
	browser Browser
	label   string

	// "Safe Storage" secret identifier in the OS keyring.
	safeStorageService string
	safeStorageAccount string
}

func vendorFor(b Browser) chromiumVendor {
	switch b {
	case BrowserChrome:
		return chromiumVendor{browser: b, label: "Chrome", safeStorageService: "Chrome Safe Storage", safeStorageAccount: "Chrome"}
	case BrowserChromium:
		return chromiumVendor{browser: b, label: "Chromium", safeStorageService: "Chromium Safe Storage", safeStorageAccount: "Chromium"}
	case BrowserEdge:
		return chromiumVendor{browser: b, label: "Microsoft Edge", safeStorageService: "Microsoft Edge Safe Storage", safeStorageAccount: "Microsoft Edge"}
	case BrowserBrave:
		return chromiumVendor{browser: b, label: "Brave", safeStorageService: "Brave Safe Storage", safeStorageAccount: "Brave"}
	default:
		return chromiumVendor{browser: b, label: string(b), safeStorageService: fmt.Sprintf("%s Safe Storage", b), safeStorageAccount: string(b)}
	}
}

type chromiumStore struct {
	cookiesDB string
	userData  string
	profile   string
}

// decryptFunc decrypts one encrypted_value column. ok=false means the value
// could not be recovered and the row is skipped.
type decryptFunc func(encrypted []byte, metaVersion int64) ([]byte, bool)

// readChromiumSessionCookies reads the Google session cookies from a
// Chromium-family profile, decrypting values with the platform's key source.
func readChromiumSessionCookies(ctx context.Context, b Browser, profile string, timeout time.Duration) ([]Cookie, []string, error) {
	vendor := vendorFor(b)
	stores, warnings := chromiumStores(vendor.browser, profile)
	if len(stores) == 0 {
		return nil, warnings, fmt.Errorf("%s cookie store not found", vendor.label)
	}

	decrypt, decryptWarnings := chromiumDecryptor(vendor, stores, timeout)
	warnings = append(warnings, decryptWarnings...)

	var out []Cookie
	for _, st := range stores {
		cookies, err := readChromiumDB(ctx, st, decrypt)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("reading %s: %v", st.cookiesDB, err))
			continue
		}
		out = append(out, cookies...)
	}
	return out, warnings, nil
}

func readChromiumDB(ctx context.Context, st chromiumStore, decrypt decryptFunc) ([]Cookie, error) {
	snap, cleanup, err := snapshotCookieDB(st.cookiesDB)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	db, err := openCookieDB(ctx, snap)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	metaVersion := chromiumMetaVersion(ctx, db)

	nameClause, args := sessionCookieWhereArgs("name")
	query := `SELECT host_key, name, value, encrypted_value, path, expires_utc, is_secure FROM cookies WHERE host_key LIKE '%google.com' AND ` + nameClause
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Cookie
	for rows.Next() {
		var c Cookie
		var encrypted []byte
		var expires, secure sql.NullInt64
		if err := rows.Scan(&c.Domain, &c.Name, &c.Value, &encrypted, &c.Path, &expires, &secure); err != nil {
			return nil, err
		}
		if c.Value == "" && len(encrypted) > 0 && decrypt != nil {
			if plain, ok := decrypt(encrypted, metaVersion); ok {
				if decoded, ok := decodeCookieValue(plain); ok {
					c.Value = decoded
				}
			}
		}
		if c.Value == "" {
			continue
		}
		c.IncludeSubdomains = strings.HasPrefix(c.Domain, ".")
		if expires.Valid {
			c.Expires = chromiumExpiresToUnix(expires.Int64)
		}
		c.Secure = secure.Valid && secure.Int64 == 1
		out = append(out, c)
	}
	return out, rows.Err()
}

func chromiumMetaVersion(ctx context.Context, db *sql.DB) int64 {
	var value string
	if err := db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'version'`).Scan(&value); err != nil {
		return 0
	}
	v, err := parseInt64(value)
	if err != nil {
		return 0
	}
	return v
}

// chromiumExpiresToUnix converts Chromium's microseconds-since-1601 to unix
// seconds; non-positive results degrade to 0 (session cookie).
func chromiumExpiresToUnix(expiresUTC int64) int64 {
	const epochDiffMicros = int64(11644473600000000)
	unixMicros := expiresUTC - epochDiffMicros
	if unixMicros <= 0 {
		return 0
	}
	return unixMicros / 1e6
}

// decodeCookieValue strips leading control bytes some decryption paths leave
// behind and rejects non-UTF-8 garbage.
func decodeCookieValue(b []byte) (string, bool) {
	i := 0
	for i < len(b) && b[i] < 0x20 {
		i++
	}
	b = b[i:]
	if !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

// chromiumStores resolves cookie databases for a browser. profile may be a
// profile name (e.g. "Default"), a profile directory, or an explicit Cookies
// DB path; empty means every profile listed in Local State.
func chromiumStores(b Browser, profile string) ([]chromiumStore, []string) {
	profile = strings.TrimSpace(profile)
	if profile != "" {
		if fi, err := os.Stat(profile); err == nil {
			if fi.IsDir() {
				return storesForProfileDir(filepath.Dir(profile), filepath.Base(profile)), nil
			}
			return []chromiumStore{{
				cookiesDB: profile,
				userData:  chromiumUserDataFromDBPath(profile),
				profile:   filepath.Base(filepath.Dir(profile)),
			}}, nil
		}
	}

	var out []chromiumStore
	var warnings []string
	for _, root := range chromiumUserDataDirs(b) {
		for _, profDir := range chromiumProfileDirs(root) {
			if profile != "" && profDir != profile {
				continue
			}
			out = append(out, storesForProfileDir(root, profDir)...)
		}
	}
	if profile != "" && len(out) == 0 {
		warnings = append(warnings, fmt.Sprintf("profile %q not found", profile))
	}
	return out, warnings
}

// chromiumProfileDirs lists profile directory names from Local State, falling
// back to "Default" when it is missing or unparsable.
func chromiumProfileDirs(userDataDir string) []string {
	stateBytes, err := os.ReadFile(filepath.Join(userDataDir, "Local State"))
	if err != nil {
		return []string{"Default"}
	}
	var localState struct {
		Profile struct {
			InfoCache map[string]json.RawMessage `json:"info_cache"`
		} `json:"profile"`
	}
	if err := json.Unmarshal(stateBytes, &localState); err != nil || len(localState.Profile.InfoCache) == 0 {
		return []string{"Default"}
	}
	out := make([]string, 0, len(localState.Profile.InfoCache))
	for dir := range localState.Profile.InfoCache {
		out = append(out, dir)
	}
	return out
}

func storesForProfileDir(userDataDir, profDir string) []chromiumStore {
	var out []chromiumStore
	for _, p := range []string{
		filepath.Join(userDataDir, profDir, "Network", "Cookies"),
		filepath.Join(userDataDir, profDir, "Cookies"),
	} {
		if fileExists(p) {
			out = append(out, chromiumStore{cookiesDB: p, userData: userDataDir, profile: profDir})
		}
	}
	return out
}

// chromiumUserDataFromDBPath walks up from an explicit Cookies DB path to the
// user-data dir, which holds Local State (needed for the Windows master key).
func chromiumUserDataFromDBPath(dbPath string) string {
	dir := filepath.Dir(dbPath)
	if filepath.Base(dir) == "Network" {
		dir = filepath.Dir(dir)
	}
	return filepath.Dir(dir)
}
