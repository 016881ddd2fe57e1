package locationsharinglib

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
)

// readFirefoxSessionCookies reads the Google session cookies from Firefox
// profiles. Firefox stores cookie values in the clear, so no decryption is
// involved. profile may be a profile name, a profile directory, or an
// explicit cookies.sqlite path; empty means every discovered profile.
func readFirefoxSessionCookies(ctx context.Context, profile string) ([]Cookie, []string, error) {
	dbs, warnings := firefoxCookieDBs(profile)
	if len(dbs) == 0 {
		return nil, warnings, fmt.Errorf("firefox cookie store not found")
	}

	var out []Cookie
	for _, dbPath := range dbs {
		cookies, err := readFirefoxDB(ctx, dbPath)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("reading %s: %v", dbPath, err))
			continue
		}
		out = append(out, cookies...)
	}
	return out, warnings, nil
}

// firefoxCookieDBs resolves cookies.sqlite paths, using profiles.ini for
// discovery when no explicit path is given.
func firefoxCookieDBs(profile string) ([]string, []string) {
	profile = strings.TrimSpace(profile)
	if profile != "" {
		if fi, err := os.Stat(profile); err == nil {
			if fi.IsDir() {
				dbPath := filepath.Join(profile, "cookies.sqlite")
				if fileExists(dbPath) {
					return []string{dbPath}, nil
				}
				return nil, []string{fmt.Sprintf("cookies.sqlite not found in %q", profile)}
			}
			return []string{profile}, nil
		}
	}

	var out []string
	for _, root := range firefoxRoots() {
		cfg, err := ini.Load(filepath.Join(root, "profiles.ini"))
		if err != nil {
			continue
		}
		for _, secName := range cfg.SectionStrings() {
			if !strings.HasPrefix(secName, "Profile") {
				continue
			}
			sec := cfg.Section(secName)
			dir := filepath.FromSlash(sec.Key("Path").String())
			if dir == "" {
				continue
			}
			if sec.Key("IsRelative").String() == "1" {
				dir = filepath.Join(root, dir)
			}
			name := sec.Key("Name").String()
			if profile != "" && name != profile && filepath.Base(dir) != profile {
				continue
			}
			dbPath := filepath.Join(dir, "cookies.sqlite")
			if fileExists(dbPath) {
				out = append(out, dbPath)
			}
		}
	}

	if profile != "" && len(out) == 0 {
		return nil, []string{fmt.Sprintf("firefox profile %q not found", profile)}
	}
	return out, nil
}

func readFirefoxDB(ctx context.Context, dbPath string) ([]Cookie, error) {
	snap, cleanup, err := snapshotCookieDB(dbPath)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	db, err := openCookieDB(ctx, snap)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	nameClause, args := sessionCookieWhereArgs("name")
	query := `SELECT host, name, value, path, expiry, isSecure FROM moz_cookies WHERE host LIKE '%google.com' AND ` + nameClause
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Cookie
	for rows.Next() {
		var c Cookie
		var expiry, secure sql.NullInt64
		if err := rows.Scan(&c.Domain, &c.Name, &c.Value, &c.Path, &expiry, &secure); err != nil {
			return nil, err
		}
		c.IncludeSubdomains = strings.HasPrefix(c.Domain, ".")
		if expiry.Valid {
			c.Expires = expiry.Int64
		}
		c.Secure = secure.Valid && secure.Int64 == 1
		out = append(out, c)
	}
	return out, rows.Err()
}
