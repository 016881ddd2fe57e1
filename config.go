package locationsharinglib

import (
	"fmt"

	"github.com/go-ini/ini"
)

// OptionsFromFile loads construction options from an INI profile, e.g.
//
//	[locationsharing]
//	cookie_file   = /home/me/.google_maps_location_sharing.cookies
//	email         = me@gmail.com
//	max_retries   = 3
//	disable_cache = false
//
// A browser source can be configured instead of a cookie file:
//
//	[locationsharing]
//	browser = firefox
//	profile = default-release
//	email   = me@gmail.com
//
// Values not present keep their zero value and fall back to the defaults
// applied by New.
func OptionsFromFile(path string) (Options, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return Options{}, fmt.Errorf("loading options file %q: %w", path, err)
	}

	sec := cfg.Section("locationsharing")
	opts := Options{
		CookiePath: sec.Key("cookie_file").String(),
		Browser:    Browser(sec.Key("browser").String()),
		Profile:    sec.Key("profile").String(),
		Email:      sec.Key("email").String(),
	}
	opts.MaxRetries = sec.Key("max_retries").MustInt(0)
	opts.DisableCache = sec.Key("disable_cache").MustBool(false)
	return opts, nil
}
