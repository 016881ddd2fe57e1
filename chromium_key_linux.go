//go:build linux && !android

package locationsharinglib

import (
	"fmt"
	"strings"
	"time"
)

// On Linux, v10 values are keyed by the hardcoded "peanuts" password and v11
// values by the browser's Safe Storage secret in the session keyring.
func chromiumDecryptor(vendor chromiumVendor, _ []chromiumStore, timeout time.Duration) (decryptFunc, []string) {
	var warnings []string

	password, err := keyringPassword(vendor.safeStorageService, vendor.safeStorageAccount, timeout)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("%s safe storage password unavailable, v11 cookies will be skipped: %v", vendor.label, err))
	}
	password = strings.TrimSpace(password)

	v10Key := deriveChromiumKey("peanuts", chromiumKDFIterLinux)
	emptyKey := deriveChromiumKey("", chromiumKDFIterLinux)
	v11Key := deriveChromiumKey(password, chromiumKDFIterLinux)

	return func(encrypted []byte, metaVersion int64) ([]byte, bool) {
		if len(encrypted) < 3 {
			return nil, false
		}
		var keys [][]byte
		switch string(encrypted[:3]) {
		case "v10":
			keys = [][]byte{v10Key, emptyKey}
		case "v11":
			keys = [][]byte{v11Key, emptyKey}
		default:
			return nil, false
		}
		for _, key := range keys {
			if plain, err := decryptChromiumCBC(encrypted, key, metaVersion); err == nil {
				return plain, true
			}
		}
		return nil, false
	}, warnings
}
