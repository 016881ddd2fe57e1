//go:build darwin && !ios

package locationsharinglib

import (
	"fmt"
	"strings"
	"time"
)

// On macOS the Safe Storage password lives in the login keychain; reading it
// may prompt the user once per browser.
func chromiumDecryptor(vendor chromiumVendor, _ []chromiumStore, timeout time.Duration) (decryptFunc, []string) {
	password, err := keyringPassword(vendor.safeStorageService, vendor.safeStorageAccount, timeout)
	if err != nil {
		return nil, []string{fmt.Sprintf("%s keychain read failed: %v", vendor.label, err)}
	}
	password = strings.TrimSpace(password)
	if password == "" {
		return nil, []string{fmt.Sprintf("%s keychain returned an empty safe storage password", vendor.label)}
	}

	key := deriveChromiumKey(password, chromiumKDFIterDarwin)
	return func(encrypted []byte, metaVersion int64) ([]byte, bool) {
		// Very old profiles hold unversioned plaintext values.
		if !hasVersionPrefix(encrypted) {
			plain := make([]byte, len(encrypted))
			copy(plain, encrypted)
			return plain, true
		}
		plain, err := decryptChromiumCBC(encrypted, key, metaVersion)
		return plain, err == nil
	}, nil
}
