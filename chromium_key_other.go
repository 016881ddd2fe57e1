//go:build !linux && !darwin && !windows

package locationsharinglib

import "time"

func chromiumDecryptor(vendor chromiumVendor, _ []chromiumStore, _ time.Duration) (decryptFunc, []string) {
	return nil, []string{vendor.label + " cookie decryption unsupported on this OS; only plaintext values are usable"}
}
