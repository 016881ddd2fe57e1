package locationsharinglib

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha1" //nolint:gosec // Chromium's PBKDF2 scheme is fixed to SHA1.
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Chromium encrypts cookie values with AES-128-CBC on Linux/macOS, keyed by
// PBKDF2 over the OS "Safe Storage" password (or a hardcoded fallback), and
// with AES-256-GCM under a DPAPI-protected master key on Windows. Values are
// prefixed with a three-byte version marker such as "v10".
const (
	chromiumKDFSalt        = "saltysalt"
	chromiumCBCIV          = "                " // 16 spaces
	chromiumKDFIterLinux   = 1
	chromiumKDFIterDarwin  = 1003
	chromiumCBCKeyLen      = 16
	chromiumGCMNonceLen    = 12
	chromiumHashPrefixSize = 32
)

func deriveChromiumKey(password string, iterations int) []byte {
	return pbkdf2.Key([]byte(password), []byte(chromiumKDFSalt), iterations, chromiumCBCKeyLen, sha1.New)
}

func decryptChromiumCBC(encrypted, key []byte, metaVersion int64) ([]byte, error) {
	if !hasVersionPrefix(encrypted) {
		return nil, errors.New("missing v## prefix")
	}
	ciphertext := encrypted[3:]
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, errors.New("cipher input not full blocks")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, []byte(chromiumCBCIV)).CryptBlocks(out, ciphertext)

	out, err = stripPKCS7(out)
	if err != nil {
		return nil, err
	}
	return stripHashPrefix(out, metaVersion), nil
}

func decryptChromiumGCM(encrypted, key []byte, metaVersion int64) ([]byte, error) {
	if len(encrypted) < 3+chromiumGCMNonceLen+16 {
		return nil, errors.New("encrypted value too short")
	}
	if !hasVersionPrefix(encrypted) {
		return nil, errors.New("missing v## prefix")
	}
	payload := encrypted[3:]

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	plain, err := aesgcm.Open(nil, payload[:chromiumGCMNonceLen], payload[chromiumGCMNonceLen:], nil)
	if err != nil {
		return nil, err
	}
	return stripHashPrefix(plain, metaVersion), nil
}

// Meta schema 24+ prepends a 32-byte domain hash to the plaintext.
func stripHashPrefix(plain []byte, metaVersion int64) []byte {
	if metaVersion >= 24 && len(plain) >= chromiumHashPrefixSize {
		return plain[chromiumHashPrefixSize:]
	}
	return plain
}

func hasVersionPrefix(b []byte) bool {
	return len(b) > 3 && b[0] == 'v' &&
		b[1] >= '0' && b[1] <= '9' && b[2] >= '0' && b[2] <= '9'
}

func stripPKCS7(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return b, nil
	}
	n := int(b[len(b)-1])
	if n <= 0 || n > aes.BlockSize || n > len(b) {
		return nil, fmt.Errorf("invalid padding length: %d", n)
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, errors.New("invalid padding bytes")
		}
	}
	return b[:len(b)-n], nil
}
