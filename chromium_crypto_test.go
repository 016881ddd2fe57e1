package locationsharinglib

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"testing"
)

func encryptCBC(t *testing.T, plain, key []byte) []byte {
	t.Helper()
	pad := aes.BlockSize - len(plain)%aes.BlockSize
	padded := append(append([]byte{}, plain...), bytes.Repeat([]byte{byte(pad)}, pad)...)

	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatal(err)
	}
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, []byte(chromiumCBCIV)).CryptBlocks(out, padded)
	return append([]byte("v10"), out...)
}

func TestDecryptChromiumCBC_RoundTrip(t *testing.T) {
	key := deriveChromiumKey("peanuts", chromiumKDFIterLinux)
	encrypted := encryptCBC(t, []byte("session-cookie-value"), key)

	plain, err := decryptChromiumCBC(encrypted, key, 23)
	if err != nil {
		t.Fatal(err)
	}
	if string(plain) != "session-cookie-value" {
		t.Fatalf("got %q", plain)
	}
}

func TestDecryptChromiumCBC_WrongKey(t *testing.T) {
	encrypted := encryptCBC(t, []byte("value"), deriveChromiumKey("peanuts", chromiumKDFIterLinux))
	if _, err := decryptChromiumCBC(encrypted, deriveChromiumKey("walnuts", chromiumKDFIterLinux), 23); err == nil {
		t.Fatal("wrong key should fail padding validation")
	}
}

func TestDecryptChromiumCBC_HashPrefixStripped(t *testing.T) {
	key := deriveChromiumKey("peanuts", chromiumKDFIterLinux)
	withHash := append(bytes.Repeat([]byte{0xAB}, chromiumHashPrefixSize), []byte("value")...)
	encrypted := encryptCBC(t, withHash, key)

	plain, err := decryptChromiumCBC(encrypted, key, 24)
	if err != nil {
		t.Fatal(err)
	}
	if string(plain) != "value" {
		t.Fatalf("got %q", plain)
	}
}

func TestDecryptChromiumCBC_MissingPrefix(t *testing.T) {
	if _, err := decryptChromiumCBC([]byte("no prefix here"), deriveChromiumKey("", 1), 0); err == nil {
		t.Fatal("missing version prefix should fail")
	}
}

func TestDecryptChromiumGCM_RoundTrip(t *testing.T) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatal(err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		t.Fatal(err)
	}
	nonce := make([]byte, chromiumGCMNonceLen)
	if _, err := rand.Read(nonce); err != nil {
		t.Fatal(err)
	}
	sealed := aesgcm.Seal(nil, nonce, []byte("gcm-value"), nil)
	encrypted := append(append([]byte("v10"), nonce...), sealed...)

	plain, err := decryptChromiumGCM(encrypted, key, 23)
	if err != nil {
		t.Fatal(err)
	}
	if string(plain) != "gcm-value" {
		t.Fatalf("got %q", plain)
	}

	if _, err := decryptChromiumGCM(encrypted[:10], key, 23); err == nil {
		t.Fatal("truncated input should fail")
	}
}

func TestHasVersionPrefix(t *testing.T) {
	for in, want := range map[string]bool{
		"v10xxxx": true,
		"v99x":    true,
		"v10":     false, // nothing after the prefix
		"x10abc":  false,
		"vvvabc":  false,
		"":        false,
	} {
		if got := hasVersionPrefix([]byte(in)); got != want {
			t.Fatalf("hasVersionPrefix(%q) = %v", in, got)
		}
	}
}

func TestStripPKCS7_Invalid(t *testing.T) {
	if _, err := stripPKCS7([]byte{1, 2, 3, 200}); err == nil {
		t.Fatal("oversized padding length should fail")
	}
	if _, err := stripPKCS7([]byte{2, 2, 3, 2}); err == nil {
		t.Fatal("inconsistent padding bytes should fail")
	}
}

func TestDecodeCookieValue(t *testing.T) {
	if v, ok := decodeCookieValue([]byte{0x01, 0x02, 'a', 'b'}); !ok || v != "ab" {
		t.Fatalf("got %q, %v", v, ok)
	}
	if _, ok := decodeCookieValue([]byte{'a', 0xFF, 0xFE}); ok {
		t.Fatal("invalid utf8 accepted")
	}
}
