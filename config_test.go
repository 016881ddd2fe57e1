package locationsharinglib

import "testing"

func TestOptionsFromFile(t *testing.T) {
	path := writeFile(t, "locationsharing.ini", `
[locationsharing]
cookie_file   = /home/me/cookies.txt
email         = me@gmail.com
max_retries   = 5
disable_cache = true
`)

	opts, err := OptionsFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if opts.CookiePath != "/home/me/cookies.txt" || opts.Email != "me@gmail.com" {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.MaxRetries != 5 || !opts.DisableCache {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestOptionsFromFile_BrowserSource(t *testing.T) {
	path := writeFile(t, "locationsharing.ini", `
[locationsharing]
browser = firefox
profile = default-release
email   = me@gmail.com
`)

	opts, err := OptionsFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Browser != BrowserFirefox || opts.Profile != "default-release" {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.MaxRetries != 0 || opts.DisableCache {
		t.Fatalf("absent keys should stay zero: %+v", opts)
	}
}

func TestOptionsFromFile_Missing(t *testing.T) {
	if _, err := OptionsFromFile("/does/not/exist.ini"); err == nil {
		t.Fatal("expected error")
	}
}
