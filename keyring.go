package locationsharinglib

import (
	"fmt"
	"time"

	"github.com/zalando/go-keyring"
)

// keyringPassword looks up a secret in the OS keyring. go-keyring has no
// context hook and may block on a locked keyring prompt, so the call runs on
// its own goroutine under a deadline.
func keyringPassword(service, account string, timeout time.Duration) (string, error) {
	type result struct {
		pw  string
		err error
	}
	ch := make(chan result, 1)
	go func() {
		pw, err := keyring.Get(service, account)
		ch <- result{pw: pw, err: err}
	}()

	select {
	case r := <-ch:
		return r.pw, r.err
	case <-time.After(timeout):
		return "", fmt.Errorf("keyring lookup for %q timed out after %s", service, timeout)
	}
}
