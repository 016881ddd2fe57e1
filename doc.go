// Package locationsharinglib retrieves the positions of people sharing their
// location with a Google account, using pre-obtained session cookies.
//
// The location-sharing endpoint is undocumented and answers with a positional
// JSON array rather than a keyed object; this library parses that shape
// defensively and exposes typed Person records with lookup helpers. It is
// intended for local tooling (home automation, presence detection, scripts).
// There is no server component and no authentication flow beyond passing the
// session cookies of an already signed-in account.
package locationsharinglib
