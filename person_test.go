package locationsharinglib

import (
	"testing"
	"time"
)

// sampleEntryJSON is one shared-person entry in the endpoint's positional
// shape, with identity at [6], position data at [1], and battery at [13].
const sampleEntryJSON = `[
	null,
	[null, [null, 10.123456, 45.654321], 1700000000000, 15, "123 Sample Street", null, "US"],
	null, null, null, null,
	["id123", "url", "John Doe", "Johnny"],
	null, null, null, null, null, null,
	[true, 87]
]`

func TestDecodePerson_FullEntry(t *testing.T) {
	p := decodePerson(decodeJSON(t, sampleEntryJSON))

	if p.ID != "id123" || p.PictureURL != "url" || p.FullName != "John Doe" || p.Nickname != "Johnny" {
		t.Fatalf("identity: %+v", p)
	}
	if p.Latitude == nil || *p.Latitude != 45.654321 {
		t.Fatalf("latitude: %v", p.Latitude)
	}
	if p.Longitude == nil || *p.Longitude != 10.123456 {
		t.Fatalf("longitude: %v", p.Longitude)
	}
	if p.Timestamp == nil || *p.Timestamp != 1700000000000 {
		t.Fatalf("timestamp: %v", p.Timestamp)
	}
	if p.Accuracy == nil || *p.Accuracy != 15 {
		t.Fatalf("accuracy: %v", p.Accuracy)
	}
	if p.Address == nil || *p.Address != "123 Sample Street" {
		t.Fatalf("address: %v", p.Address)
	}
	if p.CountryCode == nil || *p.CountryCode != "US" {
		t.Fatalf("country: %v", p.CountryCode)
	}
	if p.Charging == nil || !*p.Charging {
		t.Fatalf("charging: %v", p.Charging)
	}
	if p.BatteryLevel == nil || *p.BatteryLevel != 87 {
		t.Fatalf("battery: %v", p.BatteryLevel)
	}

	when, ok := p.When()
	if !ok || !when.Equal(time.UnixMilli(1700000000000).UTC()) {
		t.Fatalf("when: %v, %v", when, ok)
	}
}

func TestDecodePerson_StringCoercions(t *testing.T) {
	entry := decodeJSON(t, `[
		null,
		[null, [null, "10.5", "45.5"], "1700000000000", null, null, null, null],
		null, null, null, null,
		["id", null, null, null],
		null, null, null, null, null, null,
		["true", "87"]
	]`)
	p := decodePerson(entry)

	if p.Latitude == nil || *p.Latitude != 45.5 {
		t.Fatalf("latitude from string: %v", p.Latitude)
	}
	if p.Longitude == nil || *p.Longitude != 10.5 {
		t.Fatalf("longitude from string: %v", p.Longitude)
	}
	if p.Charging == nil || !*p.Charging {
		t.Fatalf("charging from string: %v", p.Charging)
	}
	if p.BatteryLevel == nil || *p.BatteryLevel != 87 {
		t.Fatalf("battery from string: %v", p.BatteryLevel)
	}
}

func TestDecodePerson_DegradesToNilFields(t *testing.T) {
	for _, entry := range []string{
		`[]`,
		`null`,
		`"not an array"`,
		`[null, "position is a string", null, null, null, null, ["id"], null, null, null, null, null, null, "battery is a string"]`,
	} {
		p := decodePerson(decodeJSON(t, entry))
		if p.Latitude != nil || p.Longitude != nil || p.Timestamp != nil ||
			p.Accuracy != nil || p.Address != nil || p.CountryCode != nil ||
			p.Charging != nil || p.BatteryLevel != nil {
			t.Fatalf("entry %s: expected all-nil optional fields, got %+v", entry, p)
		}
		if p.ID == "" {
			t.Fatalf("entry %s: id must never be empty", entry)
		}
	}
}

func TestDecodePerson_IDFallbacks(t *testing.T) {
	withName := decodeJSON(t, `[null, null, null, null, null, null, ["", null, "Jane Roe", null]]`)
	if p := decodePerson(withName); p.ID != "Jane Roe" {
		t.Fatalf("empty id should fall back to full name, got %q", p.ID)
	}

	// With neither id nor full name, a fresh token is generated; it is not
	// stable across decodes.
	anonymous := decodeJSON(t, `[null, null, null, null, null, null, ["", null, "", null]]`)
	first := decodePerson(anonymous)
	second := decodePerson(anonymous)
	if first.ID == "" || second.ID == "" {
		t.Fatalf("generated ids must be non-empty")
	}
	if first.ID == second.ID {
		t.Fatalf("generated ids should differ across decodes")
	}
}

func TestDecodePerson_Idempotent(t *testing.T) {
	entry := decodeJSON(t, sampleEntryJSON)
	a := decodePerson(entry)
	b := decodePerson(entry)

	if a.ID != b.ID || a.FullName != b.FullName || a.Nickname != b.Nickname {
		t.Fatalf("identity differs: %+v vs %+v", a, b)
	}
	if *a.Latitude != *b.Latitude || *a.Longitude != *b.Longitude || *a.Timestamp != *b.Timestamp {
		t.Fatalf("position differs: %+v vs %+v", a, b)
	}
}

func TestSelfEntry(t *testing.T) {
	root := decodeJSON(t, `[[], null, null, null, null, null, "ok", null, null, [null, "https://avatar.example/pic"]]`).([]any)
	p := decodePerson(selfEntry("me@gmail.com", root))

	if p.ID != "me@gmail.com" || p.FullName != "me@gmail.com" || p.Nickname != "me@gmail.com" {
		t.Fatalf("self identity: %+v", p)
	}
	if p.PictureURL != "https://avatar.example/pic" {
		t.Fatalf("avatar: %q", p.PictureURL)
	}

	// No avatar slot at all.
	p = decodePerson(selfEntry("me@gmail.com", []any{}))
	if p.PictureURL != "" {
		t.Fatalf("avatar should be empty, got %q", p.PictureURL)
	}
}

func TestPersonCoordinatesAndString(t *testing.T) {
	p := decodePerson(decodeJSON(t, sampleEntryJSON))
	lat, lon, ok := p.Coordinates()
	if !ok || lat != 45.654321 || lon != 10.123456 {
		t.Fatalf("coordinates: %v %v %v", lat, lon, ok)
	}
	if s := p.String(); s != "John Doe (45.654321, 10.123456)" {
		t.Fatalf("string: %q", s)
	}

	var empty Person
	empty.Nickname = "Johnny"
	if s := empty.String(); s != "Johnny (no position)" {
		t.Fatalf("string without position: %q", s)
	}
	if _, _, ok := empty.Coordinates(); ok {
		t.Fatalf("coordinates should be absent")
	}
	if _, ok := empty.When(); ok {
		t.Fatalf("timestamp should be absent")
	}
}
