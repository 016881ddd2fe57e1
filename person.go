package locationsharinglib

import "github.com/google/uuid"

// Positional offsets of Person fields within one entry of the shared-people
// array. Kept together as data so schema drift in the upstream payload is
// audited in one place.
var (
	offsetID         = []int{6, 0}
	offsetPictureURL = []int{6, 1}
	offsetFullName   = []int{6, 2}
	offsetNickname   = []int{6, 3}

	offsetLongitude = []int{1, 1, 1}
	offsetLatitude  = []int{1, 1, 2}
	offsetTimestamp = []int{1, 2}
	offsetAccuracy  = []int{1, 3}
	offsetAddress   = []int{1, 4}
	offsetCountry   = []int{1, 6}

	offsetCharging     = []int{13, 0}
	offsetBatteryLevel = []int{13, 1}
)

// decodePerson maps one positional entry to a Person. It never fails: every
// slot access is bounds- and kind-checked, and a mismatch leaves the field at
// its zero/nil value. An empty id falls back to the full name, then to a
// freshly generated token (which is not stable across decodes).
func decodePerson(entry any) Person {
	var p Person

	p.ID = digString(entry, offsetID)
	p.PictureURL = digString(entry, offsetPictureURL)
	p.FullName = digString(entry, offsetFullName)
	p.Nickname = digString(entry, offsetNickname)

	p.Longitude = digFloat(entry, offsetLongitude)
	p.Latitude = digFloat(entry, offsetLatitude)
	p.Timestamp = digInt(entry, offsetTimestamp)
	p.Accuracy = digInt(entry, offsetAccuracy)
	p.Address = digStringPtr(entry, offsetAddress)
	p.CountryCode = digStringPtr(entry, offsetCountry)

	p.Charging = digBool(entry, offsetCharging)
	p.BatteryLevel = digInt(entry, offsetBatteryLevel)

	if p.ID == "" {
		p.ID = p.FullName
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return p
}

func digString(entry any, path []int) string {
	v, ok := dig(entry, path...)
	if !ok {
		return ""
	}
	s, _ := stringVal(v)
	return s
}

func digStringPtr(entry any, path []int) *string {
	v, ok := dig(entry, path...)
	if !ok {
		return nil
	}
	s, ok := stringVal(v)
	if !ok {
		return nil
	}
	return &s
}

func digFloat(entry any, path []int) *float64 {
	v, ok := dig(entry, path...)
	if !ok {
		return nil
	}
	f, ok := floatVal(v)
	if !ok {
		return nil
	}
	return &f
}

func digInt(entry any, path []int) *int64 {
	v, ok := dig(entry, path...)
	if !ok {
		return nil
	}
	n, ok := intVal(v)
	if !ok {
		return nil
	}
	return &n
}

func digBool(entry any, path []int) *bool {
	v, ok := dig(entry, path...)
	if !ok {
		return nil
	}
	b, ok := boolVal(v)
	if !ok {
		return nil
	}
	return &b
}

// selfEntry builds a minimal positional entry for the authenticated account
// itself, which the endpoint does not list among shared people. The avatar
// URL, when present, lives at root[9][1].
func selfEntry(email string, root []any) []any {
	entry := make([]any, 7)
	identity := []any{email, nil, email, email}
	if url, ok := dig(root, 9, 1); ok {
		if s, ok := stringVal(url); ok {
			identity[1] = s
		}
	}
	entry[6] = identity
	return entry
}
