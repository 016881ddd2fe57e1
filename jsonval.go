package locationsharinglib

import "strconv"

// The location-sharing endpoint returns positional arrays, not keyed objects.
// The helpers below index into a generic decoded JSON value (the output of
// encoding/json into any) with bounds and kind checks, so that a missing or
// reshaped slot degrades to "absent" instead of failing a whole decode.

// dig walks nested arrays by index. It returns ok=false as soon as a step is
// out of bounds or the value at hand is not an array.
func dig(v any, path ...int) (any, bool) {
	for _, i := range path {
		arr, ok := v.([]any)
		if !ok || i < 0 || i >= len(arr) {
			return nil, false
		}
		v = arr[i]
	}
	return v, true
}

func stringVal(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// floatVal accepts a native JSON number or its string representation.
func floatVal(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// intVal accepts a native JSON number or a numeric string, truncating any
// fractional part.
func intVal(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return int64(t), true
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return int64(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// boolVal accepts a native JSON boolean or a boolean string.
func boolVal(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(t)
		return b, err == nil
	default:
		return false, false
	}
}
