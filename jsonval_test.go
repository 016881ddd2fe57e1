package locationsharinglib

import (
	"encoding/json"
	"testing"
)

func decodeJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestDig_BoundsAndKinds(t *testing.T) {
	v := decodeJSON(t, `[10, [20, [30, 40]], "x"]`)

	if got, ok := dig(v, 1, 1, 1); !ok || got != float64(40) {
		t.Fatalf("dig(1,1,1) = %v, %v", got, ok)
	}
	if _, ok := dig(v, 5); ok {
		t.Fatalf("out-of-bounds index should not resolve")
	}
	if _, ok := dig(v, 2, 0); ok {
		t.Fatalf("indexing into a string should not resolve")
	}
	if _, ok := dig(v, -1); ok {
		t.Fatalf("negative index should not resolve")
	}
	if got, ok := dig(v); !ok {
		t.Fatalf("empty path should return the value itself, got ok=%v", ok)
	} else if _, isArr := got.([]any); !isArr {
		t.Fatalf("unexpected root %T", got)
	}
}

func TestFloatVal_NativeAndString(t *testing.T) {
	if f, ok := floatVal(45.654321); !ok || f != 45.654321 {
		t.Fatalf("native: %v, %v", f, ok)
	}
	if f, ok := floatVal("10.123456"); !ok || f != 10.123456 {
		t.Fatalf("string: %v, %v", f, ok)
	}
	if _, ok := floatVal("not a number"); ok {
		t.Fatalf("garbage string accepted")
	}
	if _, ok := floatVal(true); ok {
		t.Fatalf("bool accepted as float")
	}
}

func TestIntVal_TruncatesAndCoerces(t *testing.T) {
	if n, ok := intVal(float64(87)); !ok || n != 87 {
		t.Fatalf("native: %v, %v", n, ok)
	}
	if n, ok := intVal("1700000000000"); !ok || n != 1700000000000 {
		t.Fatalf("string: %v, %v", n, ok)
	}
	if n, ok := intVal("87.9"); !ok || n != 87 {
		t.Fatalf("float string should truncate: %v, %v", n, ok)
	}
	if _, ok := intVal(nil); ok {
		t.Fatalf("nil accepted as int")
	}
}

func TestBoolVal_NativeAndString(t *testing.T) {
	if b, ok := boolVal(true); !ok || !b {
		t.Fatalf("native: %v, %v", b, ok)
	}
	if b, ok := boolVal("false"); !ok || b {
		t.Fatalf("string: %v, %v", b, ok)
	}
	if _, ok := boolVal(float64(1)); ok {
		t.Fatalf("number accepted as bool")
	}
}
