package model

import (
	"reflect"
	"testing"
)

func TestStringListScanCorruptDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name string
		src  interface{}
		want StringList
	}{
		{"valid", `["password","admin"]`, StringList{"password", "admin"}},
		{"valid bytes", []byte(`["a"]`), StringList{"a"}},
		{"null column", nil, StringList{}},
		{"empty string", "", StringList{}},
		{"truncated json", `["password",`, StringList{}},
		{"wrong shape", `{"not":"a list"}`, StringList{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l StringList
			if err := l.Scan(tt.src); err != nil {
				t.Fatalf("scan must not fail on %v: %v", tt.src, err)
			}
			if !reflect.DeepEqual(l, tt.want) {
				t.Fatalf("got %v, want %v", l, tt.want)
			}
		})
	}
}

func TestStringListScanOverwritesPriorValue(t *testing.T) {
	l := StringList{"stale"}
	if err := l.Scan(`["fresh"]`); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(l, StringList{"fresh"}) {
		t.Fatalf("got %v", l)
	}
}

func TestOptionSnapshotListRoundTrip(t *testing.T) {
	in := OptionSnapshotList{
		{OptionID: 1, Text: "a", IsCorrect: true, WasSelected: true},
		{OptionID: 2, Text: "b"},
	}
	v, err := in.Value()
	if err != nil {
		t.Fatal(err)
	}

	var out OptionSnapshotList
	if err := out.Scan(v); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch: %v != %v", in, out)
	}
}

func TestOptionSnapshotListScanCorrupt(t *testing.T) {
	var l OptionSnapshotList
	if err := l.Scan(`[{"optionId":`); err != nil {
		t.Fatalf("scan must not fail: %v", err)
	}
	if len(l) != 0 {
		t.Fatalf("corrupt payload should degrade to empty, got %v", l)
	}
}

func TestUintListValueNilEncodesEmptyArray(t *testing.T) {
	var l UintList
	v, err := l.Value()
	if err != nil {
		t.Fatal(err)
	}
	if v != "[]" {
		t.Fatalf("nil list should store as [], got %v", v)
	}
}
