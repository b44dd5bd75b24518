package idgen

import (
	"sort"
	"strings"
	"testing"
)

func TestNewTestCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := NewTestCode()
		if !strings.HasPrefix(code, "KC-") {
			t.Fatalf("missing prefix: %s", code)
		}
		if len(code) != len("KC-")+4 {
			t.Fatalf("wrong length: %s", code)
		}
		for _, r := range code[3:] {
			if !strings.ContainsRune(base36, r) {
				t.Fatalf("non base-36 char %q in %s", r, code)
			}
		}
	}
}

func TestNextRunNumber(t *testing.T) {
	tests := []struct {
		latest string
		want   string
	}{
		{"", "TR-0001"},
		{"TR-0001", "TR-0002"},
		{"TR-0042", "TR-0043"},
		{"TR-0999", "TR-1000"},
		{"TR-9999", "TR-10000"},
		{"TR-garbage", "TR-0001"},
	}
	for _, tc := range tests {
		if got := NextRunNumber(tc.latest); got != tc.want {
			t.Errorf("NextRunNumber(%q) = %q, want %q", tc.latest, got, tc.want)
		}
	}
}

func TestNextResultSuffix(t *testing.T) {
	tests := []struct {
		latest string
		want   string
	}{
		{"", "0000"},
		{"0000", "0001"},
		{"0009", "000A"},
		{"000Z", "0010"},
		{"00ZZ", "0100"},
		{"AZZZ", "B000"},
		{"ZZZZ", "0000"}, // width-preserving wrap
		{"00!0", "00!1"},
	}
	for _, tc := range tests {
		if got := NextResultSuffix(tc.latest); got != tc.want {
			t.Errorf("NextResultSuffix(%q) = %q, want %q", tc.latest, got, tc.want)
		}
	}
}

func TestResultSuffixMonotonic(t *testing.T) {
	suffix := NextResultSuffix("")
	seen := []string{suffix}
	for i := 0; i < 100; i++ {
		suffix = NextResultSuffix(suffix)
		seen = append(seen, suffix)
	}
	if !sort.StringsAreSorted(seen) {
		t.Fatal("suffix sequence not lexicographically increasing")
	}
	for _, s := range seen {
		if len(s) != ResultSuffixWidth {
			t.Fatalf("suffix %q lost fixed width", s)
		}
	}
}

func TestResultCodeRoundTrip(t *testing.T) {
	code := ResultCode("KC-7F3A", "000B")
	if code != "KC-7F3A-000B" {
		t.Fatalf("unexpected result code %s", code)
	}
	if got := ResultSuffix(code); got != "000B" {
		t.Fatalf("ResultSuffix(%q) = %q", code, got)
	}
}
