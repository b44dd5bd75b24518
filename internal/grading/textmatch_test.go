package grading

import "testing"

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"password", "passward", 1},
		{"password", "pass", 4},
		{"reset the router", "reset teh router", 2},
		{"héllo", "hello", 1},
	}
	for _, tc := range tests {
		if got := levenshtein(tc.a, tc.b); got != tc.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestFuzzyContains(t *testing.T) {
	tests := []struct {
		submission string
		word       string
		want       bool
	}{
		{"reset the router", "router", true},
		{"reset the ruter", "router", true},   // token within distance 1
		{"restart everything", "router", false},
		{"the routers are down", "router", true}, // substring
		{"", "router", false},
		{"anything", "", false},
	}
	for _, tc := range tests {
		if got := fuzzyContains(tc.submission, tc.word); got != tc.want {
			t.Errorf("fuzzyContains(%q, %q) = %v, want %v", tc.submission, tc.word, got, tc.want)
		}
	}
}
