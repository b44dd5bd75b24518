// Package idgen produces the human-readable identifiers used across the
// assessment engine: KC- test codes, TR- run numbers and per-test base-36
// result suffixes.
package idgen

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const (
	TestCodePrefix  = "KC-"
	RunNumberPrefix = "TR-"

	testCodeLength    = 4
	runNumberWidth    = 4
	ResultSuffixWidth = 4
)

// NewTestCode returns a KC- code with 4 random base-36 characters. There is
// no uniqueness retry here; callers must treat a uniqueness violation from
// the store as retryable.
func NewTestCode() string {
	var b strings.Builder
	b.WriteString(TestCodePrefix)
	for i := 0; i < testCodeLength; i++ {
		b.WriteByte(base36[rand.Intn(len(base36))])
	}
	return b.String()
}

// NextRunNumber increments the numeric suffix of the latest TR-dddd run
// number. An empty latest yields TR-0001. Not safe under concurrent
// creation on its own; run creation serializes it inside a transaction.
func NextRunNumber(latest string) string {
	if latest == "" {
		return fmt.Sprintf("%s%0*d", RunNumberPrefix, runNumberWidth, 1)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(latest, RunNumberPrefix))
	if err != nil {
		n = 0
	}
	return fmt.Sprintf("%s%0*d", RunNumberPrefix, runNumberWidth, n+1)
}

// NextResultSuffix returns the fixed-width base-36 suffix following latest.
// The first result for a test gets "0000". Suffixes are lexicographically
// adjacent and strictly increasing until the width wraps.
func NextResultSuffix(latest string) string {
	if latest == "" {
		return strings.Repeat("0", ResultSuffixWidth)
	}
	return incrementBase36(latest)
}

// ResultCode joins a test code and a result suffix: KC-7F3A-000B.
func ResultCode(testCode, suffix string) string {
	return testCode + "-" + suffix
}

// ResultSuffix extracts the trailing suffix from a result code.
func ResultSuffix(resultCode string) string {
	i := strings.LastIndex(resultCode, "-")
	if i < 0 {
		return resultCode
	}
	return resultCode[i+1:]
}

// incrementBase36 adds one to a fixed-width big-endian base-36 string.
// Unknown characters reset to '0' and absorb the carry. All-Z wraps around
// to all-0, preserving the width.
func incrementBase36(s string) string {
	digits := []byte(strings.ToUpper(s))
	for i := len(digits) - 1; i >= 0; i-- {
		v := strings.IndexByte(base36, digits[i])
		if v < 0 {
			digits[i] = '0'
			return string(digits)
		}
		if v < len(base36)-1 {
			digits[i] = base36[v+1]
			return string(digits)
		}
		digits[i] = '0' // Z wraps, carry continues left
	}
	return string(digits)
}
