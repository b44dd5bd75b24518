package grading

import "strings"

// Edit-distance thresholds for open answers. A near-verbatim answer passes
// outright; individual tokens tolerate a single typo against trigger words.
const (
	exactAnswerMaxDistance = 2
	triggerWordMaxDistance = 1
)

// normalize lower-cases and trims a submission for comparison.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// levenshtein computes edit distance (insertion, deletion, substitution cost 1).
func levenshtein(a, b string) int {
	ar := []rune(a)
	br := []rune(b)
	n, m := len(ar), len(br)
	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}
	dp := make([]int, m+1)
	for j := 0; j <= m; j++ {
		dp[j] = j
	}
	for i := 1; i <= n; i++ {
		prev := dp[0]
		dp[0] = i
		for j := 1; j <= m; j++ {
			tmp := dp[j]
			cost := 0
			if ar[i-1] != br[j-1] {
				cost = 1
			}
			ins := dp[j] + 1
			del := dp[j-1] + 1
			sub := prev + cost
			dp[j] = min3(ins, del, sub)
			prev = tmp
		}
	}
	return dp[m]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

// fuzzyContains reports whether word appears in the submission, either as a
// literal substring or as a whitespace token within one edit of it.
func fuzzyContains(submission, word string) bool {
	if word == "" {
		return false
	}
	if strings.Contains(submission, word) {
		return true
	}
	for _, token := range strings.Fields(submission) {
		if levenshtein(token, word) <= triggerWordMaxDistance {
			return true
		}
	}
	return false
}
