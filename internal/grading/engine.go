// Package grading scores submitted answers: set comparison with optional
// partial credit for multiple choice, typo-tolerant text matching for open
// questions, and weighted aggregation into a test percentage.
package grading

import "math"

// Score is the outcome of grading one question response.
type Score struct {
	Points          float64
	MaxPoints       float64
	IsCorrect       bool
	MatchedTriggers []string
}

// Fraction returns the normalized score in [0, 1].
func (s Score) Fraction() float64 {
	if s.MaxPoints <= 0 {
		return 0
	}
	return s.Points / s.MaxPoints
}

// MultipleChoice grades a selected-option set against the correct set.
// Without partial credit the score is all-or-nothing on exact set equality.
// With partial credit each correctly selected option earns one point and
// each incorrect selection cancels one, clamped to [0, len(correct)].
func MultipleChoice(correct, selected []uint, allowPartial bool) Score {
	correctSet := make(map[uint]bool, len(correct))
	for _, id := range correct {
		correctSet[id] = true
	}
	selectedSet := make(map[uint]bool, len(selected))
	for _, id := range selected {
		selectedSet[id] = true
	}

	hits := 0
	misses := 0
	for id := range selectedSet {
		if correctSet[id] {
			hits++
		} else {
			misses++
		}
	}

	if !allowPartial {
		exact := hits == len(correctSet) && misses == 0
		s := Score{MaxPoints: 1, IsCorrect: exact}
		if exact {
			s.Points = 1
		}
		return s
	}

	maxPoints := float64(len(correctSet))
	points := float64(hits - misses)
	if points < 0 {
		points = 0
	}
	if points > maxPoints {
		points = maxPoints
	}
	return Score{
		Points:    points,
		MaxPoints: maxPoints,
		IsCorrect: maxPoints > 0 && points == maxPoints,
	}
}

// OpenAnswer grades free text. A submission within two edits of the exact
// answer passes regardless of trigger words; otherwise at least one trigger
// word must fuzzy-match. Matched triggers are returned for evaluator review.
func OpenAnswer(submission, exactAnswer string, triggerWords []string) Score {
	sub := normalize(submission)
	score := Score{MaxPoints: 1}

	if exact := normalize(exactAnswer); exact != "" && levenshtein(sub, exact) <= exactAnswerMaxDistance {
		score.Points = 1
		score.IsCorrect = true
		return score
	}

	for _, word := range triggerWords {
		if fuzzyContains(sub, normalize(word)) {
			score.MatchedTriggers = append(score.MatchedTriggers, word)
		}
	}
	if len(score.MatchedTriggers) > 0 {
		score.Points = 1
		score.IsCorrect = true
	}
	return score
}

// WeightedItem is one graded question with its resolved effective weighting.
type WeightedItem struct {
	Score     Score
	Weighting float64
}

// Summary is the test-level aggregation of weighted question scores.
type Summary struct {
	TotalScore float64
	MaxScore   float64
	Percentage int
}

// Aggregate normalizes each item by its own max, weights it, and rounds the
// overall percentage. The weights need not sum to 100; the divisor is the
// total weight actually present.
func Aggregate(items []WeightedItem) Summary {
	var sum Summary
	for _, item := range items {
		sum.TotalScore += item.Score.Fraction() * item.Weighting
		sum.MaxScore += item.Weighting
	}
	if sum.MaxScore > 0 {
		sum.Percentage = int(math.Round(sum.TotalScore / sum.MaxScore * 100))
	}
	return sum
}

// EffectiveWeighting resolves the scoring weight for a question instance:
// per-test override, then the question's own weighting, then the category
// default, then 1.
func EffectiveWeighting(override, question, categoryDefault *float64) float64 {
	for _, w := range []*float64{override, question, categoryDefault} {
		if w != nil {
			return *w
		}
	}
	return 1
}
