package grading

import "testing"

func TestMultipleChoiceBinary(t *testing.T) {
	tests := []struct {
		name     string
		correct  []uint
		selected []uint
		want     bool
	}{
		{"exact single", []uint{1}, []uint{1}, true},
		{"exact multi any order", []uint{1, 3}, []uint{3, 1}, true},
		{"missing one", []uint{1, 3}, []uint{1}, false},
		{"extra one", []uint{1, 3}, []uint{1, 3, 4}, false},
		{"wrong option", []uint{1}, []uint{2}, false},
		{"nothing selected", []uint{1}, nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MultipleChoice(tc.correct, tc.selected, false)
			if got.IsCorrect != tc.want {
				t.Fatalf("IsCorrect = %v, want %v", got.IsCorrect, tc.want)
			}
			if tc.want && got.Fraction() != 1 {
				t.Fatalf("correct answer fraction = %v", got.Fraction())
			}
			if !tc.want && got.Fraction() != 0 {
				t.Fatalf("binary grading leaked partial credit: %v", got.Fraction())
			}
		})
	}
}

func TestMultipleChoicePartial(t *testing.T) {
	tests := []struct {
		name     string
		correct  []uint
		selected []uint
		points   float64
		max      float64
	}{
		{"all correct", []uint{1, 2, 3}, []uint{1, 2, 3}, 3, 3},
		{"two of three", []uint{1, 2, 3}, []uint{1, 2}, 2, 3},
		{"hit cancelled by miss", []uint{1, 2, 3}, []uint{1, 4}, 0, 3},
		{"clamped at zero", []uint{1, 2}, []uint{4, 5, 6}, 0, 2},
		{"duplicates count once", []uint{1, 2}, []uint{1, 1, 2}, 2, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MultipleChoice(tc.correct, tc.selected, true)
			if got.Points != tc.points || got.MaxPoints != tc.max {
				t.Fatalf("got %v/%v, want %v/%v", got.Points, got.MaxPoints, tc.points, tc.max)
			}
		})
	}
}

// The clamp range is [0, maxScore]: selecting every option of an all-correct
// question earns exactly maxScore, never more.
func TestMultipleChoicePartialCapsAtMax(t *testing.T) {
	got := MultipleChoice([]uint{1, 2, 3}, []uint{1, 2, 3}, true)
	if got.Points != got.MaxPoints {
		t.Fatalf("got %v, want cap at %v", got.Points, got.MaxPoints)
	}
	if !got.IsCorrect {
		t.Fatal("full score should be correct")
	}
}

func TestOpenAnswerTypoTolerance(t *testing.T) {
	// 1-char transposition = distance 2, inside the exact-match window.
	got := OpenAnswer("reset the router", "reset teh router", nil)
	if !got.IsCorrect {
		t.Fatal("distance-2 submission should pass as exact match")
	}
	if len(got.MatchedTriggers) != 0 {
		t.Fatal("exact pass should not record trigger matches")
	}
}

func TestOpenAnswerTriggerWords(t *testing.T) {
	tests := []struct {
		name       string
		submission string
		exact      string
		triggers   []string
		correct    bool
		matched    []string
	}{
		{"literal substring", "please reset your password now", "", []string{"password"}, true, []string{"password"}},
		{"fuzzy token distance 1", "forgot my passward again", "", []string{"password"}, true, []string{"password"}},
		{"too far from trigger", "just pass it along", "", []string{"password"}, false, nil},
		{"one of several triggers", "try turning on airplane mode", "", []string{"router", "airplane"}, true, []string{"airplane"}},
		{"case insensitive", "CHECK THE ROUTER", "", []string{"router"}, true, []string{"router"}},
		{"no triggers no exact", "no idea", "the full correct answer", nil, false, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := OpenAnswer(tc.submission, tc.exact, tc.triggers)
			if got.IsCorrect != tc.correct {
				t.Fatalf("IsCorrect = %v, want %v", got.IsCorrect, tc.correct)
			}
			if len(got.MatchedTriggers) != len(tc.matched) {
				t.Fatalf("matched %v, want %v", got.MatchedTriggers, tc.matched)
			}
			for i := range tc.matched {
				if got.MatchedTriggers[i] != tc.matched[i] {
					t.Fatalf("matched %v, want %v", got.MatchedTriggers, tc.matched)
				}
			}
		})
	}
}

func TestAggregate(t *testing.T) {
	// Two equal-weight halves, one perfect and one zero, average to 50.
	sum := Aggregate([]WeightedItem{
		{Score: Score{Points: 1, MaxPoints: 1}, Weighting: 50},
		{Score: Score{Points: 0, MaxPoints: 1}, Weighting: 50},
	})
	if sum.Percentage != 50 {
		t.Fatalf("percentage = %d, want 50", sum.Percentage)
	}
	if sum.MaxScore != 100 {
		t.Fatalf("max score = %v, want 100", sum.MaxScore)
	}
}

func TestAggregateUnnormalizedWeights(t *testing.T) {
	// Weights need not sum to 100; the divisor is the weight present.
	sum := Aggregate([]WeightedItem{
		{Score: Score{Points: 2, MaxPoints: 2}, Weighting: 3},
		{Score: Score{Points: 1, MaxPoints: 2}, Weighting: 1},
	})
	// (3*1 + 1*0.5) / 4 = 0.875 -> 88
	if sum.Percentage != 88 {
		t.Fatalf("percentage = %d, want 88", sum.Percentage)
	}
}

func TestAggregateEmpty(t *testing.T) {
	sum := Aggregate(nil)
	if sum.Percentage != 0 || sum.TotalScore != 0 || sum.MaxScore != 0 {
		t.Fatalf("empty aggregate should be zero, got %+v", sum)
	}
}

func TestEffectiveWeighting(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		name     string
		override *float64
		question *float64
		category *float64
		want     float64
	}{
		{"override wins", f(5), f(2), f(3), 5},
		{"question next", nil, f(2), f(3), 2},
		{"category fallback", nil, nil, f(3), 3},
		{"default one", nil, nil, nil, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := EffectiveWeighting(tc.override, tc.question, tc.category); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
