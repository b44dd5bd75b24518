package service

import (
	"strings"
	"testing"

	"knowcheck_backend/internal/model"
)

func TestCreateResultGradesMixedTest(t *testing.T) {
	env := newTestEnv(t)

	open := env.mustCreateOpenQuestion(t, "reset the router", []string{"password"}, nil)
	choice := env.mustCreateChoiceQuestion(t,
		[]string{"a", "b", "c"}, map[int]bool{0: true, 2: true}, false, nil)
	test := env.mustCreateTest(t, []uint{open.ID, choice.ID}, 80)

	view, err := env.tests.GetTestByID(test.ID)
	if err != nil {
		t.Fatalf("grading view: %v", err)
	}
	var correctIDs []uint
	for _, gq := range view.Questions {
		if gq.Question.QuestionType != model.QuestionTypeMultipleChoice {
			continue
		}
		for _, opt := range gq.Question.Options {
			if opt.IsCorrect {
				correctIDs = append(correctIDs, opt.ID)
			}
		}
	}

	result, err := env.results.CreateResult(ResultRequest{
		TestID: test.ID,
		UserID: 7,
		Answers: []AnswerSubmission{
			{QuestionID: open.ID, AnswerText: "reset teh router"}, // distance 2, still exact
			{QuestionID: choice.ID, SelectedOptions: correctIDs},
		},
	}, 1)
	if err != nil {
		t.Fatalf("create result: %v", err)
	}

	if result.Percentage != 100 || !result.Passed {
		t.Fatalf("expected full pass, got %d%% passed=%v", result.Percentage, result.Passed)
	}
	if len(result.Answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(result.Answers))
	}
	if !strings.HasPrefix(result.Code, test.Code+"-") {
		t.Fatalf("result code %q should extend test code %q", result.Code, test.Code)
	}
}

func TestCreateResultWeightedPartialFail(t *testing.T) {
	env := newTestEnv(t)

	// Equal weights, one right and one wrong: exactly 50%, below the bar.
	q1 := env.mustCreateOpenQuestion(t, "yes", nil, floatPtr(2))
	q2 := env.mustCreateOpenQuestion(t, "no", nil, floatPtr(2))
	test := env.mustCreateTest(t, []uint{q1.ID, q2.ID}, 80)

	result, err := env.results.CreateResult(ResultRequest{
		TestID: test.ID,
		UserID: 7,
		Answers: []AnswerSubmission{
			{QuestionID: q1.ID, AnswerText: "yes"},
			{QuestionID: q2.ID, AnswerText: "definitely not"},
		},
	}, 1)
	if err != nil {
		t.Fatalf("create result: %v", err)
	}
	if result.Percentage != 50 {
		t.Fatalf("expected 50%%, got %d%%", result.Percentage)
	}
	if result.Passed {
		t.Fatal("50% should not pass an 80% bar")
	}
}

func TestCreateResultTriggerWordMatch(t *testing.T) {
	env := newTestEnv(t)

	q := env.mustCreateOpenQuestion(t, "reset the password in the admin panel",
		[]string{"password", "admin"}, nil)
	test := env.mustCreateTest(t, []uint{q.ID}, 80)

	result, err := env.results.CreateResult(ResultRequest{
		TestID: test.ID,
		UserID: 3,
		Answers: []AnswerSubmission{
			{QuestionID: q.ID, AnswerText: "change the passward somewhere"}, // distance 1 to "password"
		},
	}, 1)
	if err != nil {
		t.Fatalf("create result: %v", err)
	}

	if result.Percentage != 100 || !result.Passed {
		t.Fatalf("one matched trigger marks the answer correct, got %d%%", result.Percentage)
	}
	if got := result.Answers[0].MatchedTriggers; len(got) != 1 || got[0] != "password" {
		t.Fatalf("matched triggers = %v, want [password]", got)
	}
}

func TestCreateResultSkippedQuestionScoresZero(t *testing.T) {
	env := newTestEnv(t)

	q1 := env.mustCreateOpenQuestion(t, "alpha", nil, nil)
	q2 := env.mustCreateOpenQuestion(t, "beta", nil, nil)
	test := env.mustCreateTest(t, []uint{q1.ID, q2.ID}, 40)

	result, err := env.results.CreateResult(ResultRequest{
		TestID:  test.ID,
		UserID:  3,
		Answers: []AnswerSubmission{{QuestionID: q1.ID, AnswerText: "alpha"}},
	}, 1)
	if err != nil {
		t.Fatalf("create result: %v", err)
	}
	if result.Percentage != 50 {
		t.Fatalf("skipped question must still count in the maximum, got %d%%", result.Percentage)
	}
	if len(result.Answers) != 2 {
		t.Fatalf("expected a zero-score answer row for the skipped question, got %d rows", len(result.Answers))
	}
}

func TestResultCodesSequencePerTest(t *testing.T) {
	env := newTestEnv(t)

	q := env.mustCreateOpenQuestion(t, "x", nil, nil)
	test := env.mustCreateTest(t, []uint{q.ID}, 80)

	var codes []string
	for i := 0; i < 3; i++ {
		result, err := env.results.CreateResult(ResultRequest{
			TestID:  test.ID,
			UserID:  uint(i + 1),
			Answers: []AnswerSubmission{{QuestionID: q.ID, AnswerText: "x"}},
		}, 1)
		if err != nil {
			t.Fatalf("create result %d: %v", i, err)
		}
		codes = append(codes, result.Code)
	}

	want := []string{test.Code + "-0000", test.Code + "-0001", test.Code + "-0002"}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("code %d = %q, want %q", i, codes[i], want[i])
		}
	}
}

func TestCreateResultCompletesAssignmentAndRun(t *testing.T) {
	env := newTestEnv(t)

	q := env.mustCreateOpenQuestion(t, "x", nil, nil)
	test := env.mustCreateTest(t, []uint{q.ID}, 80)

	run, err := env.runs.CreateTestRun(TestRunRequest{
		Name:    "Q3 check",
		TestIDs: []uint{test.ID},
		UserIDs: []uint{11, 12},
	}, 1)
	if err != nil {
		t.Fatalf("create run: %v", err)
	}

	for _, userID := range []uint{11, 12} {
		if _, err := env.results.CreateResult(ResultRequest{
			TestID:  test.ID,
			UserID:  userID,
			Answers: []AnswerSubmission{{QuestionID: q.ID, AnswerText: "x"}},
		}, 1); err != nil {
			t.Fatalf("create result for user %d: %v", userID, err)
		}
	}

	detail, err := env.runs.GetTestRunByID(run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if detail.Run.Status != model.RunStatusCompleted {
		t.Fatalf("run status = %q, want completed", detail.Run.Status)
	}
	if detail.Stats.CompletedCount != 2 || detail.Stats.PendingCount != 0 {
		t.Fatalf("stats = %+v, want 2 completed 0 pending", detail.Stats)
	}
	if detail.Stats.AveragePercentage != 100 {
		t.Fatalf("average = %v, want 100", detail.Stats.AveragePercentage)
	}

	for _, a := range detail.Assignments {
		if a.Status != model.AssignmentStatusCompleted || a.ResultID == nil || a.CompletedAt == nil {
			t.Fatalf("assignment not completed: %+v", a)
		}
	}
}

func TestCreateResultExplicitCompletedAssignmentRejected(t *testing.T) {
	env := newTestEnv(t)

	q := env.mustCreateOpenQuestion(t, "x", nil, nil)
	test := env.mustCreateTest(t, []uint{q.ID}, 80)
	a, err := env.runs.CreateAssignment(AssignmentRequest{TestID: test.ID, UserID: 5}, 1)
	if err != nil {
		t.Fatalf("create assignment: %v", err)
	}

	submit := func() error {
		_, err := env.results.CreateResult(ResultRequest{
			TestID:       test.ID,
			UserID:       5,
			AssignmentID: &a.ID,
			Answers:      []AnswerSubmission{{QuestionID: q.ID, AnswerText: "x"}},
		}, 1)
		return err
	}
	if err := submit(); err != nil {
		t.Fatalf("first submission: %v", err)
	}
	if err := submit(); err == nil {
		t.Fatal("second submission against a completed assignment should fail")
	}
}

func TestUpdateResultOnlyTouchesComment(t *testing.T) {
	env := newTestEnv(t)

	q := env.mustCreateOpenQuestion(t, "x", nil, nil)
	test := env.mustCreateTest(t, []uint{q.ID}, 80)
	created, err := env.results.CreateResult(ResultRequest{
		TestID:  test.ID,
		UserID:  5,
		Answers: []AnswerSubmission{{QuestionID: q.ID, AnswerText: "x"}},
	}, 1)
	if err != nil {
		t.Fatalf("create result: %v", err)
	}

	updated, err := env.results.UpdateResult(created.ID, ResultUpdateRequest{Comment: "well done"}, 9)
	if err != nil {
		t.Fatalf("update result: %v", err)
	}
	if updated.EvaluatorComment != "well done" {
		t.Fatalf("comment = %q", updated.EvaluatorComment)
	}
	if updated.EvaluatorID == nil || *updated.EvaluatorID != 9 {
		t.Fatalf("evaluator = %v, want 9", updated.EvaluatorID)
	}
	if updated.Percentage != created.Percentage || updated.Code != created.Code {
		t.Fatal("score fields must not change on update")
	}
}
