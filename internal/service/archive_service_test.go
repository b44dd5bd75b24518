package service

import (
	"errors"
	"testing"

	"knowcheck_backend/internal/model"
	"knowcheck_backend/internal/repository"
	"knowcheck_backend/internal/util"
)

func TestDeleteQuestionUnusedHardDeletes(t *testing.T) {
	env := newTestEnv(t)

	q := env.mustCreateChoiceQuestion(t, []string{"a", "b"}, map[int]bool{0: true}, false, nil)

	outcome, err := env.catalog.DeleteQuestion(q.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !outcome.Deleted || outcome.Archived {
		t.Fatalf("unused question should be hard-deleted, got %+v", outcome)
	}

	if _, err := env.catalog.GetQuestion(q.ID); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Fatalf("question should be gone, got err=%v", err)
	}

	var options int64
	env.db.Model(&model.QuestionOption{}).Where("question_id = ?", q.ID).Count(&options)
	if options != 0 {
		t.Fatalf("options should be deleted with the question, found %d", options)
	}

	// A second delete is a clean not-found, never a partial state.
	if _, err := env.catalog.DeleteQuestion(q.ID); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Fatalf("double delete should report not-found, got %v", err)
	}
}

func TestDeleteQuestionWithAnswersArchives(t *testing.T) {
	env := newTestEnv(t)

	q := env.mustCreateOpenQuestion(t, "x", nil, nil)
	test := env.mustCreateTest(t, []uint{q.ID}, 80)
	if _, err := env.results.CreateResult(ResultRequest{
		TestID:  test.ID,
		UserID:  1,
		Answers: []AnswerSubmission{{QuestionID: q.ID, AnswerText: "x"}},
	}, 1); err != nil {
		t.Fatalf("create result: %v", err)
	}

	outcome, err := env.catalog.DeleteQuestion(q.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !outcome.Archived || outcome.Deleted {
		t.Fatalf("attempted question should be archived, got %+v", outcome)
	}

	archived, err := env.catalog.GetQuestion(q.ID)
	if err != nil {
		t.Fatalf("archived question must stay readable: %v", err)
	}
	if !archived.IsArchived || archived.ArchivedAt == nil {
		t.Fatal("archive flags not set")
	}

	// The historical answer survives the archive.
	results, _, err := env.results.GetAllResults(repository.ResultFilters{TestID: test.ID})
	if err != nil || len(results) != 1 {
		t.Fatalf("result should survive question archive: %v (%d rows)", err, len(results))
	}
}

func TestDeleteQuestionScrubsUnattemptedMemberships(t *testing.T) {
	env := newTestEnv(t)

	q := env.mustCreateOpenQuestion(t, "x", nil, nil)
	attempted := env.mustCreateTest(t, []uint{q.ID}, 80)
	untouched := env.mustCreateTest(t, []uint{q.ID}, 80)

	if _, err := env.results.CreateResult(ResultRequest{
		TestID:  attempted.ID,
		UserID:  1,
		Answers: []AnswerSubmission{{QuestionID: q.ID, AnswerText: "x"}},
	}, 1); err != nil {
		t.Fatalf("create result: %v", err)
	}

	if _, err := env.catalog.DeleteQuestion(q.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var inAttempted, inUntouched int64
	env.db.Model(&model.TestQuestion{}).Where("test_id = ?", attempted.ID).Count(&inAttempted)
	env.db.Model(&model.TestQuestion{}).Where("test_id = ?", untouched.ID).Count(&inUntouched)
	if inAttempted != 1 {
		t.Fatal("membership in the attempted test must be kept for history")
	}
	if inUntouched != 0 {
		t.Fatal("membership in never-attempted tests must be scrubbed")
	}
}

func TestPermanentDeleteQuestionRequiresArchive(t *testing.T) {
	env := newTestEnv(t)

	q := env.mustCreateOpenQuestion(t, "x", nil, nil)
	if err := env.catalog.PermanentDeleteQuestion(q.ID); !errors.Is(err, util.ErrNotArchived) {
		t.Fatalf("permanent delete of a live question must be refused, got %v", err)
	}
}

func TestRestoreQuestionClearsFlags(t *testing.T) {
	env := newTestEnv(t)

	q := env.mustCreateOpenQuestion(t, "x", nil, nil)
	test := env.mustCreateTest(t, []uint{q.ID}, 80)
	if _, err := env.results.CreateResult(ResultRequest{
		TestID:  test.ID,
		UserID:  1,
		Answers: []AnswerSubmission{{QuestionID: q.ID, AnswerText: "x"}},
	}, 1); err != nil {
		t.Fatalf("create result: %v", err)
	}
	if _, err := env.catalog.DeleteQuestion(q.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if err := env.catalog.RestoreQuestion(q.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}
	restored, err := env.catalog.GetQuestion(q.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if restored.IsArchived || restored.ArchivedAt != nil {
		t.Fatal("restore must clear archive flags")
	}
}

func TestDeleteTestArchiveForcesInactive(t *testing.T) {
	env := newTestEnv(t)

	q := env.mustCreateOpenQuestion(t, "x", nil, nil)
	test := env.mustCreateTest(t, []uint{q.ID}, 80)
	if _, err := env.runs.CreateAssignment(AssignmentRequest{TestID: test.ID, UserID: 2}, 1); err != nil {
		t.Fatalf("assign: %v", err)
	}

	outcome, err := env.tests.DeleteTest(test.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !outcome.Archived {
		t.Fatalf("assigned test should be archived, got %+v", outcome)
	}

	archived, err := env.tests.GetTestByID(test.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if archived.Test.IsActive {
		t.Fatal("archiving must force the test inactive")
	}
	if _, err := env.tests.GetTestForTaking(test.ID); !errors.Is(err, util.ErrTestInactive) {
		t.Fatalf("archived test must not be takeable, got %v", err)
	}

	// Restore keeps it inactive until explicitly re-activated.
	if err := env.tests.RestoreTest(test.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}
	restored, err := env.tests.GetTestByID(test.ID)
	if err != nil {
		t.Fatalf("get after restore: %v", err)
	}
	if restored.Test.IsArchived || restored.Test.IsActive {
		t.Fatalf("restored test should be unarchived and inactive, got archived=%v active=%v",
			restored.Test.IsArchived, restored.Test.IsActive)
	}
}

func TestDeleteTestUnusedHardDeletes(t *testing.T) {
	env := newTestEnv(t)

	q := env.mustCreateOpenQuestion(t, "x", nil, nil)
	test := env.mustCreateTest(t, []uint{q.ID}, 80)

	outcome, err := env.tests.DeleteTest(test.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !outcome.Deleted {
		t.Fatalf("unused test should be hard-deleted, got %+v", outcome)
	}
	if _, err := env.tests.GetTestByID(test.ID); !errors.Is(err, util.ErrTestNotFound) {
		t.Fatalf("test should be gone, got %v", err)
	}
	// The question itself is untouched.
	if _, err := env.catalog.GetQuestion(q.ID); err != nil {
		t.Fatalf("question must survive test deletion: %v", err)
	}
}

func TestPermanentDeleteTestPurgesHistory(t *testing.T) {
	env := newTestEnv(t)

	q := env.mustCreateOpenQuestion(t, "x", nil, nil)
	test := env.mustCreateTest(t, []uint{q.ID}, 80)
	if _, err := env.results.CreateResult(ResultRequest{
		TestID:  test.ID,
		UserID:  1,
		Answers: []AnswerSubmission{{QuestionID: q.ID, AnswerText: "x"}},
	}, 1); err != nil {
		t.Fatalf("create result: %v", err)
	}

	if _, err := env.tests.DeleteTest(test.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if err := env.tests.PermanentDeleteTest(test.ID); err != nil {
		t.Fatalf("purge: %v", err)
	}

	var results, answers int64
	env.db.Model(&model.TestResult{}).Where("test_id = ?", test.ID).Count(&results)
	env.db.Model(&model.TestAnswer{}).Count(&answers)
	if results != 0 || answers != 0 {
		t.Fatalf("purge must remove results (%d) and answers (%d)", results, answers)
	}
}

func TestArchiveStatistics(t *testing.T) {
	env := newTestEnv(t)

	q := env.mustCreateOpenQuestion(t, "x", nil, nil)
	test := env.mustCreateTest(t, []uint{q.ID}, 80)
	if _, err := env.results.CreateResult(ResultRequest{
		TestID:  test.ID,
		UserID:  1,
		Answers: []AnswerSubmission{{QuestionID: q.ID, AnswerText: "x"}},
	}, 1); err != nil {
		t.Fatalf("create result: %v", err)
	}
	if _, err := env.catalog.DeleteQuestion(q.ID); err != nil {
		t.Fatalf("archive question: %v", err)
	}
	if _, err := env.tests.DeleteTest(test.ID); err != nil {
		t.Fatalf("archive test: %v", err)
	}

	stats, err := env.archive.GetArchiveStatistics()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.ArchivedQuestions != 1 || stats.ArchivedTests != 1 || stats.TotalResults != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}
