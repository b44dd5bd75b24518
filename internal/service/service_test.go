package service

import (
	"testing"

	"knowcheck_backend/internal/model"
	"knowcheck_backend/internal/repository"
	"knowcheck_backend/pkg/database"
	"knowcheck_backend/pkg/logger"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testEnv wires the full service graph against an in-memory store. Redis is
// nil everywhere; the cache paths are built to tolerate that.
type testEnv struct {
	db      *gorm.DB
	catalog *CatalogService
	tests   *TestService
	runs    *TestRunService
	results *ResultService
	archive *ArchiveService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger.Log = zap.NewNop()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	catalogRepo := repository.NewCatalogRepository(db)
	testRepo := repository.NewTestRepository(db)
	runRepo := repository.NewTestRunRepository(db)
	resultRepo := repository.NewResultRepository(db)

	archive := NewArchiveService(catalogRepo, testRepo, runRepo, resultRepo)
	tests := NewTestService(testRepo, catalogRepo, archive)
	return &testEnv{
		db:      db,
		catalog: NewCatalogService(catalogRepo, archive),
		tests:   tests,
		runs:    NewTestRunService(runRepo, testRepo, archive, nil),
		results: NewResultService(resultRepo, runRepo, tests, nil),
		archive: archive,
	}
}

// mustCreateOpenQuestion seeds an open question with an exact answer and
// trigger words.
func (e *testEnv) mustCreateOpenQuestion(t *testing.T, exact string, triggers []string, weighting *float64) *model.Question {
	t.Helper()
	q, err := e.catalog.CreateQuestion(QuestionRequest{
		QuestionType: model.QuestionTypeOpenQuestion,
		Title:        "open",
		Content:      "describe the procedure",
		ExactAnswer:  exact,
		TriggerWords: triggers,
		Weighting:    weighting,
	})
	if err != nil {
		t.Fatalf("create open question: %v", err)
	}
	return q
}

// mustCreateChoiceQuestion seeds a multiple-choice question. correct marks
// which option indexes are right answers.
func (e *testEnv) mustCreateChoiceQuestion(t *testing.T, texts []string, correct map[int]bool, partial bool, weighting *float64) *model.Question {
	t.Helper()
	req := QuestionRequest{
		QuestionType:       model.QuestionTypeMultipleChoice,
		Title:              "choice",
		Content:            "pick the right ones",
		AllowPartialAnswer: partial,
		Weighting:          weighting,
	}
	for i, text := range texts {
		req.Options = append(req.Options, OptionRequest{Text: text, IsCorrect: correct[i]})
	}
	q, err := e.catalog.CreateQuestion(req)
	if err != nil {
		t.Fatalf("create choice question: %v", err)
	}
	return q
}

func (e *testEnv) mustCreateTest(t *testing.T, questionIDs []uint, passingScore int) *model.Test {
	t.Helper()
	req := TestRequest{Title: "assessment", PassingScore: passingScore}
	for _, id := range questionIDs {
		req.Questions = append(req.Questions, TestQuestionRequest{QuestionID: id})
	}
	created, err := e.tests.CreateTest(req)
	if err != nil {
		t.Fatalf("create test: %v", err)
	}
	return created
}

func floatPtr(v float64) *float64 { return &v }
