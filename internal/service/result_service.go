package service

import (
	"context"
	"errors"
	"fmt"
	"knowcheck_backend/internal/grading"
	"knowcheck_backend/internal/idgen"
	"knowcheck_backend/internal/model"
	"knowcheck_backend/internal/repository"
	"knowcheck_backend/internal/util"
	"knowcheck_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ResultService grades submissions and stores the outcome as an immutable
// snapshot: answers keep copies of the option texts and correctness as they
// were at submission time, so later catalog edits never rewrite history.
type ResultService struct {
	Repo    *repository.ResultRepository
	RunRepo *repository.TestRunRepository
	Tests   *TestService
	Redis   *redis.Client
}

func NewResultService(repo *repository.ResultRepository, runRepo *repository.TestRunRepository, tests *TestService, rdb *redis.Client) *ResultService {
	return &ResultService{Repo: repo, RunRepo: runRepo, Tests: tests, Redis: rdb}
}

type AnswerSubmission struct {
	QuestionID      uint   `json:"questionId" binding:"required"`
	AnswerText      string `json:"answerText"`
	SelectedOptions []uint `json:"selectedOptions"`
}

type ResultRequest struct {
	TestID       uint               `json:"testId" binding:"required"`
	UserID       uint               `json:"userId" binding:"required"`
	AssignmentID *uint              `json:"assignmentId"`
	Comment      string             `json:"comment"`
	Answers      []AnswerSubmission `json:"answers" binding:"required"`
}

// CreateResult grades every answer against the test's current question set,
// aggregates the weighted score and persists result, answers and assignment
// completion in one transaction. Questions the submission skips count as
// zero-score answers so the maximum stays the test's full maximum.
func (s *ResultService) CreateResult(req ResultRequest, evaluatorID uint) (*model.TestResult, error) {
	view, err := s.Tests.GetTestByID(req.TestID)
	if err != nil {
		return nil, err
	}

	submitted := make(map[uint]AnswerSubmission, len(req.Answers))
	for _, a := range req.Answers {
		submitted[a.QuestionID] = a
	}

	var answers []model.TestAnswer
	var items []grading.WeightedItem
	for _, gq := range view.Questions {
		sub := submitted[gq.QuestionID]
		answer, score, err := s.gradeAnswer(gq, sub)
		if err != nil {
			return nil, err
		}
		answers = append(answers, *answer)
		items = append(items, grading.WeightedItem{Score: *score, Weighting: gq.EffectiveWeighting})
	}

	summary := grading.Aggregate(items)

	code, err := s.nextResultCode(&view.Test)
	if err != nil {
		return nil, err
	}

	result := &model.TestResult{
		Code:             code,
		TestID:           req.TestID,
		UserID:           req.UserID,
		EvaluatorID:      &evaluatorID,
		TotalScore:       summary.TotalScore,
		MaxScore:         summary.MaxScore,
		Percentage:       summary.Percentage,
		Passed:           summary.Percentage >= view.Test.PassingScore,
		EvaluatorComment: req.Comment,
	}

	assignment, err := s.resolveAssignment(req)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.CreateResultWithAnswers(result, answers, assignment); err != nil {
		return nil, err
	}

	if assignment != nil {
		s.invalidatePendingCount(assignment.UserID)
		if assignment.TestRunID != nil {
			if err := s.completeRunIfDone(*assignment.TestRunID); err != nil {
				logger.Log.Warn("run completion check failed",
					zap.Uint("runId", *assignment.TestRunID), zap.Error(err))
			}
		}
	}

	logger.Log.Info("result recorded",
		zap.String("code", result.Code),
		zap.Int("percentage", result.Percentage),
		zap.Bool("passed", result.Passed))
	return s.GetResultByID(result.ID)
}

func (s *ResultService) gradeAnswer(gq GradingQuestion, sub AnswerSubmission) (*model.TestAnswer, *grading.Score, error) {
	answer := &model.TestAnswer{
		QuestionID: gq.QuestionID,
		SortOrder:  gq.SortOrder,
		Weighting:  gq.EffectiveWeighting,
	}

	var score grading.Score
	switch gq.Question.QuestionType {
	case model.QuestionTypeMultipleChoice:
		var correct []uint
		selectedSet := make(map[uint]bool, len(sub.SelectedOptions))
		for _, id := range sub.SelectedOptions {
			selectedSet[id] = true
		}
		for _, opt := range gq.Question.Options {
			if opt.IsCorrect {
				correct = append(correct, opt.ID)
			}
			answer.OptionSnapshots = append(answer.OptionSnapshots, model.OptionSnapshot{
				OptionID:    opt.ID,
				Text:        opt.Text,
				IsCorrect:   opt.IsCorrect,
				WasSelected: selectedSet[opt.ID],
			})
		}
		answer.SelectedOptions = sub.SelectedOptions
		score = grading.MultipleChoice(correct, sub.SelectedOptions, gq.Question.AllowPartialAnswer)

	case model.QuestionTypeOpenQuestion:
		answer.AnswerText = sub.AnswerText
		score = grading.OpenAnswer(sub.AnswerText, gq.Question.ExactAnswer, gq.Question.TriggerWords)
		answer.MatchedTriggers = score.MatchedTriggers

	default:
		return nil, nil, util.ErrUnknownQuestionType
	}

	answer.IsCorrect = score.IsCorrect
	answer.Score = score.Points
	answer.MaxScore = score.MaxPoints
	return answer, &score, nil
}

// nextResultCode derives the next per-test sequential code from the latest
// stored one, so the sequence survives restarts without extra state.
func (s *ResultService) nextResultCode(t *model.Test) (string, error) {
	latest, err := s.Repo.LatestResultCode(t.ID)
	if err != nil {
		return "", err
	}
	var suffix string
	if latest == "" {
		suffix = idgen.NextResultSuffix("")
	} else {
		suffix = idgen.NextResultSuffix(idgen.ResultSuffix(latest))
	}
	return idgen.ResultCode(t.Code, suffix), nil
}

// resolveAssignment picks the assignment this result completes: the explicit
// one when given, otherwise the user's oldest pending assignment for the
// test. No match is fine; ad hoc results exist without assignments.
func (s *ResultService) resolveAssignment(req ResultRequest) (*model.TestAssignment, error) {
	if req.AssignmentID != nil {
		a, err := s.RunRepo.FindAssignmentByID(*req.AssignmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrAssignmentNotFound
			}
			return nil, err
		}
		if a.Status == model.AssignmentStatusCompleted {
			return nil, util.ErrAssignmentCompleted
		}
		return a, nil
	}

	a, err := s.RunRepo.FindPendingAssignment(req.UserID, req.TestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// completeRunIfDone flips the run to completed when its last pending
// assignment is gone. Archived runs keep their status.
func (s *ResultService) completeRunIfDone(runID uint) error {
	pending, err := s.RunRepo.CountRunPending(runID)
	if err != nil || pending > 0 {
		return err
	}
	run, err := s.RunRepo.FindRunByID(runID)
	if err != nil {
		return err
	}
	if run.Status != model.RunStatusPending {
		return nil
	}
	run.Status = model.RunStatusCompleted
	if err := s.RunRepo.UpdateRun(run); err != nil {
		return err
	}
	logger.Log.Info("test run completed", zap.String("runNumber", run.RunNumber))
	return nil
}

type ResultUpdateRequest struct {
	Comment string `json:"comment"`
}

// UpdateResult changes the evaluator comment and records who touched it.
// Scores and answers are frozen at submission.
func (s *ResultService) UpdateResult(id uint, req ResultUpdateRequest, evaluatorID uint) (*model.TestResult, error) {
	result, err := s.GetResultByID(id)
	if err != nil {
		return nil, err
	}
	result.EvaluatorComment = req.Comment
	result.EvaluatorID = &evaluatorID
	if err := s.Repo.UpdateResult(result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ResultService) GetResultByID(id uint) (*model.TestResult, error) {
	result, err := s.Repo.FindResultByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrResultNotFound
		}
		return nil, err
	}
	return result, nil
}

func (s *ResultService) GetAllResults(filters repository.ResultFilters) ([]model.TestResult, int64, error) {
	return s.Repo.ListResults(filters)
}

func (s *ResultService) invalidatePendingCount(userID uint) {
	if s.Redis == nil {
		return
	}
	key := fmt.Sprintf(pendingCountKeyFormat, userID)
	if err := s.Redis.Del(context.Background(), key).Err(); err != nil {
		logger.Log.Warn("pending count cache invalidation failed", zap.Error(err))
	}
}
