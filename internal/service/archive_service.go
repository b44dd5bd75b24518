package service

import (
	"errors"
	"knowcheck_backend/internal/model"
	"knowcheck_backend/internal/repository"
	"knowcheck_backend/internal/util"
	"knowcheck_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ArchiveService applies one rule to every deletion request: content that has
// ever been used in a graded result is archived, never destroyed; unused
// content is removed outright with its exclusively-owned children.
type ArchiveService struct {
	CatalogRepo *repository.CatalogRepository
	TestRepo    *repository.TestRepository
	RunRepo     *repository.TestRunRepository
	ResultRepo  *repository.ResultRepository
}

func NewArchiveService(
	catalogRepo *repository.CatalogRepository,
	testRepo *repository.TestRepository,
	runRepo *repository.TestRunRepository,
	resultRepo *repository.ResultRepository,
) *ArchiveService {
	return &ArchiveService{
		CatalogRepo: catalogRepo,
		TestRepo:    testRepo,
		RunRepo:     runRepo,
		ResultRepo:  resultRepo,
	}
}

// DeleteOutcome tells the caller which branch was taken so it can show the
// right confirmation message.
type DeleteOutcome struct {
	Archived bool `json:"archived"`
	Deleted  bool `json:"deleted"`
}

// DeleteQuestion archives the question when any answer or assignment
// references it, scrubbing its memberships in not-yet-attempted tests so it
// stops surfacing in authoring. Otherwise the question and its options are
// hard-deleted.
func (s *ArchiveService) DeleteQuestion(id uint) (*DeleteOutcome, error) {
	q, err := s.CatalogRepo.FindQuestionByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}

	answers, err := s.CatalogRepo.CountAnswersForQuestion(id)
	if err != nil {
		return nil, err
	}
	assignments, err := s.CatalogRepo.CountAssignmentsForQuestion(id)
	if err != nil {
		return nil, err
	}

	if answers > 0 || assignments > 0 {
		now := time.Now()
		q.IsArchived = true
		q.ArchivedAt = &now
		if err := s.CatalogRepo.UpdateQuestion(q); err != nil {
			return nil, err
		}
		if err := s.CatalogRepo.ScrubUnattemptedMemberships(id); err != nil {
			return nil, err
		}
		logger.Log.Info("question archived", zap.Uint("id", id), zap.Int64("answers", answers))
		return &DeleteOutcome{Archived: true}, nil
	}

	if err := s.CatalogRepo.HardDeleteQuestion(id); err != nil {
		return nil, err
	}
	return &DeleteOutcome{Deleted: true}, nil
}

// RestoreQuestion clears the archive flags. Memberships scrubbed at archive
// time are not re-attached.
func (s *ArchiveService) RestoreQuestion(id uint) error {
	q, err := s.CatalogRepo.FindQuestionByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	q.IsArchived = false
	q.ArchivedAt = nil
	return s.CatalogRepo.UpdateQuestion(q)
}

// PermanentDeleteQuestion purges an already-archived question, including the
// orphaned answer rows that pointed at it.
func (s *ArchiveService) PermanentDeleteQuestion(id uint) error {
	q, err := s.CatalogRepo.FindQuestionByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	if !q.IsArchived {
		return util.ErrNotArchived
	}
	logger.Log.Warn("permanently deleting question", zap.Uint("id", id))
	return s.CatalogRepo.PurgeQuestion(id)
}

// DeleteTest archives a test that any assignment or result references,
// forcing it inactive; an unused test is hard-deleted with its join rows.
func (s *ArchiveService) DeleteTest(id uint) (*DeleteOutcome, error) {
	t, err := s.TestRepo.FindTestByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}

	assignments, err := s.TestRepo.CountAssignmentsForTest(id)
	if err != nil {
		return nil, err
	}
	results, err := s.TestRepo.CountResultsForTest(id)
	if err != nil {
		return nil, err
	}

	if assignments > 0 || results > 0 {
		now := time.Now()
		t.IsArchived = true
		t.IsActive = false
		t.ArchivedAt = &now
		if err := s.TestRepo.UpdateTest(t); err != nil {
			return nil, err
		}
		logger.Log.Info("test archived", zap.Uint("id", id), zap.String("code", t.Code))
		return &DeleteOutcome{Archived: true}, nil
	}

	if err := s.TestRepo.HardDeleteTest(id); err != nil {
		return nil, err
	}
	return &DeleteOutcome{Deleted: true}, nil
}

// RestoreTest clears the archive flags. The test stays inactive until
// explicitly re-activated through authoring.
func (s *ArchiveService) RestoreTest(id uint) error {
	t, err := s.TestRepo.FindTestByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrTestNotFound
		}
		return err
	}
	t.IsArchived = false
	t.ArchivedAt = nil
	return s.TestRepo.UpdateTest(t)
}

// PermanentDeleteTest purges an archived test with its historical results
// and answers.
func (s *ArchiveService) PermanentDeleteTest(id uint) error {
	t, err := s.TestRepo.FindTestByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrTestNotFound
		}
		return err
	}
	if !t.IsArchived {
		return util.ErrNotArchived
	}
	logger.Log.Warn("permanently deleting test", zap.Uint("id", id), zap.String("code", t.Code))
	return s.TestRepo.PurgeTest(id)
}

// DeleteTestRun archives the run when any of its assignments carries a
// result, so users' history stays traceable to the run that produced it.
func (s *ArchiveService) DeleteTestRun(id uint) (*DeleteOutcome, error) {
	run, err := s.RunRepo.FindRunByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestRunNotFound
		}
		return nil, err
	}

	results, err := s.RunRepo.CountRunResults(id)
	if err != nil {
		return nil, err
	}

	if results > 0 {
		now := time.Now()
		run.Status = model.RunStatusArchived
		run.ArchivedAt = &now
		if err := s.RunRepo.UpdateRun(run); err != nil {
			return nil, err
		}
		logger.Log.Info("test run archived", zap.Uint("id", id), zap.String("runNumber", run.RunNumber))
		return &DeleteOutcome{Archived: true}, nil
	}

	if err := s.RunRepo.HardDeleteRun(id); err != nil {
		return nil, err
	}
	return &DeleteOutcome{Deleted: true}, nil
}

// RestoreTestRun clears the archived status, deriving pending or completed
// from current assignment state.
func (s *ArchiveService) RestoreTestRun(id uint) error {
	run, err := s.RunRepo.FindRunByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrTestRunNotFound
		}
		return err
	}
	pending, err := s.RunRepo.CountRunPending(id)
	if err != nil {
		return err
	}
	if pending > 0 {
		run.Status = model.RunStatusPending
	} else {
		run.Status = model.RunStatusCompleted
	}
	run.ArchivedAt = nil
	return s.RunRepo.UpdateRun(run)
}

// PermanentDeleteTestRun purges an archived run with its assignments.
// Results stay: they reference the test and user, not the run.
func (s *ArchiveService) PermanentDeleteTestRun(id uint) error {
	run, err := s.RunRepo.FindRunByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrTestRunNotFound
		}
		return err
	}
	if run.Status != model.RunStatusArchived {
		return util.ErrNotArchived
	}
	logger.Log.Warn("permanently deleting test run", zap.Uint("id", id), zap.String("runNumber", run.RunNumber))
	return s.RunRepo.HardDeleteRun(id)
}

// ArchiveStatistics summarizes soft-retired content for the maintenance view.
type ArchiveStatistics struct {
	ArchivedQuestions int64 `json:"archivedQuestions"`
	ArchivedTests     int64 `json:"archivedTests"`
	ArchivedRuns      int64 `json:"archivedRuns"`
	TotalResults      int64 `json:"totalResults"`
}

func (s *ArchiveService) GetArchiveStatistics() (*ArchiveStatistics, error) {
	stats := &ArchiveStatistics{}
	var err error
	if stats.ArchivedQuestions, err = s.CatalogRepo.CountArchivedQuestions(); err != nil {
		return nil, err
	}
	if stats.ArchivedTests, err = s.TestRepo.CountArchivedTests(); err != nil {
		return nil, err
	}
	if stats.ArchivedRuns, err = s.RunRepo.CountArchivedRuns(); err != nil {
		return nil, err
	}
	if stats.TotalResults, err = s.ResultRepo.CountResults(); err != nil {
		return nil, err
	}
	return stats, nil
}
