package service

import (
	"context"
	"errors"
	"fmt"
	"knowcheck_backend/internal/model"
	"knowcheck_backend/internal/repository"
	"knowcheck_backend/internal/util"
	"knowcheck_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	pendingCountKeyFormat = "pending_assignments:%d"
	pendingCountTTL       = 5 * time.Minute

	orphanRunName = "Unassigned"
)

// TestRunService orchestrates batch runs and individual assignments. Redis
// only backs the pending-count badge; a nil client degrades to plain counts.
type TestRunService struct {
	Repo     *repository.TestRunRepository
	TestRepo *repository.TestRepository
	Archive  *ArchiveService
	Redis    *redis.Client
}

func NewTestRunService(repo *repository.TestRunRepository, testRepo *repository.TestRepository, archive *ArchiveService, rdb *redis.Client) *TestRunService {
	return &TestRunService{Repo: repo, TestRepo: testRepo, Archive: archive, Redis: rdb}
}

type TestRunRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	TestIDs     []uint     `json:"testIds" binding:"required"`
	UserIDs     []uint     `json:"userIds" binding:"required"`
	DueDate     *time.Time `json:"dueDate"`
}

// CreateTestRun creates the run, its test joins and the full users × tests
// assignment fan-out in one transaction. This is the only bulk-creation path
// for assignments.
func (s *TestRunService) CreateTestRun(req TestRunRequest, createdBy uint) (*model.TestRun, error) {
	if len(req.TestIDs) == 0 || len(req.UserIDs) == 0 {
		return nil, util.ErrNoUsersOrTests
	}
	for _, testID := range req.TestIDs {
		if _, err := s.TestRepo.FindTestByID(testID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrTestNotFound
			}
			return nil, err
		}
	}

	run := &model.TestRun{
		Name:        req.Name,
		Description: req.Description,
		Status:      model.RunStatusPending,
		DueDate:     req.DueDate,
		CreatedBy:   createdBy,
	}
	if err := s.Repo.CreateRunBatch(run, req.TestIDs, req.UserIDs); err != nil {
		return nil, err
	}

	for _, userID := range req.UserIDs {
		s.invalidatePendingCount(userID)
	}

	logger.Log.Info("test run created",
		zap.String("runNumber", run.RunNumber),
		zap.Int("tests", len(req.TestIDs)),
		zap.Int("users", len(req.UserIDs)))
	return run, nil
}

func (s *TestRunService) GetAllTestRuns() ([]model.TestRun, error) {
	return s.Repo.ListRuns()
}

// RunStats are derived live from the assignment set at read time, never
// stored, so they always agree with current state.
type RunStats struct {
	TotalCount        int     `json:"totalCount"`
	CompletedCount    int     `json:"completedCount"`
	PendingCount      int     `json:"pendingCount"`
	AveragePercentage float64 `json:"averagePercentage"`
}

type TestRunDetail struct {
	Run         model.TestRun          `json:"run"`
	Tests       []model.Test           `json:"tests"`
	Assignments []model.TestAssignment `json:"assignments"`
	Stats       RunStats               `json:"stats"`
}

func (s *TestRunService) GetTestRunByID(id uint) (*TestRunDetail, error) {
	run, err := s.Repo.FindRunByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestRunNotFound
		}
		return nil, err
	}

	tests, err := s.Repo.ListRunTests(id)
	if err != nil {
		return nil, err
	}
	assignments, err := s.Repo.ListRunAssignments(id)
	if err != nil {
		return nil, err
	}

	detail := &TestRunDetail{Run: *run, Tests: tests, Assignments: assignments}
	detail.Stats.TotalCount = len(assignments)
	for _, a := range assignments {
		if a.Status == model.AssignmentStatusCompleted {
			detail.Stats.CompletedCount++
		} else {
			detail.Stats.PendingCount++
		}
	}
	if detail.Stats.CompletedCount > 0 {
		avg, err := s.Repo.RunAveragePercentage(id)
		if err != nil {
			return nil, err
		}
		detail.Stats.AveragePercentage = avg
	}
	return detail, nil
}

// DeleteTestRun delegates the archive-or-delete decision and, when the run's
// assignments were destroyed, drops the affected users' badge counts.
func (s *TestRunService) DeleteTestRun(id uint) (*DeleteOutcome, error) {
	assignments, err := s.Repo.ListRunAssignments(id)
	if err != nil {
		return nil, err
	}

	outcome, err := s.Archive.DeleteTestRun(id)
	if err != nil {
		return nil, err
	}
	if outcome.Deleted {
		for _, a := range assignments {
			s.invalidatePendingCount(a.UserID)
		}
	}
	return outcome, nil
}

func (s *TestRunService) RestoreTestRun(id uint) error {
	return s.Archive.RestoreTestRun(id)
}

func (s *TestRunService) PermanentDeleteTestRun(id uint) error {
	return s.Archive.PermanentDeleteTestRun(id)
}

// Assignments

type AssignmentRequest struct {
	TestID  uint       `json:"testId" binding:"required"`
	UserID  uint       `json:"userId" binding:"required"`
	DueDate *time.Time `json:"dueDate"`
}

// CreateAssignment grants a single test to a single user outside any run.
func (s *TestRunService) CreateAssignment(req AssignmentRequest, assignedBy uint) (*model.TestAssignment, error) {
	if _, err := s.TestRepo.FindTestByID(req.TestID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}

	a := &model.TestAssignment{
		TestID:     req.TestID,
		UserID:     req.UserID,
		Status:     model.AssignmentStatusPending,
		AssignedBy: assignedBy,
		DueDate:    req.DueDate,
	}
	if err := s.Repo.CreateAssignment(a); err != nil {
		return nil, err
	}
	s.invalidatePendingCount(req.UserID)
	return a, nil
}

type AssignmentUpdateRequest struct {
	DueDate *time.Time `json:"dueDate"`
}

// UpdateAssignment adjusts the due date. Completed assignments are frozen:
// their result link is set exactly once at submission and never changes.
func (s *TestRunService) UpdateAssignment(id uint, req AssignmentUpdateRequest) (*model.TestAssignment, error) {
	a, err := s.Repo.FindAssignmentByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssignmentNotFound
		}
		return nil, err
	}
	if a.Status == model.AssignmentStatusCompleted {
		return nil, util.ErrAssignmentCompleted
	}
	a.DueDate = req.DueDate
	if err := s.Repo.UpdateAssignment(a); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteAssignment withdraws a pending grant. A completed assignment stays:
// removing it would orphan its result.
func (s *TestRunService) DeleteAssignment(id uint) error {
	a, err := s.Repo.FindAssignmentByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrAssignmentNotFound
		}
		return err
	}
	if a.Status == model.AssignmentStatusCompleted {
		return util.ErrAssignmentCompleted
	}
	if err := s.Repo.DeleteAssignment(id); err != nil {
		return err
	}
	s.invalidatePendingCount(a.UserID)
	return nil
}

// AssignmentView decorates an assignment with its test's display fields.
type AssignmentView struct {
	model.TestAssignment
	TestCode         string `json:"testCode"`
	TestTitle        string `json:"testTitle"`
	TimeLimitMinutes int    `json:"timeLimitMinutes"`
}

func (s *TestRunService) GetMyAssignments(userID uint) ([]AssignmentView, error) {
	assignments, err := s.Repo.ListAssignmentsByUser(userID)
	if err != nil {
		return nil, err
	}

	views := make([]AssignmentView, 0, len(assignments))
	for _, a := range assignments {
		view := AssignmentView{TestAssignment: a}
		if t, err := s.TestRepo.FindTestByID(a.TestID); err == nil {
			view.TestCode = t.Code
			view.TestTitle = t.Title
			view.TimeLimitMinutes = t.TimeLimitMinutes
		}
		views = append(views, view)
	}
	return views, nil
}

// GetPendingAssignmentsCount serves the badge counter, cached in Redis with
// a short TTL and invalidated on every assignment mutation.
func (s *TestRunService) GetPendingAssignmentsCount(userID uint) (int64, error) {
	ctx := context.Background()
	key := fmt.Sprintf(pendingCountKeyFormat, userID)

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, key).Int64(); err == nil {
			return cached, nil
		}
	}

	count, err := s.Repo.CountPendingByUser(userID)
	if err != nil {
		return 0, err
	}
	if s.Redis != nil {
		if err := s.Redis.Set(ctx, key, count, pendingCountTTL).Err(); err != nil {
			logger.Log.Warn("pending count cache write failed", zap.Error(err))
		}
	}
	return count, nil
}

func (s *TestRunService) invalidatePendingCount(userID uint) {
	if s.Redis == nil {
		return
	}
	key := fmt.Sprintf(pendingCountKeyFormat, userID)
	if err := s.Redis.Del(context.Background(), key).Err(); err != nil {
		logger.Log.Warn("pending count cache invalidation failed", zap.Error(err))
	}
}

// Maintenance

type MigrationOutcome struct {
	Migrated int64  `json:"migrated"`
	RunID    uint   `json:"runId,omitempty"`
	RunName  string `json:"runName,omitempty"`
}

// MigrateOrphanedAssignments buckets assignments that predate the run system
// into one synthetic run. Idempotent: a second call finds nothing to move and
// reuses the same run.
func (s *TestRunService) MigrateOrphanedAssignments() (*MigrationOutcome, error) {
	orphans, err := s.Repo.CountOrphanedAssignments()
	if err != nil {
		return nil, err
	}
	if orphans == 0 {
		return &MigrationOutcome{}, nil
	}

	run, err := s.Repo.FindRunByName(orphanRunName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		run = &model.TestRun{
			Name:        orphanRunName,
			Description: "Synthetic run holding assignments created before test runs existed",
			Status:      model.RunStatusPending,
		}
		if err := s.Repo.CreateRunBatch(run, nil, nil); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	moved, err := s.Repo.AdoptOrphanedAssignments(run.ID)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("orphaned assignments migrated",
		zap.Int64("count", moved), zap.String("runNumber", run.RunNumber))
	return &MigrationOutcome{Migrated: moved, RunID: run.ID, RunName: run.Name}, nil
}

func (s *TestRunService) GetOrphanedAssignmentsCount() (int64, error) {
	return s.Repo.CountOrphanedAssignments()
}

// FlagOverdueRuns logs pending runs past their due date and returns how many
// were found. Invoked by the background ticker; it never mutates results.
func (s *TestRunService) FlagOverdueRuns() (int, error) {
	runs, err := s.Repo.ListOverduePendingRuns()
	if err != nil {
		return 0, err
	}
	for _, run := range runs {
		logger.Log.Warn("test run overdue",
			zap.String("runNumber", run.RunNumber),
			zap.Timep("dueDate", run.DueDate))
	}
	return len(runs), nil
}
