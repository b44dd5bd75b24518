package repository

import (
	"errors"
	"knowcheck_backend/internal/idgen"
	"knowcheck_backend/internal/model"

	"gorm.io/gorm"
)

type TestRunRepository struct {
	DB *gorm.DB
}

func NewTestRunRepository(db *gorm.DB) *TestRunRepository {
	return &TestRunRepository{DB: db}
}

// CreateRunBatch creates the run row, its run-test joins and one assignment
// per (user, test) pair in a single transaction. The run number scan and
// increment happen inside the same transaction so concurrent creations
// serialize on the store instead of losing updates.
func (r *TestRunRepository) CreateRunBatch(run *model.TestRun, testIDs, userIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var latest model.TestRun
		err := tx.Order("id desc").First(&latest).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		run.RunNumber = idgen.NextRunNumber(latest.RunNumber)

		if err := tx.Create(run).Error; err != nil {
			return err
		}
		for _, testID := range testIDs {
			if err := tx.Create(&model.TestRunTest{TestRunID: run.ID, TestID: testID}).Error; err != nil {
				return err
			}
		}
		for _, userID := range userIDs {
			for _, testID := range testIDs {
				assignment := model.TestAssignment{
					TestID:     testID,
					UserID:     userID,
					TestRunID:  &run.ID,
					Status:     model.AssignmentStatusPending,
					AssignedBy: run.CreatedBy,
					DueDate:    run.DueDate,
				}
				if err := tx.Create(&assignment).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (r *TestRunRepository) FindRunByID(id uint) (*model.TestRun, error) {
	var run model.TestRun
	err := r.DB.First(&run, id).Error
	return &run, err
}

func (r *TestRunRepository) ListRuns() ([]model.TestRun, error) {
	var runs []model.TestRun
	err := r.DB.Order("created_at desc").Find(&runs).Error
	return runs, err
}

func (r *TestRunRepository) FindRunByName(name string) (*model.TestRun, error) {
	var run model.TestRun
	err := r.DB.First(&run, "name = ?", name).Error
	return &run, err
}

func (r *TestRunRepository) UpdateRun(run *model.TestRun) error {
	return r.DB.Save(run).Error
}

func (r *TestRunRepository) ListRunTests(runID uint) ([]model.Test, error) {
	var tests []model.Test
	err := r.DB.Model(&model.Test{}).
		Where("id IN (?)", r.DB.Model(&model.TestRunTest{}).
			Select("test_id").Where("test_run_id = ?", runID)).
		Find(&tests).Error
	return tests, err
}

func (r *TestRunRepository) ListRunAssignments(runID uint) ([]model.TestAssignment, error) {
	var as []model.TestAssignment
	err := r.DB.Where("test_run_id = ?", runID).Order("created_at asc, id asc").Find(&as).Error
	return as, err
}

// CountRunResults reports how many assignments under the run carry a result.
// Non-zero forces archive instead of delete.
func (r *TestRunRepository) CountRunResults(runID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestAssignment{}).
		Where("test_run_id = ? AND result_id IS NOT NULL", runID).
		Count(&count).Error
	return count, err
}

// CountRunPending reports assignments under the run still awaiting a result.
func (r *TestRunRepository) CountRunPending(runID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestAssignment{}).
		Where("test_run_id = ? AND status = ?", runID, model.AssignmentStatusPending).
		Count(&count).Error
	return count, err
}

// RunAveragePercentage averages the percentages of every result produced
// under the run. Zero when nothing has been submitted yet.
func (r *TestRunRepository) RunAveragePercentage(runID uint) (float64, error) {
	var avg *float64
	err := r.DB.Model(&model.TestResult{}).
		Select("AVG(percentage)").
		Where("id IN (?)", r.DB.Model(&model.TestAssignment{}).
			Select("result_id").
			Where("test_run_id = ? AND result_id IS NOT NULL", runID)).
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}

// HardDeleteRun physically removes an unattempted run with its assignments
// and join rows.
func (r *TestRunRepository) HardDeleteRun(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("test_run_id = ?", id).Delete(&model.TestAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("test_run_id = ?", id).Delete(&model.TestRunTest{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.TestRun{}, id).Error
	})
}

func (r *TestRunRepository) CountArchivedRuns() (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestRun{}).Where("status = ?", model.RunStatusArchived).Count(&count).Error
	return count, err
}

// ListOverduePendingRuns returns pending runs whose due date has passed.
func (r *TestRunRepository) ListOverduePendingRuns() ([]model.TestRun, error) {
	var runs []model.TestRun
	err := r.DB.Where("status = ? AND due_date IS NOT NULL AND due_date < CURRENT_TIMESTAMP", model.RunStatusPending).
		Find(&runs).Error
	return runs, err
}

// Assignment methods

func (r *TestRunRepository) CreateAssignment(a *model.TestAssignment) error {
	return r.DB.Create(a).Error
}

func (r *TestRunRepository) FindAssignmentByID(id uint) (*model.TestAssignment, error) {
	var a model.TestAssignment
	err := r.DB.First(&a, id).Error
	return &a, err
}

func (r *TestRunRepository) FindPendingAssignment(userID, testID uint) (*model.TestAssignment, error) {
	var a model.TestAssignment
	err := r.DB.Where("user_id = ? AND test_id = ? AND status = ?",
		userID, testID, model.AssignmentStatusPending).
		Order("created_at asc").First(&a).Error
	return &a, err
}

func (r *TestRunRepository) UpdateAssignment(a *model.TestAssignment) error {
	return r.DB.Save(a).Error
}

func (r *TestRunRepository) DeleteAssignment(id uint) error {
	return r.DB.Delete(&model.TestAssignment{}, id).Error
}

func (r *TestRunRepository) ListAssignmentsByUser(userID uint) ([]model.TestAssignment, error) {
	var as []model.TestAssignment
	err := r.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&as).Error
	return as, err
}

func (r *TestRunRepository) CountPendingByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestAssignment{}).
		Where("user_id = ? AND status = ?", userID, model.AssignmentStatusPending).
		Count(&count).Error
	return count, err
}

// Orphan maintenance

func (r *TestRunRepository) CountOrphanedAssignments() (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestAssignment{}).Where("test_run_id IS NULL").Count(&count).Error
	return count, err
}

// AdoptOrphanedAssignments moves every runless assignment under the given
// run and returns how many were moved.
func (r *TestRunRepository) AdoptOrphanedAssignments(runID uint) (int64, error) {
	res := r.DB.Model(&model.TestAssignment{}).
		Where("test_run_id IS NULL").
		Update("test_run_id", runID)
	return res.RowsAffected, res.Error
}
