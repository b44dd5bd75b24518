package repository

import (
	"knowcheck_backend/internal/model"

	"gorm.io/gorm"
)

type TestRepository struct {
	DB *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{DB: db}
}

// Test category methods

func (r *TestRepository) CreateTestCategory(tc *model.TestCategory) error {
	return r.DB.Create(tc).Error
}

func (r *TestRepository) FindTestCategoryByID(id uint) (*model.TestCategory, error) {
	var tc model.TestCategory
	err := r.DB.First(&tc, id).Error
	return &tc, err
}

func (r *TestRepository) ListTestCategories() ([]model.TestCategory, error) {
	var tcs []model.TestCategory
	err := r.DB.Order("name asc").Find(&tcs).Error
	return tcs, err
}

func (r *TestRepository) UpdateTestCategory(tc *model.TestCategory) error {
	return r.DB.Save(tc).Error
}

// DeleteTestCategory detaches its tests before removing the row.
func (r *TestRepository) DeleteTestCategory(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Test{}).
			Where("test_category_id = ?", id).
			Update("test_category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.TestCategory{}, id).Error
	})
}

// Test methods

func (r *TestRepository) CreateTest(t *model.Test) error {
	return r.DB.Create(t).Error
}

func (r *TestRepository) FindTestByID(id uint) (*model.Test, error) {
	var t model.Test
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order asc, id asc")
	}).First(&t, id).Error
	return &t, err
}

func (r *TestRepository) FindTestByCode(code string) (*model.Test, error) {
	var t model.Test
	err := r.DB.First(&t, "code = ?", code).Error
	return &t, err
}

func (r *TestRepository) ListTests(includeArchived bool) ([]model.Test, error) {
	var ts []model.Test
	query := r.DB.Model(&model.Test{})
	if !includeArchived {
		query = query.Where("is_archived = ?", false)
	}
	err := query.Order("created_at desc").Find(&ts).Error
	return ts, err
}

type TestStatsRow struct {
	model.Test
	QuestionCount   int     `json:"questionCount"`
	AssignmentCount int     `json:"assignmentCount"`
	CompletedCount  int     `json:"completedCount"`
	AveragePercent  float64 `json:"averagePercent"`
}

// ListTestsWithStats derives per-test counters live via subqueries, so the
// numbers always agree with current assignment state.
func (r *TestRepository) ListTestsWithStats(includeArchived bool) ([]TestStatsRow, error) {
	var rows []TestStatsRow
	query := r.DB.Table("tests t").
		Select("t.*, " +
			"(SELECT COUNT(*) FROM test_questions q WHERE q.test_id = t.id AND q.deleted_at IS NULL) as question_count, " +
			"(SELECT COUNT(*) FROM test_assignments a WHERE a.test_id = t.id AND a.deleted_at IS NULL) as assignment_count, " +
			"(SELECT COUNT(*) FROM test_assignments a WHERE a.test_id = t.id AND a.deleted_at IS NULL AND a.status = 'completed') as completed_count, " +
			"(SELECT COALESCE(AVG(res.percentage), 0) FROM test_results res WHERE res.test_id = t.id AND res.deleted_at IS NULL) as average_percent").
		Where("t.deleted_at IS NULL")
	if !includeArchived {
		query = query.Where("t.is_archived = ?", false)
	}
	err := query.Order("t.created_at desc").Scan(&rows).Error
	return rows, err
}

func (r *TestRepository) UpdateTest(t *model.Test) error {
	return r.DB.Omit("Questions").Save(t).Error
}

// ReplaceTestQuestions swaps the question list wholesale, preserving the
// caller-supplied order as sort_order.
func (r *TestRepository) ReplaceTestQuestions(testID uint, rows []model.TestQuestion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("test_id = ?", testID).
			Delete(&model.TestQuestion{}).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].ID = 0
			rows[i].TestID = testID
			rows[i].SortOrder = i
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *TestRepository) CountAssignmentsForTest(testID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestAssignment{}).Where("test_id = ?", testID).Count(&count).Error
	return count, err
}

func (r *TestRepository) CountResultsForTest(testID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestResult{}).Where("test_id = ?", testID).Count(&count).Error
	return count, err
}

// HardDeleteTest physically removes an unused test with its join rows.
func (r *TestRepository) HardDeleteTest(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("test_id = ?", id).Delete(&model.TestQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("test_id = ?", id).Delete(&model.TestRunTest{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Test{}, id).Error
	})
}

// PurgeTest removes an archived test together with its historical results and
// their answers. This is the deliberate destruction path.
func (r *TestRepository) PurgeTest(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var resultIDs []uint
		if err := tx.Model(&model.TestResult{}).Where("test_id = ?", id).
			Pluck("id", &resultIDs).Error; err != nil {
			return err
		}
		if len(resultIDs) > 0 {
			if err := tx.Unscoped().Where("result_id IN ?", resultIDs).Delete(&model.TestAnswer{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("id IN ?", resultIDs).Delete(&model.TestResult{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().Where("test_id = ?", id).Delete(&model.TestAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("test_id = ?", id).Delete(&model.TestQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("test_id = ?", id).Delete(&model.TestRunTest{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Test{}, id).Error
	})
}

func (r *TestRepository) CountArchivedTests() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Test{}).Where("is_archived = ?", true).Count(&count).Error
	return count, err
}
