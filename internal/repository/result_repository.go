package repository

import (
	"errors"
	"knowcheck_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

// CreateResultWithAnswers persists a graded attempt atomically: the result
// row, every answer row and the assignment completion in one transaction.
// The assignment's result link is set exactly once here; assignments never
// reopen.
func (r *ResultRepository) CreateResultWithAnswers(result *model.TestResult, answers []model.TestAnswer, assignment *model.TestAssignment) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(result).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].ResultID = result.ID
			answers[i].SortOrder = i
			if err := tx.Create(&answers[i]).Error; err != nil {
				return err
			}
		}
		if assignment != nil {
			now := time.Now()
			assignment.Status = model.AssignmentStatusCompleted
			assignment.ResultID = &result.ID
			assignment.CompletedAt = &now
			if err := tx.Save(assignment).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ResultRepository) FindResultByID(id uint) (*model.TestResult, error) {
	var res model.TestResult
	err := r.DB.Preload("Answers", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order asc, id asc")
	}).First(&res, id).Error
	return &res, err
}

func (r *ResultRepository) UpdateResult(res *model.TestResult) error {
	return r.DB.Omit("Answers").Save(res).Error
}

// LatestResultCode returns the most recently created result code for a test,
// or empty when the test has no results yet.
func (r *ResultRepository) LatestResultCode(testID uint) (string, error) {
	var res model.TestResult
	err := r.DB.Where("test_id = ?", testID).Order("id desc").First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return res.Code, err
}

type ResultFilters struct {
	TestID uint
	UserID uint
	Passed *bool
	Page   int
	Limit  int
}

func (r *ResultRepository) ListResults(f ResultFilters) ([]model.TestResult, int64, error) {
	var rs []model.TestResult
	var total int64

	query := r.DB.Model(&model.TestResult{})
	if f.TestID > 0 {
		query = query.Where("test_id = ?", f.TestID)
	}
	if f.UserID > 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Passed != nil {
		query = query.Where("passed = ?", *f.Passed)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Page > 0 && f.Limit > 0 {
		query = query.Offset((f.Page - 1) * f.Limit).Limit(f.Limit)
	}
	err := query.Order("created_at desc").Find(&rs).Error
	return rs, total, err
}

func (r *ResultRepository) CountResults() (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestResult{}).Count(&count).Error
	return count, err
}
