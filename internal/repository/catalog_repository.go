package repository

import (
	"knowcheck_backend/internal/model"

	"gorm.io/gorm"
)

// CatalogRepository owns categories, questions and their options.
type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

// Category methods

func (r *CatalogRepository) CreateCategory(c *model.Category) error {
	return r.DB.Create(c).Error
}

func (r *CatalogRepository) FindCategoryByID(id uint) (*model.Category, error) {
	var c model.Category
	err := r.DB.First(&c, id).Error
	return &c, err
}

func (r *CatalogRepository) ListCategories() ([]model.Category, error) {
	var cs []model.Category
	err := r.DB.Order("name asc").Find(&cs).Error
	return cs, err
}

func (r *CatalogRepository) UpdateCategory(c *model.Category) error {
	return r.DB.Save(c).Error
}

// DeleteCategory reassigns the category's questions to uncategorized before
// removing the row. Categories are soft references, never a cascade.
func (r *CatalogRepository) DeleteCategory(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Question{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Category{}, id).Error
	})
}

// Question methods

func (r *CatalogRepository) CreateQuestion(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *CatalogRepository) FindQuestionByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order asc, id asc")
	}).First(&q, id).Error
	return &q, err
}

func (r *CatalogRepository) ListQuestions(categoryID uint, includeArchived bool) ([]model.Question, error) {
	var qs []model.Question
	query := r.DB.Model(&model.Question{}).Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order asc, id asc")
	})
	if categoryID > 0 {
		query = query.Where("category_id = ?", categoryID)
	}
	if !includeArchived {
		query = query.Where("is_archived = ?", false)
	}
	err := query.Order("created_at desc").Find(&qs).Error
	return qs, err
}

// ListQuestionsByIDs fetches questions with their options, for assembling a
// test's grading view.
func (r *CatalogRepository) ListQuestionsByIDs(ids []uint) ([]model.Question, error) {
	var qs []model.Question
	if len(ids) == 0 {
		return qs, nil
	}
	err := r.DB.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order asc, id asc")
	}).Where("id IN ?", ids).Find(&qs).Error
	return qs, err
}

func (r *CatalogRepository) UpdateQuestion(q *model.Question) error {
	return r.DB.Omit("Options").Save(q).Error
}

// ReplaceOptions swaps a question's option set wholesale: delete-all then
// reinsert, preserving caller order.
func (r *CatalogRepository) ReplaceOptions(questionID uint, options []model.QuestionOption) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("question_id = ?", questionID).
			Delete(&model.QuestionOption{}).Error; err != nil {
			return err
		}
		for i := range options {
			options[i].ID = 0
			options[i].QuestionID = questionID
			options[i].SortOrder = i
			if err := tx.Create(&options[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CountAnswersForQuestion reports how many historical answers reference the
// question. Non-zero means the question can only be archived.
func (r *CatalogRepository) CountAnswersForQuestion(questionID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestAnswer{}).Where("question_id = ?", questionID).Count(&count).Error
	return count, err
}

// CountAssignmentsForQuestion counts assignments of any test containing the
// question.
func (r *CatalogRepository) CountAssignmentsForQuestion(questionID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestAssignment{}).
		Where("test_id IN (?)", r.DB.Model(&model.TestQuestion{}).
			Select("test_id").Where("question_id = ?", questionID)).
		Count(&count).Error
	return count, err
}

// ScrubUnattemptedMemberships removes the question from tests that have no
// assignments yet, so an archived question stops surfacing in authoring
// flows. Memberships in attempted tests stay for historical integrity.
func (r *CatalogRepository) ScrubUnattemptedMemberships(questionID uint) error {
	return r.DB.Unscoped().
		Where("question_id = ?", questionID).
		Where("test_id NOT IN (?)", r.DB.Model(&model.TestAssignment{}).Select("test_id")).
		Where("test_id NOT IN (?)", r.DB.Model(&model.TestResult{}).Select("test_id")).
		Delete(&model.TestQuestion{}).Error
}

// HardDeleteQuestion physically removes an unused question with its
// exclusively-owned children.
func (r *CatalogRepository) HardDeleteQuestion(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("question_id = ?", id).Delete(&model.QuestionOption{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("question_id = ?", id).Delete(&model.TestQuestion{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Question{}, id).Error
	})
}

// PurgeQuestion removes an archived question together with the orphaned
// answer rows that pointed at it.
func (r *CatalogRepository) PurgeQuestion(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("question_id = ?", id).Delete(&model.TestAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("question_id = ?", id).Delete(&model.QuestionOption{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("question_id = ?", id).Delete(&model.TestQuestion{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Question{}, id).Error
	})
}

// CountArchivedQuestions supports the archive statistics view.
func (r *CatalogRepository) CountArchivedQuestions() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("is_archived = ?", true).Count(&count).Error
	return count, err
}
