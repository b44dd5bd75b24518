package service

import (
	"errors"
	"knowcheck_backend/internal/grading"
	"knowcheck_backend/internal/model"
	"knowcheck_backend/internal/repository"
	"knowcheck_backend/internal/util"

	"gorm.io/gorm"
)

// CatalogService manages the question catalog: categories, questions and
// multiple-choice options. Deletion always goes through the archive manager.
type CatalogService struct {
	Repo    *repository.CatalogRepository
	Archive *ArchiveService
}

func NewCatalogService(repo *repository.CatalogRepository, archive *ArchiveService) *CatalogService {
	return &CatalogService{Repo: repo, Archive: archive}
}

type CategoryRequest struct {
	Name             string   `json:"name" binding:"required"`
	Description      string   `json:"description"`
	DefaultWeighting *float64 `json:"defaultWeighting"`
}

func (s *CatalogService) CreateCategory(req CategoryRequest) (*model.Category, error) {
	c := &model.Category{
		Name:             req.Name,
		Description:      req.Description,
		DefaultWeighting: req.DefaultWeighting,
	}
	if err := s.Repo.CreateCategory(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) ListCategories() ([]model.Category, error) {
	return s.Repo.ListCategories()
}

func (s *CatalogService) UpdateCategory(id uint, req CategoryRequest) (*model.Category, error) {
	c, err := s.Repo.FindCategoryByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCategoryNotFound
		}
		return nil, err
	}
	c.Name = req.Name
	c.Description = req.Description
	c.DefaultWeighting = req.DefaultWeighting
	if err := s.Repo.UpdateCategory(c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory reassigns the category's questions to uncategorized; it is
// never blocked by historical results because categories are soft references.
func (s *CatalogService) DeleteCategory(id uint) error {
	if _, err := s.Repo.FindCategoryByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCategoryNotFound
		}
		return err
	}
	return s.Repo.DeleteCategory(id)
}

type OptionRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuestionRequest struct {
	CategoryID         *uint           `json:"categoryId"`
	QuestionType       string          `json:"questionType" binding:"required"`
	Title              string          `json:"title"`
	Content            string          `json:"content" binding:"required"`
	Weighting          *float64        `json:"weighting"`
	AllowPartialAnswer bool            `json:"allowPartialAnswer"`
	ExactAnswer        string          `json:"exactAnswer"`
	TriggerWords       []string        `json:"triggerWords"`
	Explanation        string          `json:"explanation"`
	IsActive           *bool           `json:"isActive"`
	Options            []OptionRequest `json:"options"`
}

func validateQuestionType(t string) error {
	switch t {
	case model.QuestionTypeMultipleChoice, model.QuestionTypeOpenQuestion:
		return nil
	default:
		return util.ErrUnknownQuestionType
	}
}

func (s *CatalogService) CreateQuestion(req QuestionRequest) (*model.Question, error) {
	if err := validateQuestionType(req.QuestionType); err != nil {
		return nil, err
	}

	q := &model.Question{
		CategoryID:         req.CategoryID,
		QuestionType:       req.QuestionType,
		Title:              req.Title,
		Content:            req.Content,
		Weighting:          req.Weighting,
		AllowPartialAnswer: req.AllowPartialAnswer,
		Explanation:        req.Explanation,
		IsActive:           true,
	}
	if req.IsActive != nil {
		q.IsActive = *req.IsActive
	}
	switch req.QuestionType {
	case model.QuestionTypeMultipleChoice:
		for i, opt := range req.Options {
			q.Options = append(q.Options, model.QuestionOption{
				Text:      opt.Text,
				IsCorrect: opt.IsCorrect,
				SortOrder: i,
			})
		}
	case model.QuestionTypeOpenQuestion:
		q.ExactAnswer = req.ExactAnswer
		q.TriggerWords = req.TriggerWords
	}

	if err := s.Repo.CreateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *CatalogService) GetQuestion(id uint) (*model.Question, error) {
	q, err := s.Repo.FindQuestionByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}

func (s *CatalogService) ListQuestions(categoryID uint, includeArchived bool) ([]model.Question, error) {
	return s.Repo.ListQuestions(categoryID, includeArchived)
}

// UpdateQuestion replaces scalar fields and, for multiple choice, the whole
// option set (delete-all then reinsert, not an incremental diff).
func (s *CatalogService) UpdateQuestion(id uint, req QuestionRequest) (*model.Question, error) {
	if err := validateQuestionType(req.QuestionType); err != nil {
		return nil, err
	}

	q, err := s.GetQuestion(id)
	if err != nil {
		return nil, err
	}

	q.CategoryID = req.CategoryID
	q.QuestionType = req.QuestionType
	q.Title = req.Title
	q.Content = req.Content
	q.Weighting = req.Weighting
	q.AllowPartialAnswer = req.AllowPartialAnswer
	q.Explanation = req.Explanation
	if req.IsActive != nil {
		q.IsActive = *req.IsActive
	}
	if req.QuestionType == model.QuestionTypeOpenQuestion {
		q.ExactAnswer = req.ExactAnswer
		q.TriggerWords = req.TriggerWords
	} else {
		q.ExactAnswer = ""
		q.TriggerWords = model.StringList{}
	}

	if err := s.Repo.UpdateQuestion(q); err != nil {
		return nil, err
	}

	if req.QuestionType == model.QuestionTypeMultipleChoice {
		options := make([]model.QuestionOption, len(req.Options))
		for i, opt := range req.Options {
			options[i] = model.QuestionOption{Text: opt.Text, IsCorrect: opt.IsCorrect}
		}
		if err := s.Repo.ReplaceOptions(q.ID, options); err != nil {
			return nil, err
		}
	}

	return s.GetQuestion(id)
}

func (s *CatalogService) DeleteQuestion(id uint) (*DeleteOutcome, error) {
	return s.Archive.DeleteQuestion(id)
}

func (s *CatalogService) RestoreQuestion(id uint) error {
	return s.Archive.RestoreQuestion(id)
}

func (s *CatalogService) PermanentDeleteQuestion(id uint) error {
	return s.Archive.PermanentDeleteQuestion(id)
}

// FormattedQuestion is the read-side view: the question plus its resolved
// effective weighting. Trigger words arrive already degraded-to-empty when
// the stored payload is corrupt.
type FormattedQuestion struct {
	model.Question
	EffectiveWeighting float64 `json:"effectiveWeighting"`
}

// FormatQuestion resolves the weighting fallback chain (question, then
// category default, then 1) for catalog display. Per-test overrides are
// applied by the test composer, not here.
func (s *CatalogService) FormatQuestion(q *model.Question) (*FormattedQuestion, error) {
	var categoryDefault *float64
	if q.CategoryID != nil {
		if c, err := s.Repo.FindCategoryByID(*q.CategoryID); err == nil {
			categoryDefault = c.DefaultWeighting
		}
	}
	return &FormattedQuestion{
		Question:           *q,
		EffectiveWeighting: grading.EffectiveWeighting(nil, q.Weighting, categoryDefault),
	}, nil
}
