package service

import (
	"errors"
	"knowcheck_backend/internal/grading"
	"knowcheck_backend/internal/idgen"
	"knowcheck_backend/internal/model"
	"knowcheck_backend/internal/repository"
	"knowcheck_backend/internal/util"

	"gorm.io/gorm"
)

// TestService composes catalog questions into gradeable tests.
type TestService struct {
	Repo        *repository.TestRepository
	CatalogRepo *repository.CatalogRepository
	Archive     *ArchiveService
}

func NewTestService(repo *repository.TestRepository, catalogRepo *repository.CatalogRepository, archive *ArchiveService) *TestService {
	return &TestService{Repo: repo, CatalogRepo: catalogRepo, Archive: archive}
}

type TestQuestionRequest struct {
	QuestionID uint     `json:"questionId" binding:"required"`
	Weighting  *float64 `json:"weighting"`
}

type TestRequest struct {
	TestCategoryID   *uint                 `json:"testCategoryId"`
	Title            string                `json:"title" binding:"required"`
	Description      string                `json:"description"`
	PassingScore     int                   `json:"passingScore"`
	TimeLimitMinutes int                   `json:"timeLimitMinutes"`
	IsActive         *bool                 `json:"isActive"`
	Questions        []TestQuestionRequest `json:"questions"`
}

// CreateTest assigns a fresh KC- code. A uniqueness violation from the store
// surfaces as a retryable error; there is no in-process retry.
func (s *TestService) CreateTest(req TestRequest) (*model.Test, error) {
	t := &model.Test{
		Code:             idgen.NewTestCode(),
		TestCategoryID:   req.TestCategoryID,
		Title:            req.Title,
		Description:      req.Description,
		PassingScore:     req.PassingScore,
		TimeLimitMinutes: req.TimeLimitMinutes,
		IsActive:         true,
	}
	if t.PassingScore == 0 {
		t.PassingScore = model.DefaultPassingScore
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	for i, q := range req.Questions {
		t.Questions = append(t.Questions, model.TestQuestion{
			QuestionID: q.QuestionID,
			Weighting:  q.Weighting,
			SortOrder:  i,
		})
	}

	if err := s.Repo.CreateTest(t); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrDuplicateCode
		}
		return nil, err
	}
	return t, nil
}

// UpdateTest replaces scalar fields and the whole question list
// (delete-all then reinsert of the join rows, caller order preserved).
func (s *TestService) UpdateTest(id uint, req TestRequest) (*model.Test, error) {
	t, err := s.findTest(id)
	if err != nil {
		return nil, err
	}

	t.TestCategoryID = req.TestCategoryID
	t.Title = req.Title
	t.Description = req.Description
	if req.PassingScore > 0 {
		t.PassingScore = req.PassingScore
	}
	t.TimeLimitMinutes = req.TimeLimitMinutes
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	if err := s.Repo.UpdateTest(t); err != nil {
		return nil, err
	}

	rows := make([]model.TestQuestion, len(req.Questions))
	for i, q := range req.Questions {
		rows[i] = model.TestQuestion{QuestionID: q.QuestionID, Weighting: q.Weighting}
	}
	if err := s.Repo.ReplaceTestQuestions(id, rows); err != nil {
		return nil, err
	}

	return s.findTest(id)
}

func (s *TestService) findTest(id uint) (*model.Test, error) {
	t, err := s.Repo.FindTestByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}
	return t, nil
}

// GradingQuestion is one question of the grading view: the resolved
// effective weighting plus the full question, correctness flags included.
// Callers serving test-takers must use the taking view instead.
type GradingQuestion struct {
	QuestionID         uint           `json:"questionId"`
	SortOrder          int            `json:"sortOrder"`
	EffectiveWeighting float64        `json:"effectiveWeighting"`
	Question           model.Question `json:"question"`
}

type GradingView struct {
	Test      model.Test        `json:"test"`
	Questions []GradingQuestion `json:"questions"`
}

// GetTestByID assembles the full grading-ready view of a test: each linked
// question with options and its weighting resolved through the override,
// question, category-default, 1 chain.
func (s *TestService) GetTestByID(id uint) (*GradingView, error) {
	t, err := s.findTest(id)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(t.Questions))
	for i, tq := range t.Questions {
		ids[i] = tq.QuestionID
	}
	questions, err := s.CatalogRepo.ListQuestionsByIDs(ids)
	if err != nil {
		return nil, err
	}
	questionMap := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		questionMap[q.ID] = q
	}

	categories, err := s.CatalogRepo.ListCategories()
	if err != nil {
		return nil, err
	}
	categoryDefaults := make(map[uint]*float64, len(categories))
	for _, c := range categories {
		categoryDefaults[c.ID] = c.DefaultWeighting
	}

	view := &GradingView{Test: *t}
	for _, tq := range t.Questions {
		q, ok := questionMap[tq.QuestionID]
		if !ok {
			continue // question purged from under the test
		}
		var categoryDefault *float64
		if q.CategoryID != nil {
			categoryDefault = categoryDefaults[*q.CategoryID]
		}
		view.Questions = append(view.Questions, GradingQuestion{
			QuestionID:         q.ID,
			SortOrder:          tq.SortOrder,
			EffectiveWeighting: grading.EffectiveWeighting(tq.Weighting, q.Weighting, categoryDefault),
			Question:           q,
		})
	}
	return view, nil
}

// TakingOption is an option with its correctness withheld.
type TakingOption struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	SortOrder int    `json:"sortOrder"`
}

type TakingQuestion struct {
	QuestionID   uint           `json:"questionId"`
	QuestionType string         `json:"questionType"`
	Title        string         `json:"title"`
	Content      string         `json:"content"`
	SortOrder    int            `json:"sortOrder"`
	Options      []TakingOption `json:"options,omitempty"`
}

type TakingView struct {
	TestID           uint             `json:"testId"`
	Code             string           `json:"code"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	TimeLimitMinutes int              `json:"timeLimitMinutes"`
	Questions        []TakingQuestion `json:"questions"`
}

// GetTestForTaking projects a test for the person sitting it: no correctness
// flags, no exact answers, no trigger words.
func (s *TestService) GetTestForTaking(id uint) (*TakingView, error) {
	view, err := s.GetTestByID(id)
	if err != nil {
		return nil, err
	}
	if !view.Test.IsActive || view.Test.IsArchived {
		return nil, util.ErrTestInactive
	}

	taking := &TakingView{
		TestID:           view.Test.ID,
		Code:             view.Test.Code,
		Title:            view.Test.Title,
		Description:      view.Test.Description,
		TimeLimitMinutes: view.Test.TimeLimitMinutes,
	}
	for _, gq := range view.Questions {
		tq := TakingQuestion{
			QuestionID:   gq.QuestionID,
			QuestionType: gq.Question.QuestionType,
			Title:        gq.Question.Title,
			Content:      gq.Question.Content,
			SortOrder:    gq.SortOrder,
		}
		for _, opt := range gq.Question.Options {
			tq.Options = append(tq.Options, TakingOption{
				ID:        opt.ID,
				Text:      opt.Text,
				SortOrder: opt.SortOrder,
			})
		}
		taking.Questions = append(taking.Questions, tq)
	}
	return taking, nil
}

// GetTestByCode looks a test up by its human-facing KC- code.
func (s *TestService) GetTestByCode(code string) (*model.Test, error) {
	t, err := s.Repo.FindTestByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TestService) GetAllTests(includeArchived bool) ([]model.Test, error) {
	return s.Repo.ListTests(includeArchived)
}

func (s *TestService) GetTestsWithStats(includeArchived bool) ([]repository.TestStatsRow, error) {
	return s.Repo.ListTestsWithStats(includeArchived)
}

func (s *TestService) DeleteTest(id uint) (*DeleteOutcome, error) {
	return s.Archive.DeleteTest(id)
}

func (s *TestService) RestoreTest(id uint) error {
	return s.Archive.RestoreTest(id)
}

func (s *TestService) PermanentDeleteTest(id uint) error {
	return s.Archive.PermanentDeleteTest(id)
}

// Test category passthroughs

type TestCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *TestService) CreateTestCategory(req TestCategoryRequest) (*model.TestCategory, error) {
	tc := &model.TestCategory{Name: req.Name, Description: req.Description}
	if err := s.Repo.CreateTestCategory(tc); err != nil {
		return nil, err
	}
	return tc, nil
}

func (s *TestService) ListTestCategories() ([]model.TestCategory, error) {
	return s.Repo.ListTestCategories()
}

func (s *TestService) UpdateTestCategory(id uint, req TestCategoryRequest) (*model.TestCategory, error) {
	tc, err := s.Repo.FindTestCategoryByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCategoryNotFound
		}
		return nil, err
	}
	tc.Name = req.Name
	tc.Description = req.Description
	if err := s.Repo.UpdateTestCategory(tc); err != nil {
		return nil, err
	}
	return tc, nil
}

func (s *TestService) DeleteTestCategory(id uint) error {
	return s.Repo.DeleteTestCategory(id)
}
