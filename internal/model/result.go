package model

// TestResult is one graded attempt. Code is the test code plus an
// incrementing base-36 suffix (KC-xxxx-0000). Immutable after creation except
// for evaluator annotations.
// swagger:model TestResult
type TestResult struct {
	BaseModel
	Code             string       `gorm:"size:24;uniqueIndex;not null" json:"code"`
	TestID           uint         `gorm:"index;not null" json:"testId"`
	UserID           uint         `gorm:"index;not null" json:"userId"`
	EvaluatorID      *uint        `json:"evaluatorId,omitempty"`
	TotalScore       float64      `gorm:"not null" json:"totalScore"`
	MaxScore         float64      `gorm:"not null" json:"maxScore"`
	Percentage       int          `gorm:"not null" json:"percentage"`
	Passed           bool         `gorm:"not null" json:"passed"`
	EvaluatorComment string       `gorm:"type:text" json:"evaluatorComment"`
	Answers          []TestAnswer `gorm:"foreignKey:ResultID" json:"answers,omitempty"`
}

func (TestResult) TableName() string {
	return "test_results"
}

// TestAnswer captures one submitted answer with the derived score and, for
// multiple choice, a denormalized snapshot of every option at submission time.
// swagger:model TestAnswer
type TestAnswer struct {
	BaseModel
	ResultID        uint               `gorm:"index;not null" json:"resultId"`
	QuestionID      uint               `gorm:"index;not null" json:"questionId"`
	SortOrder       int                `gorm:"default:0" json:"sortOrder"`
	AnswerText      string             `gorm:"type:text" json:"answerText,omitempty"`
	SelectedOptions UintList           `gorm:"type:json" json:"selectedOptions"`
	OptionSnapshots OptionSnapshotList `gorm:"type:json" json:"optionSnapshots"`
	MatchedTriggers StringList         `gorm:"type:json" json:"matchedTriggers"`
	IsCorrect       bool               `gorm:"default:false" json:"isCorrect"`
	Score           float64            `gorm:"default:0" json:"score"`
	MaxScore        float64            `gorm:"default:0" json:"maxScore"`
	Weighting       float64            `gorm:"default:1" json:"weighting"`
}

func (TestAnswer) TableName() string {
	return "test_answers"
}
