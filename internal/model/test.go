package model

import "time"

const DefaultPassingScore = 80

// Test is an ordered composition of catalog questions with a passing
// threshold. Code is the human-readable KC-xxxx identifier.
// swagger:model Test
type Test struct {
	BaseModel
	Code             string         `gorm:"size:16;uniqueIndex;not null" json:"code"`
	TestCategoryID   *uint          `gorm:"index" json:"testCategoryId,omitempty"`
	Title            string         `gorm:"size:255;not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	PassingScore     int            `gorm:"default:80" json:"passingScore"`
	TimeLimitMinutes int            `gorm:"default:0" json:"timeLimitMinutes"` // 0 = no limit
	IsActive         bool           `gorm:"default:true" json:"isActive"`
	IsArchived       bool           `gorm:"default:false;index" json:"isArchived"`
	ArchivedAt       *time.Time     `json:"archivedAt,omitempty"`
	Questions        []TestQuestion `gorm:"foreignKey:TestID" json:"questions,omitempty"`
}

func (Test) TableName() string {
	return "tests"
}

// TestQuestion links a question into a test, preserving caller-supplied order
// and an optional per-test weighting override.
// swagger:model TestQuestion
type TestQuestion struct {
	BaseModel
	TestID     uint     `gorm:"index;not null" json:"testId"`
	QuestionID uint     `gorm:"index;not null" json:"questionId"`
	SortOrder  int      `gorm:"default:0" json:"sortOrder"`
	Weighting  *float64 `json:"weighting,omitempty"`
}

func (TestQuestion) TableName() string {
	return "test_questions"
}
