package model

// Category groups catalog questions and carries the fallback weighting used
// when a question does not set its own.
// swagger:model Category
type Category struct {
	BaseModel
	Name             string   `gorm:"size:255;not null" json:"name"`
	Description      string   `gorm:"type:text" json:"description"`
	DefaultWeighting *float64 `json:"defaultWeighting,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

// TestCategory is a grouping system for tests, independent from question
// categories.
// swagger:model TestCategory
type TestCategory struct {
	BaseModel
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

func (TestCategory) TableName() string {
	return "test_categories"
}
