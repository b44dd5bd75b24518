package model

import "time"

const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeOpenQuestion   = "open_question"
)

// Question is a catalog entry usable by any number of tests. Archived
// questions stay readable for historical results but are hidden from new
// authoring flows.
// swagger:model Question
type Question struct {
	BaseModel
	CategoryID         *uint            `gorm:"index" json:"categoryId,omitempty"`
	QuestionType       string           `gorm:"size:50;not null" json:"questionType"`
	Title              string           `gorm:"size:255" json:"title"`
	Content            string           `gorm:"type:text;not null" json:"content"`
	Weighting          *float64         `json:"weighting,omitempty"`
	AllowPartialAnswer bool             `gorm:"default:false" json:"allowPartialAnswer"`
	ExactAnswer        string           `gorm:"type:text" json:"exactAnswer,omitempty"`
	TriggerWords       StringList       `gorm:"type:json" json:"triggerWords"`
	Explanation        string           `gorm:"type:text" json:"explanation"`
	IsActive           bool             `gorm:"default:true" json:"isActive"`
	IsArchived         bool             `gorm:"default:false;index" json:"isArchived"`
	ArchivedAt         *time.Time       `json:"archivedAt,omitempty"`
	Options            []QuestionOption `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// swagger:model QuestionOption
type QuestionOption struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Text       string `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
	SortOrder  int    `gorm:"default:0" json:"sortOrder"`
}

func (QuestionOption) TableName() string {
	return "question_options"
}
