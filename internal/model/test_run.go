package model

import "time"

const (
	RunStatusPending   = "pending"
	RunStatusCompleted = "completed"
	RunStatusArchived  = "archived"

	AssignmentStatusPending   = "pending"
	AssignmentStatusCompleted = "completed"
)

// TestRun is a batch created by a supervisor: a set of tests fanned out to a
// set of users as assignments. RunNumber is the sequential TR-dddd code.
// swagger:model TestRun
type TestRun struct {
	BaseModel
	RunNumber   string     `gorm:"size:16;uniqueIndex;not null" json:"runNumber"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Status      string     `gorm:"size:20;default:'pending'" json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedBy   uint       `gorm:"index" json:"createdBy"`
	ArchivedAt  *time.Time `json:"archivedAt,omitempty"`
}

func (TestRun) TableName() string {
	return "test_runs"
}

// swagger:model TestRunTest
type TestRunTest struct {
	BaseModel
	TestRunID uint `gorm:"index;not null" json:"testRunId"`
	TestID    uint `gorm:"index;not null" json:"testId"`
}

func (TestRunTest) TableName() string {
	return "test_run_tests"
}

// TestAssignment pairs one user with one test, usually under a run. ResultID
// is set exactly once at submission; completed assignments never reopen.
// swagger:model TestAssignment
type TestAssignment struct {
	BaseModel
	TestID      uint       `gorm:"index;not null" json:"testId"`
	UserID      uint       `gorm:"index;not null" json:"userId"`
	TestRunID   *uint      `gorm:"index" json:"testRunId,omitempty"`
	Status      string     `gorm:"size:20;default:'pending'" json:"status"`
	ResultID    *uint      `gorm:"index" json:"resultId,omitempty"`
	AssignedBy  uint       `json:"assignedBy"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (TestAssignment) TableName() string {
	return "test_assignments"
}
