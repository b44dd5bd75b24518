package util

import "errors"

var (
	ErrPermissionDenied = errors.New("permission denied")

	ErrCategoryNotFound   = errors.New("category not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrTestNotFound       = errors.New("test not found")
	ErrTestRunNotFound    = errors.New("test run not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrResultNotFound     = errors.New("result not found")

	ErrTestInactive        = errors.New("test is not active")
	ErrAssignmentCompleted = errors.New("assignment already completed")
	ErrNotArchived         = errors.New("entity is not archived; archive it before permanent deletion")
	ErrNoUsersOrTests      = errors.New("test run requires at least one test and one user")
	ErrUnknownQuestionType = errors.New("unknown question type")
	ErrDuplicateCode       = errors.New("identifier collision, retry the operation")
)
