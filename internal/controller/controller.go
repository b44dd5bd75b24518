package controller

import (
	"errors"
	"net/http"
	"strconv"

	"knowcheck_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// pathID parses the numeric :id style parameter, replying 400 on garbage.
func pathID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// respondError maps service sentinels onto HTTP statuses. Anything unmapped
// is a 500 with the cause logged, never echoed.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCategoryNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrTestNotFound),
		errors.Is(err, util.ErrTestRunNotFound),
		errors.Is(err, util.ErrAssignmentNotFound),
		errors.Is(err, util.ErrResultNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrTestInactive),
		errors.Is(err, util.ErrAssignmentCompleted),
		errors.Is(err, util.ErrNotArchived),
		errors.Is(err, util.ErrNoUsersOrTests),
		errors.Is(err, util.ErrUnknownQuestionType):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrDuplicateCode):
		util.Error(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
