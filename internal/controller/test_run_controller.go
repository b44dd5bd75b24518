package controller

import (
	"knowcheck_backend/internal/service"
	"knowcheck_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TestRunController struct {
	RunService *service.TestRunService
}

func NewTestRunController(runService *service.TestRunService) *TestRunController {
	return &TestRunController{RunService: runService}
}

// @Summary Create a test run, fanning out assignments for every user and test
// @Tags test-runs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} util.Response
// @Router /api/test-runs [post]
func (c *TestRunController) CreateTestRun(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	var req service.TestRunRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	run, err := c.RunService.CreateTestRun(req, user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, run)
}

// @Summary List test runs
// @Tags test-runs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/test-runs [get]
func (c *TestRunController) ListTestRuns(ctx *gin.Context) {
	runs, err := c.RunService.GetAllTestRuns()
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, runs)
}

// @Summary Get a test run with its tests, assignments and live statistics
// @Tags test-runs
// @Produce json
// @Security BearerAuth
// @Param id path int true "run id"
// @Success 200 {object} util.Response
// @Router /api/test-runs/{id} [get]
func (c *TestRunController) GetTestRun(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	detail, err := c.RunService.GetTestRunByID(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// @Summary Delete a test run (archives it when results exist)
// @Tags test-runs
// @Produce json
// @Security BearerAuth
// @Param id path int true "run id"
// @Success 200 {object} util.Response
// @Router /api/test-runs/{id} [delete]
func (c *TestRunController) DeleteTestRun(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	outcome, err := c.RunService.DeleteTestRun(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, outcome)
}

// @Summary Restore an archived test run
// @Tags test-runs
// @Produce json
// @Security BearerAuth
// @Param id path int true "run id"
// @Success 200 {object} util.Response
// @Router /api/test-runs/{id}/restore [post]
func (c *TestRunController) RestoreTestRun(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.RunService.RestoreTestRun(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"restored": true})
}

// @Summary Permanently delete an archived test run
// @Tags test-runs
// @Produce json
// @Security BearerAuth
// @Param id path int true "run id"
// @Success 200 {object} util.Response
// @Router /api/test-runs/{id}/permanent [delete]
func (c *TestRunController) PermanentDeleteTestRun(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.RunService.PermanentDeleteTestRun(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// @Summary Assign a single test to a single user
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} util.Response
// @Router /api/assignments [post]
func (c *TestRunController) CreateAssignment(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	var req service.AssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	assignment, err := c.RunService.CreateAssignment(req, user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, assignment)
}

// @Summary Update a pending assignment's due date
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "assignment id"
// @Success 200 {object} util.Response
// @Router /api/assignments/{id} [put]
func (c *TestRunController) UpdateAssignment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.AssignmentUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	assignment, err := c.RunService.UpdateAssignment(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, assignment)
}

// @Summary Withdraw a pending assignment
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "assignment id"
// @Success 200 {object} util.Response
// @Router /api/assignments/{id} [delete]
func (c *TestRunController) DeleteAssignment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.RunService.DeleteAssignment(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// @Summary List the calling user's assignments
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/my/assignments [get]
func (c *TestRunController) GetMyAssignments(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	views, err := c.RunService.GetMyAssignments(user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, views)
}

// @Summary Count the calling user's pending assignments
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/my/assignments/pending-count [get]
func (c *TestRunController) GetPendingAssignmentsCount(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	count, err := c.RunService.GetPendingAssignmentsCount(user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"pendingCount": count})
}
