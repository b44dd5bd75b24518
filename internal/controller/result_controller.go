package controller

import (
	"strconv"

	"knowcheck_backend/internal/repository"
	"knowcheck_backend/internal/service"
	"knowcheck_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ResultController struct {
	ResultService *service.ResultService
}

func NewResultController(resultService *service.ResultService) *ResultController {
	return &ResultController{ResultService: resultService}
}

// @Summary Submit and grade a completed test
// @Tags results
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} util.Response
// @Router /api/results [post]
func (c *ResultController) CreateResult(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	var req service.ResultRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	result, err := c.ResultService.CreateResult(req, user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// @Summary List results with filters and pagination
// @Tags results
// @Produce json
// @Security BearerAuth
// @Param testId query int false "filter by test"
// @Param userId query int false "filter by user"
// @Param passed query bool false "filter by outcome"
// @Param page query int false "page number"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response
// @Router /api/results [get]
func (c *ResultController) ListResults(ctx *gin.Context) {
	testID, _ := strconv.Atoi(ctx.Query("testId"))
	userID, _ := strconv.Atoi(ctx.Query("userId"))
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	filters := repository.ResultFilters{
		TestID: uint(testID),
		UserID: uint(userID),
		Page:   page,
		Limit:  limit,
	}
	if raw := ctx.Query("passed"); raw != "" {
		passed := raw == "true"
		filters.Passed = &passed
	}

	results, total, err := c.ResultService.GetAllResults(filters)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{
		List:  results,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// @Summary Get a result with its answer snapshots
// @Tags results
// @Produce json
// @Security BearerAuth
// @Param id path int true "result id"
// @Success 200 {object} util.Response
// @Router /api/results/{id} [get]
func (c *ResultController) GetResult(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	result, err := c.ResultService.GetResultByID(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary Update a result's evaluator comment
// @Tags results
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "result id"
// @Success 200 {object} util.Response
// @Router /api/results/{id} [put]
func (c *ResultController) UpdateResult(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.ResultUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	result, err := c.ResultService.UpdateResult(id, req, user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
