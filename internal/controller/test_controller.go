package controller

import (
	"knowcheck_backend/internal/service"
	"knowcheck_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TestController struct {
	TestService *service.TestService
}

func NewTestController(testService *service.TestService) *TestController {
	return &TestController{TestService: testService}
}

// @Summary Create a test
// @Tags tests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} util.Response
// @Router /api/tests [post]
func (c *TestController) CreateTest(ctx *gin.Context) {
	var req service.TestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	test, err := c.TestService.CreateTest(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, test)
}

// @Summary List tests, with usage statistics unless stats=false
// @Tags tests
// @Produce json
// @Security BearerAuth
// @Param includeArchived query bool false "include archived tests"
// @Param stats query bool false "set false to skip the per-test counters"
// @Success 200 {object} util.Response
// @Router /api/tests [get]
func (c *TestController) ListTests(ctx *gin.Context) {
	includeArchived := ctx.Query("includeArchived") == "true"

	if ctx.Query("stats") == "false" {
		tests, err := c.TestService.GetAllTests(includeArchived)
		if err != nil {
			respondError(ctx, err)
			return
		}
		util.Success(ctx, tests)
		return
	}

	rows, err := c.TestService.GetTestsWithStats(includeArchived)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// @Summary Look a test up by its code
// @Tags tests
// @Produce json
// @Security BearerAuth
// @Param code query string true "test code, e.g. KC-A1B2"
// @Success 200 {object} util.Response
// @Router /api/tests/lookup [get]
func (c *TestController) LookupTestByCode(ctx *gin.Context) {
	code := ctx.Query("code")
	if code == "" {
		util.BadRequest(ctx, "missing code")
		return
	}
	test, err := c.TestService.GetTestByCode(code)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, test)
}

// @Summary Get a test with its questions and resolved weightings
// @Tags tests
// @Produce json
// @Security BearerAuth
// @Param id path int true "test id"
// @Success 200 {object} util.Response
// @Router /api/tests/{id} [get]
func (c *TestController) GetTest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	view, err := c.TestService.GetTestByID(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary Get the test-taking projection, answers withheld
// @Tags tests
// @Produce json
// @Security BearerAuth
// @Param id path int true "test id"
// @Success 200 {object} util.Response
// @Router /api/tests/{id}/take [get]
func (c *TestController) GetTestForTaking(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	view, err := c.TestService.GetTestForTaking(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary Update a test
// @Tags tests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "test id"
// @Success 200 {object} util.Response
// @Router /api/tests/{id} [put]
func (c *TestController) UpdateTest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.TestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	test, err := c.TestService.UpdateTest(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, test)
}

// @Summary Delete a test (archives it when it has assignments or results)
// @Tags tests
// @Produce json
// @Security BearerAuth
// @Param id path int true "test id"
// @Success 200 {object} util.Response
// @Router /api/tests/{id} [delete]
func (c *TestController) DeleteTest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	outcome, err := c.TestService.DeleteTest(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, outcome)
}

// @Summary Restore an archived test
// @Tags tests
// @Produce json
// @Security BearerAuth
// @Param id path int true "test id"
// @Success 200 {object} util.Response
// @Router /api/tests/{id}/restore [post]
func (c *TestController) RestoreTest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.TestService.RestoreTest(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"restored": true})
}

// @Summary Permanently delete an archived test with its history
// @Tags tests
// @Produce json
// @Security BearerAuth
// @Param id path int true "test id"
// @Success 200 {object} util.Response
// @Router /api/tests/{id}/permanent [delete]
func (c *TestController) PermanentDeleteTest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.TestService.PermanentDeleteTest(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// @Summary Create a test category
// @Tags tests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} util.Response
// @Router /api/test-categories [post]
func (c *TestController) CreateTestCategory(ctx *gin.Context) {
	var req service.TestCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	category, err := c.TestService.CreateTestCategory(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, category)
}

// @Summary List test categories
// @Tags tests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/test-categories [get]
func (c *TestController) ListTestCategories(ctx *gin.Context) {
	categories, err := c.TestService.ListTestCategories()
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

// @Summary Update a test category
// @Tags tests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "test category id"
// @Success 200 {object} util.Response
// @Router /api/test-categories/{id} [put]
func (c *TestController) UpdateTestCategory(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.TestCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	category, err := c.TestService.UpdateTestCategory(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, category)
}

// @Summary Delete a test category, detaching its tests
// @Tags tests
// @Produce json
// @Security BearerAuth
// @Param id path int true "test category id"
// @Success 200 {object} util.Response
// @Router /api/test-categories/{id} [delete]
func (c *TestController) DeleteTestCategory(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.TestService.DeleteTestCategory(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}
