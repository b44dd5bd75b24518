package controller

import (
	"strconv"

	"knowcheck_backend/internal/service"
	"knowcheck_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	CatalogService *service.CatalogService
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{CatalogService: catalogService}
}

// @Summary Create a question category
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} util.Response
// @Router /api/categories [post]
func (c *CatalogController) CreateCategory(ctx *gin.Context) {
	var req service.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	category, err := c.CatalogService.CreateCategory(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, category)
}

// @Summary List question categories
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/categories [get]
func (c *CatalogController) ListCategories(ctx *gin.Context) {
	categories, err := c.CatalogService.ListCategories()
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

// @Summary Update a question category
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Success 200 {object} util.Response
// @Router /api/categories/{id} [put]
func (c *CatalogController) UpdateCategory(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	category, err := c.CatalogService.UpdateCategory(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, category)
}

// @Summary Delete a question category
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Success 200 {object} util.Response
// @Router /api/categories/{id} [delete]
func (c *CatalogController) DeleteCategory(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.CatalogService.DeleteCategory(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// @Summary Create a question
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} util.Response
// @Router /api/questions [post]
func (c *CatalogController) CreateQuestion(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	question, err := c.CatalogService.CreateQuestion(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// @Summary List questions, optionally by category
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param categoryId query int false "filter by category"
// @Param includeArchived query bool false "include archived questions"
// @Success 200 {object} util.Response
// @Router /api/questions [get]
func (c *CatalogController) ListQuestions(ctx *gin.Context) {
	categoryID, _ := strconv.Atoi(ctx.Query("categoryId"))
	includeArchived := ctx.Query("includeArchived") == "true"

	questions, err := c.CatalogService.ListQuestions(uint(categoryID), includeArchived)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// @Summary Get a question with its resolved weighting
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "question id"
// @Success 200 {object} util.Response
// @Router /api/questions/{id} [get]
func (c *CatalogController) GetQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	question, err := c.CatalogService.GetQuestion(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	formatted, err := c.CatalogService.FormatQuestion(question)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, formatted)
}

// @Summary Update a question
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "question id"
// @Success 200 {object} util.Response
// @Router /api/questions/{id} [put]
func (c *CatalogController) UpdateQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	question, err := c.CatalogService.UpdateQuestion(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// @Summary Delete a question (archives it when it has been used)
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "question id"
// @Success 200 {object} util.Response
// @Router /api/questions/{id} [delete]
func (c *CatalogController) DeleteQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	outcome, err := c.CatalogService.DeleteQuestion(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, outcome)
}

// @Summary Restore an archived question
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "question id"
// @Success 200 {object} util.Response
// @Router /api/questions/{id}/restore [post]
func (c *CatalogController) RestoreQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.CatalogService.RestoreQuestion(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"restored": true})
}

// @Summary Permanently delete an archived question and its history
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "question id"
// @Success 200 {object} util.Response
// @Router /api/questions/{id}/permanent [delete]
func (c *CatalogController) PermanentDeleteQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.CatalogService.PermanentDeleteQuestion(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}
