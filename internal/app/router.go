package app

import (
	"knowcheck_backend/internal/config"
	"knowcheck_backend/internal/middleware"
	"knowcheck_backend/internal/model"
	"knowcheck_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/api/health", c.health.HealthCheck)

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerAgentRoutes(api, c)
		a.registerSupervisorRoutes(api, c)
		a.registerAdminRoutes(api, c)
	}
}

// registerAgentRoutes covers every authenticated user: their own assignments
// and the answer-free test projection for sitting a test.
func (a *App) registerAgentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/my/assignments", c.run.GetMyAssignments)
	rg.GET("/my/assignments/pending-count", c.run.GetPendingAssignmentsCount)
	rg.GET("/tests/:id/take", c.test.GetTestForTaking)
}

// registerSupervisorRoutes covers authoring, orchestration and evaluation.
func (a *App) registerSupervisorRoutes(rg *gin.RouterGroup, c *controllers) {
	sup := rg.Group("/")
	sup.Use(middleware.RoleMiddleware(model.Supervisor))
	{
		sup.POST("/categories", c.catalog.CreateCategory)
		sup.GET("/categories", c.catalog.ListCategories)
		sup.PUT("/categories/:id", c.catalog.UpdateCategory)
		sup.DELETE("/categories/:id", c.catalog.DeleteCategory)

		sup.POST("/questions", c.catalog.CreateQuestion)
		sup.GET("/questions", c.catalog.ListQuestions)
		sup.GET("/questions/:id", c.catalog.GetQuestion)
		sup.PUT("/questions/:id", c.catalog.UpdateQuestion)
		sup.DELETE("/questions/:id", c.catalog.DeleteQuestion)
		sup.POST("/questions/:id/restore", c.catalog.RestoreQuestion)

		sup.POST("/test-categories", c.test.CreateTestCategory)
		sup.GET("/test-categories", c.test.ListTestCategories)
		sup.PUT("/test-categories/:id", c.test.UpdateTestCategory)
		sup.DELETE("/test-categories/:id", c.test.DeleteTestCategory)

		sup.POST("/tests", c.test.CreateTest)
		sup.GET("/tests", c.test.ListTests)
		sup.GET("/tests/lookup", c.test.LookupTestByCode)
		sup.GET("/tests/:id", c.test.GetTest)
		sup.PUT("/tests/:id", c.test.UpdateTest)
		sup.DELETE("/tests/:id", c.test.DeleteTest)
		sup.POST("/tests/:id/restore", c.test.RestoreTest)

		sup.POST("/test-runs", c.run.CreateTestRun)
		sup.GET("/test-runs", c.run.ListTestRuns)
		sup.GET("/test-runs/:id", c.run.GetTestRun)
		sup.DELETE("/test-runs/:id", c.run.DeleteTestRun)
		sup.POST("/test-runs/:id/restore", c.run.RestoreTestRun)

		sup.POST("/assignments", c.run.CreateAssignment)
		sup.PUT("/assignments/:id", c.run.UpdateAssignment)
		sup.DELETE("/assignments/:id", c.run.DeleteAssignment)

		sup.POST("/results", c.result.CreateResult)
		sup.GET("/results", c.result.ListResults)
		sup.GET("/results/:id", c.result.GetResult)
		sup.PUT("/results/:id", c.result.UpdateResult)
	}
}

// registerAdminRoutes covers the destructive and maintenance surface.
func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.DELETE("/questions/:id/permanent", c.catalog.PermanentDeleteQuestion)
		admin.DELETE("/tests/:id/permanent", c.test.PermanentDeleteTest)
		admin.DELETE("/test-runs/:id/permanent", c.run.PermanentDeleteTestRun)

		admin.GET("/maintenance/orphaned-assignments", c.maintenance.GetOrphanedAssignmentsCount)
		admin.POST("/maintenance/orphaned-assignments/migrate", c.maintenance.MigrateOrphanedAssignments)
		admin.GET("/maintenance/archive-statistics", c.maintenance.GetArchiveStatistics)
	}
}
