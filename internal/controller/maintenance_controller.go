package controller

import (
	"knowcheck_backend/internal/service"
	"knowcheck_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// MaintenanceController exposes the administrative escape hatches: the orphan
// repair and the archive overview.
type MaintenanceController struct {
	RunService     *service.TestRunService
	ArchiveService *service.ArchiveService
}

func NewMaintenanceController(runService *service.TestRunService, archiveService *service.ArchiveService) *MaintenanceController {
	return &MaintenanceController{RunService: runService, ArchiveService: archiveService}
}

// @Summary Count assignments not attached to any run
// @Tags maintenance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/maintenance/orphaned-assignments [get]
func (c *MaintenanceController) GetOrphanedAssignmentsCount(ctx *gin.Context) {
	count, err := c.RunService.GetOrphanedAssignmentsCount()
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"orphanedCount": count})
}

// @Summary Bucket runless assignments into a synthetic run (idempotent)
// @Tags maintenance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/maintenance/orphaned-assignments/migrate [post]
func (c *MaintenanceController) MigrateOrphanedAssignments(ctx *gin.Context) {
	outcome, err := c.RunService.MigrateOrphanedAssignments()
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, outcome)
}

// @Summary Summarize archived content
// @Tags maintenance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/maintenance/archive-statistics [get]
func (c *MaintenanceController) GetArchiveStatistics(ctx *gin.Context) {
	stats, err := c.ArchiveService.GetArchiveStatistics()
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
