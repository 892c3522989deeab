package controllers

import (
	"github.com/gin-gonic/gin"

	"wedplan/internal/services"
	"wedplan/pkg/utils"
)

type DashboardController struct {
	dashboardService services.DashboardService
}

func NewDashboardController(dashboardService services.DashboardService) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
	}
}

// GetDashboard godoc
// @Summary Workspace dashboard
// @Description Onboarding status, the stored moodboard, budget stats, guest and task counts, and recent activity
// @Tags Dashboard
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/dashboard [get]
func (p *DashboardController) GetDashboard(c *gin.Context) {
	_, workspaceID, ok := identity(c)
	if !ok {
		return
	}

	report, err := p.dashboardService.BuildDashboard(c.Request.Context(), workspaceID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, report, "Dashboard data fetched successfully")
}
