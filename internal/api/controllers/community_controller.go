package controllers

import (
	"github.com/gin-gonic/gin"

	"wedplan/internal/services"
	"wedplan/pkg/utils"
)

type CommunityController struct {
	communityService services.CommunityServiceInterface
}

func NewCommunityController(communityService services.CommunityServiceInterface) *CommunityController {
	return &CommunityController{communityService: communityService}
}

// ListPublic godoc
// @Summary Public moodboards shared by other couples
// @Tags Community
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param pageSize query int false "Page size (default 20, max 100)"
// @Success 200 {object} utils.APIResponse
// @Router /api/community [get]
func (cc *CommunityController) ListPublic(c *gin.Context) {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return
	}
	pageSize, ok := queryInt(c, "pageSize", 20)
	if !ok {
		return
	}

	result, err := cc.communityService.ListPublic(c.Request.Context(), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, "Community moodboards fetched successfully")
}

// Similar godoc
// @Summary Public moodboards with a similar style
// @Tags Community
// @Produce json
// @Param shareId path string true "Share id"
// @Param limit query int false "Number of results (default 6, max 24)"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/community/{shareId}/similar [get]
func (cc *CommunityController) Similar(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return
	}

	result, err := cc.communityService.Similar(c.Request.Context(), c.Param("shareId"), limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, "Similar moodboards fetched successfully")
}
