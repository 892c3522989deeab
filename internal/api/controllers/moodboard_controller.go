package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wedplan/internal/models/request_models"
	"wedplan/internal/moodboard"
	"wedplan/internal/reveal"
	"wedplan/internal/services"
	"wedplan/pkg/utils"
)

type MoodboardController struct {
	moodboardService services.MoodboardServiceInterface
	shareService     services.ShareServiceInterface
	log              *zap.Logger
}

func NewMoodboardController(
	moodboardService services.MoodboardServiceInterface,
	shareService services.ShareServiceInterface,
	log *zap.Logger,
) *MoodboardController {
	return &MoodboardController{
		moodboardService: moodboardService,
		shareService:     shareService,
		log:              log,
	}
}

// bindOptionalJSON binds a body that may be absent.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return false
	}
	return true
}

// Current godoc
// @Summary Current moodboard
// @Tags Moodboard
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/moodboard [get]
func (m *MoodboardController) Current(c *gin.Context) {
	_, workspaceID, ok := identity(c)
	if !ok {
		return
	}

	board, err := m.moodboardService.Current(c.Request.Context(), workspaceID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, board, "Moodboard fetched successfully")
}

// RegenerateInfo godoc
// @Summary Regeneration options for the current moodboard
// @Tags Moodboard
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/moodboard/regenerate [get]
func (m *MoodboardController) RegenerateInfo(c *gin.Context) {
	_, workspaceID, ok := identity(c)
	if !ok {
		return
	}

	info, err := m.moodboardService.RegenerateInfo(c.Request.Context(), workspaceID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, info, "Regeneration options fetched successfully")
}

// Regenerate godoc
// @Summary Regenerate the moodboard or one focus area of it
// @Tags Moodboard
// @Accept json
// @Produce json
// @Param request body request_models.RegenerateRequest true "complete, ceremony, colors, reception or desserts"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/moodboard/regenerate [post]
func (m *MoodboardController) Regenerate(c *gin.Context) {
	userID, workspaceID, ok := identity(c)
	if !ok {
		return
	}

	var req request_models.RegenerateRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	if req.FocusArea == "" {
		req.FocusArea = string(moodboard.FocusComplete)
	}

	board, err := m.moodboardService.Regenerate(c.Request.Context(), workspaceID, userID, req.FocusArea)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, board, "Moodboard regenerated successfully")
}

// RegenerateSection godoc
// @Summary Regenerate a single moodboard image
// @Tags Moodboard
// @Accept json
// @Produce json
// @Param request body request_models.RegenerateSectionRequest true "venue-ceremony, style-decor or reception-dining"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/moodboard/regenerate-section [post]
func (m *MoodboardController) RegenerateSection(c *gin.Context) {
	userID, workspaceID, ok := identity(c)
	if !ok {
		return
	}

	var req request_models.RegenerateSectionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	board, err := m.moodboardService.RegenerateSection(c.Request.Context(), workspaceID, userID, req.ImageType)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, board, "Moodboard section regenerated successfully")
}

// DebugRegen godoc
// @Summary Inspect the prompts of a regeneration, optionally running it
// @Tags Moodboard
// @Accept json
// @Produce json
// @Param request body request_models.DebugRegenRequest false "Focus area and execute flag"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/moodboard/debug-regen [post]
func (m *MoodboardController) DebugRegen(c *gin.Context) {
	userID, workspaceID, ok := identity(c)
	if !ok {
		return
	}

	var req request_models.DebugRegenRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	resp, err := m.moodboardService.DebugRegen(c.Request.Context(), workspaceID, userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Debug regeneration report")
}

// Reveal godoc
// @Summary Progressive reveal timeline of the current moodboard
// @Tags Moodboard
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/moodboard/reveal [get]
func (m *MoodboardController) Reveal(c *gin.Context) {
	_, workspaceID, ok := identity(c)
	if !ok {
		return
	}

	resp, err := m.moodboardService.Reveal(c.Request.Context(), workspaceID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Reveal timeline fetched successfully")
}

// RevealStream godoc
// @Summary Progressive reveal as server-sent events
// @Description Emits one event per stage transition and per image, then closes
// @Tags Moodboard
// @Produce text/event-stream
// @Security BearerAuth
// @Router /api/moodboard/reveal/stream [get]
func (m *MoodboardController) RevealStream(c *gin.Context) {
	_, workspaceID, ok := identity(c)
	if !ok {
		return
	}

	resp, err := m.moodboardService.Reveal(c.Request.Context(), workspaceID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	prepareSSE(c)
	err = reveal.Play(c.Request.Context(), resp.Events, func(e reveal.Event) error {
		c.SSEvent(e.Kind, e)
		c.Writer.Flush()
		return nil
	})
	if err != nil {
		m.log.Debug("reveal stream ended early", zap.String("workspace_id", workspaceID.String()), zap.Error(err))
	}
}

// CreateShare godoc
// @Summary Share the moodboard
// @Tags Moodboard
// @Accept json
// @Produce json
// @Param request body request_models.CreateShareRequest false "Expiry, visibility and invitees"
// @Success 201 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/moodboard/share [post]
func (m *MoodboardController) CreateShare(c *gin.Context) {
	userID, workspaceID, ok := identity(c)
	if !ok {
		return
	}

	var req request_models.CreateShareRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	share, err := m.shareService.Create(c.Request.Context(), workspaceID, userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, share, "Moodboard shared successfully")
}

// GetShare godoc
// @Summary Resolve a share link
// @Tags Moodboard
// @Produce json
// @Param shareId query string true "Share id"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 410 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/moodboard/share [get]
func (m *MoodboardController) GetShare(c *gin.Context) {
	shared, err := m.shareService.Get(c.Request.Context(), c.Query("shareId"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, shared, "Shared moodboard fetched successfully")
}

// ListShares godoc
// @Summary Share links of the workspace
// @Tags Moodboard
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/moodboard/shares [get]
func (m *MoodboardController) ListShares(c *gin.Context) {
	_, workspaceID, ok := identity(c)
	if !ok {
		return
	}

	shares, err := m.shareService.List(c.Request.Context(), workspaceID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, shares, "Shares fetched successfully")
}

// RevokeShare godoc
// @Summary Revoke a share link
// @Tags Moodboard
// @Produce json
// @Param shareId query string true "Share id"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/moodboard/share [delete]
func (m *MoodboardController) RevokeShare(c *gin.Context) {
	userID, workspaceID, ok := identity(c)
	if !ok {
		return
	}

	shareID := c.Query("shareId")
	if shareID == "" {
		utils.RespondError(c, http.StatusBadRequest, "shareId is required")
		return
	}

	if err := m.shareService.Revoke(c.Request.Context(), workspaceID, userID, shareID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Share revoked successfully")
}

func queryInt(c *gin.Context, key string, fallback int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid "+key)
		return 0, false
	}
	return n, true
}
