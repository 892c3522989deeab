package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wedplan/internal/models/response_models"
	"wedplan/internal/onboarding"
	"wedplan/internal/services"
	"wedplan/pkg/utils"
)

type OnboardingController struct {
	onboardingService services.OnboardingServiceInterface
	moodboardService  services.MoodboardServiceInterface
}

func NewOnboardingController(
	onboardingService services.OnboardingServiceInterface,
	moodboardService services.MoodboardServiceInterface,
) *OnboardingController {
	return &OnboardingController{
		onboardingService: onboardingService,
		moodboardService:  moodboardService,
	}
}

func stepParam(c *gin.Context) (int, bool) {
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Step must be a number")
		return 0, false
	}
	return step, true
}

// ListSteps godoc
// @Summary Onboarding steps with their saved state
// @Tags Onboarding
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/onboarding/steps [get]
func (o *OnboardingController) ListSteps(c *gin.Context) {
	_, workspaceID, ok := identity(c)
	if !ok {
		return
	}

	steps, err := o.onboardingService.Steps(c.Request.Context(), workspaceID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, steps, "Steps fetched successfully")
}

// SaveStep godoc
// @Summary Save the answers of one onboarding step
// @Description Overwrites any answers saved earlier for the same step. Missing required fields are reported as warnings; the answers are stored as sent
// @Tags Onboarding
// @Accept json
// @Produce json
// @Param step path int true "Step number (2-6)"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/onboarding/steps/{step} [put]
func (o *OnboardingController) SaveStep(c *gin.Context) {
	userID, workspaceID, ok := identity(c)
	if !ok {
		return
	}
	step, ok := stepParam(c)
	if !ok {
		return
	}

	var data onboarding.Record
	if err := c.ShouldBindJSON(&data); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Step data must be a JSON object")
		return
	}

	if err := o.onboardingService.SaveStep(c.Request.Context(), workspaceID, userID, step, data); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	resp := response_models.StepResponse{Step: step, Data: data}
	var fieldErrs onboarding.FieldErrors
	if errors.As(onboarding.Validate(step, data), &fieldErrs) {
		resp.Warnings = fieldErrs
	}
	utils.RespondSuccess(c, resp, "Step saved successfully")
}

// GetStep godoc
// @Summary Load the answers of one onboarding step
// @Description data is null when the step was never saved
// @Tags Onboarding
// @Produce json
// @Param step path int true "Step number (2-6)"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/onboarding/steps/{step} [get]
func (o *OnboardingController) GetStep(c *gin.Context) {
	_, workspaceID, ok := identity(c)
	if !ok {
		return
	}
	step, ok := stepParam(c)
	if !ok {
		return
	}

	data, err := o.onboardingService.GetStep(c.Request.Context(), workspaceID, step)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.StepResponse{Step: step, Data: data}, "Step fetched successfully")
}

// Summary godoc
// @Summary Aggregated onboarding preferences
// @Tags Onboarding
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/onboarding/summary [get]
func (o *OnboardingController) Summary(c *gin.Context) {
	_, workspaceID, ok := identity(c)
	if !ok {
		return
	}

	summary, err := o.onboardingService.Summary(c.Request.Context(), workspaceID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, summary, "Summary fetched successfully")
}

// GenerateMoodboard godoc
// @Summary Generate the moodboard from the onboarding answers
// @Tags Onboarding
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/onboarding/moodboard [post]
func (o *OnboardingController) GenerateMoodboard(c *gin.Context) {
	userID, workspaceID, ok := identity(c)
	if !ok {
		return
	}

	board, err := o.moodboardService.Generate(c.Request.Context(), workspaceID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, board, "Moodboard generated successfully")
}

// Complete godoc
// @Summary Finish onboarding
// @Description Always answers 200 with the dashboard redirect; completed is false when the write failed
// @Tags Onboarding
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/onboarding/complete [post]
func (o *OnboardingController) Complete(c *gin.Context) {
	userID, workspaceID, ok := identity(c)
	if !ok {
		return
	}

	resp := o.onboardingService.Complete(c.Request.Context(), workspaceID, userID)
	message := "Onboarding completed"
	if !resp.Completed {
		message = "Onboarding could not be saved, continuing to dashboard"
	}
	utils.RespondSuccess(c, resp, message)
}
