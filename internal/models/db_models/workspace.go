package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Workspace is the per-couple record created at signup.
type Workspace struct {
	BaseModel
	AccountID uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"account_id"`
	Name      string    `json:"name"`

	// Aggregated onboarding answers, written when onboarding completes.
	OnboardingDataCouple  datatypes.JSON `json:"onboarding_data_couple"`
	OnboardingCompletedAt *int64         `json:"onboarding_completed_at"`
}

func (w *Workspace) IsOnboardingComplete() bool {
	return w.OnboardingCompletedAt != nil && *w.OnboardingCompletedAt > 0
}

// OnboardingStep stores the answers of one onboarding screen.
type OnboardingStep struct {
	BaseModel
	WorkspaceID uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_onboarding_workspace_step" json:"workspace_id"`
	StepNumber  int            `gorm:"uniqueIndex:idx_onboarding_workspace_step" json:"step_number"`
	Data        datatypes.JSON `json:"data"`
}
