package response_models

import "time"

type AccountLoginResponse struct {
	Token               string `json:"token"`
	WorkspaceID         string `json:"workspace_id"`
	OnboardingCompleted bool   `json:"onboarding_completed"`
}

type AccountResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Role      string            `json:"role"`
	Workspace WorkspaceResponse `json:"workspace"`
}

type WorkspaceResponse struct {
	ID                    string     `json:"id"`
	Name                  string     `json:"name"`
	OnboardingCompleted   bool       `json:"onboarding_completed"`
	OnboardingCompletedAt *time.Time `json:"onboarding_completed_at"`
}
