package response_models

import "wedplan/internal/onboarding"

type OnboardingStepsResponse struct {
	Steps      []StepStatus `json:"steps"`
	NextStep   int          `json:"next_step"`
	Completed  bool         `json:"completed"`
	SavedCount int          `json:"saved_count"`
}

type StepStatus struct {
	onboarding.Step
	Saved bool `json:"saved"`
}

type StepResponse struct {
	Step int               `json:"step"`
	Data onboarding.Record `json:"data"`
	// Warnings lists required fields the saved record is missing. The record
	// is stored regardless.
	Warnings onboarding.FieldErrors `json:"warnings,omitempty"`
}

type SummaryResponse struct {
	Preferences  onboarding.Preferences `json:"preferences"`
	Keys         []string               `json:"keys"`
	MissingSteps []int                  `json:"missing_steps"`
	Complete     bool                   `json:"complete"`
}

type CompletionResponse struct {
	Completed bool   `json:"completed"`
	Redirect  string `json:"redirect"`
}
