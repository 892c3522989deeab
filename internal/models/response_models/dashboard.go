package response_models

import (
	"time"

	"wedplan/internal/boards"
	"wedplan/internal/models/db_models"
)

type DashboardResponse struct {
	OnboardingCompleted   bool               `json:"onboarding_completed"`
	OnboardingCompletedAt *time.Time         `json:"onboarding_completed_at"`
	CoupleNames           string             `json:"couple_names"`
	WeddingDate           string             `json:"wedding_date,omitempty"`
	Moodboard             *MoodboardResponse `json:"moodboard"`
	Budget                boards.BudgetStats `json:"budget"`
	Guests                map[string]int     `json:"guests"`
	Tasks                 map[string]int     `json:"tasks"`
	RecentActivity        []db_models.Item   `json:"recent_activity"`
}
