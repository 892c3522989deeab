package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedplan/internal/models/request_models"
)

func TestDashboardBeforeOnboarding(t *testing.T) {
	env := newTestEnv(t)
	_, workspaceID := env.register(t, "alex@example.com")

	dash, err := env.dashboard.BuildDashboard(context.Background(), workspaceID)
	require.NoError(t, err)
	assert.False(t, dash.OnboardingCompleted)
	assert.Nil(t, dash.Moodboard)
	assert.Zero(t, dash.Budget.TotalBudget)
}

// Alex & Sam: onboarding, one generation, completion, then the dashboard
// shows the same moodboard without calling the generator again.
func TestOnboardingToDashboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID, workspaceID := env.register(t, "alex@example.com")
	env.completeSteps(t, userID, workspaceID)

	summary, err := env.onboarding.Summary(ctx, workspaceID)
	require.NoError(t, err)
	assert.Len(t, summary.Keys, 5)
	assert.Equal(t, 80, summary.Preferences.GuestCount())
	assert.Equal(t, "modern", summary.Preferences.Theme())
	assert.Equal(t, "civil", summary.Preferences.CeremonyType())

	board, err := env.moodboards.Generate(ctx, workspaceID, userID)
	require.NoError(t, err)

	done := env.onboarding.Complete(ctx, workspaceID, userID)
	require.True(t, done.Completed)

	_, err = env.itemSvc.Create(ctx, workspaceID, userID, request_models.CreateItemRequest{
		Type: "guest", Data: map[string]any{"name": "Jordan", "rsvp": "accepted"},
	})
	require.NoError(t, err)
	_, err = env.itemSvc.Create(ctx, workspaceID, userID, request_models.CreateItemRequest{
		Type: "task", Data: map[string]any{"title": "Book venue", "completed": true},
	})
	require.NoError(t, err)

	textCalls, imageCalls := env.text.Calls(), env.images.calls.Load()

	dash, err := env.dashboard.BuildDashboard(ctx, workspaceID)
	require.NoError(t, err)
	assert.True(t, dash.OnboardingCompleted)
	require.NotNil(t, dash.OnboardingCompletedAt)
	assert.Equal(t, "Alex & Sam", dash.CoupleNames)
	assert.Equal(t, "2026-09-19", dash.WeddingDate)
	require.NotNil(t, dash.Moodboard)
	assert.Equal(t, board.ID, dash.Moodboard.ID)
	assert.Equal(t, board.Moodboard.ImageURL, dash.Moodboard.Moodboard.ImageURL)
	assert.Equal(t, 30000.0, dash.Budget.TotalBudget)
	assert.Equal(t, map[string]int{"accepted": 1}, dash.Guests)
	assert.Equal(t, map[string]int{"done": 1}, dash.Tasks)
	assert.NotEmpty(t, dash.RecentActivity)
	assert.LessOrEqual(t, len(dash.RecentActivity), recentActivityLimit)

	assert.Equal(t, textCalls, env.text.Calls())
	assert.Equal(t, imageCalls, env.images.calls.Load())
}
