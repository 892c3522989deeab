package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedplan/internal/models/request_models"
	"wedplan/pkg/utils"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func TestShareRequiresMoodboard(t *testing.T) {
	env := newTestEnv(t)
	userID, workspaceID := env.register(t, "alex@example.com")

	_, err := env.shares.Create(context.Background(), workspaceID, userID, request_models.CreateShareRequest{})
	assert.ErrorIs(t, err, utils.ErrMoodboardNotFound)
}

func TestShareLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID, workspaceID := env.register(t, "alex@example.com")
	env.completeSteps(t, userID, workspaceID)
	board, err := env.moodboards.Generate(ctx, workspaceID, userID)
	require.NoError(t, err)

	share, err := env.shares.Create(ctx, workspaceID, userID, request_models.CreateShareRequest{
		ExpiresInDays: intPtr(7),
		IsPublic:      boolPtr(true),
		Emails:        []string{"mom@example.com", "dad@example.com"},
	})
	require.NoError(t, err)
	assert.Len(t, share.ShareID, 32)
	assert.Equal(t, board.ID, share.MoodboardID)
	assert.Equal(t, "Alex & Sam", share.CoupleNames)
	assert.Equal(t, "Alex & Sam's wedding moodboard", share.Title)
	assert.True(t, share.IsPublic)
	require.NotNil(t, share.ExpiresAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), *share.ExpiresAt, time.Minute)
	assert.Equal(t, "https://wedplan.test/moodboard/shared?shareId="+share.ShareID, share.URL)

	sent := env.mail.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "share", sent[0].Kind)
	assert.Equal(t, share.ShareID, sent[1].Payload)

	got, err := env.shares.Get(ctx, share.ShareID)
	require.NoError(t, err)
	assert.Equal(t, board.Moodboard.ImageURL, got.Moodboard.ImageURL)
	assert.Equal(t, 1, got.Share.ViewCount)

	got, err = env.shares.Get(ctx, share.ShareID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Share.ViewCount)

	list, err := env.shares.List(ctx, workspaceID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].ViewCount)

	otherUser, otherWorkspace := env.register(t, "sam@example.com")
	assert.ErrorIs(t, env.shares.Revoke(ctx, otherWorkspace, otherUser, share.ShareID), utils.ErrShareNotFound)

	require.NoError(t, env.shares.Revoke(ctx, workspaceID, userID, share.ShareID))
	_, err = env.shares.Get(ctx, share.ShareID)
	assert.ErrorIs(t, err, utils.ErrShareNotFound)
}

func TestShareGetErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID, workspaceID := env.register(t, "alex@example.com")
	env.completeSteps(t, userID, workspaceID)
	_, err := env.moodboards.Generate(ctx, workspaceID, userID)
	require.NoError(t, err)

	_, err = env.shares.Get(ctx, "")
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = env.shares.Get(ctx, "does-not-exist")
	assert.ErrorIs(t, err, utils.ErrShareNotFound)

	share, err := env.shares.Create(ctx, workspaceID, userID, request_models.CreateShareRequest{ExpiresInDays: intPtr(1)})
	require.NoError(t, err)
	assert.False(t, share.IsPublic)

	env.shares.(*ShareService).now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	_, err = env.shares.Get(ctx, share.ShareID)
	assert.ErrorIs(t, err, utils.ErrShareExpired)
}

func TestShareMailFailureIsNotFatal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID, workspaceID := env.register(t, "alex@example.com")
	env.completeSteps(t, userID, workspaceID)
	_, err := env.moodboards.Generate(ctx, workspaceID, userID)
	require.NoError(t, err)

	env.mail.err = assert.AnError
	share, err := env.shares.Create(ctx, workspaceID, userID, request_models.CreateShareRequest{Emails: []string{"mom@example.com"}})
	require.NoError(t, err)
	assert.NotEmpty(t, share.ShareID)
}
