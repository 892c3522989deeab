package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedplan/internal/models/db_models"
	"wedplan/internal/models/request_models"
	"wedplan/internal/moodboard"
	"wedplan/internal/onboarding"
	"wedplan/internal/realtime"
	"wedplan/internal/reveal"
	"wedplan/pkg/utils"
)

func TestGenerateMoodboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID, workspaceID := env.register(t, "alex@example.com")
	env.completeSteps(t, userID, workspaceID)

	sub := env.hub.Subscribe(realtime.Channel{WorkspaceID: workspaceID, ItemType: string(db_models.ItemTypeMoodboard)})
	defer sub.Close()

	resp, err := env.moodboards.Generate(ctx, workspaceID, userID)
	require.NoError(t, err)

	board := resp.Moodboard
	require.Len(t, board.SourceImages, 3, "no desserts image without a desserts experience")
	assert.Equal(t, moodboard.ImageVenueCeremony, board.SourceImages[0].Type)
	assert.Equal(t, board.SourceImages[0].URL, board.ImageURL)
	assert.True(t, strings.HasPrefix(board.ImageURL, "/media/"))
	assert.Equal(t, "#9CAF88", board.StyleGuide.ColorPalette[0].Hex)
	assert.Equal(t, "#FFFFFF", board.StyleGuide.ColorPalette[1].Hex)
	assert.NotEmpty(t, board.WeddingSummary)
	assert.Equal(t, "fake-text", board.Metadata.Model)
	assert.Equal(t, "fake-image", board.Metadata.ImageModel)
	assert.Equal(t, moodboard.FocusComplete, board.Metadata.FocusArea)
	assert.Nil(t, board.PreviousGeneration)

	assert.Equal(t, 1, env.text.Calls())
	assert.Contains(t, env.text.prompts[0], "Alex")
	assert.EqualValues(t, 3, env.images.calls.Load())

	event := <-sub.C
	assert.Equal(t, realtime.ActionCreated, event.Action)
	assert.Equal(t, resp.ID, event.ItemID)

	indexed, err := env.embeddings.FindByWorkspace(ctx, workspaceID)
	require.NoError(t, err)
	require.NotNil(t, indexed)
	assert.Equal(t, resp.ID, indexed.MoodboardID)

	current, err := env.moodboards.Current(ctx, workspaceID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, current.ID)
	assert.Equal(t, board.ImageURL, current.Moodboard.ImageURL)
}

func TestGenerateIncludesDesserts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID, workspaceID := env.register(t, "alex@example.com")
	env.completeSteps(t, userID, workspaceID)
	require.NoError(t, env.onboarding.SaveStep(ctx, workspaceID, userID, 6, onboarding.Record{"desserts": true}))

	resp, err := env.moodboards.Generate(ctx, workspaceID, userID)
	require.NoError(t, err)
	require.Len(t, resp.Moodboard.SourceImages, 4)
	assert.Equal(t, moodboard.ImageDesserts, resp.Moodboard.SourceImages[3].Type)
}

func TestCompleteRegenerationDropsUnwantedImages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID, workspaceID := env.register(t, "alex@example.com")
	env.completeSteps(t, userID, workspaceID)
	require.NoError(t, env.onboarding.SaveStep(ctx, workspaceID, userID, 6, onboarding.Record{"experiences": []any{"live music"}, "desserts": true}))

	first, err := env.moodboards.Generate(ctx, workspaceID, userID)
	require.NoError(t, err)
	require.Len(t, first.Moodboard.SourceImages, 4)

	require.NoError(t, env.onboarding.SaveStep(ctx, workspaceID, userID, 6, onboarding.Record{"experiences": []any{"live music"}, "desserts": false}))
	second, err := env.moodboards.Regenerate(ctx, workspaceID, userID, "complete")
	require.NoError(t, err)

	require.Len(t, second.Moodboard.SourceImages, 3)
	for _, img := range second.Moodboard.SourceImages {
		assert.NotEqual(t, moodboard.ImageDesserts, img.Type)
	}
	assert.Equal(t, second.Moodboard.SourceImages[0].URL, second.Moodboard.ImageURL)

	prev := second.Moodboard.PreviousGeneration
	require.NotNil(t, prev)
	assert.Len(t, prev.SourceImages, 4)
}

func TestRegenerateOverwritesInPlace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID, workspaceID := env.register(t, "alex@example.com")
	env.completeSteps(t, userID, workspaceID)

	first, err := env.moodboards.Generate(ctx, workspaceID, userID)
	require.NoError(t, err)

	second, err := env.moodboards.Regenerate(ctx, workspaceID, userID, "ceremony")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "one moodboard item per workspace")
	assert.Equal(t, 1, env.text.Calls(), "ceremony regenerates no text")
	assert.EqualValues(t, 4, env.images.calls.Load())

	prev := second.Moodboard.PreviousGeneration
	require.NotNil(t, prev)
	assert.Nil(t, prev.PreviousGeneration)
	assert.Equal(t, first.Moodboard.ImageURL, prev.ImageURL)
	assert.NotEqual(t, first.Moodboard.ImageURL, second.Moodboard.ImageURL)
	assert.Equal(t, first.Moodboard.SourceImages[1].StoragePath, second.Moodboard.SourceImages[1].StoragePath, "other sections keep their images")
	assert.Equal(t, moodboard.FocusCeremony, second.Moodboard.Metadata.FocusArea)

	boards, err := env.items.List(ctx, workspaceID, repositoriesFilter(db_models.ItemTypeMoodboard))
	require.NoError(t, err)
	assert.Len(t, boards, 1)
}

func TestRegenerateColorsRewritesStyleGuideOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID, workspaceID := env.register(t, "alex@example.com")
	env.completeSteps(t, userID, workspaceID)

	first, err := env.moodboards.Generate(ctx, workspaceID, userID)
	require.NoError(t, err)

	env.text.resp = `{"style_guide": {"color_palette": [{"name": "Blush", "hex": "#f4c2c2"}], "keywords": ["soft"], "themes": ["romantic"]}}`
	second, err := env.moodboards.Regenerate(ctx, workspaceID, userID, "colors")
	require.NoError(t, err)

	assert.Equal(t, first.Moodboard.WeddingSummary, second.Moodboard.WeddingSummary)
	assert.Equal(t, "#F4C2C2", second.Moodboard.StyleGuide.ColorPalette[0].Hex)
	assert.Equal(t, 2, env.text.Calls())
}

func TestRegenerateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID, workspaceID := env.register(t, "alex@example.com")
	env.completeSteps(t, userID, workspaceID)

	_, err := env.moodboards.Regenerate(ctx, workspaceID, userID, "flowers")
	assert.ErrorIs(t, err, utils.ErrInvalidFocusArea)

	_, err = env.moodboards.RegenerateSection(ctx, workspaceID, userID, "desserts")
	assert.ErrorIs(t, err, utils.ErrInvalidImageType)

	_, err = env.moodboards.RegenerateSection(ctx, workspaceID, userID, "")
	assert.ErrorIs(t, err, utils.ErrInvalidImageType)

	_, err = env.moodboards.RegenerateSection(ctx, workspaceID, userID, "style-decor")
	assert.ErrorIs(t, err, utils.ErrMoodboardNotFound, "a section needs a moodboard to patch")

	assert.Zero(t, env.text.Calls())
	assert.Zero(t, env.images.calls.Load())
}

func TestRegenerateSection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID, workspaceID := env.register(t, "alex@example.com")
	env.completeSteps(t, userID, workspaceID)

	first, err := env.moodboards.Generate(ctx, workspaceID, userID)
	require.NoError(t, err)

	second, err := env.moodboards.RegenerateSection(ctx, workspaceID, userID, "reception-dining")
	require.NoError(t, err)

	img, ok := second.Moodboard.Image(moodboard.ImageReceptionDining)
	require.True(t, ok)
	old, _ := first.Moodboard.Image(moodboard.ImageReceptionDining)
	assert.NotEqual(t, old.StoragePath, img.StoragePath)
	assert.Equal(t, first.Moodboard.ImageURL, second.Moodboard.ImageURL)
}

func TestGenerationFailureKeepsStoredMoodboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID, workspaceID := env.register(t, "alex@example.com")
	env.completeSteps(t, userID, workspaceID)

	env.text.err = errors.New("quota exceeded")
	_, err := env.moodboards.Generate(ctx, workspaceID, userID)
	assert.ErrorIs(t, err, utils.ErrGenerationFailed)

	_, err = env.moodboards.Current(ctx, workspaceID)
	assert.ErrorIs(t, err, utils.ErrMoodboardNotFound)

	env.text.err = nil
	first, err := env.moodboards.Generate(ctx, workspaceID, userID)
	require.NoError(t, err)

	env.images.fail.Store(true)
	_, err = env.moodboards.Regenerate(ctx, workspaceID, userID, "complete")
	assert.ErrorIs(t, err, utils.ErrGenerationFailed)

	current, err := env.moodboards.Current(ctx, workspaceID)
	require.NoError(t, err)
	assert.Equal(t, first.Moodboard.ImageURL, current.Moodboard.ImageURL)
	assert.Nil(t, current.Moodboard.PreviousGeneration)
}

func TestRegenerateInfoAndDebug(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID, workspaceID := env.register(t, "alex@example.com")
	env.completeSteps(t, userID, workspaceID)

	info, err := env.moodboards.RegenerateInfo(ctx, workspaceID)
	require.NoError(t, err)
	assert.Nil(t, info.Moodboard)
	assert.Len(t, info.FocusAreas, 5)
	assert.Len(t, info.SectionImageTypes, 3)

	dry, err := env.moodboards.DebugRegen(ctx, workspaceID, userID, request_models.DebugRegenRequest{FocusArea: "colors"})
	require.NoError(t, err)
	assert.False(t, dry.Executed)
	assert.NotEmpty(t, dry.TextPrompt)
	assert.Contains(t, dry.ImagePrompts, moodboard.ImageStyleDecor)
	assert.Nil(t, dry.Current)
	assert.Zero(t, env.text.Calls())

	_, err = env.moodboards.Generate(ctx, workspaceID, userID)
	require.NoError(t, err)

	run, err := env.moodboards.DebugRegen(ctx, workspaceID, userID, request_models.DebugRegenRequest{Execute: true})
	require.NoError(t, err)
	assert.True(t, run.Executed)
	require.NotNil(t, run.Result)
	require.NotNil(t, run.Current)
	assert.Equal(t, moodboard.FocusComplete, run.Plan.Focus)

	info, err = env.moodboards.RegenerateInfo(ctx, workspaceID)
	require.NoError(t, err)
	assert.True(t, info.HasPreviousGeneration)
}

func TestRevealTimeline(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID, workspaceID := env.register(t, "alex@example.com")
	env.completeSteps(t, userID, workspaceID)

	_, err := env.moodboards.Reveal(ctx, workspaceID)
	assert.ErrorIs(t, err, utils.ErrMoodboardNotFound)

	_, err = env.moodboards.Generate(ctx, workspaceID, userID)
	require.NoError(t, err)

	resp, err := env.moodboards.Reveal(ctx, workspaceID)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Events)
	assert.Equal(t, reveal.StageLoading, resp.Events[0].Stage)
	last := resp.Events[len(resp.Events)-1]
	assert.Equal(t, reveal.StageComplete, last.Stage)
	assert.Equal(t, last.OffsetMS, resp.TotalMS)
}
