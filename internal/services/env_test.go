package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wedplan/internal/config"
	"wedplan/internal/infra/infratest"
	"wedplan/internal/models/db_models"
	"wedplan/internal/models/request_models"
	"wedplan/internal/onboarding"
	"wedplan/internal/realtime"
	"wedplan/internal/repositories"
	"wedplan/internal/reveal"
	mem "wedplan/pkg/memcache"
	"wedplan/pkg/storage"
	"wedplan/pkg/utils"
)

type testEnv struct {
	db         *gorm.DB
	items      repositories.ItemRepository
	workspaces repositories.WorkspaceRepository
	embeddings repositories.MoodboardEmbeddingRepository
	hub        *realtime.Hub
	text       *fakeText
	images     *fakeImages
	embedder   *fakeEmbedder
	mail       *fakeMail
	resetStore *mem.ResetTokens

	accounts   AccountServiceInterface
	onboarding OnboardingServiceInterface
	moodboards MoodboardServiceInterface
	shares     ShareServiceInterface
	community  CommunityServiceInterface
	itemSvc    ItemServiceInterface
	dashboard  DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := infratest.NewDB(t)
	log := zap.NewNop()
	cfg := config.DefaultConfig()
	cfg.Storage.PublicBaseURL = "/media/"
	cfg.Mail.AppBaseURL = "https://wedplan.test"

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	env := &testEnv{
		db:         db,
		items:      repositories.NewItemRepository(db),
		workspaces: repositories.NewWorkspaceRepository(db),
		embeddings: repositories.NewMoodboardEmbeddingRepository(db),
		hub:        realtime.NewHub(32),
		text:       &fakeText{},
		images:     &fakeImages{},
		embedder:   &fakeEmbedder{},
		mail:       &fakeMail{},
		resetStore: mem.NewResetTokens(),
	}

	activity := NewActivityService(env.items, env.hub, log)
	env.accounts = NewAccountService(
		repositories.NewAccountRepository(db), env.workspaces,
		utils.NewTokenIssuer("test-secret", time.Hour), env.resetStore, env.mail, cfg, log)
	env.onboarding = NewOnboardingService(repositories.NewOnboardingStepRepository(db), env.workspaces, activity, log)
	env.moodboards = NewMoodboardService(
		env.items, env.embeddings, env.workspaces, env.onboarding, activity,
		env.text, env.images, env.embedder, store, env.hub, reveal.DefaultTimings(), cfg, log)
	env.shares = NewShareService(env.items, env.onboarding, activity, env.mail, cfg, log)
	env.community = NewCommunityService(env.items, env.embeddings, log)
	env.itemSvc = NewItemService(env.items, env.onboarding, activity, env.hub, log)
	env.dashboard = NewDashboardService(env.workspaces, env.items, env.onboarding, env.moodboards)
	return env
}

// register creates an account and returns its user and workspace ids.
func (e *testEnv) register(t *testing.T, email string) (uuid.UUID, uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	_, err := e.accounts.CreateAccount(ctx, request_models.SignUpRequest{
		DisplayName: "Alex",
		Email:       email,
		Password:    "secret123",
	})
	require.NoError(t, err)

	login, err := e.accounts.Login(ctx, request_models.LoginRequest{Email: email, Password: "secret123"})
	require.NoError(t, err)

	claims, err := utils.NewTokenIssuer("test-secret", time.Hour).ValidateToken(login.Token)
	require.NoError(t, err)
	return uuid.MustParse(claims.UserID), uuid.MustParse(login.WorkspaceID)
}

var alexAndSam = map[int]onboarding.Record{
	2: {"stage": "just-engaged"},
	3: {"partner1Name": "Alex", "partner2Name": "Sam", "weddingDate": "2026-09-19"},
	4: {"guestCount": float64(80), "budget": map[string]any{"amount": float64(30000), "currency": "USD"}},
	5: {"theme": "modern", "colors": []any{"sage", "ivory"}, "ceremonyType": "civil"},
	6: {"experiences": []any{"live music"}},
}

func (e *testEnv) completeSteps(t *testing.T, userID, workspaceID uuid.UUID) {
	t.Helper()
	for step := onboarding.FirstRecordStep; step <= onboarding.LastRecordStep; step++ {
		require.NoError(t, e.onboarding.SaveStep(context.Background(), workspaceID, userID, step, alexAndSam[step]))
	}
}

func repositoriesFilter(t db_models.ItemType) repositories.ItemFilter {
	return repositories.ItemFilter{Type: t}
}
