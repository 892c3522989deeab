package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wedplan/internal/api/controllers"
	"wedplan/internal/config"
	"wedplan/internal/infra/infratest"
	"wedplan/internal/realtime"
	"wedplan/internal/repositories"
	"wedplan/internal/reveal"
	"wedplan/internal/services"
	mem "wedplan/pkg/memcache"
	"wedplan/pkg/middleware"
	"wedplan/pkg/storage"
	"wedplan/pkg/utils"
)

const stubStyleGuide = `{
  "wedding_summary": "A modern civil ceremony for 80 guests.",
  "insights": ["Book the venue early"],
  "style_guide": {
    "color_palette": [{"name": "Sage", "hex": "#9caf88"}],
    "keywords": ["greenery"],
    "themes": ["modern"]
  }
}`

type stubText struct{}

func (stubText) GenerateJSON(context.Context, string) (string, error) { return stubStyleGuide, nil }
func (stubText) ModelName() string { return "stub-text" }

type stubImages struct{}

func (stubImages) GenerateImage(_ context.Context, prompt string) ([]byte, error) {
	return []byte("png:" + prompt[:10]), nil
}
func (stubImages) ModelName() string { return "stub-image" }

type stubMail struct{}

func (stubMail) SendMailToNotifyUser(_, _, _, _, _ string) error { return nil }
func (stubMail) SendMailToResetPassword(_, _ string) error { return nil }
func (stubMail) SendMoodboardShare(_, _, _ string) error { return nil }

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	TraceID string          `json:"trace_id"`
	Data    json.RawMessage `json:"data"`
}

type server struct {
	t      *testing.T
	router *gin.Engine
}

func newServer(t *testing.T) *server {
	t.Helper()

	db := infratest.NewDB(t)
	log := zap.NewNop()
	cfg := config.DefaultConfig()
	cfg.Server.Mode = gin.TestMode
	cfg.Storage.PublicBaseURL = "/media"

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	tokens := utils.NewTokenIssuer("router-secret", time.Hour)
	items := repositories.NewItemRepository(db)
	workspaces := repositories.NewWorkspaceRepository(db)
	embeddings := repositories.NewMoodboardEmbeddingRepository(db)
	hub := realtime.NewHub(8)

	activity := services.NewActivityService(items, hub, log)
	accounts := services.NewAccountService(repositories.NewAccountRepository(db), workspaces, tokens, mem.NewResetTokens(), stubMail{}, cfg, log)
	onboardingSvc := services.NewOnboardingService(repositories.NewOnboardingStepRepository(db), workspaces, activity, log)
	moodboards := services.NewMoodboardService(items, embeddings, workspaces, onboardingSvc, activity,
		stubText{}, stubImages{}, nil, store, hub, reveal.DefaultTimings(), cfg, log)
	shares := services.NewShareService(items, onboardingSvc, activity, stubMail{}, cfg, log)
	itemSvc := services.NewItemService(items, onboardingSvc, activity, hub, log)

	router := NewRouter(cfg, log, tokens, Controllers{
		Account:    controllers.NewAccountController(accounts),
		Onboarding: controllers.NewOnboardingController(onboardingSvc, moodboards),
		Moodboard:  controllers.NewMoodboardController(moodboards, shares, log),
		Community:  controllers.NewCommunityController(services.NewCommunityService(items, embeddings, log)),
		Items:      controllers.NewItemsController(itemSvc, log),
		Dashboard:  controllers.NewDashboardController(services.NewDashboardService(workspaces, items, onboardingSvc, moodboards)),
		Media:      controllers.NewMediaController(store, log),
	})
	return &server{t: t, router: router}
}

func (s *server) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (s *server) register(email string) string {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/accounts/register", "", gin.H{
		"display_name": "Alex",
		"email":        email,
		"password":     "secret123",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &login))
	return login.Token
}

func (s *server) onboard(token string) {
	s.t.Helper()
	steps := map[int]gin.H{
		2: {"stage": "just-engaged"},
		3: {"partner1Name": "Alex", "partner2Name": "Sam", "weddingDate": "2026-09-19"},
		4: {"guestCount": 80, "budget": gin.H{"amount": 30000, "currency": "USD"}},
		5: {"theme": "modern", "colors": []string{"sage"}, "ceremonyType": "civil"},
		6: {"experiences": []string{"live music"}},
	}
	for step := 2; step <= 6; step++ {
		w, _ := s.do(http.MethodPut, fmt.Sprintf("/api/onboarding/steps/%d", step), token, steps[step])
		require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newServer(t)

	for _, path := range []string{"/api/dashboard", "/api/moodboard", "/api/items", "/api/onboarding/steps"} {
		w, env := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.False(t, env.Success, path)
	}

	w, _ := s.do(http.MethodGet, "/api/dashboard", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEveryResponseCarriesTraceID(t *testing.T) {
	s := newServer(t)

	w, env := s.do(http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, env.TraceID)
	assert.Equal(t, env.TraceID, w.Header().Get(middleware.TraceIDHeader))
}

func TestRegisterTwiceConflicts(t *testing.T) {
	s := newServer(t)
	s.register("alex@example.com")

	w, env := s.do(http.MethodPost, "/api/accounts/register", "", gin.H{
		"display_name": "Alex",
		"email":        "ALEX@example.com",
		"password":     "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, env.Success)
}

func TestOnboardingToDashboard(t *testing.T) {
	s := newServer(t)
	token := s.register("alex@example.com")
	s.onboard(token)

	w, env := s.do(http.MethodGet, "/api/onboarding/summary", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary struct {
		Complete bool `json:"complete"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.True(t, summary.Complete)

	w, env = s.do(http.MethodPost, "/api/onboarding/moodboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var board struct {
		ID        string `json:"id"`
		Moodboard struct {
			SourceImages []struct {
				URL string `json:"url"`
			} `json:"source_images"`
		} `json:"moodboard"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &board))
	require.NotEmpty(t, board.Moodboard.SourceImages)

	// Generated images are served back through the media route.
	imageURL := board.Moodboard.SourceImages[0].URL
	require.True(t, strings.HasPrefix(imageURL, "/media/"), imageURL)
	w, _ = s.do(http.MethodGet, imageURL, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "png:"))

	w, env = s.do(http.MethodPost, "/api/onboarding/complete", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var done struct {
		Completed bool   `json:"completed"`
		Redirect  string `json:"redirect"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &done))
	assert.True(t, done.Completed)
	assert.Equal(t, "/dashboard", done.Redirect)

	w, env = s.do(http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dash struct {
		OnboardingCompleted bool `json:"onboarding_completed"`
		Moodboard           *struct {
			ID string `json:"id"`
		} `json:"moodboard"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dash))
	assert.True(t, dash.OnboardingCompleted)
	require.NotNil(t, dash.Moodboard)
	assert.Equal(t, board.ID, dash.Moodboard.ID)
}

func TestInvalidInputsAnswer400(t *testing.T) {
	s := newServer(t)
	token := s.register("alex@example.com")

	w, _ := s.do(http.MethodPut, "/api/onboarding/steps/42", token, gin.H{"a": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, "/api/moodboard/regenerate-section", token, gin.H{"imageType": "not-a-type"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, "/api/moodboard/regenerate", token, gin.H{"focusArea": "garden"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodGet, "/api/moodboard/share", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodGet, "/api/items?sort=colour", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPatch, "/api/items/not-a-uuid", token, gin.H{"data": gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIncompleteStepIsSavedWithWarnings(t *testing.T) {
	s := newServer(t)
	token := s.register("alex@example.com")

	w, env := s.do(http.MethodPut, "/api/onboarding/steps/3", token, gin.H{"partner1Name": "Alex"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var saved struct {
		Warnings map[string]string `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &saved))
	assert.Contains(t, saved.Warnings, "partner2Name")
	assert.Contains(t, saved.Warnings, "weddingDate")

	w, env = s.do(http.MethodGet, "/api/onboarding/steps/3", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stored struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stored))
	assert.Equal(t, map[string]any{"partner1Name": "Alex"}, stored.Data)

	w, env = s.do(http.MethodPut, "/api/onboarding/steps/5", token, gin.H{"theme": "modern"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, string(env.Data), "warnings")
}

func TestUnknownShareIs404(t *testing.T) {
	s := newServer(t)
	token := s.register("alex@example.com")

	w, env := s.do(http.MethodGet, "/api/moodboard/share?shareId=deadbeef", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
}

func TestShareLifecycleOverHTTP(t *testing.T) {
	s := newServer(t)
	token := s.register("alex@example.com")
	s.onboard(token)

	w, _ := s.do(http.MethodPost, "/api/moodboard/share", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "sharing needs a moodboard")

	w, _ = s.do(http.MethodPost, "/api/onboarding/moodboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := s.do(http.MethodPost, "/api/moodboard/share", token, gin.H{"isPublic": true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var share struct {
		ShareID string `json:"share_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &share))
	require.NotEmpty(t, share.ShareID)

	w, _ = s.do(http.MethodGet, "/api/moodboard/share?shareId="+share.ShareID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(http.MethodGet, "/api/community", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.EqualValues(t, 1, page.Total)

	w, _ = s.do(http.MethodDelete, "/api/moodboard/share?shareId="+share.ShareID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, "/api/moodboard/share?shareId="+share.ShareID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBudgetStatsOverHTTP(t *testing.T) {
	s := newServer(t)
	token := s.register("alex@example.com")

	for _, amount := range []float64{100, 200, 300} {
		w, _ := s.do(http.MethodPost, "/api/items", token, gin.H{
			"type": "expense",
			"data": gin.H{"amount": amount, "category": "venue"},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w, env := s.do(http.MethodGet, "/api/budget/stats?total=500", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.EqualValues(t, 600, stats["totalSpent"])
	assert.EqualValues(t, -100, stats["remainingBudget"])
	assert.Equal(t, true, stats["overBudget"])
}

func TestMediaRejectsTraversal(t *testing.T) {
	s := newServer(t)

	w, _ := s.do(http.MethodGet, "/media/../../etc/passwd", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodGet, "/media/ab/missing.png", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
