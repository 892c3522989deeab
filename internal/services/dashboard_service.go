package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"wedplan/internal/boards"
	"wedplan/internal/models/db_models"
	"wedplan/internal/models/response_models"
	"wedplan/internal/repositories"
	"wedplan/pkg/utils"
)

const recentActivityLimit = 10

type DashboardService interface {
	// BuildDashboard reads the stored moodboard; it never generates one.
	BuildDashboard(ctx context.Context, workspaceID uuid.UUID) (*response_models.DashboardResponse, error)
}

type dashboardService struct {
	workspaceRepo repositories.WorkspaceRepository
	itemRepo      repositories.ItemRepository
	onboarding    OnboardingServiceInterface
	moodboards    MoodboardServiceInterface
}

func NewDashboardService(
	workspaceRepo repositories.WorkspaceRepository,
	itemRepo repositories.ItemRepository,
	onboardingService OnboardingServiceInterface,
	moodboards MoodboardServiceInterface,
) DashboardService {
	return &dashboardService{
		workspaceRepo: workspaceRepo,
		itemRepo:      itemRepo,
		onboarding:    onboardingService,
		moodboards:    moodboards,
	}
}

func (s *dashboardService) BuildDashboard(ctx context.Context, workspaceID uuid.UUID) (*response_models.DashboardResponse, error) {
	workspace, err := requireWorkspace(ctx, s.workspaceRepo, workspaceID)
	if err != nil {
		return nil, err
	}

	prefs, err := s.onboarding.Preferences(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	board, err := s.moodboards.Current(ctx, workspaceID)
	if err != nil && !errors.Is(err, utils.ErrMoodboardNotFound) {
		return nil, err
	}

	items, err := s.itemRepo.List(ctx, workspaceID, repositories.ItemFilter{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	budget, currency, _ := prefs.Budget()
	resp := &response_models.DashboardResponse{
		OnboardingCompleted:   workspace.IsOnboardingComplete(),
		OnboardingCompletedAt: utils.FromUnixSecondsPtr(workspace.OnboardingCompletedAt),
		CoupleNames:           prefs.CoupleTitle(),
		WeddingDate:           prefs.WeddingDate(),
		Moodboard:             board,
		Budget:                boards.ComputeBudget(budget, currency, items),
		Guests:                boards.CountByStatus(items, db_models.ItemTypeGuest),
		Tasks:                 boards.CountByStatus(items, db_models.ItemTypeTask),
		RecentActivity:        []db_models.Item{},
	}

	// items is newest first.
	for _, item := range items {
		if item.Type != db_models.ItemTypeActivity {
			continue
		}
		resp.RecentActivity = append(resp.RecentActivity, item)
		if len(resp.RecentActivity) == recentActivityLimit {
			break
		}
	}
	return resp, nil
}
