package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wedplan/internal/models/response_models"
	"wedplan/internal/onboarding"
	"wedplan/internal/repositories"
	"wedplan/pkg/utils"
)

// DashboardRedirect is where the client goes once onboarding is finished.
const DashboardRedirect = "/dashboard"

type OnboardingServiceInterface interface {
	Steps(ctx context.Context, workspaceID uuid.UUID) (*response_models.OnboardingStepsResponse, error)
	SaveStep(ctx context.Context, workspaceID, userID uuid.UUID, step int, data onboarding.Record) error
	// GetStep returns nil data when the step was never saved.
	GetStep(ctx context.Context, workspaceID uuid.UUID, step int) (onboarding.Record, error)
	Preferences(ctx context.Context, workspaceID uuid.UUID) (onboarding.Preferences, error)
	Summary(ctx context.Context, workspaceID uuid.UUID) (*response_models.SummaryResponse, error)
	// Complete marks onboarding as done. It never fails: a write error is
	// logged and reported as completed=false, with the same redirect.
	Complete(ctx context.Context, workspaceID, userID uuid.UUID) *response_models.CompletionResponse
}

type OnboardingService struct {
	stepRepo      repositories.OnboardingStepRepository
	workspaceRepo repositories.WorkspaceRepository
	activity      ActivityServiceInterface
	log           *zap.Logger
}

func NewOnboardingService(
	stepRepo repositories.OnboardingStepRepository,
	workspaceRepo repositories.WorkspaceRepository,
	activity ActivityServiceInterface,
	log *zap.Logger,
) OnboardingServiceInterface {
	return &OnboardingService{
		stepRepo:      stepRepo,
		workspaceRepo: workspaceRepo,
		activity:      activity,
		log:           log,
	}
}

func (s *OnboardingService) Steps(ctx context.Context, workspaceID uuid.UUID) (*response_models.OnboardingStepsResponse, error) {
	workspace, err := requireWorkspace(ctx, s.workspaceRepo, workspaceID)
	if err != nil {
		return nil, err
	}

	rows, err := s.stepRepo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	saved := make(map[int]bool, len(rows))
	for _, row := range rows {
		saved[row.StepNumber] = true
	}

	resp := &response_models.OnboardingStepsResponse{
		NextStep:   onboarding.NextStep(saved),
		Completed:  workspace.IsOnboardingComplete(),
		SavedCount: len(saved),
	}
	for _, step := range onboarding.Steps() {
		resp.Steps = append(resp.Steps, response_models.StepStatus{Step: step, Saved: saved[step.Number]})
	}
	return resp, nil
}

func (s *OnboardingService) SaveStep(ctx context.Context, workspaceID, userID uuid.UUID, step int, data onboarding.Record) error {
	if !onboarding.HasRecord(step) {
		return fmt.Errorf("%w: step %d has no answers to save", utils.ErrInvalidStep, step)
	}
	if _, err := requireWorkspace(ctx, s.workspaceRepo, workspaceID); err != nil {
		return err
	}

	raw, err := encodeJSON(data)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrValidation, err)
	}
	if err := s.stepRepo.Upsert(ctx, workspaceID, step, raw); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	if err := onboarding.Validate(step, data); err != nil {
		s.log.Debug("step saved with missing fields",
			zap.String("workspace_id", workspaceID.String()),
			zap.Int("step", step),
			zap.Error(err))
	}
	s.activity.Record(ctx, workspaceID, userID, ActivityStepSaved, map[string]any{"step": step})
	return nil
}

func (s *OnboardingService) GetStep(ctx context.Context, workspaceID uuid.UUID, step int) (onboarding.Record, error) {
	if !onboarding.HasRecord(step) {
		return nil, fmt.Errorf("%w: step %d has no answers", utils.ErrInvalidStep, step)
	}

	row, err := s.stepRepo.Find(ctx, workspaceID, step)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if row == nil {
		return nil, nil
	}
	return decodeRecord(row.Data)
}

func (s *OnboardingService) Preferences(ctx context.Context, workspaceID uuid.UUID) (onboarding.Preferences, error) {
	rows, err := s.stepRepo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return onboarding.Preferences{}, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	records := make(map[int]onboarding.Record, len(rows))
	for _, row := range rows {
		rec, err := decodeRecord(row.Data)
		if err != nil {
			s.log.Warn("skipping unreadable step record",
				zap.String("workspace_id", workspaceID.String()),
				zap.Int("step", row.StepNumber),
				zap.Error(err))
			continue
		}
		records[row.StepNumber] = rec
	}
	return onboarding.Aggregate(records), nil
}

func (s *OnboardingService) Summary(ctx context.Context, workspaceID uuid.UUID) (*response_models.SummaryResponse, error) {
	if _, err := requireWorkspace(ctx, s.workspaceRepo, workspaceID); err != nil {
		return nil, err
	}

	prefs, err := s.Preferences(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	missing := prefs.Missing()
	return &response_models.SummaryResponse{
		Preferences:  prefs,
		Keys:         prefs.Keys(),
		MissingSteps: missing,
		Complete:     len(missing) == 0,
	}, nil
}

func (s *OnboardingService) Complete(ctx context.Context, workspaceID, userID uuid.UUID) *response_models.CompletionResponse {
	resp := &response_models.CompletionResponse{Redirect: DashboardRedirect}

	prefs, err := s.Preferences(ctx, workspaceID)
	if err != nil {
		s.log.Warn("failed to aggregate preferences on completion", zap.String("workspace_id", workspaceID.String()), zap.Error(err))
		return resp
	}

	data, err := json.Marshal(prefs)
	if err != nil {
		s.log.Warn("failed to encode preferences on completion", zap.String("workspace_id", workspaceID.String()), zap.Error(err))
		return resp
	}

	if err := s.workspaceRepo.MarkOnboardingComplete(ctx, workspaceID, data, utils.NowUnixSeconds()); err != nil {
		s.log.Warn("failed to mark onboarding complete", zap.String("workspace_id", workspaceID.String()), zap.Error(err))
		return resp
	}

	s.activity.Record(ctx, workspaceID, userID, ActivityOnboardingCompleted, nil)
	resp.Completed = true
	return resp
}

func decodeRecord(raw []byte) (onboarding.Record, error) {
	rec := onboarding.Record{}
	if len(raw) == 0 {
		return rec, nil
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode step record: %w", err)
	}
	return rec, nil
}
