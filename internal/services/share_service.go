package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wedplan/internal/config"
	"wedplan/internal/models/db_models"
	"wedplan/internal/models/request_models"
	"wedplan/internal/models/response_models"
	"wedplan/internal/moodboard"
	"wedplan/internal/repositories"
	"wedplan/pkg/utils"
)

const defaultShareDays = 30

type ShareServiceInterface interface {
	Create(ctx context.Context, workspaceID, userID uuid.UUID, req request_models.CreateShareRequest) (*response_models.ShareResponse, error)
	// Get resolves a share id and counts the view.
	Get(ctx context.Context, shareID string) (*moodboard.SharedMoodboard, error)
	List(ctx context.Context, workspaceID uuid.UUID) ([]response_models.ShareResponse, error)
	Revoke(ctx context.Context, workspaceID, userID uuid.UUID, shareID string) error
}

type ShareService struct {
	itemRepo    repositories.ItemRepository
	onboarding  OnboardingServiceInterface
	activity    ActivityServiceInterface
	mailService IMailService
	appBaseURL  string
	now         func() time.Time
	log         *zap.Logger
}

func NewShareService(
	itemRepo repositories.ItemRepository,
	onboardingService OnboardingServiceInterface,
	activity ActivityServiceInterface,
	mailService IMailService,
	cfg *config.Config,
	log *zap.Logger,
) ShareServiceInterface {
	return &ShareService{
		itemRepo:    itemRepo,
		onboarding:  onboardingService,
		activity:    activity,
		mailService: mailService,
		appBaseURL:  strings.TrimRight(cfg.Mail.AppBaseURL, "/"),
		now:         time.Now,
		log:         log,
	}
}

func (s *ShareService) Create(ctx context.Context, workspaceID, userID uuid.UUID, req request_models.CreateShareRequest) (*response_models.ShareResponse, error) {
	board, err := s.itemRepo.FindByKey(ctx, db_models.MoodboardKey(workspaceID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if board == nil {
		return nil, utils.ErrMoodboardNotFound
	}

	days := defaultShareDays
	if req.ExpiresInDays != nil {
		if *req.ExpiresInDays < 1 {
			return nil, fmt.Errorf("%w: expiresInDays must be at least 1", utils.ErrValidation)
		}
		days = *req.ExpiresInDays
	}
	public := req.IsPublic != nil && *req.IsPublic

	shareID, err := utils.GenerateSecureToken(16)
	if err != nil {
		return nil, fmt.Errorf("generate share id: %w", err)
	}

	now := s.now().UTC()
	expiresAt := now.AddDate(0, 0, days)
	share := moodboard.Share{
		ShareID:     shareID,
		MoodboardID: board.ID,
		ExpiresAt:   &expiresAt,
		IsPublic:    public,
		Title:       strings.TrimSpace(req.Title),
		CreatedAt:   now,
	}

	if prefs, err := s.onboarding.Preferences(ctx, workspaceID); err == nil {
		share.CoupleNames = prefs.CoupleTitle()
		share.Theme = prefs.Theme()
	} else {
		s.log.Warn("sharing without couple details", zap.String("workspace_id", workspaceID.String()), zap.Error(err))
	}
	if share.Title == "" {
		share.Title = "Our wedding moodboard"
		if share.CoupleNames != "" {
			share.Title = share.CoupleNames + "'s wedding moodboard"
		}
	}

	data, err := json.Marshal(share)
	if err != nil {
		return nil, fmt.Errorf("encode share: %w", err)
	}

	status := db_models.ItemStatusPrivate
	if public {
		status = db_models.ItemStatusPublic
	}
	expiresUnix := expiresAt.Unix()
	item := &db_models.Item{
		WorkspaceID: workspaceID,
		Type:        db_models.ItemTypeMoodboardShare,
		Key:         &shareID,
		Data:        data,
		Status:      status,
		CreatedBy:   userID,
		ExpiresAt:   &expiresUnix,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	for _, to := range req.Emails {
		if err := s.mailService.SendMoodboardShare(to, share.CoupleNames, shareID); err != nil {
			s.log.Warn("failed to send share invitation", zap.String("share_id", shareID), zap.Error(err))
		}
	}

	s.activity.Record(ctx, workspaceID, userID, ActivityMoodboardShared, map[string]any{
		"share_id":  shareID,
		"is_public": public,
		"invited":   len(req.Emails),
	})

	resp := s.toResponse(share)
	return &resp, nil
}

func (s *ShareService) Get(ctx context.Context, shareID string) (*moodboard.SharedMoodboard, error) {
	shareID = strings.TrimSpace(shareID)
	if shareID == "" {
		return nil, fmt.Errorf("%w: shareId is required", utils.ErrValidation)
	}

	item, share, err := s.find(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if share.Expired(s.now()) {
		return nil, utils.ErrShareExpired
	}

	board, err := s.itemRepo.FindByKey(ctx, db_models.MoodboardKey(item.WorkspaceID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if board == nil {
		return nil, utils.ErrMoodboardNotFound
	}

	var artifact moodboard.Artifact
	if err := json.Unmarshal(board.Data, &artifact); err != nil {
		return nil, fmt.Errorf("decode moodboard %s: %w", board.ID, err)
	}
	artifact.PreviousGeneration = nil

	share.ViewCount++
	if data, err := json.Marshal(share); err == nil {
		if err := s.itemRepo.UpdateData(ctx, item, data); err != nil {
			s.log.Warn("failed to count share view", zap.String("share_id", shareID), zap.Error(err))
		}
	}

	return &moodboard.SharedMoodboard{Share: share, Moodboard: artifact}, nil
}

func (s *ShareService) List(ctx context.Context, workspaceID uuid.UUID) ([]response_models.ShareResponse, error) {
	items, err := s.itemRepo.List(ctx, workspaceID, repositories.ItemFilter{Type: db_models.ItemTypeMoodboardShare})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	out := make([]response_models.ShareResponse, 0, len(items))
	for _, item := range items {
		share, err := decodeShare(item)
		if err != nil {
			s.log.Warn("skipping unreadable share", zap.String("item_id", item.ID.String()), zap.Error(err))
			continue
		}
		out = append(out, s.toResponse(share))
	}
	return out, nil
}

func (s *ShareService) Revoke(ctx context.Context, workspaceID, userID uuid.UUID, shareID string) error {
	item, _, err := s.find(ctx, strings.TrimSpace(shareID))
	if err != nil {
		return err
	}
	if item.WorkspaceID != workspaceID {
		return utils.ErrShareNotFound
	}

	if err := s.itemRepo.Delete(ctx, workspaceID, item.ID); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	s.activity.Record(ctx, workspaceID, userID, ActivityShareRevoked, map[string]any{"share_id": shareID})
	return nil
}

func (s *ShareService) find(ctx context.Context, shareID string) (*db_models.Item, moodboard.Share, error) {
	item, err := s.itemRepo.FindByKey(ctx, shareID)
	if err != nil {
		return nil, moodboard.Share{}, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if item == nil || item.Type != db_models.ItemTypeMoodboardShare {
		return nil, moodboard.Share{}, utils.ErrShareNotFound
	}

	share, err := decodeShare(*item)
	if err != nil {
		return nil, moodboard.Share{}, err
	}
	return item, share, nil
}

func (s *ShareService) toResponse(share moodboard.Share) response_models.ShareResponse {
	return response_models.ShareResponse{
		Share: share,
		URL:   fmt.Sprintf("%s/moodboard/shared?shareId=%s", s.appBaseURL, url.QueryEscape(share.ShareID)),
	}
}

// decodeShare reads the share record of item. The columns win over the JSON
// copy for the id, visibility and expiry.
func decodeShare(item db_models.Item) (moodboard.Share, error) {
	var share moodboard.Share
	if err := json.Unmarshal(item.Data, &share); err != nil {
		return share, fmt.Errorf("decode share %s: %w", item.ID, err)
	}
	if item.Key != nil {
		share.ShareID = *item.Key
	}
	share.IsPublic = item.Status == db_models.ItemStatusPublic
	share.ExpiresAt = utils.FromUnixSecondsPtr(item.ExpiresAt)
	return share, nil
}
