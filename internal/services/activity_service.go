package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wedplan/internal/models/db_models"
	"wedplan/internal/realtime"
	"wedplan/internal/repositories"
)

const (
	ActivityStepSaved           = "onboarding.step_saved"
	ActivityOnboardingCompleted = "onboarding.completed"
	ActivityMoodboardGenerated  = "moodboard.generated"
	ActivityMoodboardRegen      = "moodboard.regenerated"
	ActivityMoodboardShared     = "moodboard.shared"
	ActivityShareRevoked        = "moodboard.share_revoked"
	ActivityItemCreated         = "item.created"
	ActivityItemUpdated         = "item.updated"
	ActivityItemDeleted         = "item.deleted"
)

// ActivityServiceInterface records the workspace activity feed. Recording is
// best effort: failures are logged and never reach the caller.
type ActivityServiceInterface interface {
	Record(ctx context.Context, workspaceID, userID uuid.UUID, action string, details map[string]any)
}

type ActivityService struct {
	itemRepo repositories.ItemRepository
	hub      *realtime.Hub
	log      *zap.Logger
}

func NewActivityService(itemRepo repositories.ItemRepository, hub *realtime.Hub, log *zap.Logger) ActivityServiceInterface {
	return &ActivityService{itemRepo: itemRepo, hub: hub, log: log}
}

func (a *ActivityService) Record(ctx context.Context, workspaceID, userID uuid.UUID, action string, details map[string]any) {
	payload := map[string]any{"action": action}
	for k, v := range details {
		payload[k] = v
	}

	data, err := json.Marshal(payload)
	if err != nil {
		a.log.Warn("failed to encode activity", zap.String("action", action), zap.Error(err))
		return
	}

	item := &db_models.Item{
		WorkspaceID: workspaceID,
		Type:        db_models.ItemTypeActivity,
		Data:        data,
		Status:      db_models.ItemStatusActive,
		CreatedBy:   userID,
	}
	if err := a.itemRepo.Create(ctx, item); err != nil {
		a.log.Warn("failed to record activity",
			zap.String("action", action),
			zap.String("workspace_id", workspaceID.String()),
			zap.Error(err))
		return
	}

	publishItem(a.hub, item, realtime.ActionCreated)
}

// publishItem tells the subscribers of the item's channel about a change.
func publishItem(hub *realtime.Hub, item *db_models.Item, action string) {
	if hub == nil {
		return
	}
	var data any = item.Data
	if action == realtime.ActionDeleted {
		data = nil
	}
	hub.Publish(realtime.Channel{WorkspaceID: item.WorkspaceID, ItemType: string(item.Type)}, realtime.Event{
		Action: action,
		ItemID: item.ID,
		Data:   data,
	})
}
