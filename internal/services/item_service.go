package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wedplan/internal/boards"
	"wedplan/internal/models/db_models"
	"wedplan/internal/models/request_models"
	"wedplan/internal/onboarding"
	"wedplan/internal/realtime"
	"wedplan/internal/repositories"
	"wedplan/pkg/utils"
)

type ItemServiceInterface interface {
	List(ctx context.Context, workspaceID uuid.UUID, query request_models.ListItemsQuery) ([]db_models.Item, error)
	Get(ctx context.Context, workspaceID, id uuid.UUID) (*db_models.Item, error)
	Create(ctx context.Context, workspaceID, userID uuid.UUID, req request_models.CreateItemRequest) (*db_models.Item, error)
	Update(ctx context.Context, workspaceID, userID, id uuid.UUID, req request_models.UpdateItemRequest) (*db_models.Item, error)
	Delete(ctx context.Context, workspaceID, userID, id uuid.UUID) error
	// BudgetStats compares expenses with the onboarding budget, or with
	// total when it is not nil.
	BudgetStats(ctx context.Context, workspaceID uuid.UUID, total *float64) (*boards.BudgetStats, error)
	Subscribe(workspaceID uuid.UUID, itemType string) (*realtime.Subscription, error)
}

type ItemService struct {
	itemRepo   repositories.ItemRepository
	onboarding OnboardingServiceInterface
	activity   ActivityServiceInterface
	hub        *realtime.Hub
	log        *zap.Logger
}

func NewItemService(
	itemRepo repositories.ItemRepository,
	onboardingService OnboardingServiceInterface,
	activity ActivityServiceInterface,
	hub *realtime.Hub,
	log *zap.Logger,
) ItemServiceInterface {
	return &ItemService{
		itemRepo:   itemRepo,
		onboarding: onboardingService,
		activity:   activity,
		hub:        hub,
		log:        log,
	}
}

func parseItemType(raw string) (db_models.ItemType, error) {
	t := db_models.ItemType(raw)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", utils.ErrInvalidItemType, raw)
	}
	return t, nil
}

func validItemStatus(status string) bool {
	return status == db_models.ItemStatusActive || status == db_models.ItemStatusArchived
}

func (s *ItemService) List(ctx context.Context, workspaceID uuid.UUID, query request_models.ListItemsQuery) ([]db_models.Item, error) {
	var filter repositories.ItemFilter
	if query.Type != "" {
		t, err := parseItemType(query.Type)
		if err != nil {
			return nil, err
		}
		filter.Type = t
	}
	if !boards.ValidSort(query.Sort) {
		return nil, fmt.Errorf("%w: unknown sort %q", utils.ErrValidation, query.Sort)
	}

	items, err := s.itemRepo.List(ctx, workspaceID, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return boards.Apply(items, boards.Query{Status: query.Status, Search: query.Search, Sort: query.Sort}), nil
}

func (s *ItemService) Get(ctx context.Context, workspaceID, id uuid.UUID) (*db_models.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, workspaceID, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if item == nil {
		return nil, utils.ErrItemNotFound
	}
	return item, nil
}

func (s *ItemService) Create(ctx context.Context, workspaceID, userID uuid.UUID, req request_models.CreateItemRequest) (*db_models.Item, error) {
	t, err := parseItemType(req.Type)
	if err != nil {
		return nil, err
	}
	if !t.UserManaged() {
		return nil, fmt.Errorf("%w: %q items are managed by the service", utils.ErrInvalidItemType, t)
	}

	data := onboarding.Record(req.Data)
	if err := boards.ValidateData(t, data); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrValidation, err)
	}

	status := req.Status
	if status == "" {
		status = db_models.ItemStatusActive
	}
	if !validItemStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", utils.ErrValidation, status)
	}

	raw, err := encodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrValidation, err)
	}

	item := &db_models.Item{
		WorkspaceID: workspaceID,
		BoardID:     req.BoardID,
		Type:        t,
		Data:        raw,
		Status:      status,
		CreatedBy:   userID,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	publishItem(s.hub, item, realtime.ActionCreated)
	s.activity.Record(ctx, workspaceID, userID, ActivityItemCreated, map[string]any{"item_id": item.ID, "type": t})
	return item, nil
}

// Update merges req.Data into the stored data. A null value removes the
// field.
func (s *ItemService) Update(ctx context.Context, workspaceID, userID, id uuid.UUID, req request_models.UpdateItemRequest) (*db_models.Item, error) {
	item, err := s.Get(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	if !item.Type.UserManaged() {
		return nil, fmt.Errorf("%w: %q items are managed by the service", utils.ErrInvalidItemType, item.Type)
	}

	data := boards.Data(*item)
	for k, v := range req.Data {
		if v == nil {
			delete(data, k)
			continue
		}
		data[k] = v
	}
	if err := boards.ValidateData(item.Type, data); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrValidation, err)
	}

	if req.Status != nil {
		if !validItemStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", utils.ErrValidation, *req.Status)
		}
		item.Status = *req.Status
	}
	if req.BoardID != nil {
		item.BoardID = req.BoardID
	}

	raw, err := encodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrValidation, err)
	}
	item.Data = raw

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	publishItem(s.hub, item, realtime.ActionUpdated)
	s.activity.Record(ctx, workspaceID, userID, ActivityItemUpdated, map[string]any{"item_id": item.ID, "type": item.Type})
	return item, nil
}

func (s *ItemService) Delete(ctx context.Context, workspaceID, userID, id uuid.UUID) error {
	item, err := s.Get(ctx, workspaceID, id)
	if err != nil {
		return err
	}
	if !item.Type.UserManaged() {
		return fmt.Errorf("%w: %q items are managed by the service", utils.ErrInvalidItemType, item.Type)
	}

	if err := s.itemRepo.Delete(ctx, workspaceID, id); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	publishItem(s.hub, item, realtime.ActionDeleted)
	s.activity.Record(ctx, workspaceID, userID, ActivityItemDeleted, map[string]any{"item_id": item.ID, "type": item.Type})
	return nil
}

func (s *ItemService) BudgetStats(ctx context.Context, workspaceID uuid.UUID, total *float64) (*boards.BudgetStats, error) {
	prefs, err := s.onboarding.Preferences(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	budget, currency, _ := prefs.Budget()
	if total != nil {
		if *total < 0 {
			return nil, fmt.Errorf("%w: total must not be negative", utils.ErrValidation)
		}
		budget = *total
	}

	expenses, err := s.itemRepo.List(ctx, workspaceID, repositories.ItemFilter{Type: db_models.ItemTypeExpense})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	stats := boards.ComputeBudget(budget, currency, expenses)
	return &stats, nil
}

func (s *ItemService) Subscribe(workspaceID uuid.UUID, itemType string) (*realtime.Subscription, error) {
	t, err := parseItemType(itemType)
	if err != nil {
		return nil, err
	}
	return s.hub.Subscribe(realtime.Channel{WorkspaceID: workspaceID, ItemType: string(t)}), nil
}
