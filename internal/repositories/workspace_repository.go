package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"wedplan/internal/models/db_models"
)

type WorkspaceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Workspace, error)
	FindByAccountID(ctx context.Context, accountID uuid.UUID) (*db_models.Workspace, error)
	// MarkOnboardingComplete stores the aggregated answers and the completion time.
	MarkOnboardingComplete(ctx context.Context, id uuid.UUID, data datatypes.JSON, completedAt int64) error
}

type workspaceRepository struct {
	db *gorm.DB
}

func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &workspaceRepository{db: db}
}

func (r *workspaceRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Workspace, error) {
	var ws db_models.Workspace
	if err := r.db.WithContext(ctx).First(&ws, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ws, nil
}

func (r *workspaceRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) (*db_models.Workspace, error) {
	var ws db_models.Workspace
	if err := r.db.WithContext(ctx).First(&ws, "account_id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ws, nil
}

func (r *workspaceRepository) MarkOnboardingComplete(ctx context.Context, id uuid.UUID, data datatypes.JSON, completedAt int64) error {
	res := r.db.WithContext(ctx).
		Model(&db_models.Workspace{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"onboarding_data_couple":  data,
			"onboarding_completed_at": completedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
