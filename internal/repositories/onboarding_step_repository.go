package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wedplan/internal/models/db_models"
)

type OnboardingStepRepository interface {
	// Upsert overwrites the record of (workspace, step) if present.
	Upsert(ctx context.Context, workspaceID uuid.UUID, step int, data datatypes.JSON) error
	Find(ctx context.Context, workspaceID uuid.UUID, step int) (*db_models.OnboardingStep, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]db_models.OnboardingStep, error)
}

type onboardingStepRepository struct {
	db *gorm.DB
}

func NewOnboardingStepRepository(db *gorm.DB) OnboardingStepRepository {
	return &onboardingStepRepository{db: db}
}

func (r *onboardingStepRepository) Upsert(ctx context.Context, workspaceID uuid.UUID, step int, data datatypes.JSON) error {
	record := db_models.OnboardingStep{
		WorkspaceID: workspaceID,
		StepNumber:  step,
		Data:        data,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "workspace_id"}, {Name: "step_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&record).Error
}

func (r *onboardingStepRepository) Find(ctx context.Context, workspaceID uuid.UUID, step int) (*db_models.OnboardingStep, error) {
	var record db_models.OnboardingStep
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND step_number = ?", workspaceID, step).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *onboardingStepRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]db_models.OnboardingStep, error) {
	var records []db_models.OnboardingStep
	err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("step_number ASC").
		Find(&records).Error
	return records, err
}
