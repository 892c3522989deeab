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

type ItemFilter struct {
	Type   db_models.ItemType
	Status string
	Limit  int
}

type ItemRepository interface {
	Create(ctx context.Context, item *db_models.Item) error
	// UpsertByKey creates the item or overwrites data, status and board of
	// the item holding the same key. The stored row is loaded into item.
	UpsertByKey(ctx context.Context, item *db_models.Item) error
	FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*db_models.Item, error)
	FindByKey(ctx context.Context, key string) (*db_models.Item, error)
	List(ctx context.Context, workspaceID uuid.UUID, filter ItemFilter) ([]db_models.Item, error)
	UpdateData(ctx context.Context, item *db_models.Item, data datatypes.JSON) error
	Update(ctx context.Context, item *db_models.Item) error
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error

	// ListPublicShares pages through public shares not expired at now, newest first.
	ListPublicShares(ctx context.Context, now int64, offset, limit int) ([]db_models.Item, int64, error)
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *db_models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepository) UpsertByKey(ctx context.Context, item *db_models.Item) error {
	if item.Key == nil {
		return errors.New("upsert requires an item key")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "lookup_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "status", "board_id", "updated_at"}),
		}).Create(item).Error
		if err != nil {
			return err
		}

		var stored db_models.Item
		if err := tx.Where("lookup_key = ?", *item.Key).First(&stored).Error; err != nil {
			return err
		}
		*item = stored
		return nil
	})
}

func (r *itemRepository) FindByID(ctx context.Context, workspaceID, id uuid.UUID) (*db_models.Item, error) {
	var item db_models.Item
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) FindByKey(ctx context.Context, key string) (*db_models.Item, error) {
	var item db_models.Item
	if err := r.db.WithContext(ctx).Where("lookup_key = ?", key).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) List(ctx context.Context, workspaceID uuid.UUID, filter ItemFilter) ([]db_models.Item, error) {
	q := r.db.WithContext(ctx).Where("workspace_id = ?", workspaceID)
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var items []db_models.Item
	err := q.Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *itemRepository) UpdateData(ctx context.Context, item *db_models.Item, data datatypes.JSON) error {
	item.Data = data
	return r.db.WithContext(ctx).Model(item).Updates(map[string]interface{}{"data": data}).Error
}

func (r *itemRepository) Update(ctx context.Context, item *db_models.Item) error {
	return r.db.WithContext(ctx).
		Model(item).
		Select("data", "status", "board_id", "updated_at").
		Updates(item).Error
}

func (r *itemRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		Delete(&db_models.Item{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *itemRepository) ListPublicShares(ctx context.Context, now int64, offset, limit int) ([]db_models.Item, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&db_models.Item{}).
		Where("type = ? AND status = ?", db_models.ItemTypeMoodboardShare, db_models.ItemStatusPublic).
		Where("(expires_at IS NULL OR expires_at > ?)", now).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []db_models.Item
	err := q.Order("created_at DESC").Order("id").Offset(offset).Limit(limit).Find(&items).Error
	return items, total, err
}
