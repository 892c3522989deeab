package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ItemType string

const (
	ItemTypeExpense        ItemType = "expense"
	ItemTypeGuest          ItemType = "guest"
	ItemTypeTask           ItemType = "task"
	ItemTypeMoodboard      ItemType = "moodboard"
	ItemTypeActivity       ItemType = "activity"
	ItemTypeMoodboardShare ItemType = "moodboard_share"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeExpense, ItemTypeGuest, ItemTypeTask,
		ItemTypeMoodboard, ItemTypeActivity, ItemTypeMoodboardShare:
		return true
	}
	return false
}

// UserManaged reports whether clients may create items of this type directly.
func (t ItemType) UserManaged() bool {
	return t == ItemTypeExpense || t == ItemTypeGuest || t == ItemTypeTask
}

const (
	ItemStatusActive   = "active"
	ItemStatusArchived = "archived"

	// Share visibility.
	ItemStatusPublic  = "public"
	ItemStatusPrivate = "private"
)

// Item is the generic typed record behind every workspace board.
type Item struct {
	BaseModel
	WorkspaceID uuid.UUID  `gorm:"type:uuid;index:idx_items_workspace_type" json:"workspace_id"`
	BoardID     *uuid.UUID `gorm:"type:uuid;index" json:"board_id,omitempty"`
	Type        ItemType   `gorm:"index:idx_items_workspace_type" json:"type"`
	// Key is a globally unique lookup key for items addressed from outside
	// their workspace, e.g. share ids.
	Key       *string        `gorm:"column:lookup_key;uniqueIndex" json:"key,omitempty"`
	Data      datatypes.JSON `json:"data"`
	Status    string         `gorm:"index" json:"status"`
	CreatedBy uuid.UUID      `gorm:"type:uuid" json:"created_by"`
	// ExpiresAt is set on items that stop being visible, e.g. shares.
	ExpiresAt *int64 `gorm:"index" json:"expires_at,omitempty"`
}

// MoodboardKey is the item key of a workspace's single moodboard.
func MoodboardKey(workspaceID uuid.UUID) string {
	return "moodboard:" + workspaceID.String()
}
