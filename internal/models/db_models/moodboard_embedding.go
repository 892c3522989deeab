package db_models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// MoodboardEmbedding indexes a workspace's moodboard style for similarity search.
type MoodboardEmbedding struct {
	WorkspaceID uuid.UUID       `gorm:"type:uuid;primaryKey" json:"workspace_id"`
	MoodboardID uuid.UUID       `gorm:"type:uuid;index" json:"moodboard_id"`
	Summary     string          `json:"summary"`
	Keywords    StringList      `json:"keywords"`
	Themes      StringList      `json:"themes"`
	Embedding   pgvector.Vector `gorm:"type:vector" json:"-"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
