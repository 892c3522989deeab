package moodboard

import (
	"time"

	"github.com/google/uuid"
)

// Share is the data of a moodboard_share item. The share id itself is the
// item key.
type Share struct {
	ShareID     string     `json:"share_id"`
	MoodboardID uuid.UUID  `json:"moodboard_id"`
	ExpiresAt   *time.Time `json:"expires_at"`
	IsPublic    bool       `json:"is_public"`
	Title       string     `json:"title"`
	CoupleNames string     `json:"couple_names"`
	Theme       string     `json:"theme,omitempty"`
	ViewCount   int        `json:"view_count"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Expired reports whether the share stopped being viewable at now. A share
// without an expiry never expires.
func (s Share) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// SharedMoodboard is what a share link resolves to.
type SharedMoodboard struct {
	Share     Share    `json:"share"`
	Moodboard Artifact `json:"moodboard"`
}
