package response_models

import (
	"time"

	"github.com/google/uuid"

	"wedplan/internal/moodboard"
	"wedplan/internal/onboarding"
	"wedplan/internal/reveal"
)

type MoodboardResponse struct {
	ID        uuid.UUID          `json:"id"`
	Moodboard moodboard.Artifact `json:"moodboard"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type RegenerateInfoResponse struct {
	Moodboard             *MoodboardResponse    `json:"moodboard"`
	FocusAreas            []moodboard.FocusArea `json:"focus_areas"`
	SectionImageTypes     []moodboard.ImageType `json:"section_image_types"`
	HasPreviousGeneration bool                  `json:"has_previous_generation"`
}

type DebugRegenResponse struct {
	Preferences  onboarding.Preferences         `json:"preferences"`
	Plan         moodboard.Plan                 `json:"plan"`
	TextPrompt   string                         `json:"text_prompt,omitempty"`
	ImagePrompts map[moodboard.ImageType]string `json:"image_prompts"`
	Current      *moodboard.GenerationMetadata  `json:"current_metadata"`
	Executed     bool                           `json:"executed"`
	ElapsedMS    int64                          `json:"elapsed_ms,omitempty"`
	Result       *MoodboardResponse             `json:"result,omitempty"`
}

type RevealResponse struct {
	Moodboard MoodboardResponse `json:"moodboard"`
	Events    []reveal.Event    `json:"events"`
	TotalMS   int64             `json:"total_ms"`
}

type ShareResponse struct {
	moodboard.Share
	URL string `json:"url"`
}

type CommunityPage struct {
	Items    []moodboard.Share `json:"items"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Total    int64             `json:"total"`
	HasMore  bool              `json:"has_more"`
}

type SimilarMoodboard struct {
	Share      moodboard.Share `json:"share"`
	Similarity float64         `json:"similarity"`
}
