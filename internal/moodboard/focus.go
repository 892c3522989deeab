package moodboard

import (
	"wedplan/internal/onboarding"
)

type FocusArea string

const (
	FocusComplete  FocusArea = "complete"
	FocusCeremony  FocusArea = "ceremony"
	FocusColors    FocusArea = "colors"
	FocusReception FocusArea = "reception"
	FocusDesserts  FocusArea = "desserts"
)

func FocusAreas() []FocusArea {
	return []FocusArea{FocusComplete, FocusCeremony, FocusColors, FocusReception, FocusDesserts}
}

func ParseFocusArea(s string) (FocusArea, bool) {
	for _, f := range FocusAreas() {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// TextScope says which text fields a generation rewrites.
type TextScope string

const (
	TextNone       TextScope = "none"
	TextAll        TextScope = "all"
	TextStyleGuide TextScope = "style_guide"
)

// Plan is the part of an artifact one generation produces.
type Plan struct {
	Focus  FocusArea   `json:"focus_area"`
	Text   TextScope   `json:"text"`
	Images []ImageType `json:"images"`
}

// PlanFor maps a focus area to the text and images it regenerates. The
// desserts image is part of a complete generation only when the couple asked
// for a desserts experience.
func PlanFor(focus FocusArea, prefs onboarding.Preferences) Plan {
	switch focus {
	case FocusCeremony:
		return Plan{Focus: focus, Text: TextNone, Images: []ImageType{ImageVenueCeremony}}
	case FocusColors:
		return Plan{Focus: focus, Text: TextStyleGuide, Images: []ImageType{ImageStyleDecor}}
	case FocusReception:
		return Plan{Focus: focus, Text: TextNone, Images: []ImageType{ImageReceptionDining}}
	case FocusDesserts:
		return Plan{Focus: focus, Text: TextNone, Images: []ImageType{ImageDesserts}}
	}

	images := []ImageType{ImageVenueCeremony, ImageStyleDecor, ImageReceptionDining}
	if prefs.WantsDesserts() {
		images = append(images, ImageDesserts)
	}
	return Plan{Focus: FocusComplete, Text: TextAll, Images: images}
}

// SectionPlan regenerates a single image and no text.
func SectionPlan(t ImageType) Plan {
	return Plan{Focus: focusOf(t), Text: TextNone, Images: []ImageType{t}}
}

func focusOf(t ImageType) FocusArea {
	switch t {
	case ImageVenueCeremony:
		return FocusCeremony
	case ImageStyleDecor:
		return FocusColors
	case ImageReceptionDining:
		return FocusReception
	case ImageDesserts:
		return FocusDesserts
	}
	return FocusComplete
}
