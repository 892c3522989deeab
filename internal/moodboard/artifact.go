// Package moodboard holds the moodboard artifact, the focus areas a
// regeneration can target, the prompts sent to the generative providers and
// the share records that expose an artifact publicly.
package moodboard

import (
	"time"
)

type ImageType string

const (
	ImageVenueCeremony   ImageType = "venue-ceremony"
	ImageStyleDecor      ImageType = "style-decor"
	ImageReceptionDining ImageType = "reception-dining"
	ImageDesserts        ImageType = "desserts"
)

// imageOrder is the display order of the artifact images.
var imageOrder = []ImageType{ImageVenueCeremony, ImageStyleDecor, ImageReceptionDining, ImageDesserts}

// SectionImageTypes lists the image types a single-section regeneration accepts.
func SectionImageTypes() []ImageType {
	return []ImageType{ImageVenueCeremony, ImageStyleDecor, ImageReceptionDining}
}

// ParseSectionImageType accepts only the types of SectionImageTypes.
func ParseSectionImageType(s string) (ImageType, bool) {
	for _, t := range SectionImageTypes() {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

type ColorSwatch struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

type StyleGuide struct {
	ColorPalette []ColorSwatch `json:"color_palette"`
	Keywords     []string      `json:"keywords"`
	Themes       []string      `json:"themes"`
}

type Image struct {
	Type        ImageType `json:"type"`
	URL         string    `json:"url"`
	StoragePath string    `json:"storage_path"`
	Prompt      string    `json:"prompt"`
	GeneratedAt time.Time `json:"generated_at"`
}

type GenerationMetadata struct {
	Model       string    `json:"model"`
	ImageModel  string    `json:"image_model"`
	Prompt      string    `json:"prompt"`
	GeneratedAt time.Time `json:"generated_at"`
	FocusArea   FocusArea `json:"focus_area"`
}

// Artifact is the data of a workspace's moodboard item.
type Artifact struct {
	ImageURL       string             `json:"image_url"`
	SourceImages   []Image            `json:"source_images"`
	WeddingSummary string             `json:"wedding_summary"`
	Insights       []string           `json:"insights"`
	StyleGuide     StyleGuide         `json:"style_guide"`
	Metadata       GenerationMetadata `json:"generation_metadata"`

	// PreviousGeneration is the artifact as it was before the last
	// regeneration. Only one level is kept.
	PreviousGeneration *Artifact `json:"previous_generation,omitempty"`
}

func (a *Artifact) Image(t ImageType) (Image, bool) {
	for _, img := range a.SourceImages {
		if img.Type == t {
			return img, true
		}
	}
	return Image{}, false
}

// SetImage replaces the image of the same type, or adds it, keeping the
// display order, and points ImageURL at the first image.
func (a *Artifact) SetImage(img Image) {
	byType := make(map[ImageType]Image, len(a.SourceImages)+1)
	for _, existing := range a.SourceImages {
		byType[existing.Type] = existing
	}
	byType[img.Type] = img

	images := make([]Image, 0, len(byType))
	for _, t := range imageOrder {
		if v, ok := byType[t]; ok {
			images = append(images, v)
		}
	}
	a.SourceImages = images
	a.ImageURL = images[0].URL
}

// Snapshot copies the artifact without its own previous generation.
func (a *Artifact) Snapshot() *Artifact {
	cp := *a
	cp.PreviousGeneration = nil
	cp.SourceImages = append([]Image(nil), a.SourceImages...)
	cp.Insights = append([]string(nil), a.Insights...)
	return &cp
}

// ApplyText copies the generated text fields selected by scope.
func (a *Artifact) ApplyText(t Text, scope TextScope) {
	switch scope {
	case TextAll:
		a.WeddingSummary = t.WeddingSummary
		a.Insights = t.Insights
		a.StyleGuide = t.StyleGuide
	case TextStyleGuide:
		a.StyleGuide = t.StyleGuide
	}
}
