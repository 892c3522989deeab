// Package reveal sequences the progressive moodboard reveal. The timeline is
// cosmetic: offsets are fixed delays counted from the moment the artifact was
// fetched and say nothing about whether an image has finished loading.
package reveal

import (
	"context"
	"time"

	"wedplan/internal/moodboard"
)

type Stage string

const (
	StageLoading       Stage = "loading"
	StagePaletteReveal Stage = "palette-reveal"
	StageImagesReveal  Stage = "images-reveal"
	StageComplete      Stage = "complete"
)

// Timings are offsets from the start of the reveal. Image i of the
// images-reveal stage shows at Images + i*Stagger; Complete is counted from
// the start of images-reveal.
type Timings struct {
	Palette  time.Duration
	Images   time.Duration
	Stagger  time.Duration
	Complete time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		Palette:  5 * time.Second,
		Images:   8 * time.Second,
		Stagger:  500 * time.Millisecond,
		Complete: 4 * time.Second,
	}
}

const (
	EventStage = "stage"
	EventImage = "image"
)

type Event struct {
	Offset   time.Duration           `json:"-"`
	OffsetMS int64                   `json:"offset_ms"`
	Kind     string                  `json:"kind"`
	Stage    Stage                   `json:"stage"`
	Index    int                     `json:"index,omitempty"`
	Image    *moodboard.Image        `json:"image,omitempty"`
	Palette  []moodboard.ColorSwatch `json:"palette,omitempty"`
}

// Timeline lists the reveal events of an artifact in emission order.
func Timeline(a moodboard.Artifact, t Timings) []Event {
	t = t.normalized()

	events := make([]Event, 0, len(a.SourceImages)+4)
	add := func(e Event) {
		e.OffsetMS = e.Offset.Milliseconds()
		events = append(events, e)
	}

	add(Event{Offset: 0, Kind: EventStage, Stage: StageLoading})
	add(Event{Offset: t.Palette, Kind: EventStage, Stage: StagePaletteReveal, Palette: a.StyleGuide.ColorPalette})
	add(Event{Offset: t.Images, Kind: EventStage, Stage: StageImagesReveal})
	for i := range a.SourceImages {
		img := a.SourceImages[i]
		add(Event{Offset: t.imageAt(i), Kind: EventImage, Stage: StageImagesReveal, Index: i, Image: &img})
	}
	add(Event{Offset: t.completeAt(len(a.SourceImages)), Kind: EventStage, Stage: StageComplete})

	return events
}

// State is what the reveal shows at a given moment.
type State struct {
	Stage          Stage `json:"stage"`
	PaletteVisible bool  `json:"palette_visible"`
	VisibleImages  int   `json:"visible_images"`
}

// StateAt returns the reveal state elapsed after the start for an artifact
// with imageCount images.
func StateAt(elapsed time.Duration, imageCount int, t Timings) State {
	t = t.normalized()

	switch {
	case elapsed >= t.completeAt(imageCount):
		return State{Stage: StageComplete, PaletteVisible: true, VisibleImages: imageCount}
	case elapsed >= t.Images:
		visible := 0
		for i := 0; i < imageCount && elapsed >= t.imageAt(i); i++ {
			visible++
		}
		return State{Stage: StageImagesReveal, PaletteVisible: true, VisibleImages: visible}
	case elapsed >= t.Palette:
		return State{Stage: StagePaletteReveal, PaletteVisible: true}
	}
	return State{Stage: StageLoading}
}

// Play emits events at their offsets from now. It stops with ctx.Err() when
// ctx ends, and with the first error emit returns.
func Play(ctx context.Context, events []Event, emit func(Event) error) error {
	start := time.Now()
	for _, e := range events {
		if wait := time.Until(start.Add(e.Offset)); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if err := emit(e); err != nil {
			return err
		}
	}
	return nil
}

// normalized keeps the stages in order whatever the configured values.
func (t Timings) normalized() Timings {
	if t.Palette < 0 {
		t.Palette = 0
	}
	if t.Images < t.Palette {
		t.Images = t.Palette
	}
	if t.Stagger < 0 {
		t.Stagger = 0
	}
	if t.Complete < 0 {
		t.Complete = 0
	}
	return t
}

func (t Timings) imageAt(i int) time.Duration {
	return t.Images + time.Duration(i)*t.Stagger
}

// completeAt never precedes the last image.
func (t Timings) completeAt(imageCount int) time.Duration {
	done := t.Images + t.Complete
	if imageCount > 0 {
		if last := t.imageAt(imageCount - 1); last > done {
			return last
		}
	}
	return done
}
