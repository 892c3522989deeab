package moodboard

import (
	"fmt"
	"strings"

	"wedplan/internal/onboarding"
)

const textSchema = `{
  "wedding_summary": "two or three sentences",
  "insights": ["short planning insight"],
  "style_guide": {
    "color_palette": [{"name": "Sage", "hex": "#9CAF88"}],
    "keywords": ["keyword"],
    "themes": ["theme"]
  }
}`

// describe renders the preferences as prompt lines, skipping unanswered fields.
func describe(prefs onboarding.Preferences) string {
	var b strings.Builder
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "- %s: %s\n", label, value)
		}
	}

	line("Couple", prefs.CoupleTitle())
	if date := prefs.WeddingDate(); date != "" {
		line("Wedding date", date)
	} else if prefs.CoupleDetails != nil {
		line("Wedding date", "still deciding")
	}
	line("Planning stage", prefs.Stage())
	if n := prefs.GuestCount(); n > 0 {
		line("Guests", fmt.Sprintf("%d", n))
	}
	if amount, currency, ok := prefs.Budget(); ok {
		line("Budget", strings.TrimSpace(fmt.Sprintf("%.0f %s", amount, currency)))
	}
	line("Theme", prefs.Theme())
	line("Ceremony", prefs.CeremonyType())
	line("Colors", strings.Join(prefs.Colors(), ", "))
	line("Experiences", strings.Join(prefs.Experiences(), ", "))

	if b.Len() == 0 {
		return "- No preferences shared yet\n"
	}
	return b.String()
}

// TextPrompt asks for the moodboard text as a single JSON object.
func TextPrompt(prefs onboarding.Preferences, scope TextScope) string {
	focus := "Write the full moodboard text."
	if scope == TextStyleGuide {
		focus = "Focus on a fresh color palette; the summary and insights may stay brief."
	}

	return fmt.Sprintf(`You are a wedding stylist creating a moodboard for a couple.
%s
Return **JSON only** matching this schema exactly:
%s

Couple preferences:
%s
Constraints:
- 4 to 6 colors, hex formatted as #RRGGBB.
- 3 to 6 keywords and 2 to 4 themes.
- 3 to 5 insights, each one sentence.
No markdown, no comments.
`, focus, textSchema, describe(prefs))
}

var imageSubjects = map[ImageType]string{
	ImageVenueCeremony:   "the ceremony venue, aisle and altar set up for a %s ceremony",
	ImageStyleDecor:      "styling details: florals, table decor, stationery and textures",
	ImageReceptionDining: "the reception dining room with set tables, lighting and seating for %d guests",
	ImageDesserts:        "a dessert table with the wedding cake and sweets",
}

// ImagePrompt describes one moodboard photograph.
func ImagePrompt(t ImageType, prefs onboarding.Preferences, guide StyleGuide) string {
	subject := imageSubjects[t]
	switch t {
	case ImageVenueCeremony:
		ceremony := prefs.CeremonyType()
		if ceremony == "" {
			ceremony = "wedding"
		}
		subject = fmt.Sprintf(subject, ceremony)
	case ImageReceptionDining:
		guests := prefs.GuestCount()
		if guests <= 0 {
			guests = 100
		}
		subject = fmt.Sprintf(subject, guests)
	}

	theme := prefs.Theme()
	if theme == "" {
		theme = "timeless"
	}

	colors := prefs.Colors()
	for _, c := range guide.ColorPalette {
		colors = append(colors, c.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Editorial wedding photograph of %s. Style: %s.", subject, theme)
	if len(colors) > 0 {
		fmt.Fprintf(&b, " Color palette: %s.", strings.Join(dedupe(colors), ", "))
	}
	if len(guide.Keywords) > 0 {
		fmt.Fprintf(&b, " Mood: %s.", strings.Join(guide.Keywords, ", "))
	}
	b.WriteString(" Natural light, no people facing the camera, no text.")
	return b.String()
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		k := strings.ToLower(s)
		if s == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}
