package moodboard

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Text is the generated text part of an artifact.
type Text struct {
	WeddingSummary string     `json:"wedding_summary"`
	Insights       []string   `json:"insights"`
	StyleGuide     StyleGuide `json:"style_guide"`
}

var hexColor = regexp.MustCompile(`^#?([0-9a-fA-F]{6}|[0-9a-fA-F]{3})$`)

// ParseText decodes a model response. Markdown fences and chatter around the
// JSON object are tolerated; swatches with an unusable hex are dropped.
func ParseText(raw string, scope TextScope) (Text, error) {
	var t Text
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &t); err != nil {
		return Text{}, fmt.Errorf("invalid moodboard text: %w", err)
	}

	palette := t.StyleGuide.ColorPalette[:0]
	for _, c := range t.StyleGuide.ColorPalette {
		hex, ok := normalizeHex(c.Hex)
		if !ok {
			continue
		}
		palette = append(palette, ColorSwatch{Name: strings.TrimSpace(c.Name), Hex: hex})
	}
	t.StyleGuide.ColorPalette = palette
	t.WeddingSummary = strings.TrimSpace(t.WeddingSummary)

	if len(t.StyleGuide.ColorPalette) == 0 {
		return Text{}, fmt.Errorf("invalid moodboard text: empty color palette")
	}
	if scope == TextAll && t.WeddingSummary == "" {
		return Text{}, fmt.Errorf("invalid moodboard text: empty summary")
	}
	return t, nil
}

func normalizeHex(s string) (string, bool) {
	m := hexColor.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	h := m[1]
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	return "#" + strings.ToUpper(h), true
}

// cleanJSON strips markdown fences and cuts the first balanced JSON object
// out of the response.
func cleanJSON(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```JSON", "")
	response = strings.ReplaceAll(response, "```", "")
	response = strings.TrimSpace(response)

	start := strings.Index(response, "{")
	if start == -1 {
		return response
	}
	if end := matchingBrace(response, start); end != -1 {
		return response[start : end+1]
	}
	return response[start:]
}

func matchingBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
