package command

import (
	"strings"

	"mockabot/internal/models"
)

// ParseKeyboard parses a button grid suffix.
//
//	[Yes, No]             one row of two buttons
//	[[A, B], [C]]         two rows
//
// Anything malformed yields an empty keyboard, never an error.
func ParseKeyboard(s string) models.Keyboard {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") || len(s) < 2 {
		return nil
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])

	if !strings.HasPrefix(inner, "[") {
		row, ok := parseRow(inner)
		if !ok {
			return nil
		}
		return models.Keyboard{row}
	}

	var keyboard models.Keyboard
	for inner != "" {
		if !strings.HasPrefix(inner, "[") {
			return nil
		}
		end := strings.Index(inner, "]")
		if end < 0 {
			return nil
		}
		row, ok := parseRow(inner[1:end])
		if !ok {
			return nil
		}
		keyboard = append(keyboard, row)

		inner = strings.TrimSpace(inner[end+1:])
		if inner == "" {
			break
		}
		if !strings.HasPrefix(inner, ",") {
			return nil
		}
		inner = strings.TrimSpace(inner[1:])
		if inner == "" {
			return nil
		}
	}
	return keyboard
}

// unquote strips one pair of surrounding double quotes from a label
func unquote(label string) string {
	if len(label) >= 2 && strings.HasPrefix(label, `"`) && strings.HasSuffix(label, `"`) {
		return strings.TrimSpace(label[1 : len(label)-1])
	}
	return label
}

// parseRow splits "a, b, c" into buttons. Brackets or empty labels make the
// row invalid.
func parseRow(s string) ([]models.Button, bool) {
	if strings.ContainsAny(s, "[]") {
		return nil, false
	}
	var row []models.Button
	for _, cell := range strings.Split(s, ",") {
		label := unquote(strings.TrimSpace(cell))
		if label == "" {
			return nil, false
		}
		row = append(row, models.Button{Text: label, Data: label})
	}
	return row, true
}
