package helpers

import (
	"strings"
	"unicode/utf8"
)

// Helper function to normalize strings
func NormalizeString(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ContainsFold reports whether substr is within s, ignoring case and surrounding whitespace.
func ContainsFold(s, substr string) bool {
	return strings.Contains(NormalizeString(s), NormalizeString(substr))
}

// LooseMatch reports whether either label contains the other. Labels produced by the model
// for the same figure differ between entities, so exact matching misses most pairs.
func LooseMatch(label, wanted string) bool {
	l, w := NormalizeString(label), NormalizeString(wanted)
	if l == "" || w == "" {
		return false
	}
	return strings.Contains(l, w) || strings.Contains(w, l)
}

// IsBlankRow reports whether every cell of a spreadsheet row is empty.
func IsBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Truncate shortens s to at most n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}

// StripCodeFence removes a surrounding Markdown code fence such as ```json ... ```.
func StripCodeFence(s string) string {
	cleaned := strings.TrimSpace(s)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}
