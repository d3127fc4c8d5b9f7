package quiz

import (
	"strconv"
	"strings"
)

// CheckAnswer compares a learner's selection against the item's correct
// answer. The selection may be the option text (trimmed, case-insensitive)
// or its 1-based position ("1" to "4") when it does not itself name an option.
func CheckAnswer(selected string, item ValidatedItem) bool {
	selected = strings.TrimSpace(selected)
	if selected == "" {
		return false
	}

	for _, o := range item.Options {
		if strings.EqualFold(strings.TrimSpace(o), selected) {
			return strings.EqualFold(strings.TrimSpace(o), strings.TrimSpace(item.CorrectAnswer))
		}
	}

	// Numeric options like "3" take priority over positions above.
	if idx, err := strconv.Atoi(selected); err == nil && idx >= 1 && idx <= len(item.Options) {
		return strings.EqualFold(
			strings.TrimSpace(item.Options[idx-1]),
			strings.TrimSpace(item.CorrectAnswer),
		)
	}
	return false
}
