package telegram

import (
	"fmt"
	"strings"
)

const progressBarLength = 10

// buildProgressBar creates a text progress bar for a percentage in [0, 100].
func buildProgressBar(percent, length int) string {
	if percent < 0 {
		percent = 0
	}

	filled := percent * length / 100
	if filled > length {
		filled = length
	}

	empty := length - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("[%s] %d%%", bar, min(percent, 100))
}
