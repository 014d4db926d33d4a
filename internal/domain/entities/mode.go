package entities

import (
	"errors"
	"fmt"
)

var ErrUnknownMode = errors.New("unknown quiz mode")

// Mode selects which pool is asked and which field is the expected answer.
type Mode int

const (
	ModeIdentifyRule              Mode = iota // answer: rule name
	ModeCompleteRule                          // answer: rule conclusion
	ModeIdentifyMistakeCorrection             // answer: mistake correction
)

// DefaultMode is the mode a new session starts in.
const DefaultMode = ModeIdentifyRule

var modeNames = map[Mode]string{
	ModeIdentifyRule:              "identify_rule",
	ModeCompleteRule:              "complete_rule",
	ModeIdentifyMistakeCorrection: "mistakes",
}

var modeTitles = map[Mode]string{
	ModeIdentifyRule:              "Identify Rules",
	ModeCompleteRule:              "Complete Rules",
	ModeIdentifyMistakeCorrection: "Common Mistakes",
}

// Modes returns all modes in display order.
func Modes() []Mode {
	return []Mode{ModeIdentifyRule, ModeCompleteRule, ModeIdentifyMistakeCorrection}
}

// ParseMode converts a wire name back to a Mode.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Title is the human-readable label of the mode.
func (m Mode) Title() string {
	return modeTitles[m]
}

// UsesMistakes reports whether the mode draws from the mistakes pool.
func (m Mode) UsesMistakes() bool {
	return m == ModeIdentifyMistakeCorrection
}
