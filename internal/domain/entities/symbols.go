package entities

import "errors"

var ErrUnknownSymbol = errors.New("unknown logic symbol")

var symbols = []string{"→", "∧", "∨", "¬", "⊢", "∀", "∃", "≡"}

// Symbols returns the glyphs offered for answer input.
func Symbols() []string {
	out := make([]string, len(symbols))
	copy(out, symbols)
	return out
}

// IsSymbol reports whether s is one of the offered glyphs.
func IsSymbol(s string) bool {
	for _, sym := range symbols {
		if sym == s {
			return true
		}
	}
	return false
}

// SpliceSymbol replaces the rune range [start, end) of text with symbol and
// returns the result with the caret placed right after the symbol.
func SpliceSymbol(text, symbol string, start, end int) (string, int) {
	runes := []rune(text)

	start = clamp(start, 0, len(runes))
	end = clamp(end, start, len(runes))

	out := make([]rune, 0, len(runes)+len([]rune(symbol)))
	out = append(out, runes[:start]...)
	out = append(out, []rune(symbol)...)
	out = append(out, runes[end:]...)

	return string(out), start + len([]rune(symbol))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
