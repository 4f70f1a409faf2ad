// Package hint builds the masked word shown to guessers and decides when
// letters are revealed.
package hint

import (
	"math"
	"slices"
	"strings"
)

// MaskRune replaces every hidden letter
const MaskRune = '_'

// Mask returns word with every non-space character hidden
func Mask(word string) string {
	return Reveal(word, nil)
}

// Reveal returns word masked except for the rune positions in revealed
func Reveal(word string, revealed []int) string {
	var b strings.Builder
	for i, r := range []rune(word) {
		if r == ' ' || slices.Contains(revealed, i) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(MaskRune)
	}
	return b.String()
}

// Thresholds converts fractions of roundTime into whole-second boundaries,
// largest first. A boundary fires once as the clock counts down through it.
func Thresholds(roundTime int, fractions []float64) []int {
	out := make([]int, 0, len(fractions))
	for _, f := range fractions {
		out = append(out, int(math.Floor(float64(roundTime)*f)))
	}
	slices.Sort(out)
	slices.Reverse(out)
	return out
}

// Hidden returns the rune positions of word that are still masked
func Hidden(word string, revealed []int) []int {
	var out []int
	for i, r := range []rune(word) {
		if r != ' ' && !slices.Contains(revealed, i) {
			out = append(out, i)
		}
	}
	return out
}

// Due reports whether the next hint boundary has been reached
func Due(thresholds []int, level, timeLeft int) bool {
	return level < len(thresholds) && timeLeft <= thresholds[level]
}
