// Package scoring holds the pure point rules for guesses and drawers.
package scoring

const (
	// MinGuessScore is awarded to a correct guess made as the clock runs out
	MinGuessScore = 20
	// MaxGuessScore is awarded to a correct guess made with the full round remaining
	MaxGuessScore = 100
	// DrawerBonusPerGuesser is credited to the drawer for each distinct correct guesser
	DrawerBonusPerGuesser = 50
)

// Score returns the points for a correct guess with timeLeft of roundTime seconds remaining.
// Faster guesses score more, never below MinGuessScore.
func Score(timeLeft, roundTime int) int {
	if roundTime <= 0 {
		return MinGuessScore
	}
	timeLeft = min(max(timeLeft, 0), roundTime)

	score := MinGuessScore + (MaxGuessScore-MinGuessScore)*timeLeft/roundTime
	return max(MinGuessScore, score)
}

// DrawerBonus returns the drawer's end-of-round bonus
func DrawerBonus(correctGuessers int) int {
	if correctGuessers <= 0 {
		return 0
	}
	return DrawerBonusPerGuesser * correctGuessers
}

// IsClose reports whether guess is exactly one insertion, deletion or
// substitution away from target. Both are expected to be normalized.
func IsClose(guess, target string) bool {
	if guess == target {
		return false
	}

	g, t := []rune(guess), []rune(target)
	switch len(g) - len(t) {
	case 0:
		diffs := 0
		for i := range g {
			if g[i] != t[i] {
				diffs++
				if diffs > 1 {
					return false
				}
			}
		}
		return diffs == 1
	case 1:
		return oneDeletionApart(g, t)
	case -1:
		return oneDeletionApart(t, g)
	default:
		return false
	}
}

// oneDeletionApart reports whether removing a single rune from long yields short
func oneDeletionApart(long, short []rune) bool {
	i, j := 0, 0
	skipped := false
	for i < len(long) && j < len(short) {
		if long[i] == short[j] {
			i++
			j++
			continue
		}
		if skipped {
			return false
		}
		skipped = true
		i++
	}
	return true
}
