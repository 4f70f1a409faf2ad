// Package rotation decides who draws next.
package rotation

import (
	"slices"

	"github.com/mcoot/sketchgame/internal/dependencies/random"
	"github.com/mcoot/sketchgame/internal/model"
)

// Shuffle returns a uniformly random permutation of the given player IDs
func Shuffle(ids []model.PlayerID, rng random.Random) []model.PlayerID {
	order := slices.Clone(ids)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

// Advance moves the rotation on by one drawer, wrapping into the next round
// once every entry of an order of length orderLen has drawn.
func Advance(drawerIndex, round, orderLen int) (int, int) {
	drawerIndex++
	if drawerIndex >= orderLen {
		return 0, round + 1
	}
	return drawerIndex, round
}

// CanDraw reports whether a present player may be handed the drawing turn
func CanDraw(p *model.Player) bool {
	return p != nil && !p.IsKicked && !p.IsMuted && !p.IsPendingJoin()
}

// NextEligibleDrawer walks order cyclically starting just after current and
// returns the first player who is still present and able to draw.
// current itself is only considered last. If current is not in order the
// walk starts from the beginning.
func NextEligibleDrawer(order []model.PlayerID, players []model.Player, current model.PlayerID) (model.PlayerID, bool) {
	if len(order) == 0 {
		return "", false
	}

	start := slices.Index(order, current) + 1
	for n := 0; n < len(order); n++ {
		id := order[(start+n)%len(order)]
		if CanDraw(findPlayer(players, id)) {
			return id, true
		}
	}
	return "", false
}

func findPlayer(players []model.Player, id model.PlayerID) *model.Player {
	for i := range players {
		if players[i].ID == id {
			return &players[i]
		}
	}
	return nil
}
