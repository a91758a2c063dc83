package agent

import (
	"golang.org/x/exp/rand"

	"connectfour/game"
)

// Random picks uniformly among legal moves. Seeded construction makes
// runs reproducible.
type Random struct {
	rng *rand.Rand
}

func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (a *Random) Name() string { return "random" }

func (a *Random) ChooseMove(b *game.Board) (int, Report, error) {
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return -1, Report{}, &game.NoLegalMoveError{}
	}
	return moves[a.rng.Intn(len(moves))], Report{}, nil
}
