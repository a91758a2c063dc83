package agent

import (
	"math"

	"connectfour/evaluator"
	"connectfour/game"
)

// Greedy plays the 1-ply move that maximizes the heuristic score of the
// resulting board for the mover. Winning children hit the terminal
// sentinel and opponent threats score negative, so it wins and blocks
// when it can. Ties keep the lowest column index.
type Greedy struct {
	evaluate evaluator.Evaluator
}

func NewGreedy() *Greedy {
	return &Greedy{evaluate: evaluator.NewHeuristic()}
}

func (a *Greedy) Name() string { return "greedy" }

func (a *Greedy) ChooseMove(b *game.Board) (int, Report, error) {
	return onePly(b, a.evaluate)
}

// onePly scores every legal child of b for the player to move and picks
// the max, tie-break by lowest column. Shared by the greedy and
// model-only agents, which differ only in evaluator.
func onePly(b *game.Board, evaluate evaluator.Evaluator) (int, Report, error) {
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return -1, Report{}, &game.NoLegalMoveError{}
	}

	board := b.Clone()
	perspective := board.Turn()

	best := moves[0]
	bestScore := math.Inf(-1)
	for _, column := range moves {
		_ = board.Apply(column)
		score := evaluate.Score(board, perspective)
		_ = board.Undo()

		if score > bestScore {
			bestScore = score
			best = column
		}
	}
	return best, Report{Score: bestScore}, nil
}
