package evaluator

import "connectfour/game"

// Weights tunes the heuristic. More threatening configurations must
// score strictly higher than lesser ones, and Win must dominate any sum
// of non-winning window scores.
type Weights struct {
	Win          float64 // four own tokens in a window
	ThreeOpen    float64 // three own tokens, one empty
	TwoOpen      float64 // two own tokens, two empty
	OppWin       float64 // four opponent tokens (penalty)
	OppThreeOpen float64 // opponent threat needing a block (penalty)
	OppTwoOpen   float64 // developing opponent pair (penalty)
	CenterColumn float64 // per token in the center column
}

// DefaultWeights are the tuned values: an own three-in-a-window is worth
// slightly more than blocking the symmetric opponent threat, which
// biases the greedy agent toward winning over blocking when both are
// available in one move.
func DefaultWeights() Weights {
	return Weights{
		Win:          WinScore,
		ThreeOpen:    120,
		TwoOpen:      10,
		OppWin:       WinScore,
		OppThreeOpen: 100,
		OppTwoOpen:   10,
		CenterColumn: 3,
	}
}

// Heuristic scores a board by sliding a four-cell window across every
// horizontal, vertical and diagonal line and weighting each window by
// how close either side is to completing it. Center-column tokens get a
// flat bonus since that column crosses the most winning lines.
type Heuristic struct {
	weights Weights
}

func NewHeuristic() *Heuristic {
	return &Heuristic{weights: DefaultWeights()}
}

func NewHeuristicWithWeights(w Weights) *Heuristic {
	return &Heuristic{weights: w}
}

func (h *Heuristic) Score(b *game.Board, perspective game.Player) float64 {
	opponent := perspective.Opponent()
	score := 0.0

	// Horizontal windows
	for r := 0; r < game.Rows; r++ {
		for c := 0; c <= game.Columns-game.WinLength; c++ {
			score += h.window(b, perspective, opponent, c, r, 1, 0)
		}
	}
	// Vertical windows
	for c := 0; c < game.Columns; c++ {
		for r := 0; r <= game.Rows-game.WinLength; r++ {
			score += h.window(b, perspective, opponent, c, r, 0, 1)
		}
	}
	// Diagonal / windows
	for c := 0; c <= game.Columns-game.WinLength; c++ {
		for r := 0; r <= game.Rows-game.WinLength; r++ {
			score += h.window(b, perspective, opponent, c, r, 1, 1)
		}
	}
	// Diagonal \ windows
	for c := 0; c <= game.Columns-game.WinLength; c++ {
		for r := game.WinLength - 1; r < game.Rows; r++ {
			score += h.window(b, perspective, opponent, c, r, 1, -1)
		}
	}

	for r := 0; r < b.Height(game.CenterColumn); r++ {
		switch b.Cell(game.CenterColumn, r) {
		case perspective:
			score += h.weights.CenterColumn
		case opponent:
			score -= h.weights.CenterColumn
		}
	}

	return score
}

// window scores the four cells starting at (c, r) stepping by (dc, dr).
func (h *Heuristic) window(b *game.Board, perspective, opponent game.Player, c, r, dc, dr int) float64 {
	var own, theirs, empty int
	for i := 0; i < game.WinLength; i++ {
		switch b.Cell(c+i*dc, r+i*dr) {
		case perspective:
			own++
		case opponent:
			theirs++
		default:
			empty++
		}
	}

	score := 0.0
	switch {
	case theirs == 4:
		score -= h.weights.OppWin
	case theirs == 3 && empty == 1:
		score -= h.weights.OppThreeOpen
	case theirs == 2 && empty == 2:
		score -= h.weights.OppTwoOpen
	}
	switch {
	case own == 4:
		score += h.weights.Win
	case own == 3 && empty == 1:
		score += h.weights.ThreeOpen
	case own == 2 && empty == 2:
		score += h.weights.TwoOpen
	}
	return score
}
