package evaluator

import (
	"fmt"

	"connectfour/game"
)

// Encoding names the fixed-length feature layout a model was trained
// on. The two variants correspond to the two training regimes: "basic"
// models trained on raw game records, "minimax" models trained on
// self-play records generated by the search agent.
type Encoding string

const (
	// EncodingBasic flattens the grid top row first into 42 values:
	// +1 for the perspective player, -1 for the opponent, 0 for empty.
	EncodingBasic Encoding = "basic"
	// EncodingMinimax uses two 42-cell planes, the perspective player's
	// tokens followed by the opponent's, each cell 1 or 0.
	EncodingMinimax Encoding = "minimax"
)

// InputSize returns the feature vector length for the encoding, or an
// error for an unknown encoding name.
func (e Encoding) InputSize() (int, error) {
	switch e {
	case EncodingBasic:
		return game.Rows * game.Columns, nil
	case EncodingMinimax:
		return 2 * game.Rows * game.Columns, nil
	}
	return 0, fmt.Errorf("unknown encoding %q", e)
}

// Encode derives the feature vector for b from the perspective player's
// point of view. The encoding must match what the model was trained on;
// Model pins it at load time.
func Encode(e Encoding, b *game.Board, perspective game.Player) []float64 {
	grid := b.Grid()
	opponent := perspective.Opponent()

	switch e {
	case EncodingMinimax:
		features := make([]float64, 2*game.Rows*game.Columns)
		i := 0
		for r := 0; r < game.Rows; r++ {
			for c := 0; c < game.Columns; c++ {
				if grid[r][c] == perspective {
					features[i] = 1
				}
				if grid[r][c] == opponent {
					features[game.Rows*game.Columns+i] = 1
				}
				i++
			}
		}
		return features
	default:
		features := make([]float64, game.Rows*game.Columns)
		i := 0
		for r := 0; r < game.Rows; r++ {
			for c := 0; c < game.Columns; c++ {
				switch grid[r][c] {
				case perspective:
					features[i] = 1
				case opponent:
					features[i] = -1
				}
				i++
			}
		}
		return features
	}
}
