// Package evaluator provides the board scoring strategies used by the
// non-random agents: a window-counting heuristic and a learned-model
// evaluator backed by a feedforward network. Both score a board from
// one player's perspective on the same scale, so either can sit at the
// leaves of the same search.
package evaluator

import "connectfour/game"

// WinScore is the sentinel magnitude for a decided board. Every
// non-terminal heuristic score is strictly smaller, so terminal states
// dominate minimax comparisons regardless of depth. The model evaluator
// scales its output into the same range.
const WinScore = 100000.0

// Evaluator assigns a signed desirability to a board from the
// perspective player's point of view. Implementations are pure
// functions of the board apart from immutable loaded parameters, and
// are safe for concurrent use.
type Evaluator interface {
	Score(b *game.Board, perspective game.Player) float64
}
