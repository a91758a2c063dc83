// Package agent holds the decision-makers that sit on one seat of a
// match: random, greedy-heuristic, minimax and model-backed variants.
// Agents own no board state; every call operates on the board it is
// handed, choosing for the player whose turn it is.
package agent

import (
	"connectfour/game"
	"connectfour/searcher"
)

// Report carries the auxiliary output of a decision. Search-backed
// agents fill in score, node counts and optionally the expanded tree;
// the 1-ply agents fill in score only. Consumed by the performance
// harness and the presentation layer, never by the engine itself.
type Report struct {
	Score          float64
	Nodes          int
	SearchDepth    int
	AvgBranching   float64
	HeuristicDelta float64
	Tree           *searcher.TreeNode
}

// Agent chooses a column for the player to move on b. It fails with
// *game.NoLegalMoveError when the board is full; it must never return
// an illegal column otherwise.
type Agent interface {
	Name() string
	ChooseMove(b *game.Board) (int, Report, error)
}
