// Package searcher implements depth-bounded minimax with alpha-beta
// pruning over Connect 4 boards. A search always runs on a private
// clone of the caller's board, so an abandoned search can never corrupt
// live match state.
package searcher

import (
	"math"
	"sync"

	"connectfour/evaluator"
	"connectfour/experiments/metrics"
	"connectfour/game"
)

// DefaultDepth bounds the search when no depth option is given. Depth
// trades move quality for exponentially more node expansions.
const DefaultDepth = 3

type Option func(*Minimax)

// WithDepth sets the search depth in plies.
func WithDepth(depth int) Option {
	return func(m *Minimax) {
		if depth > 0 {
			m.depth = depth
		}
	}
}

// WithEvaluator sets the leaf scoring function. Plugging in a model
// evaluator here is the minimax-trained ML composition.
func WithEvaluator(evaluate evaluator.Evaluator) Option {
	return func(m *Minimax) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

// WithoutPruning disables alpha-beta cutoffs, forcing exhaustive
// minimax. Pruning is lossless for the chosen move and score, so this
// exists for verification and tree visualization, not play strength.
func WithoutPruning() Option {
	return func(m *Minimax) {
		m.prune = false
	}
}

// WithTree captures the expanded search tree on every FindMove call.
func WithTree() Option {
	return func(m *Minimax) {
		m.capture = true
	}
}

// WithGoroutines searches root moves in parallel, each on its own board
// clone with a full alpha-beta window. Bounds are not shared across
// root branches, so the chosen move and score match the sequential
// search exactly at the cost of some re-expansion.
func WithGoroutines(goroutines int) Option {
	return func(m *Minimax) {
		if goroutines > 0 {
			m.goroutines = goroutines
		}
	}
}

// WithCollector records node and branching counters into c.
func WithCollector(c metrics.Collector) Option {
	return func(m *Minimax) {
		if c != nil {
			m.metrics = c
		}
	}
}

// Minimax is a reusable search configuration. A single Minimax may be
// shared across calls; each FindMove works on its own clone.
type Minimax struct {
	depth      int
	evaluate   evaluator.Evaluator
	prune      bool
	capture    bool
	goroutines int
	metrics    metrics.Collector
}

func NewMinimax(options ...Option) *Minimax {
	m := &Minimax{
		depth:      DefaultDepth,
		evaluate:   evaluator.NewHeuristic(),
		prune:      true,
		goroutines: 1,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Depth returns the configured search depth.
func (m *Minimax) Depth() int { return m.depth }

// Result is the auxiliary output of one search, consumed by the
// performance harness and the tree visualization alongside the move.
type Result struct {
	Column int
	Score  float64
	Metric metrics.SearchMetric
	Tree   *TreeNode // nil unless WithTree
}

// FindMove searches from b for the player whose turn it is and returns
// the best column. Ties on score keep the earliest move in center-out
// order, so repeated calls on the same board choose the same move. It
// fails with *game.NoLegalMoveError on a full board.
func (m *Minimax) FindMove(b *game.Board) (Result, error) {
	moves := game.OrderedMoves(b)
	if len(moves) == 0 {
		return Result{Column: -1}, &game.NoLegalMoveError{}
	}

	m.metrics.Start(m.depth)
	m.metrics.AddNode()
	m.metrics.AddBranching(len(moves))

	var root *TreeNode
	if m.capture {
		root = &TreeNode{Column: -1, Maximizing: true}
	}

	var column int
	var score float64
	if m.goroutines > 1 {
		column, score = m.searchRootParallel(b, moves, root)
	} else {
		column, score = m.searchRoot(b, moves, root)
	}
	if root != nil {
		root.Score = score
	}

	return Result{
		Column: column,
		Score:  score,
		Metric: m.metrics.Complete(),
		Tree:   root,
	}, nil
}

func (m *Minimax) searchRoot(b *game.Board, moves []int, root *TreeNode) (int, float64) {
	board := b.Clone()
	perspective := board.Turn()
	alpha, beta := math.Inf(-1), math.Inf(1)

	best := moves[0]
	bestScore := math.Inf(-1)
	for _, column := range moves {
		_ = board.Apply(column)
		child := root.addChild(column, false)
		score := m.search(board, m.depth-1, alpha, beta, false, perspective, child)
		_ = board.Undo()

		if score > bestScore {
			bestScore = score
			best = column
		}
		if m.prune && bestScore > alpha {
			alpha = bestScore
		}
	}
	return best, bestScore
}

func (m *Minimax) searchRootParallel(b *game.Board, moves []int, root *TreeNode) (int, float64) {
	perspective := b.Turn()
	scores := make([]float64, len(moves))
	children := make([]*TreeNode, len(moves))

	var wg sync.WaitGroup
	sem := make(chan struct{}, m.goroutines)
	for i, column := range moves {
		wg.Add(1)
		go func(i, column int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			board := b.Clone()
			_ = board.Apply(column)
			var child *TreeNode
			if m.capture {
				child = &TreeNode{Column: column}
			}
			scores[i] = m.search(board, m.depth-1, math.Inf(-1), math.Inf(1), false, perspective, child)
			children[i] = child
		}(i, column)
	}
	wg.Wait()

	best := moves[0]
	bestScore := math.Inf(-1)
	for i, column := range moves {
		if children[i] != nil {
			children[i].Score = scores[i]
			root.Children = append(root.Children, children[i])
		}
		if scores[i] > bestScore {
			bestScore = scores[i]
			best = column
		}
	}
	return best, bestScore
}

// search explores b to the remaining depth, mutating and undoing the
// clone it was handed on every path, including pruning exits.
func (m *Minimax) search(b *game.Board, depth int, alpha, beta float64, maximizing bool, perspective game.Player, node *TreeNode) float64 {
	m.metrics.AddNode()

	if outcome := b.Outcome(); depth == 0 || outcome.Status != game.InProgress {
		score := m.evaluate.Score(b, perspective)
		if node != nil {
			node.Score = score
		}
		return score
	}

	moves := game.OrderedMoves(b)
	m.metrics.AddBranching(len(moves))

	best := math.Inf(-1)
	if !maximizing {
		best = math.Inf(1)
	}
	for _, column := range moves {
		_ = b.Apply(column)
		child := node.addChild(column, !maximizing)
		score := m.search(b, depth-1, alpha, beta, !maximizing, perspective, child)
		_ = b.Undo()

		if maximizing {
			if score > best {
				best = score
			}
			if m.prune && best > alpha {
				alpha = best
			}
		} else {
			if score < best {
				best = score
			}
			if m.prune && best < beta {
				beta = best
			}
		}
		if m.prune && alpha >= beta {
			if node != nil {
				node.Pruned = true
			}
			break
		}
	}
	if node != nil {
		node.Score = best
	}
	return best
}
