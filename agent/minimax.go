package agent

import (
	"connectfour/evaluator"
	"connectfour/experiments/metrics"
	"connectfour/game"
	"connectfour/searcher"
)

// Minimax wraps the alpha-beta searcher as an agent. With the default
// heuristic evaluator this is the plain minimax agent; constructed with
// a model evaluator it is the minimax-trained ML composition.
type Minimax struct {
	name      string
	search    *searcher.Minimax
	heuristic evaluator.Evaluator
}

func NewMinimax(options ...searcher.Option) *Minimax {
	return &Minimax{
		name:      "minimax",
		search:    searcher.NewMinimax(withDefaultCollector(options)...),
		heuristic: evaluator.NewHeuristic(),
	}
}

// withDefaultCollector turns node counting on unless the caller brings
// a collector; the report's node count is part of the agent's contract.
func withDefaultCollector(options []searcher.Option) []searcher.Option {
	return append([]searcher.Option{searcher.WithCollector(metrics.NewCollector())}, options...)
}

// NewMinimaxML builds a minimax agent whose leaves are scored by the
// model loaded from path.
func NewMinimaxML(path string, options ...searcher.Option) (*Minimax, error) {
	model, err := evaluator.LoadModel(path)
	if err != nil {
		return nil, err
	}
	options = append(withDefaultCollector(options), searcher.WithEvaluator(model))
	return &Minimax{
		name:      "minimax-ml",
		search:    searcher.NewMinimax(options...),
		heuristic: evaluator.NewHeuristic(),
	}, nil
}

func (a *Minimax) Name() string { return a.name }

func (a *Minimax) ChooseMove(b *game.Board) (int, Report, error) {
	result, err := a.search.FindMove(b)
	if err != nil {
		return -1, Report{}, err
	}

	// Heuristic delta of the chosen move, logged by the performance
	// harness as a cheap proxy for move quality.
	perspective := b.Turn()
	before := a.heuristic.Score(b, perspective)
	board := b.Clone()
	_ = board.Apply(result.Column)
	delta := a.heuristic.Score(board, perspective) - before

	return result.Column, Report{
		Score:          result.Score,
		Nodes:          result.Metric.Nodes,
		SearchDepth:    a.search.Depth(),
		AvgBranching:   result.Metric.AvgBranching,
		HeuristicDelta: delta,
		Tree:           result.Tree,
	}, nil
}
