package agent

import (
	"connectfour/evaluator"
	"connectfour/game"
)

// Model is the search-free learned agent: it scores each immediate
// child with the model-backed evaluator and plays the max, same
// tie-break as Greedy.
type Model struct {
	model *evaluator.Model
}

// NewModel loads the weight artifact at path. A missing or malformed
// artifact fails with *evaluator.ModelLoadError; only this agent is
// lost, the process keeps running.
func NewModel(path string) (*Model, error) {
	model, err := evaluator.LoadModel(path)
	if err != nil {
		return nil, err
	}
	return &Model{model: model}, nil
}

// NewModelWith wraps an already-loaded evaluator.
func NewModelWith(model *evaluator.Model) *Model {
	return &Model{model: model}
}

func (a *Model) Name() string { return "ml" }

func (a *Model) ChooseMove(b *game.Board) (int, Report, error) {
	return onePly(b, a.model)
}
