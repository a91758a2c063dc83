package evaluator

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/patrikeh/go-deep"

	"connectfour/game"
)

// artifactVersion is the only weight-artifact version this build reads.
const artifactVersion = 1

// outputClasses is the network head: loss, draw, win probabilities for
// the perspective player.
const outputClasses = 3

// ModelLoadError reports a missing or malformed weight artifact. It is
// fatal only for constructing that one model-backed evaluator; the rest
// of the process keeps running.
type ModelLoadError struct {
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("load model %s: %v", e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error { return e.Err }

// artifact is the versioned serialized-parameter blob produced by the
// training pipeline. Weights are indexed [layer][neuron][input], the
// dump format of the network library.
type artifact struct {
	Version      int           `json:"version"`
	Encoding     Encoding      `json:"encoding"`
	HiddenLayers []int         `json:"hidden_layers"`
	Weights      [][][]float64 `json:"weights"`
}

// Model scores boards with a learned feedforward network. The network
// and its weights are immutable after construction, so a Model is safe
// to share across searches.
type Model struct {
	net      *deep.Neural
	encoding Encoding
}

// LoadModel reads a weight artifact from path and builds the scoring
// network. Any missing file, unknown version or encoding, or weight
// shape mismatch fails with *ModelLoadError.
func LoadModel(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ModelLoadError{Path: path, Err: err}
	}
	var art artifact
	if err := json.Unmarshal(raw, &art); err != nil {
		return nil, &ModelLoadError{Path: path, Err: fmt.Errorf("malformed artifact: %w", err)}
	}
	model, err := NewModel(art.Encoding, art.HiddenLayers, art.Version, art.Weights)
	if err != nil {
		return nil, &ModelLoadError{Path: path, Err: err}
	}
	return model, nil
}

// NewModel builds a model from already-parsed parameters. LoadModel is
// the usual entry point; this exists for callers holding an artifact in
// memory.
func NewModel(encoding Encoding, hiddenLayers []int, version int, weights [][][]float64) (*Model, error) {
	if version != artifactVersion {
		return nil, fmt.Errorf("unsupported artifact version %d", version)
	}
	inputs, err := encoding.InputSize()
	if err != nil {
		return nil, err
	}
	if len(hiddenLayers) == 0 {
		return nil, fmt.Errorf("artifact declares no hidden layers")
	}
	if len(weights) != len(hiddenLayers)+1 {
		return nil, fmt.Errorf("artifact has %d weight layers, network needs %d", len(weights), len(hiddenLayers)+1)
	}

	layout := append(append([]int{}, hiddenLayers...), outputClasses)
	for i, layer := range weights {
		if len(layer) != layout[i] {
			return nil, fmt.Errorf("artifact layer %d has %d neurons, network needs %d", i, len(layer), layout[i])
		}
	}
	net := deep.NewNeural(&deep.Config{
		Inputs:     inputs,
		Layout:     layout,
		Activation: deep.ActivationReLU,
		Mode:       deep.ModeMultiClass,
		Weight:     deep.NewNormal(0, 0.1),
		Bias:       true,
	})
	net.ApplyWeights(weights)

	return &Model{net: net, encoding: encoding}, nil
}

// Encoding returns the feature layout the model consumes.
func (m *Model) Encoding() Encoding { return m.encoding }

// Score feeds the board's feature encoding through the network and maps
// the class probabilities onto the heuristic's scale: P(win) - P(loss)
// scaled by the terminal sentinel, so model and heuristic scores are
// comparable under one search.
func (m *Model) Score(b *game.Board, perspective game.Player) float64 {
	probs := m.net.Predict(Encode(m.encoding, b, perspective))
	return (probs[2] - probs[0]) * WinScore
}
