package server

import (
	"connectfour/agent"
	"connectfour/game"
	"connectfour/searcher"
)

// SeatConfig selects and tunes the agent on one seat. Kind "human"
// leaves the seat to the move endpoint.
type SeatConfig struct {
	Kind       string `json:"kind"`
	Depth      int    `json:"depth,omitempty"`
	Seed       uint64 `json:"seed,omitempty"`
	Goroutines int    `json:"goroutines,omitempty"`
	ModelPath  string `json:"model_path,omitempty"`
	Tree       bool   `json:"tree,omitempty"` // capture the search tree for visualization
}

// MoveInfo is the last accepted ply with whatever the deciding agent
// reported about it.
type MoveInfo struct {
	Player string             `json:"player"`
	Column int                `json:"column"`
	Score  float64            `json:"score"`
	Nodes  int                `json:"nodes,omitempty"`
	Tree   *searcher.TreeNode `json:"tree,omitempty"`
}

// MatchState is the wire shape a presentation layer renders after every
// step: the grid top row first, whose turn is next, and the terminal
// result if any.
type MatchState struct {
	ID       string        `json:"id"`
	Grid     [][]string    `json:"grid"`
	Turn     string        `json:"turn"`
	Status   string        `json:"status"`
	Winner   string        `json:"winner,omitempty"`
	Moves    int           `json:"moves"`
	Seats    [2]SeatConfig `json:"seats"`
	LastMove *MoveInfo     `json:"last_move,omitempty"`
}

// snapshotLocked renders a session's state. Callers hold the session
// mutex.
func snapshotLocked(s *session) MatchState {
	board := s.match.Board()
	grid := board.Grid()

	cells := make([][]string, game.Rows)
	for r := range grid {
		row := make([]string, game.Columns)
		for c := range grid[r] {
			row[c] = grid[r][c].String()
		}
		cells[r] = row
	}

	state := MatchState{
		ID:    s.id,
		Grid:  cells,
		Turn:  board.Turn().String(),
		Moves: board.MoveCount(),
		Seats: s.seats,
	}

	switch outcome := s.match.Outcome(); outcome.Status {
	case game.Won:
		state.Status = "won"
		state.Winner = outcome.Winner.String()
	case game.Drawn:
		state.Status = "drawn"
	default:
		state.Status = "in_progress"
	}

	if s.lastStep != nil {
		state.LastMove = &MoveInfo{
			Player: s.lastStep.Player.String(),
			Column: s.lastStep.Column,
			Score:  s.lastStep.Report.Score,
			Nodes:  s.lastStep.Report.Nodes,
			Tree:   s.lastStep.Report.Tree,
		}
	}
	return state
}

// buildSeat constructs the agent for a seat config; a human seat maps
// to a nil agent.
func buildSeat(config SeatConfig) (agent.Agent, error) {
	switch config.Kind {
	case "human":
		return nil, nil
	case "random":
		return agent.NewRandom(config.Seed), nil
	case "greedy":
		return agent.NewGreedy(), nil
	case "minimax":
		return agent.NewMinimax(minimaxOptions(config)...), nil
	case "ml":
		return agent.NewModel(config.ModelPath)
	case "minimax-ml":
		return agent.NewMinimaxML(config.ModelPath, minimaxOptions(config)...)
	}
	return nil, errUnknownSeatKind(config.Kind)
}

func minimaxOptions(config SeatConfig) []searcher.Option {
	options := []searcher.Option{searcher.WithDepth(config.Depth)}
	if config.Goroutines > 1 {
		options = append(options, searcher.WithGoroutines(config.Goroutines))
	}
	if config.Tree {
		options = append(options, searcher.WithTree())
	}
	return options
}

type errUnknownSeatKind string

func (e errUnknownSeatKind) Error() string {
	return "unknown seat kind " + string(e)
}
