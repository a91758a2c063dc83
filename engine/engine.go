// Package engine drives a match between two agents on one board,
// independent of any presentation. It issues one decision at a time,
// applies the chosen move, and stops on the first terminal state or
// agent failure.
package engine

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"connectfour/agent"
	"connectfour/game"
)

// ErrMatchOver is returned by Step and Play once the board is terminal.
var ErrMatchOver = errors.New("match is over")

// ErrHumanSeat is returned by Step when the seat to move has no agent;
// the move must come in through Play.
var ErrHumanSeat = errors.New("seat has no agent")

// Step records one accepted ply and the board status after it.
type Step struct {
	Number  int
	Player  game.Player
	Column  int
	Report  agent.Report
	Outcome game.Outcome
}

// Match is the driver state machine: InProgress until a step yields a
// win or draw, then immutable except for Reset. Either seat's agent may
// be nil, marking a seat driven externally through Play.
type Match struct {
	board  *game.Board
	agents [2]agent.Agent // seat 0 moves first
	steps  []Step
}

func NewMatch(first, second agent.Agent) *Match {
	return &Match{
		board:  game.NewBoard(),
		agents: [2]agent.Agent{first, second},
	}
}

// Board returns a snapshot of the current board. Callers may mutate the
// snapshot freely; the live board stays private to the match.
func (m *Match) Board() *game.Board {
	return m.board.Clone()
}

// Outcome returns the current terminal status.
func (m *Match) Outcome() game.Outcome {
	return m.board.Outcome()
}

// Steps returns the accepted plies so far.
func (m *Match) Steps() []Step {
	return m.steps
}

// Turn returns the player to move.
func (m *Match) Turn() game.Player {
	return m.board.Turn()
}

// seatAgent maps the player to move onto its seat's agent.
func (m *Match) seatAgent() agent.Agent {
	if m.board.Turn() == game.PlayerA {
		return m.agents[0]
	}
	return m.agents[1]
}

// Step asks the agent to move for the current seat and applies its
// choice. An agent error, or an illegal column from an agent, halts the
// match and surfaces the failure; the driver never substitutes a
// default move.
func (m *Match) Step() (Step, error) {
	if m.board.Outcome().Status != game.InProgress {
		return Step{}, ErrMatchOver
	}
	active := m.seatAgent()
	if active == nil {
		return Step{}, ErrHumanSeat
	}

	player := m.board.Turn()
	column, report, err := active.ChooseMove(m.board.Clone())
	if err != nil {
		return Step{}, fmt.Errorf("agent %s (player %s): %w", active.Name(), player, err)
	}
	if err := m.board.Apply(column); err != nil {
		return Step{}, fmt.Errorf("agent %s (player %s) chose an illegal move: %w", active.Name(), player, err)
	}

	step := Step{
		Number:  len(m.steps) + 1,
		Player:  player,
		Column:  column,
		Report:  report,
		Outcome: m.board.Outcome(),
	}
	m.steps = append(m.steps, step)

	log.Debug().
		Int("step", step.Number).
		Stringer("player", player).
		Int("column", column).
		Msg("move applied")

	return step, nil
}

// Play applies an externally supplied move for the current seat, the
// entry point for human or remote players. Legality errors surface to
// the caller and leave the board unchanged.
func (m *Match) Play(column int) (Step, error) {
	if m.board.Outcome().Status != game.InProgress {
		return Step{}, ErrMatchOver
	}

	player := m.board.Turn()
	if err := m.board.Apply(column); err != nil {
		return Step{}, err
	}

	step := Step{
		Number:  len(m.steps) + 1,
		Player:  player,
		Column:  column,
		Outcome: m.board.Outcome(),
	}
	m.steps = append(m.steps, step)
	return step, nil
}

// Run steps the match to completion and returns the final outcome. Both
// seats must have agents.
func (m *Match) Run() (game.Outcome, error) {
	for {
		_, err := m.Step()
		if errors.Is(err, ErrMatchOver) {
			return m.board.Outcome(), nil
		}
		if err != nil {
			return m.board.Outcome(), err
		}
	}
}

// Reset empties the board for a rematch with the same seat
// configuration.
func (m *Match) Reset() {
	m.board.Reset()
	m.steps = nil
}
