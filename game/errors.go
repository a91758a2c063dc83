package game

import "fmt"

// IllegalMoveError reports a move that violates board constraints. It is
// always recoverable by the caller; agents are expected to consult
// LegalMoves first, so a surfaced instance indicates an agent bug.
type IllegalMoveError struct {
	Column int
	Reason string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move in column %d: %s", e.Column, e.Reason)
}

// NoLegalMoveError reports that an agent was asked to move on a board
// with no legal moves. The match driver should have halted before this
// point, so it is surfaced as an invariant violation rather than
// silently handled.
type NoLegalMoveError struct{}

func (e *NoLegalMoveError) Error() string {
	return "no legal moves available"
}
