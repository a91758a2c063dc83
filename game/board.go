package game

import "strings"

const (
	Columns   = 7
	Rows      = 6
	WinLength = 4
	MaxMoves  = Columns * Rows

	// CenterColumn participates in more winning lines than any other
	// column, which evaluators and move ordering exploit.
	CenterColumn = Columns / 2
)

// Player identifies a cell owner. Empty doubles as "no winner".
type Player int8

const (
	Empty Player = iota
	PlayerA
	PlayerB
)

func (p Player) Opponent() Player {
	switch p {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	}
	return Empty
}

func (p Player) String() string {
	switch p {
	case PlayerA:
		return "A"
	case PlayerB:
		return "B"
	}
	return "."
}

// Status is the terminal state of a board.
type Status int8

const (
	InProgress Status = iota
	Won
	Drawn
)

// Outcome reports whether a board is terminal and who, if anyone, won.
type Outcome struct {
	Status Status
	Winner Player // set only when Status == Won
}

// Board is a gravity-fed 7x6 grid. Cells are stored column-major with
// row 0 at the bottom, so heights[c] is both the number of tokens in
// column c and the row the next token lands in. Moves mutate the board
// in place; Undo reverses them exactly, which search relies on.
type Board struct {
	cells   [Columns][Rows]Player
	heights [Columns]int
	turn    Player
	moves   int
	history [MaxMoves]int8
}

// NewBoard returns an empty board with PlayerA to move.
func NewBoard() *Board {
	return &Board{turn: PlayerA}
}

// Turn returns the player to move next.
func (b *Board) Turn() Player { return b.turn }

// MoveCount returns the number of tokens placed so far.
func (b *Board) MoveCount() int { return b.moves }

// Height returns the fill height of a column.
func (b *Board) Height(column int) int { return b.heights[column] }

// Cell returns the owner of the cell at (column, row), row 0 at the bottom.
func (b *Board) Cell(column, row int) Player { return b.cells[column][row] }

// LegalMoves returns the columns that can still accept a token, in
// ascending column order. An empty result means the board is full.
func (b *Board) LegalMoves() []int {
	moves := make([]int, 0, Columns)
	for c := 0; c < Columns; c++ {
		if b.heights[c] < Rows {
			moves = append(moves, c)
		}
	}
	return moves
}

// CanPlay reports whether dropping into column is legal.
func (b *Board) CanPlay(column int) bool {
	return column >= 0 && column < Columns && b.heights[column] < Rows
}

// Apply drops the current player's token into column, then switches the
// turn. It fails with *IllegalMoveError without mutating anything if the
// column is out of range or full.
func (b *Board) Apply(column int) error {
	if column < 0 || column >= Columns {
		return &IllegalMoveError{Column: column, Reason: "column out of range"}
	}
	if b.heights[column] >= Rows {
		return &IllegalMoveError{Column: column, Reason: "column is full"}
	}
	b.cells[column][b.heights[column]] = b.turn
	b.heights[column]++
	b.history[b.moves] = int8(column)
	b.moves++
	b.turn = b.turn.Opponent()
	return nil
}

// Undo reverses the most recent Apply, restoring grid, heights, turn and
// move count exactly. It fails with *IllegalMoveError on an empty board.
func (b *Board) Undo() error {
	if b.moves == 0 {
		return &IllegalMoveError{Column: -1, Reason: "no move to undo"}
	}
	b.moves--
	column := int(b.history[b.moves])
	b.history[b.moves] = 0
	b.heights[column]--
	b.cells[column][b.heights[column]] = Empty
	b.turn = b.turn.Opponent()
	return nil
}

// LastMove returns the column of the most recent Apply, or -1 on an
// empty board.
func (b *Board) LastMove() int {
	if b.moves == 0 {
		return -1
	}
	return int(b.history[b.moves-1])
}

// Outcome inspects the board's terminal state. Win detection scans only
// the four line orientations through the most recently placed token;
// every move before the last one has already been checked the same way,
// so this stays exhaustive for boards built through Apply.
func (b *Board) Outcome() Outcome {
	if b.moves == 0 {
		return Outcome{Status: InProgress}
	}
	column := int(b.history[b.moves-1])
	row := b.heights[column] - 1
	if winner := b.winnerThrough(column, row); winner != Empty {
		return Outcome{Status: Won, Winner: winner}
	}
	if b.moves == MaxMoves {
		return Outcome{Status: Drawn}
	}
	return Outcome{Status: InProgress}
}

var directions = [4][2]int{
	{1, 0}, // horizontal
	{0, 1}, // vertical
	{1, 1}, // diagonal /
	{1, -1}, // diagonal \
}

// winnerThrough looks for four in a row on any of the four lines that
// pass through (column, row). The placed cell may sit anywhere along the
// winning line, so both directions of each orientation are counted.
func (b *Board) winnerThrough(column, row int) Player {
	player := b.cells[column][row]
	if player == Empty {
		return Empty
	}
	for _, d := range directions {
		count := 1
		for _, sign := range [2]int{1, -1} {
			c, r := column+d[0]*sign, row+d[1]*sign
			for c >= 0 && c < Columns && r >= 0 && r < Rows && b.cells[c][r] == player {
				count++
				c += d[0] * sign
				r += d[1] * sign
			}
		}
		if count >= WinLength {
			return player
		}
	}
	return Empty
}

// Clone returns an independent copy. Search operates on clones so an
// abandoned search can never corrupt the live board.
func (b *Board) Clone() *Board {
	clone := *b
	return &clone
}

// Reset empties the board for a new match, PlayerA to move.
func (b *Board) Reset() {
	*b = Board{turn: PlayerA}
}

// Grid returns the cell grid as rows from top to bottom, the shape a
// presentation layer renders directly.
func (b *Board) Grid() [Rows][Columns]Player {
	var grid [Rows][Columns]Player
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			grid[Rows-1-r][c] = b.cells[c][r]
		}
	}
	return grid
}

func (b *Board) String() string {
	var sb strings.Builder
	for r := Rows - 1; r >= 0; r-- {
		for c := 0; c < Columns; c++ {
			sb.WriteString(b.cells[c][r].String())
			if c < Columns-1 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
