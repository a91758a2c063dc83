package game

// moveOrder lists columns center-out. Central columns participate in
// more winning lines, so exploring them first makes alpha-beta cutoffs
// fire earlier. The order is fixed so searches are reproducible.
var moveOrder = [Columns]int{3, 2, 4, 1, 5, 0, 6}

// OrderedMoves returns the legal columns of b in center-out order.
func OrderedMoves(b *Board) []int {
	moves := make([]int, 0, Columns)
	for _, c := range moveOrder {
		if b.CanPlay(c) {
			moves = append(moves, c)
		}
	}
	return moves
}
