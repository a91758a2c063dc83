package agent

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"connectfour/evaluator"
	"connectfour/game"
	"connectfour/searcher"
)

func play(t *testing.T, b *game.Board, columns ...int) {
	t.Helper()
	for _, c := range columns {
		require.NoError(t, b.Apply(c))
	}
}

// fullBoard plays out a drawn game, leaving no legal moves.
func fullBoard(t *testing.T) *game.Board {
	t.Helper()
	b := game.NewBoard()
	play(t, b,
		0, 1, 0, 1, 0, 1, 2, 3, 2, 3, 2, 3, 4, 5, 4, 5, 4, 5,
		6, 0, 6, 0, 6, 0, 1, 2, 1, 2, 1, 2, 3, 4, 3, 4, 3, 4,
		5, 6, 5, 6, 5, 6)
	return b
}

// testModel builds a fixed-weight in-memory model.
func testModel(t *testing.T) *evaluator.Model {
	t.Helper()
	hidden := []int{4}
	inputs := game.Rows * game.Columns
	sizes := []int{inputs, 4, 3}

	weights := make([][][]float64, len(sizes)-1)
	for layer := 1; layer < len(sizes); layer++ {
		neurons := make([][]float64, sizes[layer])
		for n := range neurons {
			row := make([]float64, sizes[layer-1]+1)
			for i := range row {
				row[i] = 0.02*float64((n*3+i)%5) - 0.03
			}
			neurons[n] = row
		}
		weights[layer-1] = neurons
	}

	model, err := evaluator.NewModel(evaluator.EncodingBasic, hidden, 1, weights)
	require.NoError(t, err)
	return model
}

func TestRandomAgent(t *testing.T) {
	t.Run("same seed reproduces the same choices", func(t *testing.T) {
		b := game.NewBoard()
		play(t, b, 3, 3, 2)

		first := NewRandom(42)
		second := NewRandom(42)
		for i := 0; i < 10; i++ {
			c1, _, err := first.ChooseMove(b)
			require.NoError(t, err)
			c2, _, err := second.ChooseMove(b)
			require.NoError(t, err)
			require.Equal(t, c1, c2)
		}
	})

	t.Run("only legal columns come back", func(t *testing.T) {
		b := game.NewBoard()
		play(t, b, 2, 2, 2, 2, 2, 2)

		a := NewRandom(7)
		for i := 0; i < 50; i++ {
			column, _, err := a.ChooseMove(b)
			require.NoError(t, err)
			require.True(t, b.CanPlay(column))
			require.NotEqual(t, 2, column)
		}
	})

	t.Run("full board fails with NoLegalMoveError", func(t *testing.T) {
		_, _, err := NewRandom(1).ChooseMove(fullBoard(t))
		var noMove *game.NoLegalMoveError
		require.ErrorAs(t, err, &noMove)
	})
}

func TestGreedyAgent(t *testing.T) {
	a := NewGreedy()

	t.Run("opens in the center", func(t *testing.T) {
		column, _, err := a.ChooseMove(game.NewBoard())
		require.NoError(t, err)
		require.Equal(t, game.CenterColumn, column)
	})

	t.Run("takes an immediate win", func(t *testing.T) {
		b := game.NewBoard()
		play(t, b, 3, 0, 3, 0, 3, 0)

		column, report, err := a.ChooseMove(b)
		require.NoError(t, err)
		require.Equal(t, 3, column)
		require.GreaterOrEqual(t, report.Score, evaluator.WinScore)
	})

	t.Run("blocks an opponent threat", func(t *testing.T) {
		b := game.NewBoard()
		play(t, b, 6, 0, 0, 1, 1, 2) // B threatens 0-2 on the bottom row

		column, _, err := a.ChooseMove(b)
		require.NoError(t, err)
		require.Equal(t, 3, column)
	})

	t.Run("prefers winning over blocking", func(t *testing.T) {
		b := game.NewBoard()
		// A can win in column 3; B threatens in column 0 at the same time.
		play(t, b, 3, 0, 3, 0, 3, 0, 6, 1)
		require.Equal(t, game.PlayerA, b.Turn())
		require.Equal(t, game.InProgress, b.Outcome().Status)

		column, _, err := a.ChooseMove(b)
		require.NoError(t, err)
		require.Equal(t, 3, column)
	})

	t.Run("repeated calls agree", func(t *testing.T) {
		b := game.NewBoard()
		play(t, b, 2, 4, 3)
		c1, _, err := a.ChooseMove(b)
		require.NoError(t, err)
		c2, _, err := a.ChooseMove(b)
		require.NoError(t, err)
		require.Equal(t, c1, c2)
	})

	t.Run("full board fails with NoLegalMoveError", func(t *testing.T) {
		_, _, err := a.ChooseMove(fullBoard(t))
		var noMove *game.NoLegalMoveError
		require.ErrorAs(t, err, &noMove)
	})
}

func TestModelAgent(t *testing.T) {
	a := NewModelWith(testModel(t))

	t.Run("chooses a legal column deterministically", func(t *testing.T) {
		b := game.NewBoard()
		play(t, b, 3, 2, 4)

		c1, _, err := a.ChooseMove(b)
		require.NoError(t, err)
		require.True(t, b.CanPlay(c1))

		c2, _, err := a.ChooseMove(b)
		require.NoError(t, err)
		require.Equal(t, c1, c2)
	})

	t.Run("missing artifact fails construction only", func(t *testing.T) {
		_, err := NewModel(filepath.Join(t.TempDir(), "absent.json"))
		var loadErr *evaluator.ModelLoadError
		require.ErrorAs(t, err, &loadErr)
	})
}

func TestMinimaxAgent(t *testing.T) {
	t.Run("reports nodes, depth and score", func(t *testing.T) {
		a := NewMinimax(searcher.WithDepth(3))
		b := game.NewBoard()

		column, report, err := a.ChooseMove(b)
		require.NoError(t, err)
		require.True(t, b.CanPlay(column))
		require.Positive(t, report.Nodes)
		require.Equal(t, 3, report.SearchDepth)
	})

	t.Run("heuristic delta reflects the chosen move", func(t *testing.T) {
		a := NewMinimax(searcher.WithDepth(2))
		b := game.NewBoard()
		play(t, b, 3, 0, 3, 0, 3, 0) // winning move available

		column, report, err := a.ChooseMove(b)
		require.NoError(t, err)
		require.Equal(t, 3, column)
		require.Greater(t, report.HeuristicDelta, evaluator.WinScore/2,
			"completing a win swings the heuristic past the sentinel")
	})

	t.Run("tree capture flows through the report", func(t *testing.T) {
		a := NewMinimax(searcher.WithDepth(2), searcher.WithTree())
		b := game.NewBoard()

		_, report, err := a.ChooseMove(b)
		require.NoError(t, err)
		require.NotNil(t, report.Tree)
		require.Len(t, report.Tree.Children, game.Columns)
	})

	t.Run("does not mutate the caller's board", func(t *testing.T) {
		a := NewMinimax(searcher.WithDepth(3))
		b := game.NewBoard()
		play(t, b, 3, 2)
		snapshot := *b

		_, _, err := a.ChooseMove(b)
		require.NoError(t, err)
		require.Equal(t, snapshot, *b)
	})

	t.Run("minimax-ml rejects a missing artifact", func(t *testing.T) {
		_, err := NewMinimaxML(filepath.Join(t.TempDir(), "absent.json"))
		var loadErr *evaluator.ModelLoadError
		require.ErrorAs(t, err, &loadErr)
	})
}
