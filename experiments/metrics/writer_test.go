package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, dir, name string) [][]string {
	t.Helper()
	f, err := os.Open(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	w, err := NewWriterAt(t.TempDir(), "unit")
	require.NoError(t, err)

	configs := []AgentConfig{
		{ID: 1, Kind: "minimax", Depth: 3},
		{ID: 2, Kind: "random", Seed: 9},
	}
	games := []GameRecord{
		{ID: 1, Agent1: 1, Agent2: 2, GameMetric: GameMetric{
			Winner:       "agent1",
			TotalMoves:   13,
			MinimaxNodes: 4200,
			Duration:     125 * time.Millisecond,
		}},
	}
	moves := []MoveRecord{
		{Game: 1, MoveMetric: MoveMetric{Step: 1, Player: 1, Score: 42, SearchMetric: SearchMetric{
			SearchDepth: 3, Nodes: 321, AvgBranching: 6.5,
		}}},
		{Game: 1, MoveMetric: MoveMetric{Step: 2, Player: 2}},
	}

	require.NoError(t, w.WriteAgentConfigs(configs))
	require.NoError(t, w.WriteGameRecords(games))
	require.NoError(t, w.WriteMoveRecords(moves))

	t.Run("agent configs round-trip", func(t *testing.T) {
		rows := readCSV(t, w.BaseDir(), "agent_configs.csv")
		require.Len(t, rows, 3)
		require.Equal(t, "kind", rows[0][1])
		require.Equal(t, "minimax", rows[1][1])
		require.Equal(t, "9", rows[2][3])
	})

	t.Run("game records keep winner and counters", func(t *testing.T) {
		rows := readCSV(t, w.BaseDir(), "game_records.csv")
		require.Len(t, rows, 2)
		require.Equal(t, "agent1", rows[1][3])
		require.Equal(t, "13", rows[1][4])
		require.Equal(t, "4200", rows[1][6])
	})

	t.Run("move records keep one row per step", func(t *testing.T) {
		rows := readCSV(t, w.BaseDir(), "move_records.csv")
		require.Len(t, rows, 3)
		require.Equal(t, "321", rows[1][5])
	})
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start(4)
	for i := 0; i < 10; i++ {
		c.AddNode()
	}
	c.AddBranching(7)
	c.AddBranching(5)

	metric := c.Complete()

	require.Equal(t, 4, metric.SearchDepth)
	require.Equal(t, 10, metric.Nodes)
	require.Equal(t, 6.0, metric.AvgBranching)
	require.GreaterOrEqual(t, metric.Duration, time.Duration(0))

	t.Run("restart clears the counters", func(t *testing.T) {
		c.Start(2)
		c.AddNode()
		metric := c.Complete()
		require.Equal(t, 1, metric.Nodes)
		require.Equal(t, 2, metric.SearchDepth)
	})

	t.Run("dummy collector reports nothing", func(t *testing.T) {
		d := NewDummyCollector()
		d.Start(9)
		d.AddNode()
		require.Equal(t, SearchMetric{}, d.Complete())
	})
}
