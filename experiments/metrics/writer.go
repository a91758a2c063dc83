package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// GameRecord is one row of game_records.csv.
type GameRecord struct {
	ID     int
	Agent1 int // AgentConfig.ID
	Agent2 int // AgentConfig.ID
	GameMetric
}

// MoveRecord is one row of move_records.csv.
type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

// Writer drops the CSV outputs of one experiment run into a timestamped
// directory so repeated runs never clobber each other.
type Writer struct {
	baseDir string
}

func NewWriter(experiment string) (*Writer, error) {
	return NewWriterAt(filepath.Join("experiments", "results"), experiment)
}

// NewWriterAt roots the run directory somewhere other than the default
// results tree.
func NewWriterAt(root, experiment string) (*Writer, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join(root, experiment, timestamp)
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	return &Writer{baseDir: baseDir}, nil
}

// BaseDir returns where this run's files land.
func (w *Writer) BaseDir() string { return w.baseDir }

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	return w.writeCSV("agent_configs.csv",
		[]string{"id", "kind", "depth", "seed", "goroutines", "model_path"},
		len(configs),
		func(i int) []string {
			c := configs[i]
			return []string{
				strconv.Itoa(c.ID),
				c.Kind,
				strconv.Itoa(c.Depth),
				strconv.FormatUint(c.Seed, 10),
				strconv.Itoa(c.Goroutines),
				c.ModelPath,
			}
		})
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	return w.writeCSV("game_records.csv",
		[]string{
			"id", "agent1", "agent2", "winner", "moves", "duration",
			"minimax_nodes", "avg_branching", "avg_heuristic_delta",
			"avg_move_time_1", "avg_move_time_2",
		},
		len(records),
		func(i int) []string {
			r := records[i]
			return []string{
				strconv.Itoa(r.ID),
				strconv.Itoa(r.Agent1),
				strconv.Itoa(r.Agent2),
				r.Winner,
				strconv.Itoa(r.TotalMoves),
				r.Duration.String(),
				strconv.Itoa(r.MinimaxNodes),
				strconv.FormatFloat(r.AvgBranching, 'f', 2, 64),
				strconv.FormatFloat(r.AvgHeuristicDelta, 'f', 2, 64),
				strconv.FormatFloat(r.AvgMoveTimeSec[0], 'f', 5, 64),
				strconv.FormatFloat(r.AvgMoveTimeSec[1], 'f', 5, 64),
			}
		})
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	return w.writeCSV("move_records.csv",
		[]string{"game", "step", "player", "score", "depth", "nodes", "avg_branching", "duration"},
		len(records),
		func(i int) []string {
			r := records[i]
			return []string{
				strconv.Itoa(r.Game),
				strconv.Itoa(r.Step),
				strconv.Itoa(r.Player),
				strconv.FormatFloat(r.Score, 'f', 2, 64),
				strconv.Itoa(r.SearchDepth),
				strconv.Itoa(r.Nodes),
				strconv.FormatFloat(r.AvgBranching, 'f', 2, 64),
				r.Duration.String(),
			}
		})
}

func (w *Writer) writeCSV(name string, header []string, rows int, row func(int) []string) error {
	f, err := os.Create(filepath.Join(w.baseDir, name))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	for i := 0; i < rows; i++ {
		if err := writer.Write(row(i)); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", name, i, err)
		}
	}
	return nil
}
