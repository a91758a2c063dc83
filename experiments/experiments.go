// Package experiments is the headless performance harness: it drives
// many matches between configured agents and records per-game and
// per-move statistics to CSV for offline analysis.
package experiments

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"connectfour/agent"
	"connectfour/engine"
	"connectfour/evaluator"
	"connectfour/experiments/metrics"
	"connectfour/game"
	"connectfour/searcher"
)

// NumGames is how many games each matchup plays.
const NumGames = 100

// buildAgent turns a config row into a live agent. A model artifact
// that fails to load kills only the matchups using that agent.
func buildAgent(config metrics.AgentConfig) (agent.Agent, error) {
	switch config.Kind {
	case "random":
		return agent.NewRandom(config.Seed), nil
	case "greedy":
		return agent.NewGreedy(), nil
	case "minimax":
		options := []searcher.Option{searcher.WithDepth(config.Depth)}
		if config.Goroutines > 1 {
			options = append(options, searcher.WithGoroutines(config.Goroutines))
		}
		return agent.NewMinimax(options...), nil
	case "ml":
		return agent.NewModel(config.ModelPath)
	case "minimax-ml":
		return agent.NewMinimaxML(config.ModelPath, searcher.WithDepth(config.Depth))
	}
	return nil, fmt.Errorf("unknown agent kind %q", config.Kind)
}

// RunBaselines plays the heuristic agents against each other:
// random/greedy, greedy/minimax, and minimax at increasing depths.
func RunBaselines() error {
	configs := []metrics.AgentConfig{
		{ID: 1, Kind: "random", Seed: 1},
		{ID: 2, Kind: "greedy"},
		{ID: 3, Kind: "minimax", Depth: 3},
		{ID: 4, Kind: "minimax", Depth: 5},
	}
	matchUps := [][2]int{{1, 2}, {2, 3}, {3, 4}}
	return runExperiment("baselines", configs, matchUps)
}

// RunModelComparison pits the search agents against the learned agents.
// Matchups whose model artifact is missing or corrupt are skipped with
// a warning; the rest of the run proceeds.
func RunModelComparison(basicModelPath, minimaxModelPath string) error {
	configs := []metrics.AgentConfig{
		{ID: 1, Kind: "greedy"},
		{ID: 2, Kind: "minimax", Depth: 3},
		{ID: 3, Kind: "ml", ModelPath: basicModelPath},
		{ID: 4, Kind: "minimax-ml", Depth: 3, ModelPath: minimaxModelPath},
	}
	matchUps := [][2]int{{1, 3}, {2, 3}, {2, 4}, {3, 4}}
	return runExperiment("model_comparison", configs, matchUps)
}

func runExperiment(name string, configs []metrics.AgentConfig, matchUps [][2]int) error {
	log.Info().Msgf("starting %s experiment...", name)

	byID := map[int]metrics.AgentConfig{}
	for _, config := range configs {
		byID[config.ID] = config
	}

	var gameRecords []metrics.GameRecord
	var moveRecords []metrics.MoveRecord
	count := 0

	for mi, matchup := range matchUps {
		config1 := byID[matchup[0]]
		config2 := byID[matchup[1]]

		first, err := buildAgent(config1)
		if err == nil {
			var second agent.Agent
			second, err = buildAgent(config2)
			if err == nil {
				log.Info().Msgf("starting matchup %d of %d: %s vs %s...",
					mi+1, len(matchUps), first.Name(), second.Name())
				for i := 0; i < NumGames; i++ {
					count++
					record, moves := playGame(count, config1.ID, config2.ID, first, second)
					gameRecords = append(gameRecords, record)
					moveRecords = append(moveRecords, moves...)
				}
				continue
			}
		}

		var loadErr *evaluator.ModelLoadError
		if errors.As(err, &loadErr) {
			log.Warn().Err(err).Msgf("skipping matchup %d of %d: model unavailable", mi+1, len(matchUps))
			continue
		}
		return err
	}

	writer, err := metrics.NewWriter(name)
	if err != nil {
		return err
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return err
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return err
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return err
	}

	log.Info().Msgf("finished %s experiment: %d games, results in %s", name, count, writer.BaseDir())
	return nil
}

// playGame runs one match and folds its steps into harness records.
func playGame(id, agent1, agent2 int, first, second agent.Agent) (metrics.GameRecord, []metrics.MoveRecord) {
	match := engine.NewMatch(first, second)

	record := metrics.GameRecord{ID: id, Agent1: agent1, Agent2: agent2}
	record.StartTime = time.Now()

	var moves []metrics.MoveRecord
	var moveTime [2]time.Duration
	var moveCount [2]int
	var deltas float64
	var deltaCount int

	for {
		start := time.Now()
		step, err := match.Step()
		elapsed := time.Since(start)
		if errors.Is(err, engine.ErrMatchOver) {
			break
		}
		if err != nil {
			// Agents in harness runs never fail legally; a failure here
			// voids the game rather than the whole experiment.
			log.Error().Err(err).Int("game", id).Msg("match halted")
			break
		}

		seat := 0
		if step.Player == game.PlayerB {
			seat = 1
		}
		moveTime[seat] += elapsed
		moveCount[seat]++

		if step.Report.Nodes > 0 {
			record.MinimaxNodes += step.Report.Nodes
			deltas += step.Report.HeuristicDelta
			deltaCount++
		}

		moves = append(moves, metrics.MoveRecord{
			Game: id,
			MoveMetric: metrics.MoveMetric{
				Step:   step.Number,
				Player: seat + 1,
				Score:  step.Report.Score,
				SearchMetric: metrics.SearchMetric{
					SearchDepth:  step.Report.SearchDepth,
					Nodes:        step.Report.Nodes,
					AvgBranching: step.Report.AvgBranching,
					Duration:     elapsed,
				},
			},
		})
	}

	record.EndTime = time.Now()
	record.Duration = record.EndTime.Sub(record.StartTime)
	record.TotalMoves = len(moves)

	switch outcome := match.Outcome(); outcome.Status {
	case game.Won:
		if outcome.Winner == game.PlayerA {
			record.Winner = "agent1"
		} else {
			record.Winner = "agent2"
		}
	case game.Drawn:
		record.Winner = "draw"
	default:
		record.Winner = "aborted"
	}

	if deltaCount > 0 {
		record.AvgHeuristicDelta = deltas / float64(deltaCount)
	}
	for seat := 0; seat < 2; seat++ {
		if moveCount[seat] > 0 {
			record.AvgMoveTimeSec[seat] = moveTime[seat].Seconds() / float64(moveCount[seat])
		}
	}
	if record.TotalMoves > 0 {
		record.AvgBranching = avgBranching(moves)
	}
	return record, moves
}

func avgBranching(moves []metrics.MoveRecord) float64 {
	total, n := 0.0, 0
	for _, m := range moves {
		if m.AvgBranching > 0 {
			total += m.AvgBranching
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}
