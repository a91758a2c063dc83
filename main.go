package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"connectfour/agent"
	"connectfour/engine"
	"connectfour/experiments"
	"connectfour/game"
	"connectfour/searcher"
	"connectfour/server"
)

type seatFlags struct {
	kind       string
	depth      int
	seed       uint64
	goroutines int
	modelPath  string
}

func main() {
	mode := flag.String("mode", "play", "play, experiments, or serve")
	addr := flag.String("addr", ":8080", "listen address for serve mode")
	basicModel := flag.String("basic-model", "", "path to a basic-encoding model artifact")
	minimaxModel := flag.String("minimax-model", "", "path to a minimax-encoding model artifact")
	debug := flag.Bool("debug", false, "enable debug logging")

	first := seatFlags{kind: "minimax", depth: 3}
	second := seatFlags{kind: "greedy"}
	flag.StringVar(&first.kind, "first", first.kind, "first seat: random, greedy, minimax, ml, or minimax-ml")
	flag.IntVar(&first.depth, "first-depth", first.depth, "search depth for the first seat")
	flag.Uint64Var(&first.seed, "first-seed", 0, "random seed for the first seat")
	flag.IntVar(&first.goroutines, "first-goroutines", 0, "parallel root searches for the first seat")
	flag.StringVar(&first.modelPath, "first-model", "", "model artifact for the first seat")
	flag.StringVar(&second.kind, "second", second.kind, "second seat: random, greedy, minimax, ml, or minimax-ml")
	flag.IntVar(&second.depth, "second-depth", 3, "search depth for the second seat")
	flag.Uint64Var(&second.seed, "second-seed", 0, "random seed for the second seat")
	flag.IntVar(&second.goroutines, "second-goroutines", 0, "parallel root searches for the second seat")
	flag.StringVar(&second.modelPath, "second-model", "", "model artifact for the second seat")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch *mode {
	case "play":
		runMatch(first, second)
	case "experiments":
		runExperiments(*basicModel, *minimaxModel)
	case "serve":
		if err := server.New().ListenAndServe(*addr); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		flag.Usage()
		os.Exit(2)
	}
}

func runMatch(first, second seatFlags) {
	a1, err := buildAgent(first)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build the first agent")
	}
	a2, err := buildAgent(second)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build the second agent")
	}

	match := engine.NewMatch(a1, a2)
	log.Info().Msgf("%s vs %s", a1.Name(), a2.Name())
	outcome, err := match.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("match aborted")
	}

	for _, step := range match.Steps() {
		log.Info().Msgf("move %d: player %s drops column %d (score %.1f, %d nodes)",
			step.Number, step.Player, step.Column, step.Report.Score, step.Report.Nodes)
	}

	fmt.Println(match.Board())
	if outcome.Winner == game.Empty {
		log.Info().Msgf("draw after %d moves", match.Board().MoveCount())
	} else {
		log.Info().Msgf("player %s wins after %d moves", outcome.Winner, match.Board().MoveCount())
	}
}

func runExperiments(basicModel, minimaxModel string) {
	if err := experiments.RunBaselines(); err != nil {
		log.Fatal().Err(err).Msg("baseline experiments failed")
	}
	if basicModel == "" && minimaxModel == "" {
		log.Info().Msg("no model artifacts given, skipping the model comparison")
		return
	}
	if err := experiments.RunModelComparison(basicModel, minimaxModel); err != nil {
		log.Fatal().Err(err).Msg("model comparison failed")
	}
}

func buildAgent(flags seatFlags) (agent.Agent, error) {
	switch strings.ToLower(flags.kind) {
	case "random":
		return agent.NewRandom(flags.seed), nil
	case "greedy":
		return agent.NewGreedy(), nil
	case "minimax":
		return agent.NewMinimax(minimaxOptions(flags)...), nil
	case "ml":
		return agent.NewModel(flags.modelPath)
	case "minimax-ml":
		return agent.NewMinimaxML(flags.modelPath, minimaxOptions(flags)...)
	default:
		return nil, fmt.Errorf("unknown agent kind %q", flags.kind)
	}
}

func minimaxOptions(flags seatFlags) []searcher.Option {
	options := []searcher.Option{}
	if flags.depth > 0 {
		options = append(options, searcher.WithDepth(flags.depth))
	}
	if flags.goroutines > 0 {
		options = append(options, searcher.WithGoroutines(flags.goroutines))
	}
	return options
}
