// Binary trainer runs the train/save/freeze/evaluate loop against one of
// the two built-in games.
package main

import (
	"context"
	"flag"

	"github.com/golang/glog"

	"github.com/rivertable/cfrcore/kuhn13"
	"github.com/rivertable/cfrcore/liarsdice"
	"github.com/rivertable/cfrcore/trainer"
)

var (
	game                  = flag.String("game", "kuhn13", "game to train against: kuhn13 or liarsdice")
	epsilon               = flag.Float64("epsilon", 0.05, "exploration rate for opponent action sampling")
	maxParallelism        = flag.Int("max_parallelism", 32, "max concurrent self-play workers")
	iterationsPerSave     = flag.Int("iterations_per_save", 10000, "training iterations between checkpoint saves")
	iterationsPerProgress = flag.Int("iterations_per_progress", 1000, "log progress after a save step whose cumulative iteration count is a multiple of this")
	maxIterations         = flag.Int("max_iterations", 100000, "total training iteration budget")
	evalGames             = flag.Int("eval_games", 1000, "full plays sampled per evaluation matchup")
	outputPath            = flag.String("output", "", "checkpoint path; derived from game/learner names if empty")
)

func main() {
	flag.Parse()

	cfg := trainer.Config{
		Epsilon:                      *epsilon,
		MaxParallelism:               *maxParallelism,
		IterationsPerSave:            *iterationsPerSave,
		IterationsPerProgressMessage: *iterationsPerProgress,
		MaxIterations:                *maxIterations,
		EvalGames:                    *evalGames,
		OutputPath:                   *outputPath,
	}

	ctx := context.Background()

	switch *game {
	case "kuhn13":
		t := trainer.New[kuhn13.Action](&kuhn13.Game{}, cfg)
		if _, err := t.Run(ctx); err != nil {
			glog.Exitf("trainer: %v", err)
		}
	case "liarsdice":
		t := trainer.New[liarsdice.Action](&liarsdice.Game{}, cfg)
		if _, err := t.Run(ctx); err != nil {
			glog.Exitf("trainer: %v", err)
		}
	default:
		glog.Exitf("trainer: unknown game %q", *game)
	}
}
