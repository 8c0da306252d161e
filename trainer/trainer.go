// Package trainer drives the repeated train/save/freeze/evaluate loop
// around a cfr.Learner: it periodically checkpoints the shared regret
// table, derives an immutable snapshot of the current strategy, and
// reports how that snapshot fares against a uniform-random player and
// against its own previous snapshot.
package trainer

import (
	"context"
	"fmt"
	"reflect"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	cfr "github.com/rivertable/cfrcore"
)

// DefaultIterationsPerSave is how many training iterations run between
// checkpoint saves when Config.IterationsPerSave is left at zero.
const DefaultIterationsPerSave = 10000

// DefaultIterationsPerProgressMessage controls how often Run logs a
// progress line when Config.IterationsPerProgressMessage is left at zero.
const DefaultIterationsPerProgressMessage = 1000

// DefaultEvalGames is how many full plays Run samples per evaluation
// matchup when Config.EvalGames is left at zero.
const DefaultEvalGames = 1000

// Config controls one trainer Run.
type Config struct {
	// Epsilon and MaxParallelism are forwarded to the underlying
	// cfr.Learner; see cfr.Params.
	Epsilon        float64
	MaxParallelism int

	// IterationsPerSave is the step size K in "for each training step
	// of size K: train(K); save; freeze".
	IterationsPerSave int
	// IterationsPerProgressMessage controls how often Run logs a
	// progress line: after a training step whose cumulative iteration
	// count is a multiple of it, and after the last step.
	IterationsPerProgressMessage int
	// MaxIterations is the total iteration budget for the run. Zero
	// means run a single step of IterationsPerSave iterations.
	MaxIterations int
	// EvalGames is the number of full plays (M) sampled per evaluation
	// matchup after every step.
	EvalGames int

	// OutputPath is the base checkpoint path. Empty means derive one
	// from the game and learner type names.
	OutputPath string
}

func (c Config) withDefaults() Config {
	if c.IterationsPerSave == 0 {
		c.IterationsPerSave = DefaultIterationsPerSave
	}
	if c.IterationsPerProgressMessage == 0 {
		c.IterationsPerProgressMessage = DefaultIterationsPerProgressMessage
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = c.IterationsPerSave
	}
	if c.EvalGames == 0 {
		c.EvalGames = DefaultEvalGames
	}
	return c
}

func (c Config) learnerParams() cfr.Params {
	return cfr.Params{Epsilon: c.Epsilon, MaxParallelism: c.MaxParallelism}
}

// Result is one evaluation's reported numbers, all averaged across
// Config.EvalGames full plays.
type Result struct {
	// CurrentVsRandomP0 is player 0's average payoff with the current
	// snapshot seated as P0 against a uniform-random opponent.
	CurrentVsRandomP0 float64
	// RandomVsCurrentP0 is player 0's average payoff with a
	// uniform-random player seated as P0 against the current snapshot.
	RandomVsCurrentP0 float64
	// SelfPlayP0 is player 0's average payoff with the current snapshot
	// on both sides -- a sanity check that should be close to zero.
	SelfPlayP0 float64
	// CurrentVsOldP0 is player 0's average payoff with the current
	// snapshot seated as P0 against the previous snapshot.
	CurrentVsOldP0 float64
	// OldVsCurrentP0 is player 0's average payoff with the previous
	// snapshot seated as P0 against the current snapshot.
	OldVsCurrentP0 float64
	// Improvement is CurrentVsOldP0 - OldVsCurrentP0: by the zero-sum
	// payout identity this is twice the current snapshot's average
	// per-game edge over the previous one, combining both seatings.
	Improvement float64
}

// Trainer owns one learner and the game prototype it trains against.
type Trainer[A cfr.Action] struct {
	cfg       Config
	prototype cfr.Game[A]
	learner   *cfr.Learner[A]
}

// New returns a Trainer for prototype, applying Config defaults.
func New[A cfr.Action](prototype cfr.Game[A], cfg Config) *Trainer[A] {
	cfg = cfg.withDefaults()
	return &Trainer[A]{
		cfg:       cfg,
		prototype: prototype,
		learner:   cfr.NewLearner[A](cfg.learnerParams()),
	}
}

// OutputPath returns the checkpoint path this Trainer uses, deriving one
// from the game and learner type names if Config.OutputPath was empty.
func (t *Trainer[A]) OutputPath() string {
	if t.cfg.OutputPath != "" {
		return t.cfg.OutputPath
	}
	return fmt.Sprintf("%s_%s.cfrchk", typeName(t.prototype), typeName(t.learner))
}

func typeName(v interface{}) string {
	rt := reflect.TypeOf(v)
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	return rt.Name()
}

// Run executes the trainer loop in full: load-or-empty, freeze a baseline
// snapshot, then repeatedly train/save/freeze/evaluate until
// Config.MaxIterations iterations have run. It returns the last
// evaluation Result.
func (t *Trainer[A]) Run(ctx context.Context) (Result, error) {
	path := t.OutputPath()

	table := cfr.LoadOrEmpty(path)
	t.learner.SetTable(table)

	previous := cfr.NewFrozenPlayer[A](table.Freeze(), cfr.NewWorkerRNG())

	var result Result
	done := 0
	for done < t.cfg.MaxIterations {
		step := t.cfg.IterationsPerSave
		if remaining := t.cfg.MaxIterations - done; step > remaining {
			step = remaining
		}

		if err := t.learner.Train(ctx, t.prototype, step); err != nil {
			return result, errors.Wrap(err, "trainer: training step failed")
		}
		done += step

		if err := cfr.Save(path, t.learner.Table()); err != nil {
			return result, errors.Wrap(err, "trainer: checkpoint save failed")
		}

		current := cfr.NewFrozenPlayer[A](t.learner.Table().Freeze(), cfr.NewWorkerRNG())
		result = t.evaluate(current, previous)

		if done%t.cfg.IterationsPerProgressMessage == 0 || done >= t.cfg.MaxIterations {
			glog.Infof("trainer: %d/%d iterations, improvement=%.4f (current/random P0=%.4f, self-play P0=%.4f)",
				done, t.cfg.MaxIterations, result.Improvement, result.CurrentVsRandomP0, result.SelfPlayP0)
		}

		previous = current
	}

	return result, nil
}

func (t *Trainer[A]) evaluate(current, previous *cfr.FrozenPlayer[A]) Result {
	m := t.cfg.EvalGames
	random := cfr.NewRandomPlayer[A](cfr.NewWorkerRNG())

	var r Result
	for i := 0; i < m; i++ {
		r.CurrentVsRandomP0 += playOutP0(t.prototype, current, random)
		r.RandomVsCurrentP0 += playOutP0(t.prototype, random, current)
		r.SelfPlayP0 += playOutP0(t.prototype, current, current)
		r.CurrentVsOldP0 += playOutP0(t.prototype, current, previous)
		r.OldVsCurrentP0 += playOutP0(t.prototype, previous, current)
	}

	n := float64(m)
	r.CurrentVsRandomP0 /= n
	r.RandomVsCurrentP0 /= n
	r.SelfPlayP0 /= n
	r.CurrentVsOldP0 /= n
	r.OldVsCurrentP0 /= n
	r.Improvement = r.CurrentVsOldP0 - r.OldVsCurrentP0
	return r
}

// playOutP0 plays one full game between p0 and p1 (seated as players 0
// and 1 respectively) on an independent deep copy of prototype, and
// returns player 0's payout.
func playOutP0[A cfr.Action](prototype cfr.Game[A], p0, p1 cfr.Player[A]) float64 {
	g := prototype.DeepCopy()
	g.BeginGame()

	players := [2]cfr.Player[A]{p0, p1}
	for !g.IsTerminal() {
		p := g.PlayerToAct()
		actions := g.Actions()
		infoSet := g.InformationSet()
		a := players[p].GetMove(p, infoSet, actions)
		g.MakeMove(a)
	}

	return g.Payout()[0]
}
