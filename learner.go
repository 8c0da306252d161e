package cfr

import (
	"context"
	mathrand "math/rand"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
)

// DefaultEpsilon is the exploration rate used when Params.Epsilon is left
// at its zero value.
const DefaultEpsilon = 0.05

// DefaultMaxParallelism bounds the number of concurrent self-play workers
// when Params.MaxParallelism is left at its zero value.
const DefaultMaxParallelism = 32

// Params configures the learner's external-sampling CFR traversal and its
// parallel training driver.
type Params struct {
	// Epsilon is the probability that a non-training player's sampled
	// action is replaced by a uniformly random one, rather than one
	// drawn from the current regret-matching strategy.
	Epsilon float64
	// MaxParallelism bounds how many training iterations run
	// concurrently against the shared Table.
	MaxParallelism int
}

func (p Params) withDefaults() Params {
	if p.Epsilon == 0 {
		p.Epsilon = DefaultEpsilon
	}
	if p.MaxParallelism == 0 {
		p.MaxParallelism = DefaultMaxParallelism
	}
	return p
}

// Learner runs external-sampling CFR with optimistic-initialization
// regret matching over a shared Table. One Learner owns exactly one
// Table; many goroutines traverse independent deep copies of a prototype
// Game concurrently against it.
type Learner[A Action] struct {
	params Params
	table  *Table
	iter   int64 // advanced only under iterMu.
	iterMu sync.Mutex
}

// NewLearner returns a Learner with an empty Table.
func NewLearner[A Action](params Params) *Learner[A] {
	return &Learner[A]{
		params: params.withDefaults(),
		table:  NewTable(),
	}
}

// Table returns the learner's (live, mutating) regret table.
func (l *Learner[A]) Table() *Table {
	return l.table
}

// SetTable replaces the learner's regret table, e.g. after loading a
// checkpoint.
func (l *Learner[A]) SetTable(t *Table) {
	l.table = t
}

// Train runs k external-sampling CFR iterations against prototype,
// bounded to Params.MaxParallelism concurrent workers. prototype is never
// mutated: every worker deep-copies it before calling BeginGame.
func (l *Learner[A]) Train(ctx context.Context, prototype Game[A], k int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.params.MaxParallelism)

	for i := 0; i < k; i++ {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			rng := NewWorkerRNG()
			iter := l.nextIter()
			game := prototype.DeepCopy()
			game.BeginGame()
			t := int(iter % int64(game.NumPlayers()))
			reach := make([]float64, game.NumPlayers())
			for p := range reach {
				reach[p] = 1.0
			}

			l.traverse(rng, game, reach, t)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if n := l.table.NumInfoSets(); n > 0 && n%100000 == 0 {
		glog.V(2).Infof("cfr: table has %d infosets", n)
	}

	return nil
}

func (l *Learner[A]) nextIter() int64 {
	l.iterMu.Lock()
	defer l.iterMu.Unlock()
	l.iter++
	return l.iter
}

// traverse implements the recursive external-sampling CFR traversal
// described for this learner: the training player t sees every legal
// action weighted by the current regret-matching strategy and has its
// regrets updated; every other player has a single action sampled,
// substituted with a uniform-random action with probability Epsilon.
func (l *Learner[A]) traverse(rng *mathrand.Rand, g Game[A], reach []float64, t int) []float64 {
	if g.IsTerminal() {
		return g.Payout()
	}

	p := g.PlayerToAct()
	actions := g.Actions()
	infoSet := g.InformationSet()

	if p != t {
		a := l.sampleOpponentAction(rng, infoSet, actions)
		g.MakeMove(a)
		return l.traverse(rng, g, reach, t)
	}

	if len(actions) == 1 {
		g.MakeMove(actions[0])
		return l.traverse(rng, g, reach, t)
	}

	strategy := l.table.GetStrategy(infoSet, len(actions))
	nPlayers := g.NumPlayers()
	childUtility := make([][]float64, len(actions))
	nodeUtility := make([]float64, nPlayers)

	for i, a := range actions {
		child := g.DeepCopy()
		child.MakeMove(a)

		childReach := make([]float64, nPlayers)
		copy(childReach, reach)
		childReach[p] *= strategy[i]

		childUtility[i] = l.traverse(rng, child, childReach, t)
		for pl := 0; pl < nPlayers; pl++ {
			nodeUtility[pl] += strategy[i] * childUtility[i][pl]
		}
	}

	weight := 1.0
	for i := 0; i < nPlayers; i++ {
		if i != p {
			weight *= reach[i]
		}
	}

	for i := range actions {
		regret := childUtility[i][p] - nodeUtility[p]
		l.table.AddRegret(infoSet, len(actions), i, weight*regret)
	}

	return nodeUtility
}

func (l *Learner[A]) sampleOpponentAction(rng *mathrand.Rand, infoSet string, actions []A) A {
	if rng.Float64() < l.params.Epsilon {
		return actions[rng.Intn(len(actions))]
	}

	i := l.table.GetMoveIndex(rng, infoSet, len(actions))
	return actions[i]
}
